package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource []byte

var ErrSchemaValidation = errors.New("manifest: schema validation failed")

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// SchemaError lists every schema violation found in a manifest.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaValidation
}

// ValidateDocument checks a decoded YAML document against the manifest
// schema.
func ValidateDocument(doc any) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}
	normalized, err := normalizeDocument(doc)
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func manifestSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("manifest.json", bytes.NewReader(schemaSource)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile("manifest.json")
	})
	if compileErr != nil {
		return nil, fmt.Errorf("manifest: compile schema: %w", compileErr)
	}
	return compiled, nil
}

// normalizeDocument round trips doc through JSON so yaml scalars reach the
// validator as JSON types.
func normalizeDocument(doc any) (any, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("manifest: encode document: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("manifest: decode document: %w", err)
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
