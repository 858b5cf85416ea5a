package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// ParseFrontMatter decodes the YAML frontmatter of source into meta and
// returns the remaining body. Sources without frontmatter return the whole
// input as body.
func ParseFrontMatter(source []byte, meta any) ([]byte, error) {
	body, err := frontmatter.Parse(bytes.NewReader(source), meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return body, nil
}
