package datasource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

var (
	ErrEmptyCSV     = errors.New("datasource: csv has no header row")
	ErrNoHeaderName = errors.New("datasource: csv header has no named columns")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a CSV document whose first record is the header. Cells are
// kept as strings; short records leave missing columns absent and blank
// records are skipped.
func ParseCSV(r io.Reader) (domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("datasource: read csv: %w", err)
	}
	return ParseCSVBytes(data)
}

// ParseCSVBytes is ParseCSV over an in-memory document.
func ParseCSVBytes(data []byte) (domain.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, ErrEmptyCSV
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("datasource: parse csv header: %w", err)
	}

	columns := make([]string, len(header))
	var named []string
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
		if columns[i] != "" {
			named = append(named, columns[i])
		}
	}
	if len(named) == 0 {
		return domain.Table{}, ErrNoHeaderName
	}

	table := domain.Table{Columns: dedupe(named)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("datasource: parse csv: %w", err)
		}
		if blank(record) {
			continue
		}
		row := make(domain.Row, len(named))
		for i, value := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			row[columns[i]] = value
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func blank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
