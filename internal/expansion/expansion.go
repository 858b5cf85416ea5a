// Package expansion turns data tables into generation units according to a
// template's generation mode and filter rules.
package expansion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-sitegen/internal/domain"
)

// Config selects the expansion strategy.
type Config struct {
	Mode         domain.GenerationMode
	SplitColumn  string
	ComboColumns []string
	Filters      []domain.FilterRule
}

// ConfigFromTemplate reads the expansion settings stored on a template.
func ConfigFromTemplate(tpl *domain.Template) Config {
	if tpl == nil {
		return Config{Mode: domain.ModeNormal}
	}
	return Config{
		Mode:         tpl.Mode(),
		SplitColumn:  strings.TrimSpace(tpl.SplitColumn),
		ComboColumns: append([]string(nil), tpl.ComboColumns...),
		Filters:      append([]domain.FilterRule(nil), tpl.FilterRules...),
	}
}

// Expand validates cfg against the table columns and produces the ordered
// list of units. Filters are applied after expansion.
func Expand(table domain.Table, cfg Config) ([]domain.Unit, error) {
	columns := Columns(table)
	if err := ValidateConfig(cfg, columns); err != nil {
		return nil, err
	}

	var units []domain.Unit
	switch mode(cfg) {
	case domain.ModeSplit:
		units = expandSplit(table.Rows, columns, cfg.SplitColumn)
	case domain.ModeCombo:
		units = expandCombo(table.Rows, cfg.ComboColumns[0], cfg.ComboColumns[1])
	default:
		units = expandNormal(table.Rows, columns)
	}
	return Filter(units, cfg.Filters), nil
}

// Columns returns the declared columns of table, or the sorted union of row
// keys when none were declared.
func Columns(table domain.Table) []string {
	if len(table.Columns) > 0 {
		return append([]string(nil), table.Columns...)
	}
	seen := map[string]struct{}{}
	var out []string
	for _, row := range table.Rows {
		for key := range row {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func mode(cfg Config) domain.GenerationMode {
	if strings.TrimSpace(string(cfg.Mode)) == "" {
		return domain.ModeNormal
	}
	return cfg.Mode
}

func expandNormal(rows []domain.Row, columns []string) []domain.Unit {
	units := make([]domain.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, domain.Unit{Values: row.Clone(), Columns: columns})
	}
	return units
}

func expandSplit(rows []domain.Row, columns []string, column string) []domain.Unit {
	units := make([]domain.Unit, 0, len(rows))
	for _, row := range rows {
		pieces := SplitList(row.String(column))
		if len(pieces) == 0 {
			units = append(units, domain.Unit{Values: row.Clone(), Columns: columns})
			continue
		}
		for _, piece := range pieces {
			values := row.Clone()
			values[column] = piece
			units = append(units, domain.Unit{Values: values, Columns: columns})
		}
	}
	return units
}

// expandCombo builds the cartesian product of the distinct values seen for
// colA and colB across all rows. Units carry only the two columns.
func expandCombo(rows []domain.Row, colA, colB string) []domain.Unit {
	left := distinctValues(rows, colA)
	right := distinctValues(rows, colB)
	units := make([]domain.Unit, 0, len(left)*len(right))
	for _, a := range left {
		for _, b := range right {
			units = append(units, domain.Unit{
				Values:  domain.Row{colA: a, colB: b},
				Columns: []string{colA, colB},
			})
		}
	}
	return units
}

func distinctValues(rows []domain.Row, column string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range rows {
		for _, value := range SplitList(row.String(column)) {
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}
	return out
}

// SplitList splits a comma separated value, trimming pieces and dropping
// empty ones.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Preview summarizes how many units a configuration would produce.
type Preview struct {
	Rows     int
	Units    int
	Filtered int
}

// Count expands table without keeping the units and reports the totals.
func Count(table domain.Table, cfg Config) (Preview, error) {
	unfiltered := cfg
	unfiltered.Filters = nil
	units, err := Expand(table, unfiltered)
	if err != nil {
		return Preview{}, err
	}
	kept := Filter(units, cfg.Filters)
	return Preview{
		Rows:     table.Len(),
		Units:    len(kept),
		Filtered: len(units) - len(kept),
	}, nil
}

func (p Preview) String() string {
	return fmt.Sprintf("%d rows -> %d units (%d filtered)", p.Rows, p.Units, p.Filtered)
}
