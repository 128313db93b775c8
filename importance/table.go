// Package importance holds ranked feature importance tables and ways of producing them.
package importance

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
)

var (
	ErrEmptyTable       = errors.New("importance table has no features")
	ErrDuplicateFeature = errors.New("feature listed more than once in importance table")
)

// Feature is one row of an importance table
type Feature struct {
	Name       string  `json:"feature"`
	Importance float64 `json:"importance"`
	StdErr     float64 `json:"std_error"`
}

// Table is an ordered set of feature importances
type Table []Feature

// Validate checks the table is non-empty and has no repeated feature names
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[string]struct{}, len(t))
	for _, f := range t {
		if _, exists := seen[f.Name]; exists {
			return fmt.Errorf("%s, %w", f.Name, ErrDuplicateFeature)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// SortAscending returns a copy ordered from least to most important. Equal importances are
// ordered by name so the result does not depend on the input order.
func (t Table) SortAscending() Table {
	out := make(Table, len(t))
	copy(out, t)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance < out[j].Importance
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the feature names in table order
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, f := range t {
		names = append(names, f.Name)
	}
	return names
}

// Last returns the names of the final n rows in table order. On an ascending table these are
// the n most important features.
func (t Table) Last(n int) []string {
	if n > len(t) {
		n = len(t)
	}
	if n < 0 {
		n = 0
	}
	return t[len(t)-n:].Names()
}

// WriteJSON encodes the table as a json array
func (t Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// ReadJSON decodes a json array of {"feature", "importance", "std_error"} objects
func ReadJSON(r io.Reader) (Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("unable to decode importance table, %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
