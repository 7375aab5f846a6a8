// Package filter derives the visible subset of an accumulated listing
// collection from five independent criteria.
package filter

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/cases"
)

// fold is used for every case-insensitive comparison in this package.
// cases.Caser is stateful, so each call gets a fresh one.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Criteria holds the five filter fields. The zero value constrains nothing.
//
// Roles and Locations hold case-folded entries; a nil or empty set means no
// constraint. Experience and MinBasePay are nil when unset.
type Criteria struct {
	CompanyName string
	Roles       mapset.Set[string]
	Locations   mapset.Set[string]
	Experience  *int
	MinBasePay  *float64
}

// NewSelection builds a folded set from raw selected values. Blank entries
// are ignored.
func NewSelection(values ...string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, v := range values {
		if v == "" {
			continue
		}
		set.Add(fold(v))
	}
	return set
}

// IsZero reports whether c constrains nothing.
func (c Criteria) IsZero() bool {
	return c.CompanyName == "" &&
		isEmpty(c.Roles) && isEmpty(c.Locations) &&
		c.Experience == nil && c.MinBasePay == nil
}

// Snapshot is the JSON shape of the current criteria.
type Snapshot struct {
	CompanyName string   `json:"companyName"`
	Roles       []string `json:"roles"`
	Locations   []string `json:"locations"`
	Experience  *int     `json:"experience"`
	MinBasePay  *float64 `json:"minBasePay"`
}

// Snapshot returns a serialisable copy of c. Set entries are in their folded
// form.
func (c Criteria) Snapshot() Snapshot {
	s := Snapshot{
		CompanyName: c.CompanyName,
		Roles:       sorted(c.Roles),
		Locations:   sorted(c.Locations),
	}
	if c.Experience != nil {
		v := *c.Experience
		s.Experience = &v
	}
	if c.MinBasePay != nil {
		v := *c.MinBasePay
		s.MinBasePay = &v
	}
	return s
}

func isEmpty(s mapset.Set[string]) bool {
	return s == nil || s.Cardinality() == 0
}

func sorted(s mapset.Set[string]) []string {
	if isEmpty(s) {
		return []string{}
	}
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
