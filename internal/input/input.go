// Package input normalises raw presentation values into typed filter
// criteria. Anything unparsable becomes "no constraint"; nothing here
// returns an error.
package input

import (
	"strconv"
	"strings"
)

// salaryUnit is the lakh marker carried by base-pay options ("10L").
const salaryUnit = "L"

// ParseExperience turns a single-select experience value ("3") into years.
// Empty or non-numeric input yields nil.
func ParseExperience(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// ParseMinBasePay turns a base-pay option ("20L") into a number after
// stripping the trailing unit marker. Empty or non-numeric input yields nil.
func ParseMinBasePay(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, salaryUnit)
	raw = strings.TrimSuffix(raw, strings.ToLower(salaryUnit))
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Selection trims a multi-select value list and drops blanks and repeats,
// keeping first-seen order.
func Selection(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// CompanyName trims surrounding whitespace from the company text field.
func CompanyName(raw string) string {
	return strings.TrimSpace(raw)
}
