package filter

import (
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"jobmate/search-service/internal/model"
)

// ComputeVisible returns the records of collection that pass every
// criterion, in collection order. It never mutates its inputs.
func ComputeVisible(collection []model.ListingRecord, c Criteria) []model.ListingRecord {
	visible := make([]model.ListingRecord, 0, len(collection))
	needle := fold(c.CompanyName)
	for _, rec := range collection {
		if matches(rec, c, needle) {
			visible = append(visible, rec)
		}
	}
	return visible
}

// Matches reports whether a single record passes c.
func Matches(rec model.ListingRecord, c Criteria) bool {
	return matches(rec, c, fold(c.CompanyName))
}

func matches(rec model.ListingRecord, c Criteria, needle string) bool {
	// Company name: substring, empty always passes.
	if needle != "" && !strings.Contains(fold(rec.CompanyName), needle) {
		return false
	}

	// Role and location: exact match against any selected entry.
	if !inSelection(c.Roles, rec.JobRole) {
		return false
	}
	if !inSelection(c.Locations, rec.Location) {
		return false
	}

	// Experience: a single value inside the record's inclusive range.
	if c.Experience != nil {
		exp := *c.Experience
		if exp < rec.MinExp || exp > rec.MaxExp {
			return false
		}
	}

	// Minimum base pay against the record's maximum salary. A record without
	// a maximum cannot satisfy a threshold.
	if c.MinBasePay != nil {
		if rec.MaxJDSalary == nil || *rec.MaxJDSalary < *c.MinBasePay {
			return false
		}
	}

	return true
}

func inSelection(sel mapset.Set[string], value string) bool {
	if isEmpty(sel) {
		return true
	}
	return sel.Contains(fold(value))
}

// Engine owns the current criteria of one session. Each setter replaces a
// single field and leaves the other four untouched.
//
// Visible caches its last result keyed by (criteria revision, collection
// length); this is sound because the accumulated collection is append-only.
type Engine struct {
	mu       sync.Mutex
	criteria Criteria
	revision uint64

	cacheRev uint64
	cacheLen int
	cached   []model.ListingRecord
	hasCache bool
}

// NewEngine returns an engine with no constraints.
func NewEngine() *Engine {
	return &Engine{}
}

// Criteria returns the current criteria. Sets are replaced on update, never
// mutated, so the returned value is safe to read.
func (e *Engine) Criteria() Criteria {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.criteria
}

func (e *Engine) SetCompanyName(name string) {
	e.update(func(c *Criteria) { c.CompanyName = name })
}

// SetRoles replaces the role selection. An empty list removes the constraint.
func (e *Engine) SetRoles(roles []string) {
	sel := NewSelection(roles...)
	e.update(func(c *Criteria) { c.Roles = sel })
}

// SetLocations replaces the location selection. An empty list removes the
// constraint.
func (e *Engine) SetLocations(locations []string) {
	sel := NewSelection(locations...)
	e.update(func(c *Criteria) { c.Locations = sel })
}

// SetExperience sets the experience threshold; nil removes it.
func (e *Engine) SetExperience(years *int) {
	e.update(func(c *Criteria) { c.Experience = copyPtr(years) })
}

// SetMinBasePay sets the minimum salary threshold; nil removes it.
func (e *Engine) SetMinBasePay(pay *float64) {
	e.update(func(c *Criteria) { c.MinBasePay = copyPtr(pay) })
}

func (e *Engine) update(fn func(*Criteria)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.criteria)
	e.revision++
}

// Visible returns ComputeVisible(collection, current criteria), reusing the
// previous result when neither the criteria nor the collection length
// changed.
func (e *Engine) Visible(collection []model.ListingRecord) []model.ListingRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasCache && e.cacheRev == e.revision && e.cacheLen == len(collection) {
		return e.cached
	}

	visible := ComputeVisible(collection, e.criteria)
	e.cacheRev = e.revision
	e.cacheLen = len(collection)
	e.cached = visible[:len(visible):len(visible)]
	e.hasCache = true
	return e.cached
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
