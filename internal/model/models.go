// Package model defines shared data structures for the search service.
package model

// ListingRecord is one job posting as served by the upstream listing API.
// JDUID is the deduplication key; it is unique within an accumulated feed.
type ListingRecord struct {
	JDUID                 string   `json:"jdUid"`
	CompanyName           string   `json:"companyName"`
	JobRole               string   `json:"jobRole"`
	Location              string   `json:"location"`
	MinExp                int      `json:"minExp"`
	MaxExp                int      `json:"maxExp"`
	MinJDSalary           *float64 `json:"minJdSalary"`
	MaxJDSalary           *float64 `json:"maxJdSalary"`
	JobDetailsFromCompany string   `json:"jobDetailsFromCompany"`
	LogoURL               string   `json:"logoUrl"`
}

// PageRequest mirrors the upstream request body.
// Offset is always pagesFetched × Limit.
type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageResponse mirrors the upstream success body.
type PageResponse struct {
	JDList     []ListingRecord `json:"jdList"`
	TotalCount int             `json:"totalCount,omitempty"`
}
