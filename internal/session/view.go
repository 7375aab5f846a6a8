package session

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobmate/search-service/internal/feed"
	"jobmate/search-service/internal/filter"
	"jobmate/search-service/internal/model"
)

// previewRunes bounds the card preview of the company description.
const previewRunes = 280

// View is everything presentation needs to draw one frame.
type View struct {
	SessionID string          `json:"sessionId"`
	Listings  []Card          `json:"listings"`
	State     feed.State      `json:"state"`
	NoResults bool            `json:"noResults"`
	Sentinel  string          `json:"sentinel"`
	Error     string          `json:"error,omitempty"`
	Criteria  filter.Snapshot `json:"criteria"`
	Pages     int             `json:"pages"`
	Total     int             `json:"total"`
}

// Card is a listing plus the display fields the job card shows.
type Card struct {
	model.ListingRecord
	RoleTitle     string  `json:"roleTitle"`
	LocationTitle string  `json:"locationTitle"`
	SalaryFloor   float64 `json:"salaryFloor"`
	Preview       string  `json:"preview"`
}

func cards(records []model.ListingRecord) []Card {
	out := make([]Card, 0, len(records))
	for _, rec := range records {
		out = append(out, newCard(rec))
	}
	return out
}

func newCard(rec model.ListingRecord) Card {
	c := Card{
		ListingRecord: rec,
		RoleTitle:     titleWords(rec.JobRole),
		LocationTitle: titleWords(rec.Location),
		Preview:       Preview(rec.JobDetailsFromCompany, previewRunes),
	}
	if rec.MinJDSalary != nil {
		c.SalaryFloor = *rec.MinJDSalary
	}
	return c
}

// titleWords upper-cases the first letter of every word and leaves the rest
// alone, so "backend" becomes "Backend" and "Delhi NCR" is kept as is.
func titleWords(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Preview returns the description as plain text, whitespace collapsed and
// truncated to at most n runes. Company descriptions sometimes carry HTML.
func Preview(desc string, n int) string {
	text := desc
	if strings.ContainsRune(desc, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}
