package filter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/search-service/internal/filter"
	"jobmate/search-service/internal/model"
)

func salary(v float64) *float64 { return &v }
func years(v int) *int          { return &v }

// recordA and recordB are the two reference listings used throughout.
var (
	recordA = model.ListingRecord{
		JDUID: "A", CompanyName: "Dropbox", JobRole: "BackEnd", Location: "Remote",
		MinExp: 2, MaxExp: 5, MaxJDSalary: salary(20),
	}
	recordB = model.ListingRecord{
		JDUID: "B", CompanyName: "LG", JobRole: "FrontEnd", Location: "Mumbai",
		MinExp: 0, MaxExp: 2, MaxJDSalary: salary(10),
	}
)

func ids(records []model.ListingRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.JDUID)
	}
	return out
}

func TestComputeVisible_ReferenceCases(t *testing.T) {
	collection := []model.ListingRecord{recordA, recordB}

	cases := []struct {
		name     string
		criteria filter.Criteria
		want     []string
	}{
		{
			name:     "role and experience",
			criteria: filter.Criteria{Roles: filter.NewSelection("BackEnd"), Experience: years(3)},
			want:     []string{"A"},
		},
		{
			name:     "min base pay",
			criteria: filter.Criteria{MinBasePay: salary(15)},
			want:     []string{"A"},
		},
		{
			name:     "no criteria",
			criteria: filter.Criteria{},
			want:     []string{"A", "B"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ids(filter.ComputeVisible(collection, c.criteria)))
		})
	}
}

func TestComputeVisible_CompanySubstringCaseInsensitive(t *testing.T) {
	collection := []model.ListingRecord{recordA, recordB}

	assert.Equal(t, []string{"A"}, ids(filter.ComputeVisible(collection, filter.Criteria{CompanyName: "dROP"})))
	assert.Equal(t, []string{"A", "B"}, ids(filter.ComputeVisible(collection, filter.Criteria{CompanyName: ""})))
	assert.Empty(t, filter.ComputeVisible(collection, filter.Criteria{CompanyName: "google"}))
}

func TestComputeVisible_RoleAndLocationExactCaseInsensitive(t *testing.T) {
	collection := []model.ListingRecord{recordA, recordB}

	got := filter.ComputeVisible(collection, filter.Criteria{Roles: filter.NewSelection("frontend", "ios")})
	assert.Equal(t, []string{"B"}, ids(got))

	got = filter.ComputeVisible(collection, filter.Criteria{Locations: filter.NewSelection("REMOTE", "Mumbai")})
	assert.Equal(t, []string{"A", "B"}, ids(got))

	// Equality, not substring.
	got = filter.ComputeVisible(collection, filter.Criteria{Roles: filter.NewSelection("End")})
	assert.Empty(t, got)
}

func TestComputeVisible_ExperienceBoundsInclusive(t *testing.T) {
	collection := []model.ListingRecord{recordA, recordB}

	for exp, want := range map[int][]string{
		0: {"B"},
		2: {"A", "B"},
		5: {"A"},
		6: {},
	} {
		got := filter.ComputeVisible(collection, filter.Criteria{Experience: years(exp)})
		assert.Equal(t, want, ids(got), "experience=%d", exp)
	}
}

func TestComputeVisible_SalaryThreshold(t *testing.T) {
	noMax := model.ListingRecord{JDUID: "N", CompanyName: "Nulls"}
	collection := []model.ListingRecord{recordA, recordB, noMax}

	assert.Equal(t, []string{"A", "B"}, ids(filter.ComputeVisible(collection, filter.Criteria{MinBasePay: salary(10)})))
	assert.Equal(t, []string{"A"}, ids(filter.ComputeVisible(collection, filter.Criteria{MinBasePay: salary(20)})))
	assert.Empty(t, filter.ComputeVisible(collection, filter.Criteria{MinBasePay: salary(21)}))

	// Zero threshold still excludes a record with no maximum salary.
	assert.Equal(t, []string{"A", "B"}, ids(filter.ComputeVisible(collection, filter.Criteria{MinBasePay: salary(0)})))
	// Unset threshold keeps it.
	assert.Equal(t, []string{"A", "B", "N"}, ids(filter.ComputeVisible(collection, filter.Criteria{})))
}

func TestComputeVisible_PreservesOrderAndIsSubsequence(t *testing.T) {
	var collection []model.ListingRecord
	for i := 0; i < 40; i++ {
		rec := recordA
		if i%3 == 0 {
			rec = recordB
		}
		rec.JDUID = fmt.Sprintf("r%02d", i)
		collection = append(collection, rec)
	}

	visible := filter.ComputeVisible(collection, filter.Criteria{Locations: filter.NewSelection("remote")})
	require.NotEmpty(t, visible)

	j := 0
	for _, v := range visible {
		for j < len(collection) && collection[j].JDUID != v.JDUID {
			j++
		}
		require.Less(t, j, len(collection), "%s is out of order", v.JDUID)
		j++
	}
}

// Applying the criteria all at once equals applying each one in turn, in
// any order.
func TestComputeVisible_CriteriaCommute(t *testing.T) {
	collection := []model.ListingRecord{
		recordA, recordB,
		{JDUID: "C", CompanyName: "Dropbox", JobRole: "FrontEnd", Location: "Remote", MinExp: 1, MaxExp: 3, MaxJDSalary: salary(30)},
		{JDUID: "D", CompanyName: "Sony", JobRole: "BackEnd", Location: "Delhi NCR", MinExp: 3, MaxExp: 8, MaxJDSalary: salary(60)},
	}
	single := []filter.Criteria{
		{CompanyName: "o"},
		{Roles: filter.NewSelection("BackEnd", "FrontEnd")},
		{Locations: filter.NewSelection("Remote", "Delhi NCR")},
		{Experience: years(3)},
		{MinBasePay: salary(15)},
	}
	combined := filter.Criteria{
		CompanyName: "o",
		Roles:       filter.NewSelection("BackEnd", "FrontEnd"),
		Locations:   filter.NewSelection("Remote", "Delhi NCR"),
		Experience:  years(3),
		MinBasePay:  salary(15),
	}
	want := ids(filter.ComputeVisible(collection, combined))

	orders := [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}}
	for _, order := range orders {
		cur := collection
		for _, i := range order {
			cur = filter.ComputeVisible(cur, single[i])
		}
		assert.Equal(t, want, ids(cur), "order %v", order)
	}
}

func TestEngine_SettersAreIndependent(t *testing.T) {
	e := filter.NewEngine()
	e.SetRoles([]string{"BackEnd"})
	e.SetLocations([]string{"Remote"})
	e.SetExperience(years(3))
	e.SetMinBasePay(salary(15))
	e.SetCompanyName("drop")

	e.SetRoles([]string{"FrontEnd", "BackEnd"})

	c := e.Criteria()
	assert.Equal(t, "drop", c.CompanyName)
	assert.True(t, c.Locations.Contains("remote"))
	require.NotNil(t, c.Experience)
	assert.Equal(t, 3, *c.Experience)
	require.NotNil(t, c.MinBasePay)
	assert.Equal(t, 15.0, *c.MinBasePay)
	assert.Equal(t, 2, c.Roles.Cardinality())
}

func TestEngine_ClearingCriteria(t *testing.T) {
	e := filter.NewEngine()
	e.SetRoles([]string{"BackEnd"})
	e.SetExperience(years(3))
	e.SetRoles(nil)
	e.SetExperience(nil)
	assert.True(t, e.Criteria().IsZero())
}

func TestEngine_SetterCopiesPointers(t *testing.T) {
	e := filter.NewEngine()
	exp := 3
	e.SetExperience(&exp)
	exp = 9
	assert.Equal(t, 3, *e.Criteria().Experience)
}

func TestEngine_VisibleRecomputesOnChange(t *testing.T) {
	e := filter.NewEngine()
	collection := []model.ListingRecord{recordA, recordB}

	assert.Equal(t, []string{"A", "B"}, ids(e.Visible(collection)))

	e.SetRoles([]string{"FrontEnd"})
	assert.Equal(t, []string{"B"}, ids(e.Visible(collection)))

	grown := append(collection[:2:2], model.ListingRecord{JDUID: "C", JobRole: "frontend"})
	assert.Equal(t, []string{"B", "C"}, ids(e.Visible(grown)))

	// Same revision and length: cached slice is returned.
	assert.Equal(t, []string{"B", "C"}, ids(e.Visible(grown)))
}

func TestCriteria_Snapshot(t *testing.T) {
	c := filter.Criteria{
		CompanyName: "x",
		Roles:       filter.NewSelection("FrontEnd", "BackEnd"),
		Experience:  years(2),
	}
	s := c.Snapshot()
	assert.Equal(t, []string{"backend", "frontend"}, s.Roles)
	assert.Equal(t, []string{}, s.Locations)
	assert.Equal(t, 2, *s.Experience)
	assert.Nil(t, s.MinBasePay)
}
