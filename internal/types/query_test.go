//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestListQuery_Equal(t *testing.T) {
	base := ListQuery{
		Text:        "golang",
		CategoryID:  int64Ptr(2),
		LocationIDs: []int64{1, 3},
		MinSalary:   int64Ptr(1000),
		Ordering:    OrderSalary,
		Role:        RoleApplicant,
	}

	tests := []struct {
		name   string
		other  ListQuery
		expect bool
	}{
		{"identical", base.Clone(), true},
		{"locations reordered", func() ListQuery { q := base.Clone(); q.LocationIDs = []int64{3, 1}; return q }(), true},
		{"locations duplicated", func() ListQuery { q := base.Clone(); q.LocationIDs = []int64{3, 1, 3}; return q }(), true},
		{"different text", base.WithText("rust"), false},
		{"different category", func() ListQuery { q := base.Clone(); q.CategoryID = int64Ptr(5); return q }(), false},
		{"category cleared", func() ListQuery { q := base.Clone(); q.CategoryID = nil; return q }(), false},
		{"different locations", func() ListQuery { q := base.Clone(); q.LocationIDs = []int64{1}; return q }(), false},
		{"different salary", func() ListQuery { q := base.Clone(); q.MinSalary = int64Ptr(2000); return q }(), false},
		{"different ordering", func() ListQuery { q := base.Clone(); q.Ordering = OrderNewest; return q }(), false},
		{"different role", func() ListQuery { q := base.Clone(); q.Role = RoleRecruiter; return q }(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, base.Equal(tt.other))
			assert.Equal(t, tt.expect, tt.other.Equal(base))
		})
	}
}

func TestListQuery_EmptyLocationsEqualNil(t *testing.T) {
	assert.True(t, ListQuery{LocationIDs: []int64{}}.Equal(ListQuery{}))
}

func TestListQuery_CloneIsDeep(t *testing.T) {
	original := ListQuery{CategoryID: int64Ptr(2), LocationIDs: []int64{1}, MinSalary: int64Ptr(10)}
	clone := original.Clone()

	*clone.CategoryID = 9
	clone.LocationIDs[0] = 9
	*clone.MinSalary = 9

	assert.Equal(t, int64(2), *original.CategoryID)
	assert.Equal(t, int64(1), original.LocationIDs[0])
	assert.Equal(t, int64(10), *original.MinSalary)
}

func TestListQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   ListQuery
		wantErr bool
	}{
		{"empty query", ListQuery{}, false},
		{"full applicant query", ListQuery{Text: "go", CategoryID: int64Ptr(1), LocationIDs: []int64{2, 3}, MinSalary: int64Ptr(0), Ordering: OrderViews, Role: RoleApplicant}, false},
		{"negative salary", ListQuery{MinSalary: int64Ptr(-1)}, true},
		{"zero category", ListQuery{CategoryID: int64Ptr(0)}, true},
		{"zero location", ListQuery{LocationIDs: []int64{1, 0}}, true},
		{"unknown ordering", ListQuery{Ordering: "random"}, true},
		{"unknown role", ListQuery{Role: "admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrdering_ParamValue(t *testing.T) {
	assert.Equal(t, "-created_at", OrderNewest.ParamValue())
	assert.Equal(t, "salary", OrderSalary.ParamValue())
	assert.Equal(t, "-views", OrderViews.ParamValue())
	assert.Equal(t, "", Ordering("").ParamValue())
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderNewest, o)

	o, err = ParseOrdering(" Salary ")
	require.NoError(t, err)
	assert.Equal(t, OrderSalary, o)

	_, err = ParseOrdering("cheapest")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("RECRUITER")
	require.NoError(t, err)
	assert.Equal(t, RoleRecruiter, r)

	r, err = ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleApplicant, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestPageEnvelope_HasNext(t *testing.T) {
	next := "https://api.example.com/jobs/?page=2"
	empty := ""
	assert.True(t, PageEnvelope{Next: &next}.HasNext())
	assert.False(t, PageEnvelope{Next: &empty}.HasNext())
	assert.False(t, PageEnvelope{}.HasNext())
}

func TestListQuery_String(t *testing.T) {
	q := ListQuery{Text: "go", CategoryID: int64Ptr(2), LocationIDs: []int64{3, 1}, Ordering: OrderSalary}
	assert.Equal(t, `text="go" category=2 locations=[1 3] ordering=salary`, q.String())
}
