package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role selects which job list a user sees.
type Role string

const (
	// RoleApplicant browses the public job search.
	RoleApplicant Role = "applicant"
	// RoleRecruiter browses the jobs owned by the authenticated recruiter.
	RoleRecruiter Role = "recruiter"
)

// ParseRole converts a raw string (case-insensitive, accepts the backend's upper-case names) to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleApplicant, "":
		return RoleApplicant, nil
	case RoleRecruiter:
		return RoleRecruiter, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Ordering is the sort key of a job list.
type Ordering string

const (
	// OrderNewest sorts by creation time, newest first.
	OrderNewest Ordering = "newest"
	// OrderSalary sorts by maximum salary, highest first.
	OrderSalary Ordering = "salary"
	// OrderViews sorts by view count, highest first.
	OrderViews Ordering = "views"
)

// ParamValue returns the value of the backend "ordering" query parameter.
func (o Ordering) ParamValue() string {
	switch o {
	case OrderSalary:
		return "salary"
	case OrderViews:
		return "-views"
	case OrderNewest:
		return "-created_at"
	}
	return ""
}

// ParseOrdering converts a raw string to an Ordering. Empty input means newest first.
func ParseOrdering(s string) (Ordering, error) {
	switch o := Ordering(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderNewest, nil
	case OrderNewest, OrderSalary, OrderViews:
		return o, nil
	}
	return "", fmt.Errorf("unknown ordering %q (want newest, salary or views)", s)
}

// ListQuery is the full set of parameters that identifies one paginated job list.
// Two queries are the same list iff Equal reports true.
type ListQuery struct {
	Text        string   `json:"text,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	LocationIDs []int64  `json:"location_ids,omitempty" validate:"dive,gt=0"`
	MinSalary   *int64   `json:"min_salary,omitempty" validate:"omitempty,gte=0"`
	Ordering    Ordering `json:"ordering,omitempty" validate:"omitempty,oneof=newest salary views"`
	Role        Role     `json:"role,omitempty" validate:"omitempty,oneof=applicant recruiter"`
}

// Validate validates the ListQuery using the validator.
func (q *ListQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// Equal reports whether both queries select the same list. Location ids compare as a set.
func (q ListQuery) Equal(other ListQuery) bool {
	if q.Text != other.Text || q.Ordering != other.Ordering || q.Role != other.Role {
		return false
	}
	if !equalInt64Ptr(q.CategoryID, other.CategoryID) || !equalInt64Ptr(q.MinSalary, other.MinSalary) {
		return false
	}
	return slices.Equal(locationSet(q.LocationIDs), locationSet(other.LocationIDs))
}

// Clone returns a deep copy so callers cannot mutate a query held by a controller.
func (q ListQuery) Clone() ListQuery {
	out := q
	if q.CategoryID != nil {
		v := *q.CategoryID
		out.CategoryID = &v
	}
	if q.MinSalary != nil {
		v := *q.MinSalary
		out.MinSalary = &v
	}
	if q.LocationIDs != nil {
		out.LocationIDs = slices.Clone(q.LocationIDs)
	}
	return out
}

// WithText returns a copy of the query with the free-text search replaced.
func (q ListQuery) WithText(text string) ListQuery {
	out := q.Clone()
	out.Text = text
	return out
}

// String renders the query for logs.
func (q ListQuery) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("text=%q", q.Text))
	if q.CategoryID != nil {
		parts = append(parts, fmt.Sprintf("category=%d", *q.CategoryID))
	}
	if len(q.LocationIDs) > 0 {
		parts = append(parts, fmt.Sprintf("locations=%v", locationSet(q.LocationIDs)))
	}
	if q.MinSalary != nil {
		parts = append(parts, fmt.Sprintf("min_salary=%d", *q.MinSalary))
	}
	if q.Ordering != "" {
		parts = append(parts, "ordering="+string(q.Ordering))
	}
	return strings.Join(parts, " ")
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// locationSet returns the sorted, de-duplicated ids. nil and empty are the same set.
func locationSet(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// ListPage is one page of a job list as seen by the client.
type ListPage struct {
	Page    int          `json:"page"`
	Items   []JobSummary `json:"items"`
	HasNext bool         `json:"has_next"`
}

// PageEnvelope is the backend's paginated response shape.
type PageEnvelope struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []JobSummary `json:"results"`
}

// HasNext reports whether the envelope links to a following page.
func (e PageEnvelope) HasNext() bool {
	return e.Next != nil && *e.Next != ""
}
