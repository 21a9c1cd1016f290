// Package types provides type definitions for the job marketplace data exchanged with the backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the datetime format the backend renders (DATETIME_FORMAT "%d-%m-%Y %H:%M:%S").
const TimestampLayout = "02-01-2006 15:04:05"

// Timestamp is a time.Time that accepts the backend datetime format as well as RFC 3339.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses either TimestampLayout or RFC 3339. null and "" leave the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON renders the timestamp in the backend format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(TimestampLayout))
}

// Location is a city a job can be located in.
type Location struct {
	ID   int64  `json:"id"`
	City string `json:"city"`
}

// Category is a job category (industry).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Recruiter is the company profile attached to a job.
type Recruiter struct {
	CompanyName     string `json:"company_name"`
	CompanyLocation string `json:"company_location,omitempty"`
	Logo            string `json:"logo,omitempty"`
	WebURL          string `json:"webURL,omitempty"`
	IsVerified      bool   `json:"is_verified"`
}

// JobSummary is the list representation of a job. It is an immutable snapshot from the server.
type JobSummary struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Salary    *string    `json:"salary"`
	Deadline  string     `json:"deadline,omitempty"`
	IsPremium bool       `json:"is_premium"`
	IsActive  bool       `json:"is_active"`
	Views     int        `json:"views"`
	CreatedAt Timestamp  `json:"created_at"`
	Recruiter *Recruiter `json:"recruiter_detail,omitempty"`
	Locations []Location `json:"location_details"`
	Category  *Category  `json:"category_detail,omitempty"`
}

// CompanyName returns the recruiter's company name, or "" when the job has no recruiter detail.
func (j JobSummary) CompanyName() string {
	if j.Recruiter == nil {
		return ""
	}
	return j.Recruiter.CompanyName
}

// LogoURL returns the recruiter's logo URL, or "" when unknown.
func (j JobSummary) LogoURL() string {
	if j.Recruiter == nil {
		return ""
	}
	return j.Recruiter.Logo
}

// Cities returns the job's location city names in server order.
func (j JobSummary) Cities() []string {
	cities := make([]string, 0, len(j.Locations))
	for _, loc := range j.Locations {
		cities = append(cities, loc.City)
	}
	return cities
}

// SalaryText returns the salary label, falling back to the given text when the salary is null or blank.
func (j JobSummary) SalaryText(fallback string) string {
	if j.Salary == nil || strings.TrimSpace(*j.Salary) == "" {
		return fallback
	}
	return *j.Salary
}

// JobDetail is the full job record returned by the detail and compare endpoints.
type JobDetail struct {
	JobSummary
	Description       string `json:"description,omitempty"`
	Requirements      string `json:"requirements,omitempty"`
	Benefits          string `json:"benefits,omitempty"`
	YearsOfExperience *int   `json:"years_of_experience,omitempty"`
}

// FilterOptions holds the selectable values for the applicant job filters.
type FilterOptions struct {
	Categories []Category `json:"categories"`
	Locations  []Location `json:"locations"`
}
