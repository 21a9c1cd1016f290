package types

import (
	"fmt"
	"math"
	"strings"
)

// StatsPeriod is the bucket size of the recruiter statistics chart.
type StatsPeriod string

// Supported statistics periods.
const (
	PeriodMonth   StatsPeriod = "month"
	PeriodQuarter StatsPeriod = "quarter"
	PeriodYear    StatsPeriod = "year"
)

// ParseStatsPeriod converts a raw string to a StatsPeriod. Empty input means month.
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch p := StatsPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodMonth, nil
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown stats period %q (want month, quarter or year)", s)
}

// StatsPoint is one bucket of the recruiter statistics chart.
// TotalViews and AvgRating are null when the bucket has no data.
type StatsPoint struct {
	PeriodDate   string   `json:"period_date"`
	TotalApplies int      `json:"total_applies"`
	TotalViews   *int     `json:"total_views"`
	AvgRating    *float64 `json:"avg_rating"`
}

// StatsReport is the response of the recruiter statistics endpoint.
type StatsReport struct {
	ChartData []StatsPoint `json:"chart_data"`
}

// Overview is the dashboard summary computed from a StatsReport.
type Overview struct {
	TotalViews   int     `json:"total_views"`
	TotalApplies int     `json:"total_applies"`
	AvgRating    float64 `json:"avg_rating"`
}

// Overview sums views and applies over all buckets and averages the ratings of buckets
// that have a positive rating. The average is rounded to one decimal.
func (r StatsReport) Overview() Overview {
	var out Overview
	var ratingSum float64
	var rated int
	for _, p := range r.ChartData {
		out.TotalApplies += p.TotalApplies
		if p.TotalViews != nil {
			out.TotalViews += *p.TotalViews
		}
		if p.AvgRating != nil && *p.AvgRating > 0 {
			ratingSum += *p.AvgRating
			rated++
		}
	}
	if rated > 0 {
		out.AvgRating = math.Round(ratingSum/float64(rated)*10) / 10
	}
	return out
}
