// Package listing implements the paginated, filterable job list controller behind the
// job search and recruiter job screens. It sequences page fetches so that query changes
// restart pagination, next pages only append onto the page before them, and responses
// to superseded requests are dropped.
package listing

import (
	"slices"

	"github.com/jonathan/jobhunter/internal/types"
)

// Phase is the controller's position in its state machine.
type Phase int

const (
	// PhaseIdle is the initial phase, and the phase after a failed first-page load.
	PhaseIdle Phase = iota
	// PhaseLoadingFirstPage is set while page 1 of the current query is in flight.
	PhaseLoadingFirstPage
	// PhaseReady means at least one page is loaded and more pages exist.
	PhaseReady
	// PhaseLoadingNextPage is set while the page after the last loaded one is in flight.
	PhaseLoadingNextPage
	// PhaseExhausted means the server reported no further pages for the current query.
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingFirstPage:
		return "loading_first_page"
	case PhaseReady:
		return "ready"
	case PhaseLoadingNextPage:
		return "loading_next_page"
	case PhaseExhausted:
		return "exhausted"
	}
	return "unknown"
}

// State is a snapshot of the controller for rendering. Items is owned by the snapshot.
type State struct {
	Phase      Phase
	Items      []types.JobSummary
	Page       int
	Loading    bool
	Refreshing bool
	Exhausted  bool
	Query      types.ListQuery
	// Err is the last transport failure. It is cleared when the next fetch starts.
	Err error
	// Discarded counts responses dropped because their request was no longer current.
	Discarded int
}

func (s State) clone() State {
	out := s
	out.Items = slices.Clone(s.Items)
	out.Query = s.Query.Clone()
	return out
}

// ItemIDs returns the ids of the displayed jobs in order.
func (s State) ItemIDs() []int64 {
	ids := make([]int64, len(s.Items))
	for i, item := range s.Items {
		ids[i] = item.ID
	}
	return ids
}

// ticket identifies the request a response belongs to.
type ticket struct {
	generation uint64
	query      types.ListQuery
	page       int
}
