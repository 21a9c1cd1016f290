// Package watch re-runs a saved job search on a cron schedule and reports jobs that
// were not in any earlier result.
package watch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/jobhunter/internal/listing"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 10m"

// Refresher is the part of a list controller the watcher drives.
type Refresher interface {
	Refresh()
	Wait()
	State() listing.State
}

// Watcher wraps robfig/cron and the refresh loop.
type Watcher struct {
	cron     *cron.Cron
	list     Refresher
	schedule string
	onNew    func([]types.JobSummary)
	logger   logrus.FieldLogger

	initial   sync.WaitGroup
	runMu     sync.Mutex
	seen      map[int64]struct{}
	baselined bool
}

// New creates a Watcher that refreshes list on schedule (a cron spec such as "@every 10m"
// or "*/15 * * * *"). onNew receives the jobs first seen in a run; it may be nil.
func New(list Refresher, schedule string, onNew func([]types.JobSummary), logger logrus.FieldLogger) (*Watcher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Watcher{
		cron:     cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		list:     list,
		schedule: schedule,
		onNew:    onNew,
		logger:   logger,
		seen:     make(map[int64]struct{}),
	}, nil
}

// Schedule returns the cron spec.
func (w *Watcher) Schedule() string {
	return w.schedule
}

// Start registers the job and starts the scheduler. It also runs once immediately so the
// baseline is taken without waiting for the first tick.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	w.cron.Start()
	w.logger.WithField("schedule", w.schedule).Info("watch started")

	w.initial.Add(1)
	go func() {
		defer w.initial.Done()
		w.run(ctx)
	}()
	return nil
}

// Stop shuts the scheduler down and waits for the immediate run and any scheduled
// refresh to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.initial.Wait()
	w.runMu.Lock()
	defer w.runMu.Unlock()
	w.logger.Info("watch stopped")
}

// RunOnce refreshes the list and returns the jobs not seen in earlier runs. The first
// successful run only records a baseline and returns nothing.
func (w *Watcher) RunOnce(ctx context.Context) ([]types.JobSummary, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.list.Refresh()
	w.list.Wait()
	state := w.list.State()
	if state.Err != nil {
		return nil, fmt.Errorf("refresh failed: %w", state.Err)
	}

	var fresh []types.JobSummary
	for _, job := range state.Items {
		if _, ok := w.seen[job.ID]; ok {
			continue
		}
		w.seen[job.ID] = struct{}{}
		fresh = append(fresh, job)
	}

	if !w.baselined {
		w.baselined = true
		w.logger.WithField("jobs", len(state.Items)).Info("watch baseline recorded")
		return nil, nil
	}
	return fresh, nil
}

func (w *Watcher) run(ctx context.Context) {
	fresh, err := w.RunOnce(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("watch run failed")
		return
	}
	if len(fresh) == 0 {
		w.logger.Debug("no new jobs")
		return
	}

	w.logger.WithField("jobs", len(fresh)).Info("new jobs found")
	if w.onNew != nil {
		w.onNew(fresh)
	}
}
