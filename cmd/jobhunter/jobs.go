package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/jobhunter/internal/listing"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/jonathan/jobhunter/internal/watch"
	"github.com/spf13/cobra"
)

// queryFlags are the list filters shared by "jobs list" and "jobs watch".
type queryFlags struct {
	text      string
	category  int64
	locations []int64
	minSalary int64
	order     string
	recruiter bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "q", "q", "", "Free-text search")
	cmd.Flags().Int64Var(&f.category, "category", 0, "Category id (see 'jobhunter filters')")
	cmd.Flags().Int64SliceVar(&f.locations, "location", nil, "Location id, repeatable")
	cmd.Flags().Int64Var(&f.minSalary, "min-salary", 0, "Minimum salary")
	cmd.Flags().StringVar(&f.order, "order", "", "Sort order: newest, salary or views")
	cmd.Flags().BoolVar(&f.recruiter, "recruiter", false, "List the signed-in recruiter's own jobs")
}

// build turns the flags into a validated query. defaultRole applies when --recruiter is not set.
func (f *queryFlags) build(cmd *cobra.Command, defaultRole string) (types.ListQuery, error) {
	ordering, err := types.ParseOrdering(f.order)
	if err != nil {
		return types.ListQuery{}, err
	}
	role, err := types.ParseRole(defaultRole)
	if err != nil {
		return types.ListQuery{}, err
	}
	if cmd.Flags().Changed("recruiter") {
		role = types.RoleApplicant
		if f.recruiter {
			role = types.RoleRecruiter
		}
	}

	query := types.ListQuery{
		Text:        f.text,
		LocationIDs: f.locations,
		Ordering:    ordering,
		Role:        role,
	}
	if cmd.Flags().Changed("category") {
		category := f.category
		query.CategoryID = &category
	}
	if cmd.Flags().Changed("min-salary") {
		minSalary := f.minSalary
		query.MinSalary = &minSalary
	}

	if err := query.Validate(); err != nil {
		return types.ListQuery{}, fmt.Errorf("invalid filters: %w", err)
	}
	return query, nil
}

func newJobsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse job listings",
	}
	cmd.AddCommand(newJobsListCmd(root), newJobsWatchCmd(root))
	return cmd
}

func newJobsListCmd(root *rootOptions) *cobra.Command {
	var (
		filters queryFlags
		pages   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs matching the filters",
		Long:  "Fetch the first page of matching jobs, then keep loading the next page until --pages pages are shown or the list ends.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				query, err := filters.build(cmd, a.cfg.Role)
				if err != nil {
					return err
				}
				if err := a.prepareRole(ctx, query.Role); err != nil {
					return err
				}

				list := listing.New(a.jobs, query, listing.Options{Debounce: a.cfg.Debounce, Logger: a.logger})
				defer list.Close()

				state, err := loadPages(list, pages)
				if err != nil {
					return err
				}
				a.printer.PrintJobList(listTitle(query), state.Items, state.Exhausted)
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	return cmd
}

// loadPages loads the first page and up to pages-1 further pages, stopping early when the list ends.
func loadPages(list *listing.Controller, pages int) (listing.State, error) {
	list.Activate()
	list.Wait()
	for i := 1; i < pages; i++ {
		if !list.LoadMore() {
			break
		}
		list.Wait()
	}

	state := list.State()
	if state.Err != nil && len(state.Items) == 0 {
		return state, state.Err
	}
	return state, nil
}

func newJobsWatchCmd(root *rootOptions) *cobra.Command {
	var (
		filters  queryFlags
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run a search on a schedule and print new jobs",
		Long:  "Refresh the first page of matching jobs on a cron schedule (for example \"@every 10m\" or \"*/15 * * * *\") and print jobs that did not appear in earlier runs. Stop with Ctrl-C.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				query, err := filters.build(cmd, a.cfg.Role)
				if err != nil {
					return err
				}
				if err := a.prepareRole(ctx, query.Role); err != nil {
					return err
				}
				if !cmd.Flags().Changed("schedule") {
					schedule = a.cfg.WatchSchedule
				}

				list := listing.New(a.jobs, query, listing.Options{Debounce: a.cfg.Debounce, Logger: a.logger})
				defer list.Close()

				onNew := func(found []types.JobSummary) {
					a.printer.PrintJobList(fmt.Sprintf("NEW: %s", listTitle(query)), found, true)
				}
				watcher, err := watch.New(list, schedule, onNew, a.logger)
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := watcher.Start(ctx); err != nil {
					return err
				}
				<-ctx.Done()
				watcher.Stop()
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&schedule, "schedule", watch.DefaultSchedule, "Cron schedule")
	return cmd
}

// prepareRole checks the session when the recruiter list is requested.
func (a *app) prepareRole(ctx context.Context, role types.Role) error {
	if role != types.RoleRecruiter {
		return nil
	}
	return a.requireRecruiter(ctx)
}

func listTitle(query types.ListQuery) string {
	title := "JOBS"
	if query.Role == types.RoleRecruiter {
		title = "MY JOBS"
	}
	if s := query.String(); s != "" {
		title += " (" + s + ")"
	}
	return title
}
