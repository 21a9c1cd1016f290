package main

import (
	"context"
	"time"

	"github.com/jonathan/jobhunter/internal/types"
	"github.com/spf13/cobra"
)

func newFiltersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the category and location ids accepted by 'jobs list'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				opts, err := a.jobs.FilterOptions(ctx)
				if err != nil {
					return err
				}
				a.printer.PrintFilterOptions(opts)
				return nil
			})
		},
	}
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	var (
		period string
		year   int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show views, applications and ratings for the signed-in recruiter's jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := types.ParseStatsPeriod(period)
			if err != nil {
				return err
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				if err := a.requireRecruiter(ctx); err != nil {
					return err
				}
				report, err := a.jobs.RecruiterStats(ctx, parsed, year)
				if err != nil {
					return err
				}
				a.printer.PrintStatsOverview(parsed, report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(types.PeriodMonth), "Grouping: month, quarter or year")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year to report")
	return cmd
}
