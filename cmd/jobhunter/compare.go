package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jonathan/jobhunter/internal/compare"
	"github.com/jonathan/jobhunter/internal/fetch"
	"github.com/spf13/cobra"
)

func newCompareCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Manage the comparison list",
		Long:  fmt.Sprintf("Keep up to %d jobs on this device and compare them side by side.", compare.MaxSize),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <job-id>",
			Short: "Add a job to the comparison list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseJobID(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					size, err := a.compare.Add(ctx, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added job #%d (%d/%d)\n", id, size, compare.MaxSize)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <job-id>",
			Short: "Remove a job from the comparison list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseJobID(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					size, err := a.compare.Remove(ctx, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed job #%d (%d/%d)\n", id, size, compare.MaxSize)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <job-id>",
			Short: "Add the job if absent, remove it if present",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseJobID(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					inSet, size, err := a.compare.Toggle(ctx, id)
					if err != nil {
						return err
					}
					verb := "Removed"
					if inSet {
						verb = "Added"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s job #%d (%d/%d)\n", verb, id, size, compare.MaxSize)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Show the ids in the comparison list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					ids, err := a.compare.IDs(ctx)
					if err != nil {
						return err
					}
					a.printer.PrintCompareIDs(ids)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Fetch and compare every job in the list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					details, err := a.compare.Resolve(ctx)
					if fetch.IsNotFound(err) {
						return errors.New("the selected jobs are no longer available; remove them with 'jobhunter compare clear'")
					}
					if err != nil {
						return err
					}
					a.printer.PrintComparison(details)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the comparison list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, root, func(ctx context.Context, a *app) error {
					if err := a.compare.Clear(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Comparison list cleared.")
					return nil
				})
			},
		},
	)
	return cmd
}

func parseJobID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", raw)
	}
	return id, nil
}
