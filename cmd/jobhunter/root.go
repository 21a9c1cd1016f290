package main

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
	baseURL    string
	storageURL string
	logLevel   string
	logFormat  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jobhunter",
		Short: "Job Hunter command-line client",
		Long: `Browse the Job Hunter job board, keep a shortlist of up to five jobs to compare side by side, and watch saved searches for new postings.

Configuration can be loaded from a JSON file using --config and from JOBHUNTER_* environment variables. Command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVar(&opts.baseURL, "base-url", "", "API base URL")
	flags.StringVar(&opts.storageURL, "storage", "", "Device storage URL (file://, memory://, redis://, postgres://)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (text or json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed debug information")

	cmd.AddCommand(
		newJobsCmd(opts),
		newCompareCmd(opts),
		newFiltersCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}
