package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobhunter/internal/compare"
	"github.com/jonathan/jobhunter/internal/config"
	"github.com/jonathan/jobhunter/internal/fetch"
	"github.com/jonathan/jobhunter/internal/jobs"
	"github.com/jonathan/jobhunter/internal/logging"
	"github.com/jonathan/jobhunter/internal/observability"
	"github.com/jonathan/jobhunter/internal/session"
	"github.com/jonathan/jobhunter/internal/storage"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errLoginRequired is returned by commands that need a signed-in recruiter.
var errLoginRequired = errors.New("not logged in; run 'jobhunter login' first")

// app is the set of components one command invocation works with.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	store   storage.Store
	auth    *session.Authenticator
	jobs    *jobs.Client
	session *session.Store
	compare *compare.Set
	printer *observability.Printer
}

// loadConfig resolves the configuration: flags over environment over file over defaults.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	loaded, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *loaded

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if cmd.Flags().Changed("storage") {
		cfg.StorageURL = opts.storageURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp wires storage, transport, session and the comparison set for one command.
func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cmd.Context(), cfg.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	auth := session.NewAuthenticator(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, store,
		&http.Client{Timeout: cfg.Timeout}, logger)

	httpClient, err := fetch.NewClient(cfg.BaseURL, &fetch.Options{
		Timeout:   cfg.Timeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	jobsClient := jobs.NewClient(httpClient.WithBearer(auth).WithLogger(logger), jobs.WithLogger(logger))

	sessionStore := session.NewStore(session.State{})
	sessionStore.Subscribe(func(s session.State) {
		logger.WithFields(logrus.Fields{"logged_in": s.LoggedIn(), "role": s.Role()}).Debug("session changed")
	})

	logger.WithFields(logrus.Fields{"base_url": cfg.BaseURL, "storage": cfg.StorageURL}).Debug("client ready")

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		auth:    auth,
		jobs:    jobsClient,
		session: sessionStore,
		compare: compare.NewSet(store, jobsClient, logger),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

// Close releases the storage backend.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Warn("failed to close storage")
	}
}

// restoreSession loads the stored token and profile into the session store.
func (a *app) restoreSession(ctx context.Context) error {
	return a.auth.Restore(ctx, a.session, a.jobs)
}

// requireRecruiter restores the session and checks that the user may see recruiter data.
func (a *app) requireRecruiter(ctx context.Context) error {
	if err := a.restoreSession(ctx); err != nil {
		return err
	}
	state := a.session.State()
	if !state.LoggedIn() {
		return errLoginRequired
	}
	if state.Role() != types.RoleRecruiter {
		return fmt.Errorf("user %s is not a recruiter", state.User.Username)
	}
	return nil
}

// withApp runs fn with a wired app and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
