package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/jobhunter/internal/session"
	"github.com/jonathan/jobhunter/internal/types"
	"github.com/spf13/cobra"
)

// passwordEnv supplies the password when --password is not given.
const passwordEnv = "JOBHUNTER_PASSWORD"

func newLoginCmd(root *rootOptions) *cobra.Command {
	var req types.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				if a.cfg.ClientID == "" {
					return fmt.Errorf("client_id is required (via config file or JOBHUNTER_CLIENT_ID)")
				}

				token, err := a.auth.Login(ctx, req)
				if err != nil {
					return err
				}
				user, err := a.jobs.CurrentUser(ctx)
				if err != nil {
					return fmt.Errorf("failed to load profile: %w", err)
				}
				a.session.Dispatch(session.LoggedInAction{User: user, Token: token})

				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (defaults to "+passwordEnv+" env var)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				if err := a.auth.Logout(ctx); err != nil {
					return err
				}
				a.session.Dispatch(session.LoggedOutAction{})
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func newWhoamiCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root, func(ctx context.Context, a *app) error {
				err := a.restoreSession(ctx)
				if errors.Is(err, session.ErrTokenExpired) {
					fmt.Fprintln(cmd.OutOrStdout(), "Session expired. Run 'jobhunter login' again.")
					return nil
				}
				if err != nil {
					return err
				}

				state := a.session.State()
				if !state.LoggedIn() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
					return nil
				}
				a.printer.PrintUser(state.User)
				return nil
			})
		},
	}
}
