package cli

import (
	"errors"
	"fmt"

	"join/internal/api"
	"join/internal/session"

	"github.com/spf13/cobra"
)

func signupCmd(app *App) *cobra.Command {
	var req api.SignupRequest
	var remember bool

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().Signup(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			return app.saveSession(resp, remember)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the session after the OS session ends")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd(app *App) *cobra.Command {
	var req api.LoginRequest
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client().Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return app.saveSession(resp, remember)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the session after the OS session ends")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.sessions.Load()
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(app.Out, "Not logged in")
				return nil
			}
			if err := app.sessions.Clear(); err != nil {
				return err
			}
			if sess != nil {
				fmt.Fprintf(app.Out, "Goodbye, %s\n", sess.User.Name)
			}
			return nil
		},
	}
}

func (a *App) saveSession(resp *api.AuthResponse, remember bool) error {
	if err := a.sessions.Save(session.Session{Token: resp.Token, User: resp.User}, remember); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", resp.User.Name, resp.User.Initials)
	return nil
}
