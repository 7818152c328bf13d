// Package cli implements joinctl, the command-line front end of Join.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"join/internal/board"
	"join/internal/client"
	"join/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyAPI        = "api"
	keyTimeout    = "timeout"
	keyRetries    = "retries"
	keyLogLevel   = "log-level"
	keyConfigDir  = "config-dir"
	keySessionDir = "session-dir"
)

// App carries what every command needs. Fields are filled by NewRootCmd's
// PersistentPreRunE once flags and environment are parsed.
type App struct {
	Out    io.Writer
	ErrOut io.Writer

	v        *viper.Viper
	log      *logrus.Logger
	sessions *session.Store
}

func NewApp(out, errOut io.Writer) *App {
	return &App{Out: out, ErrOut: errOut, v: viper.New()}
}

// NewRootCmd builds the command tree. Every flag can also be set through a
// JOIN_ environment variable, e.g. JOIN_API or JOIN_LOG_LEVEL.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "joinctl",
		Short:         "Manage the tasks of a Join board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyAPI, "http://localhost:8080", "Join API base URL")
	flags.Duration(keyTimeout, 10*time.Second, "Timeout of a single request")
	flags.Int(keyRetries, 3, "Attempts when fetching the task list")
	flags.String(keyLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.String(keyConfigDir, "", "Directory of the remembered session (default $XDG_CONFIG_HOME/join)")
	flags.String(keySessionDir, "", "Directory of the temporary session (default $XDG_RUNTIME_DIR/join)")

	rootCmd.AddCommand(signupCmd(app))
	rootCmd.AddCommand(loginCmd(app))
	rootCmd.AddCommand(logoutCmd(app))
	rootCmd.AddCommand(boardCmd(app))
	rootCmd.AddCommand(summaryCmd(app))
	rootCmd.AddCommand(moveCmd(app))
	rootCmd.AddCommand(dragCmd(app))
	rootCmd.AddCommand(addCmd(app))
	rootCmd.AddCommand(rmCmd(app))
	rootCmd.AddCommand(subtaskCmd(app))

	return rootCmd
}

// Execute runs joinctl against the process arguments.
func Execute(version string) error {
	app := NewApp(os.Stdout, os.Stderr)
	rootCmd := NewRootCmd(app)
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *App) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("JOIN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	a.log = logrus.New()
	a.log.SetOutput(a.ErrOut)
	level, err := logrus.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString(keyLogLevel))
	}
	a.log.SetLevel(level)

	a.sessions = session.NewStore(a.v.GetString(keyConfigDir), a.v.GetString(keySessionDir))
	return nil
}

func (a *App) client() *client.Client {
	return client.New(a.v.GetString(keyAPI), a.sessions,
		client.WithTimeout(a.v.GetDuration(keyTimeout)),
		client.WithRetry(a.v.GetInt(keyRetries), 500*time.Millisecond),
		client.WithLogger(a.log),
	)
}

// Alert prints a failure the user has to notice.
func (a *App) Alert(message string) {
	fmt.Fprintln(a.ErrOut, "⚠️  "+message)
}

// loadBoard requires a session and returns a board with every task loaded.
func (a *App) loadBoard(ctx context.Context) (*board.Board, error) {
	if _, err := a.sessions.Load(); err != nil {
		return nil, fmt.Errorf("%w, run joinctl login first", err)
	}
	b := board.New(a.client(), board.WithLogger(a.log), board.WithAlerter(a))
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
