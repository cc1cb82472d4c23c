package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gurkanbulca/pronote/pkg/client"
)

// app is the state shared by every subcommand.
type app struct {
	server      string
	sessionPath string
	timeout     time.Duration
	out         io.Writer

	client      *client.Client
	unsubscribe func()
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:           "pronotectl",
		Short:         "Pronote command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.server, "server", envOr("PRONOTE_SERVER", "localhost:50051"), "server address")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", defaultSessionPath(), "session file")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "per-command timeout")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.profileCmd(),
		a.usersCmd(),
		a.dashboardCmd(),
		a.historyCmd(),
		a.taskCmd(),
		a.messageCmd(),
	)
	return root
}

// connect dials the server, restores the saved session and keeps the file
// in sync with every sign-in, refresh and sign-out.
func (a *app) connect() error {
	c, err := client.Dial(a.server)
	if err != nil {
		return err
	}
	s, err := loadSession(a.sessionPath)
	if err != nil {
		c.Close()
		return err
	}
	if s != nil {
		c.SetSession(s)
	}

	a.client = c
	a.unsubscribe = c.OnSessionChange(func(s *client.Session) {
		if err := saveSession(a.sessionPath, s); err != nil {
			printWarning(os.Stderr, "could not save session: "+err.Error())
		}
	})
	return nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	a.unsubscribe()
	return a.client.Close()
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
