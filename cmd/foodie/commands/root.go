// Package commands implements the foodie CLI. Each subcommand builds the
// full client through internal/app, runs one interaction against the remote
// API, and prints a plain-text result.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
	"github.com/yuvi-2309/Foodie-Finder/internal/config"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"
)

var (
	// Global flags
	apiURL  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "foodie",
	Short: "Foodie Finder - discover and review restaurants from your terminal",
	Long: `Foodie Finder is a client for the restaurant discovery API.

Log in once; the session token is stored locally and reused until it
expires. All commands print plain text and exit non-zero on failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides FOODIE_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// newApp builds the wired client for one command invocation.
func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	log := logger.New("foodie-cli", level)

	return app.New(ctx, cfg, log, nil)
}

// withApp runs fn with a fully wired client and shuts it down afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Shutdown(ctx)

		return fn(ctx, a)
	}
}

// withSession is withApp plus a restored, valid session.
func withSession(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		if err := a.Session.Restore(ctx); err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return apperrors.Unauthorized("Not logged in. Run 'foodie login' first.")
		}
		return fn(ctx, a)
	})
}
