package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

var (
	email    string
	password string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session locally",
	RunE: withApp(func(ctx context.Context, a *app.App) error {
		pw, err := resolvePassword()
		if err != nil {
			return err
		}
		user, err := a.Session.Login(ctx, domain.LoginRequest{Email: email, Password: pw})
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Email)
		return nil
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: withApp(func(ctx context.Context, a *app.App) error {
		pw, err := resolvePassword()
		if err != nil {
			return err
		}
		user, err := a.Session.Register(ctx, domain.RegisterRequest{Email: email, Password: pw})
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s! You are now logged in.\n", user.Username)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: withApp(func(ctx context.Context, a *app.App) error {
		a.Session.Logout()
		fmt.Println("Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		user := a.Session.CurrentUser()
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		if user.DisplayName != "" {
			fmt.Println("Display name:", user.DisplayName)
		}
		return nil
	}),
}

// resolvePassword prefers the flag, else prompts without echo.
func resolvePassword() (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
		cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
		cmd.MarkFlagRequired("email")
	}

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
