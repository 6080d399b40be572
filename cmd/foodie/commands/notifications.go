package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "View and manage notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		if err := a.Notifier.Refresh(ctx); err != nil {
			return err
		}
		list := a.Notifier.Notifications()
		if len(list) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range list {
			marker := "*"
			if n.Display() {
				marker = " "
			}
			fmt.Printf("%s %s  %s\n", marker, n.ID, n.Message)
		}
		fmt.Printf("\n%d unread\n", a.Notifier.UnreadCount())

		// Listing counts as seeing; the badge resets but the server's
		// read flags are untouched.
		return a.Notifier.MarkAllAsSeen()
	}),
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withSession(func(ctx context.Context, a *app.App) error {
			if err := a.Notifier.Refresh(ctx); err != nil {
				return err
			}
			if err := a.Notifier.MarkAsRead(ctx, id); err != nil {
				return err
			}
			fmt.Println("Marked as read.")
			return nil
		})(cmd, args)
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every unread notification as read",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		if err := a.Notifier.Refresh(ctx); err != nil {
			return err
		}
		a.Notifier.MarkAllAsRead(ctx)
		fmt.Println("All notifications marked as read.")
		return nil
	}),
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for notifications until interrupted",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.Notifier.Start(watchCtx)
		defer a.Notifier.Stop()

		fmt.Println("Watching for notifications (Ctrl-C to stop)...")
		<-watchCtx.Done()
		fmt.Printf("\n%d unread notification(s).\n", a.Notifier.UnreadCount())
		return nil
	}),
}

func init() {
	notificationsCmd.AddCommand(
		notificationsListCmd,
		notificationsReadCmd,
		notificationsReadAllCmd,
		notificationsWatchCmd,
	)
	rootCmd.AddCommand(notificationsCmd)
}
