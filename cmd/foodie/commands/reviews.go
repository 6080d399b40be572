package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

var (
	reviewRestaurant string
	reviewRating     int
	reviewContent    string
	reviewPhoto      string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Write, edit, and delete reviews",
}

func reviewRequest() domain.CreateReviewRequest {
	req := domain.CreateReviewRequest{
		RestaurantID: reviewRestaurant,
		Rating:       reviewRating,
		Content:      reviewContent,
	}
	if reviewPhoto != "" {
		req.PhotoURL = &reviewPhoto
	}
	return req
}

var reviewAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Review a restaurant",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		created, err := a.Catalog.CreateReview(ctx, reviewRequest())
		if err != nil {
			return err
		}
		fmt.Printf("Review %s posted (%d/5).\n", created.ID, created.Rating)
		return nil
	}),
}

var reviewEditCmd = &cobra.Command{
	Use:   "edit <review-id>",
	Short: "Edit one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withSession(func(ctx context.Context, a *app.App) error {
			updated, err := a.Catalog.UpdateReview(ctx, id, reviewRequest())
			if err != nil {
				return err
			}
			fmt.Printf("Review %s updated (%d/5).\n", updated.ID, updated.Rating)
			return nil
		})(cmd, args)
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete one of your reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withSession(func(ctx context.Context, a *app.App) error {
			if err := a.Catalog.DeleteReview(ctx, id, reviewRestaurant); err != nil {
				return err
			}
			fmt.Println("Review deleted.")
			return nil
		})(cmd, args)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{reviewAddCmd, reviewEditCmd} {
		cmd.Flags().StringVar(&reviewRestaurant, "restaurant", "", "Restaurant id")
		cmd.Flags().IntVar(&reviewRating, "rating", 0, "Rating 1-5")
		cmd.Flags().StringVar(&reviewContent, "content", "", "Review text (20 characters minimum)")
		cmd.Flags().StringVar(&reviewPhoto, "photo", "", "Photo URL (optional)")
		cmd.MarkFlagRequired("restaurant")
		cmd.MarkFlagRequired("rating")
		cmd.MarkFlagRequired("content")
	}
	reviewDeleteCmd.Flags().StringVar(&reviewRestaurant, "restaurant", "", "Restaurant id (refreshes its rating)")

	reviewCmd.AddCommand(reviewAddCmd, reviewEditCmd, reviewDeleteCmd)
	rootCmd.AddCommand(reviewCmd)
}
