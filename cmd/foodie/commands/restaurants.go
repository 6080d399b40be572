package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
)

var (
	searchMinRating float64
	searchSortBy    string
	searchOrder     string

	addLocation string
	addAddress  string
)

var restaurantsCmd = &cobra.Command{
	Use:   "restaurants",
	Short: "Browse and manage restaurants",
}

var restaurantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all restaurants",
	RunE: withApp(func(ctx context.Context, a *app.App) error {
		restaurants, err := a.Catalog.List(ctx)
		if err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tRATING\tREVIEWS")
		for _, r := range restaurants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\n",
				r.ID, r.Name, r.Location, r.Rating(), r.ReviewCount())
		}
		return w.Flush()
	}),
}

var restaurantsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search restaurants by name, location, or cuisine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		return withApp(func(ctx context.Context, a *app.App) error {
			results, err := a.Catalog.Search(ctx, domain.SearchParams{
				Query:     query,
				MinRating: searchMinRating,
				SortBy:    searchSortBy,
				Order:     searchOrder,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No restaurants matched.")
				return nil
			}
			printResults(results)
			return nil
		})(cmd, args)
	},
}

var restaurantsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one restaurant with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApp(func(ctx context.Context, a *app.App) error {
			r, err := a.Catalog.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", r.Name, r.Location)
			if r.Cuisine != "" {
				fmt.Println("Cuisine:", r.Cuisine)
			}
			if r.Address != "" {
				fmt.Println("Address:", r.Address)
			}
			fmt.Printf("Rating: %.1f from %d reviews\n", r.Rating(), r.ReviewCount())
			for _, rv := range a.Catalog.Reviews() {
				fmt.Printf("\n  [%d/5] %s\n  %s\n", rv.Rating, rv.Username, rv.Content)
			}
			return nil
		})(cmd, args)
	},
}

var restaurantsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a restaurant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		return withSession(func(ctx context.Context, a *app.App) error {
			created, err := a.Catalog.Create(ctx, domain.CreateRestaurantRequest{
				Name:     name,
				Location: addLocation,
				Address:  addAddress,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", created.Name, created.ID)
			return nil
		})(cmd, args)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show personalized recommendations",
	RunE: withSession(func(ctx context.Context, a *app.App) error {
		results, err := a.Catalog.Recommendations(ctx)
		if errors.Is(err, apperrors.ErrNoHistory) {
			fmt.Println("Start reviewing restaurants to get personalized recommendations!")
			return nil
		}
		if err != nil {
			return err
		}
		printResults(results)
		return nil
	}),
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printResults(results []domain.SearchResult) {
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tRATING\tREVIEWS")
	for _, r := range results {
		rating := 0.0
		if r.AverageRating != nil {
			rating = *r.AverageRating
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\n",
			r.ID, r.Name, r.Location, rating, r.ReviewCount)
	}
	w.Flush()
}

func init() {
	restaurantsSearchCmd.Flags().Float64Var(&searchMinRating, "min-rating", 0, "Minimum average rating")
	restaurantsSearchCmd.Flags().StringVar(&searchSortBy, "sort", domain.SortByRating, "Sort field: rating or name")
	restaurantsSearchCmd.Flags().StringVar(&searchOrder, "order", domain.OrderDesc, "Sort order: asc or desc")

	restaurantsAddCmd.Flags().StringVar(&addLocation, "location", "", "City or area")
	restaurantsAddCmd.Flags().StringVar(&addAddress, "address", "", "Street address")
	restaurantsAddCmd.MarkFlagRequired("location")

	restaurantsCmd.AddCommand(restaurantsListCmd, restaurantsSearchCmd, restaurantsGetCmd, restaurantsAddCmd)
	rootCmd.AddCommand(restaurantsCmd, recommendCmd)
}
