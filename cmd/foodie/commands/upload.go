package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yuvi-2309/Foodie-Finder/internal/app"
	"github.com/yuvi-2309/Foodie-Finder/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a review photo and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return withSession(func(ctx context.Context, a *app.App) error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			contentType := mime.TypeByExtension(filepath.Ext(path))
			if err := upload.ValidateFile(contentType, info.Size()); err != nil {
				return err
			}

			url, err := a.Uploader.Upload(ctx, filepath.Base(path), contentType, info.Size(), f)
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
