package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the local fetch cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show cache file counts and sizes",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, store, _, err := setup()
				if err != nil {
					return err
				}
				info := store.Stat()
				fmt.Printf("Cache directory: %s\n", info.Dir)
				fmt.Printf("Total files:     %d\n", info.TotalFiles)
				fmt.Printf("Valid files:     %d\n", info.ValidFiles)
				fmt.Printf("Expired files:   %d\n", info.ExpiredFiles)
				fmt.Printf("Total size:      %.2f MB\n", float64(info.TotalBytes)/(1024*1024))
				return nil
			},
		},
		&cobra.Command{
			Use:   "cleanup",
			Short: "Delete expired cache entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, store, _, err := setup()
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d expired entries\n", store.CleanupExpired())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cache entry",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, store, _, err := setup()
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d entries\n", store.ClearAll())
				return nil
			},
		},
	)

	return cmd
}
