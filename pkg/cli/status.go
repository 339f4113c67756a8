package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/pkg/types"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored documentation statistics",
	Long:  "Display the storage driver, the number of stored records and when they were last updated",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := loadConfig(configPath())
		if err != nil {
			return err
		}
		cfg := manager.Get()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		return runStatus(cmd.Context(), cfg.Storage, statusFormat, cmd.OutOrStdout())
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusFormat, "output", "o", "text", "output format (text, json)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context, cfg types.StorageConfig, format string, out io.Writer) error {
	store, err := storage.NewFactory().Create(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read storage statistics: %w", err)
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		printf(out, "%s\n", data)
	default:
		printf(out, "Storage:           %s\n", stats.Driver)
		printf(out, "Documented routes: %d\n", stats.TotalDocs)
		printf(out, "With response:     %d\n", stats.DocsWithResponse)
		if !stats.LastUpdated.IsZero() {
			printf(out, "Last updated:      %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
		} else {
			printf(out, "Last updated:      never\n")
		}
	}
	return nil
}
