package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information including build time and git commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return printVersion(cmd.OutOrStdout(), output)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
}

func printVersion(out io.Writer, format string) error {
	info := api.GetVersion()

	if format == "json" {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		printf(out, "%s\n", data)
		return nil
	}

	printf(out, "RouteScribe %s\n", info.App)
	printf(out, "API version: %s\n", info.API)
	printf(out, "Build time:  %s\n", info.Build)
	printf(out, "Git commit:  %s\n", info.Commit)
	printf(out, "Go version:  %s\n", info.Runtime)
	return nil
}
