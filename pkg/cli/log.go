package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/johnnynv/RouteScribe/pkg/logger"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log management commands",
	Long:  "Inspect and rotate the log file configured by app.log_file",
}

var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show log file statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := fileLoggerManager()
		if err != nil {
			return err
		}
		defer logs.Close()
		return printLogStats(cmd.OutOrStdout(), logs)
	},
}

var logRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the log file now",
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := fileLoggerManager()
		if err != nil {
			return err
		}
		defer logs.Close()

		if err := logs.RotateLog(); err != nil {
			return fmt.Errorf("failed to rotate log: %w", err)
		}
		printf(cmd.OutOrStdout(), "Log rotation completed\n")
		return nil
	},
}

func init() {
	logCmd.AddCommand(logStatsCmd)
	logCmd.AddCommand(logRotateCmd)
	rootCmd.AddCommand(logCmd)
}

// fileLoggerManager opens the configured log file without the level and
// format overrides, which do not matter here
func fileLoggerManager() (*logger.Manager, error) {
	manager, err := loadConfig(configPath())
	if err != nil {
		return nil, err
	}
	cfg := manager.GetLoggerConfig()
	if cfg.Output == "" || cfg.Output == "stdout" || cfg.Output == "stderr" {
		return nil, fmt.Errorf("app.log_file is not set, logs go to %s", cfg.Output)
	}
	return logger.NewManager(cfg)
}

func printLogStats(out io.Writer, logs *logger.Manager) error {
	stats, err := logs.GetLogStats()
	if err != nil {
		return fmt.Errorf("failed to get log stats: %w", err)
	}

	printf(out, "Current file:  %s\n", stats.CurrentFile)
	printf(out, "Current size:  %s\n", stats.FormatSize(stats.CurrentSize))
	if !stats.LastModified.IsZero() {
		printf(out, "Last modified: %s\n", stats.LastModified.Format("2006-01-02 15:04:05"))
	}
	printf(out, "Max size:      %d MB\n", stats.MaxSize)
	printf(out, "Max age:       %d days\n", stats.MaxAge)
	printf(out, "Max backups:   %d\n", stats.MaxBackups)
	printf(out, "Compression:   %t\n", stats.Compress)

	if stats.MaxSize > 0 {
		used := float64(stats.CurrentSize) / float64(stats.MaxSize*1024*1024)
		if used > 0.8 {
			printf(out, "Warning: log file is %.1f%% of max size\n", used*100)
		}
	}
	return nil
}
