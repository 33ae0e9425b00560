package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rkorrapolu/sye-agent/internal/version"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sye-agent",
	Short: "Production incident triage assistant",
	Long: `sye-agent classifies production errors and log excerpts into
symptom, cause, and action triples using a multi-model pipeline,
persists them into a Neo4j knowledge graph, and answers entity
lookups through a semantic cache.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file (default ~/.sye-agent/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"override logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "",
		"override logging format (text, json)")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(warmupCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("sye-agent %s (commit %s, built %s)\n",
			version.Version, version.Commit, version.Date)
	},
}

// defaultConfigPath returns ~/.sye-agent/config.yaml, or a relative path
// when the home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".sye-agent", "config.yaml")
}

// expandHome resolves a leading ~ in configured paths.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// skipSetup reports whether cmd needs no configuration to run.
func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}
