package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rkorrapolu/sye-agent/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the merged configuration (file values over defaults) as YAML.
Secrets are redacted.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	redacted := redactSecrets(*theApp.cfg)

	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

// redactSecrets masks credentials on a copy of the config so it can be
// printed safely.
func redactSecrets(cfg config.Config) config.Config {
	if cfg.Graph.Password != "" {
		cfg.Graph.Password = "********"
	}
	for _, provider := range []*string{
		&cfg.LLM.First.APIKey,
		&cfg.LLM.Second.APIKey,
		&cfg.LLM.Arbiter.APIKey,
	} {
		if *provider != "" {
			*provider = "********"
		}
	}
	return cfg
}
