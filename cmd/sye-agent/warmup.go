package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkorrapolu/sye-agent/internal/knowledge"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Pre-populate the semantic cache from the knowledge graph",
	Long: `Streams every named node out of the graph and stores it in the
semantic cache so subsequent lookups resolve without a graph
round trip. Typically run once at startup.`,
	RunE: runWarmup,
}

func runWarmup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cache := theApp.buildCache()
	if cache == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"warmup requires a working semantic cache; check vector and embedder config")
	}

	client, err := theApp.connectGraph(ctx)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	warmup, err := knowledge.NewWarmup(client, cache, theApp.logger)
	if err != nil {
		return err
	}

	counts, err := warmup.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgCyan, color.Bold).Fprintln(out, "Cache warmed")

	labels := make([]string, 0, len(counts))
	total := 0
	for label, n := range counts {
		labels = append(labels, label)
		total += n
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(out, "  %-10s %d\n", label, counts[label])
	}
	fmt.Fprintf(out, "  %-10s %d\n", "total", total)
	return nil
}
