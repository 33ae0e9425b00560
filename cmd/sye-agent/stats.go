package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge graph statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := theApp.connectGraph(ctx)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	svc, err := theApp.knowledgeService(client, nil)
	if err != nil {
		return err
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgCyan, color.Bold).Fprintln(out, "Knowledge graph")
	fmt.Fprintf(out, "  nodes:         %d\n", stats.TotalNodes)
	fmt.Fprintf(out, "  relationships: %d\n", stats.TotalRelationships)

	if len(stats.NodesByLabel) > 0 {
		labels := make([]string, 0, len(stats.NodesByLabel))
		for label := range stats.NodesByLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		fmt.Fprintln(out)
		for _, label := range labels {
			fmt.Fprintf(out, "  %-10s %d\n", label, stats.NodesByLabel[label])
		}
	}
	return nil
}
