package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkorrapolu/sye-agent/internal/knowledge"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

var lookupLabel string

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Look up a known entity by name",
	Long: `Looks up an entity in the knowledge graph, consulting the semantic
cache first. Near-duplicate phrasings of a cached name resolve
without touching the graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupLabel, "label", types.LabelSymptom,
		"entity label (Symptom, Cause, or Action)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := theApp.connectGraph(ctx)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	svc, err := theApp.knowledgeService(client, theApp.buildCache())
	if err != nil {
		return err
	}

	result, err := svc.QueryExisting(ctx, knowledge.QueryExistingRequest{
		Name:  args[0],
		Label: lookupLabel,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	dim := color.New(color.Faint)

	if len(result.Nodes) == 0 {
		fmt.Fprintf(out, "No %s named %q is known.\n", lookupLabel, args[0])
		dim.Fprintf(out, "source: %s\n", result.Source)
		return nil
	}

	for _, node := range result.Nodes {
		color.New(color.FgGreen).Fprintf(out, "%s", node.Name)
		fmt.Fprintf(out, "  [%s]\n", lookupLabel)
		fmt.Fprintf(out, "  id:         %s\n", node.ID)
		fmt.Fprintf(out, "  created:    %s\n", node.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  times seen: %d\n", node.TimesSeen)
	}
	dim.Fprintf(out, "source: %s\n", result.Source)
	return nil
}
