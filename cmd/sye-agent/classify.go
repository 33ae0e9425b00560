package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkorrapolu/sye-agent/internal/classifier"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a production error into symptom, cause, and action",
	Long: `Runs the multi-model classification pipeline over the given text.
When no argument is given, the input is read from stdin, so log
excerpts can be piped in directly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "emit the full result as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	input, err := classifyInput(args)
	if err != nil {
		return err
	}

	pipeline, cleanup, err := theApp.buildPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := pipeline.Classify(cmd.Context(), input)
	if err != nil {
		return err
	}

	if classifyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func classifyInput(args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", fmt.Errorf("no input: pass text as an argument or pipe it to stdin")
	}
	return input, nil
}

func printResult(w io.Writer, result *classifier.Result) {
	heading := color.New(color.FgCyan, color.Bold)
	category := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	heading.Fprintln(w, "Classification")
	dim.Fprintf(w, "  id: %s\n", result.ClassificationID)
	if result.ParsedLog != nil {
		dim.Fprintf(w, "  log severity: %s\n", result.ParsedLog.Severity)
	}
	fmt.Fprintln(w)

	printCategory(w, category, "Symptom", result.Final.Symptom, result.Final.SymptomConfidence)
	printCategory(w, category, "Cause", result.Final.Cause, result.Final.CauseConfidence)
	printCategory(w, category, "Action", result.Final.Action, result.Final.ActionConfidence)

	if len(result.SemanticMatches) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Similar known entities")
		for _, label := range []string{types.LabelSymptom, types.LabelCause, types.LabelAction} {
			for _, node := range result.SemanticMatches[label] {
				fmt.Fprintf(w, "  %-8s %s (seen %d times)\n", label, node.Name, node.TimesSeen)
			}
		}
	}

	if result.GraphWrite != nil {
		fmt.Fprintln(w)
		dim.Fprintf(w, "graph: %d nodes, %d relationships (run %s)\n",
			result.GraphWrite.NodesCreated,
			result.GraphWrite.RelationshipsCreated,
			result.GraphWrite.RunID)
	}
}

func printCategory(w io.Writer, c *color.Color, name, text string, confidence float64) {
	c.Fprintf(w, "%-8s", name)
	fmt.Fprintf(w, " %s ", text)
	color.New(color.FgYellow).Fprintf(w, "(%.0f%%)\n", confidence*100)
}
