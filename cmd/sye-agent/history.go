package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rkorrapolu/sye-agent/internal/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent classifications",
	RunE:  runHistory,
}

var getCmd = &cobra.Command{
	Use:   "get <classification-id>",
	Short: "Show a stored classification",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of records")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, dao, err := theApp.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := dao.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No classifications stored yet.")
		return nil
	}

	dim := color.New(color.Faint)
	for _, record := range records {
		dim.Fprintf(out, "%s  %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"), record.ID)
		fmt.Fprintf(out, "  %s\n", record.Symptom.Text)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	db, dao, err := theApp.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := dao.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgCyan, color.Bold).Fprintf(out, "Classification %s\n", record.ID)
	color.New(color.Faint).Fprintf(out, "  classified: %s\n\n", record.CreatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(out, "Input:\n  %s\n\n", record.Input)
	printStoredCategory(out, "Symptom", record.Symptom)
	printStoredCategory(out, "Cause", record.Cause)
	printStoredCategory(out, "Action", record.Action)

	if len(record.Metadata) > 0 {
		fmt.Fprintln(out)
		for key, value := range record.Metadata {
			color.New(color.Faint).Fprintf(out, "  %s: %s\n", key, value)
		}
	}
	return nil
}

func printStoredCategory(out io.Writer, name string, result database.CategoryResult) {
	color.New(color.FgGreen).Fprintf(out, "%-8s", name)
	fmt.Fprintf(out, " %s ", result.Text)
	color.New(color.FgYellow).Fprintf(out, "(%.0f%%)\n", result.Confidence*100)
}
