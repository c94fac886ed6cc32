package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var (
	historyLimit      int
	historyFailedOnly bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "List previous export runs",
	Long: `List previous export runs, newest first, with their outcome.
Failed runs show the phase they failed in and the reason. (alias: h)`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the details of one export run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyFailedOnly, "failed", false, "Only show failed runs")
	historyCmd.AddCommand(historyShowCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	results, err := historyRepo.List(getContext())
	if err != nil {
		return err
	}

	if historyFailedOnly {
		filtered := results[:0]
		for _, r := range results {
			if !r.Succeeded() {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if len(results) == 0 {
		fmt.Println(ui.FormatInfo("No exports recorded yet."))
		return nil
	}

	total := len(results)
	if historyLimit > 0 && len(results) > historyLimit {
		results = results[:historyLimit]
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID"},
		{Header: "STATUS"},
		{Header: "WHEN"},
		{Header: "RESULT"},
	})
	for _, r := range results {
		table.AddRow([]string{
			shortID(r.ID),
			statusLabel(r),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			outcome(r),
		})
	}

	fmt.Print(table.Render())
	if total > len(results) {
		fmt.Println()
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Showing %d of %d runs", len(results), total)))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	r, err := historyRepo.Get(getContext(), args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no export run matches %q", args[0])
		}
		return err
	}

	values := map[string]string{
		"ID":       r.ID,
		"Status":   statusLabel(*r),
		"Started":  r.StartedAt.Local().Format("2006-01-02 15:04:05.000"),
		"Duration": r.FinishedAt.Sub(r.StartedAt).String(),
		"Message":  r.Message,
		"Trace":    formatTrace(r.Trace),
	}
	keys := []string{"ID", "Status", "Started", "Duration"}
	if r.Succeeded() {
		values["Filename"] = r.Filename
		values["Saved to"] = r.SavedPath
		keys = append(keys, "Filename", "Saved to")
	} else {
		values["Phase"] = string(r.Phase)
		values["Condition"] = string(r.Condition)
		keys = append(keys, "Phase", "Condition")
	}
	keys = append(keys, "Message", "Trace")

	fmt.Println(ui.FormatTitle("Export " + shortID(r.ID)))
	fmt.Println()
	fmt.Print(ui.RenderKeyValues(keys, values))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(r domain.ExportResult) string {
	if r.Succeeded() {
		return ui.StyleSuccess.Render(ui.IconSuccess + " " + string(r.Status))
	}
	return ui.StyleError.Render(ui.IconError + " " + string(r.Status))
}

func outcome(r domain.ExportResult) string {
	if r.Succeeded() {
		return r.Filename
	}
	return fmt.Sprintf("%s in %s", r.Condition, r.Phase)
}

func formatTrace(trace []domain.Phase) string {
	parts := make([]string, len(trace))
	for i, p := range trace {
		parts[i] = string(p)
	}
	return strings.Join(parts, " → ")
}
