package cmd

import (
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var selectCmd = &cobra.Command{
	Use:   "select [viewport-id]",
	Short: "Choose the active viewport",
	Long: `Make a viewport the active one, so the next export captures it.

Without an argument an interactive fuzzy finder lists the session's viewports
with the patient and study an export would use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	var target string

	if len(args) == 1 {
		target = args[0]
	} else {
		rows, err := loadViewportRows()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println(ui.FormatWarning("The session has no viewports."))
			return nil
		}

		idx, err := fuzzyfinder.Find(
			rows,
			func(i int) string {
				r := rows[i]
				return fmt.Sprintf("%s  %s  %s  %s", r.ID, r.Patient, r.StudyDate, r.DisplaySet)
			},
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				return rows[i].describe()
			}),
		)
		if err != nil {
			fmt.Println(ui.FormatInfo("Selection cancelled."))
			return nil
		}
		target = rows[idx].ID
	}

	if err := sessionStore.SetActiveViewport(target); err != nil {
		return err
	}

	fmt.Println(ui.FormatCapture("Active viewport: " + target))
	return nil
}
