package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/services"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var viewportsCmd = &cobra.Command{
	Use:     "viewports",
	Aliases: []string{"ls"},
	Short:   "List the viewports of the session",
	Long: `List every viewport of the session with its display set, the patient and
study date an export would use, and whether a drawable surface was found.
The active viewport is marked with *. (alias: ls)`,
	RunE: runViewports,
}

// viewportRow is what the listing and the selector show for one viewport
type viewportRow struct {
	ID         string
	Active     bool
	DisplaySet string
	Patient    string
	StudyDate  string
	Modality   string
	Series     string
	Surface    string
}

func runViewports(cmd *cobra.Command, args []string) error {
	rows, err := loadViewportRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println(ui.FormatWarning("The session has no viewports."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: " "},
		{Header: "VIEWPORT"},
		{Header: "DISPLAY SET"},
		{Header: "PATIENT"},
		{Header: "STUDY DATE"},
		{Header: "SURFACE"},
	})
	for _, r := range rows {
		active := ""
		if r.Active {
			active = "*"
		}
		surface := "-"
		if r.Surface != "" {
			surface = "yes"
		}
		table.AddRow([]string{active, r.ID, r.DisplaySet, r.Patient, r.StudyDate, surface})
	}

	fmt.Println(ui.FormatTitle("Session: " + sessionStore.Root()))
	fmt.Println()
	fmt.Print(table.Render())
	return nil
}

// loadViewportRows reads the grid and resolves each viewport the way an
// export would, without failing on viewports that cannot be exported
func loadViewportRows() ([]viewportRow, error) {
	if !sessionStore.Exists() {
		fmt.Println(ui.FormatInfo("Run 'zx init --demo' to create a sample session"))
		return nil, fmt.Errorf("no session found at %s", sessionStore.Root())
	}

	state, err := sessionStore.LoadState()
	if err != nil {
		return nil, err
	}

	surfaces := map[string]string{}
	if infos, err := surfaceLocator.Surfaces(getContext()); err == nil {
		for _, info := range infos {
			surfaces[info.ViewportID] = firstNonEmpty(info.Source, "(no source)")
		}
	}

	identity := services.NewIdentityExtractor()
	dates := services.NewStudyDateExtractor()

	rows := make([]viewportRow, 0, len(state.Viewports))
	for _, vp := range state.Viewports {
		row := viewportRow{
			ID:         vp.ViewportID,
			Active:     vp.ViewportID == state.ActiveViewportID,
			DisplaySet: "-",
			Patient:    "-",
			StudyDate:  "-",
			Surface:    surfaces[vp.ViewportID],
		}

		if uids, ok := vp.DisplaySetUIDs(); ok {
			row.DisplaySet = uids[0]
			if ds, ok := sessionStore.DisplaySetByUID(uids[0]); ok {
				first := ds.FirstInstance()
				row.Patient = identity.Extract(first).Name
				row.StudyDate = dates.Extract(first, ds).Value
				row.Modality = firstNonEmpty(ds.Modality, stringValue(first, "Modality"))
				row.Series = firstNonEmpty(ds.SeriesDescription, stringValue(first, "SeriesDescription"))
			} else {
				row.DisplaySet += " (missing)"
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stringValue(m domain.Metadata, key string) string {
	s, _ := m.String(key)
	return s
}

// describe renders a row for the selector preview
func (r viewportRow) describe() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Viewport: %s\n", ui.StyleBold.Render(r.ID)))
	if r.Active {
		b.WriteString(ui.FormatMuted("(active)") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.StyleHeader.Render("Display Set") + "\n")
	b.WriteString(r.DisplaySet + "\n\n")
	b.WriteString(ui.StyleHeader.Render("Export") + "\n")
	b.WriteString(fmt.Sprintf("Patient:    %s\n", r.Patient))
	b.WriteString(fmt.Sprintf("Study date: %s\n", r.StudyDate))
	if r.Modality != "" {
		b.WriteString(fmt.Sprintf("Modality:   %s\n", r.Modality))
	}
	if r.Series != "" {
		b.WriteString(fmt.Sprintf("Series:     %s\n", r.Series))
	}
	b.WriteString("\n")
	if r.Surface != "" {
		b.WriteString(ui.FormatMuted("Surface: " + r.Surface))
	} else {
		b.WriteString(ui.FormatMuted("(No drawable surface found)"))
	}
	return b.String()
}
