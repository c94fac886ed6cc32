package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/services"
	"github.com/kamal-hamza/zx-cli/pkg/metadata"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var (
	metadataAll    bool
	metadataFile   string
	metadataStrict bool
	metadataRaw    bool
)

var metadataCmd = &cobra.Command{
	Use:     "metadata [viewport-id]",
	Aliases: []string{"meta"},
	Short:   "Show the instance metadata an export reads",
	Long: `Print the normalized metadata of the first instance shown in a viewport
(the active one by default) and the patient name and study date an export
would derive from it.

  --all          list every display set of the session instead
  --file <path>  normalize a standalone instance JSON file
  --strict       with --file, fail on malformed attributes (alias: meta)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMetadata,
}

func init() {
	metadataCmd.Flags().BoolVarP(&metadataAll, "all", "a", false, "List all display sets")
	metadataCmd.Flags().StringVarP(&metadataFile, "file", "f", "", "Normalize an instance metadata file")
	metadataCmd.Flags().BoolVar(&metadataStrict, "strict", false, "Reject malformed attributes")
	metadataCmd.Flags().BoolVar(&metadataRaw, "raw", false, "Print without highlighting")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	switch {
	case metadataFile != "":
		return showMetadataFile(metadataFile)
	case metadataAll:
		return listDisplaySets()
	}

	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		active, ok := sessionStore.ActiveViewportID()
		if !ok {
			fmt.Println(ui.FormatWarning(domain.ConditionNoActiveViewport.Describe()))
			return nil
		}
		id = active
	}

	state, err := sessionStore.LoadState()
	if err != nil {
		return err
	}
	vp, ok := state.Viewport(id)
	if !ok {
		return fmt.Errorf("viewport %q is not part of the session", id)
	}
	uids, ok := vp.DisplaySetUIDs()
	if !ok {
		fmt.Println(ui.FormatWarning(domain.ConditionNoDisplaySetsInViewport.Describe()))
		return nil
	}
	ds, ok := sessionStore.DisplaySetByUID(uids[0])
	if !ok {
		return fmt.Errorf("display set %s: %w", uids[0], domain.ErrDisplaySetNotFound)
	}

	first := ds.FirstInstance()
	patient := services.NewIdentityExtractor().Extract(first)
	date := services.NewStudyDateExtractor().Extract(first, ds)

	fmt.Println(ui.FormatTitle("Viewport " + id))
	fmt.Println()
	fmt.Print(ui.RenderKeyValues(
		[]string{"Display set", "Patient", "Name from", "Study date", "Archive"},
		map[string]string{
			"Display set": ds.DisplaySetInstanceUID,
			"Patient":     patient.Name,
			"Name from":   string(patient.Source),
			"Study date":  date.Value,
			"Archive":     services.Filename(patient, date),
		},
	))
	fmt.Println()

	return printMetadata(first)
}

func showMetadataFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	extract := metadata.Extract
	if metadataStrict {
		extract = metadata.ExtractStrict
	}
	m, err := extract(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return printMetadata(m)
}

func printMetadata(m domain.Metadata) error {
	out, err := metadata.Format(m)
	if err != nil {
		return err
	}
	if !metadataRaw {
		out = highlight(out, "json")
	}
	fmt.Print(out)
	return nil
}

func listDisplaySets() error {
	sets, err := sessionStore.DisplaySets(getContext())
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println(ui.FormatWarning("The session has no display sets."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "DISPLAY SET"},
		{Header: "MODALITY"},
		{Header: "SERIES"},
		{Header: "INSTANCES", Align: "right"},
	})
	for _, ds := range sets {
		first := ds.FirstInstance()
		table.AddRow([]string{
			ds.DisplaySetInstanceUID,
			firstNonEmpty(ds.Modality, stringValue(first, "Modality"), "-"),
			firstNonEmpty(ds.SeriesDescription, stringValue(first, "SeriesDescription"), "-"),
			fmt.Sprintf("%d", len(ds.Instances)),
		})
	}
	fmt.Print(table.Render())
	return nil
}
