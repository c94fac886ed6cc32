package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/adapters/archive"
	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var inspectRaw bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [archive.zip]",
	Short: "Show the contents of an export archive",
	Long: `List the entries of an export archive, check that it has the expected
layout and print its metadata.json.

Without an argument the most recent successful export is inspected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectRaw, "raw", false, "Print metadata.json without highlighting")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := resolveArchivePath(args)
	if err != nil {
		return err
	}

	a, err := archive.Open(path)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(path))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "#", Align: "right"},
		{Header: "ENTRY"},
		{Header: "METHOD"},
		{Header: "SIZE", Align: "right"},
		{Header: "PACKED", Align: "right"},
	})
	for i, e := range a.Entries {
		table.AddRow([]string{
			fmt.Sprintf("%d", i+1),
			e.Name,
			e.MethodName(),
			fmt.Sprintf("%d", e.Size),
			fmt.Sprintf("%d", e.CompressedSize),
		})
	}
	fmt.Print(table.Render())
	fmt.Println()

	if problems := a.Problems(); len(problems) > 0 {
		fmt.Println(ui.FormatWarning("Archive layout problems:"))
		fmt.Print(ui.RenderSimpleList(problems))
		fmt.Println()
	} else {
		fmt.Println(ui.FormatSuccess("Archive layout is valid"))
		fmt.Println()
	}

	if len(a.RawMetadata) > 0 {
		fmt.Println(ui.StyleHeader.Render(domain.MetadataEntryName))
		content := string(a.RawMetadata)
		if !inspectRaw {
			content = highlight(content, "json")
		}
		fmt.Println(content)
	}

	return nil
}

// resolveArchivePath returns the argument, or the newest successful export
func resolveArchivePath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	results, err := historyRepo.List(getContext())
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if r.Succeeded() && r.SavedPath != "" {
			return r.SavedPath, nil
		}
	}
	return "", fmt.Errorf("no successful export recorded yet; pass an archive path")
}

// highlight applies terminal syntax highlighting for the given language
func highlight(content, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	if err := formatter.Format(&buf, style, iterator); err != nil {
		return content
	}

	return buf.String()
}
