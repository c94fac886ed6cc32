package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [export-id]",
	Short: "Remove leftover payloads or a saved archive",
	Long: `Remove transient archive payloads and other leftovers.

If no argument is provided, this command clears the cache directory. Payloads
are normally released at the end of every export; only an interrupted run
leaves one behind.
If an export id (or a unique prefix) is provided, the archive that run saved
is deleted instead.

Examples:
  zx clean            # Wipe the cache
  zx clean 3f2a9c1e   # Delete the archive saved by that export`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Cleaning cache... "))

		if err := appWorkspace.CleanCache(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		fmt.Println(ui.FormatSuccess("Done"))
		return nil
	}

	r, err := historyRepo.Get(getContext(), args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println(ui.FormatWarning("No export run matches: " + args[0]))
			return nil
		}
		return err
	}
	if r.SavedPath == "" {
		fmt.Println(ui.FormatWarning("Export " + shortID(r.ID) + " did not save an archive"))
		return nil
	}

	fmt.Printf("%s %s... ", ui.StyleWarning.Render("Removing"), r.SavedPath)
	if err := os.Remove(r.SavedPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println(ui.FormatMuted("already gone"))
			return nil
		}
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	return nil
}
