package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/adapters/notify"
	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
	"github.com/kamal-hamza/zx-cli/internal/core/services"
	"github.com/kamal-hamza/zx-cli/pkg/config"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var (
	exportTUI   bool
	exportCopy  bool
	exportQuiet bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active viewport as a zip archive",
	Long: `Capture the active viewport of the session and save it together with
its patient and study metadata as report_<patient>_<date>.zip.

The archive holds two entries:
  - image.jpg     : the viewport rendering (JPEG, quality 0.9)
  - metadata.json : PatientName, StudyDate, StudyInstanceUID,
                    DisplaySetInstanceUID and ExportTimestamp`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExportCmd,
}

func init() {
	exportCmd.Flags().BoolVar(&exportTUI, "tui", false, "Show an animated progress display")
	exportCmd.Flags().BoolVarP(&exportCopy, "copy", "c", false, "Copy the saved archive path to the clipboard")
	exportCmd.Flags().BoolVarP(&exportQuiet, "quiet", "q", false, "Only print the outcome")
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var notifier ports.Notifier
	var progress *notify.Progress
	if (exportTUI || appConfig.ProgressStyle == config.ProgressTUI) && !exportQuiet {
		progress = notify.NewProgress("Zip Export", os.Stdout)
		notifier = progress
	} else {
		notifier = notify.NewTerminal(os.Stdout, exportQuiet)
	}

	result, err := runExport(ctx, newExportService(notifier), historyRepo)

	if progress != nil {
		if waitErr := progress.Wait(services.DefaultSuccessDuration); waitErr != nil {
			logger.L().Debug("progress display failed", helpers.Error(waitErr))
		}
	}
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatArchive("Saved to: " + result.SavedPath))
	if exportCopy || appConfig.CopyPathToClipboard {
		if err := clipboard.WriteAll(result.SavedPath); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		} else {
			fmt.Println(ui.FormatMuted("(Path copied to clipboard)"))
		}
	}
	return nil
}

// runExport performs one export and records it in the history
func runExport(ctx context.Context, svc *services.ExportService, history ports.HistoryRepository) (*domain.ExportResult, error) {
	result, err := svc.Execute(ctx)

	// History is bookkeeping; losing an entry never fails the export
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if herr := history.Append(recordCtx, *result); herr != nil {
		logger.L().Ctx(ctx).Warning("failed to record export history",
			helpers.String("exportID", result.ID),
			helpers.Error(herr))
	}

	return result, err
}
