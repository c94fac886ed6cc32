package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/adapters/notify"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

var watchQuiet bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Export whenever the viewer requests it",
	Long: `Watch the session directory for the trigger file (trigger_file in the
config, export.request by default). Each time the file is created or
written, it is removed and the active viewport is exported.

Requests that arrive while an export is running are rejected with
"An export is already running".`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print export outcomes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(sessionDir); err != nil {
		return fmt.Errorf("failed to watch session directory: %w", err)
	}

	trigger := filepath.Join(sessionDir, appConfig.TriggerFile)

	if !watchQuiet {
		fmt.Println(ui.IconWatch + " " + ui.StyleInfo.Render("Watching for export requests..."))
		fmt.Println(ui.FormatMuted("Trigger: " + trigger))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	// One service for the whole session so overlapping requests hit the
	// in-flight guard
	svc := newExportService(notify.NewTerminal(os.Stdout, watchQuiet))

	doExport := func() {
		if err := os.Remove(trigger); err != nil && !os.IsNotExist(err) {
			logger.L().Ctx(ctx).Warning("failed to remove trigger file",
				helpers.String("path", trigger),
				helpers.Error(err))
		}

		result, err := runExport(ctx, svc, historyRepo)
		if err != nil {
			logger.L().Debug("watch export finished with error", helpers.Error(err))
			return
		}
		fmt.Println(ui.FormatArchive("Saved to: " + result.SavedPath))
		fmt.Println()
	}

	var debounceTimer *time.Timer
	debounce := appConfig.WatchDebounce()

	// Event loop
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != trigger {
				continue
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, doExport)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.L().Ctx(ctx).Warning("watcher error", helpers.Error(err))

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watcher stopped"))
			}
			return nil
		}
	}
}
