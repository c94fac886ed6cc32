package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kubescape/go-logger"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/internal/adapters/download"
	"github.com/kamal-hamza/zx-cli/internal/adapters/repository"
	"github.com/kamal-hamza/zx-cli/internal/adapters/session"
	"github.com/kamal-hamza/zx-cli/internal/adapters/surface"
	"github.com/kamal-hamza/zx-cli/internal/core/ports"
	"github.com/kamal-hamza/zx-cli/internal/core/services"
	"github.com/kamal-hamza/zx-cli/pkg/config"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
	"github.com/kamal-hamza/zx-cli/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Adapters
	sessionStore   *session.Store
	surfaceLocator *surface.DocumentLocator
	historyRepo    *repository.FileHistoryRepository

	// Resolved locations
	sessionDir string
	outputDir  string

	// Global flags
	sessionFlag string
	outputFlag  string
	verboseFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zx",
	Short: "ZX - viewport snapshot and metadata archive exporter",
	Long: ui.StyleTitle.Render("ZX") + " - Viewport Zip Exporter\n\n" +
		"Captures the active viewport of a viewer session as a JPEG and packages it\n" +
		"with the patient and study metadata into a single zip archive.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(viewportsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session directory or session name (overrides session_dir)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Directory archives are saved to (overrides output_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Write debug diagnostics to stderr")
}

// skipsInitialization lists the commands that run without a workspace
func skipsInitialization(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "version", "help":
		return true
	}
	return false
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipsInitialization(cmd) {
		return nil
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Workspace not initialized"))
		fmt.Println(ui.FormatInfo("Run 'zx init' to initialize the workspace"))
		return fmt.Errorf("workspace not found at %s", appWorkspace.RootPath)
	}

	cfg, err := config.Load(appWorkspace.ConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)
	configureLogger(appConfig.LogLevel)

	sessionDir = resolveSessionDir(firstNonEmpty(sessionFlag, appConfig.SessionDir))
	outputDir = firstNonEmpty(outputFlag, appConfig.OutputDir, appWorkspace.ExportsPath)

	sessionStore = session.NewStore(sessionDir)
	surfaceLocator = surface.NewDocumentLocator(sessionStore.DocumentPath())
	historyRepo = repository.NewFileHistoryRepository(appWorkspace.HistoryPath(), appConfig.HistoryLimit)

	return nil
}

func configureLogger(level string) {
	if verboseFlag {
		level = "debug"
	}
	logger.L().SetWriter(os.Stderr)
	if err := logger.L().SetLevel(level); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatWarning("Unknown log_level "+level+", keeping default"))
	}
}

// newExportService wires the session adapters into an export pipeline
func newExportService(notifier ports.Notifier) *services.ExportService {
	return services.NewExportService(services.ExportDeps{
		Grid:        sessionStore,
		DisplaySets: sessionStore,
		Surfaces:    surfaceLocator,
		Blobs:       download.NewFileBlobStore(appWorkspace.CachePath),
		Trigger:     download.NewFileSaver(outputDir, appConfig.OverwriteExisting),
		Notifier:    notifier,
	}, services.ExportOptions{
		CaptureTimeout: appConfig.CaptureTimeout(),
		InfoDuration:   appConfig.NotifyDuration(),
	})
}

// resolveSessionDir maps a bare name to a session under the workspace.
// Anything that looks like a path is used as is.
func resolveSessionDir(value string) string {
	if value == "" {
		return appWorkspace.DefaultSessionPath()
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		return value
	}
	if info, err := os.Stat(value); err == nil && info.IsDir() {
		return value
	}
	return appWorkspace.GetSessionPath(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getContext returns a context cancelled on interrupt
func getContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
