package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/pkg/ui"
	"github.com/kamal-hamza/zx-cli/pkg/workspace"
)

var initDemo bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the zx workspace",
	Long: `Initialize the zx workspace directory structure.

This creates the managed workspace at ~/.local/share/zx/ with the following structure:
  - sessions/   : Viewer sessions (session.yaml, displaysets/, document.html)
  - exports/    : Saved archives and the export history
  - cache/      : Transient archive payloads
and a commented config file at ~/.config/zx/config.yaml.

With --demo a sample session with two viewports is written to
sessions/current, ready for 'zx export'.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDemo, "demo", false, "Also write a sample session")
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine workspace location"))
		return err
	}

	if ws.Exists() {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + ws.RootPath))
	} else {
		fmt.Println(ui.FormatLaunch("Initializing zx workspace..."))
		fmt.Println()

		if err := ws.Initialize(); err != nil {
			fmt.Println(ui.FormatError("Failed to initialize workspace"))
			return err
		}

		// Config is optional, defaults apply without it
		if err := createDefaultConfig(ws); err != nil {
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Config file created"))
		}
	}

	if initDemo {
		dir := ws.DefaultSessionPath()
		if err := writeDemoSession(dir); err != nil {
			fmt.Println(ui.FormatError("Failed to write demo session"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Demo session written"))
		fmt.Println(ui.FormatMuted("Session: " + dir))
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", ws.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", ws.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	if initDemo {
		fmt.Println(ui.FormatMuted("  1. List the viewports: zx viewports"))
		fmt.Println(ui.FormatMuted("  2. Export the active one: zx export"))
		fmt.Println(ui.FormatMuted("  3. Look inside the archive: zx inspect"))
	} else {
		fmt.Println(ui.FormatMuted("  1. Point session_dir in the config at your viewer session"))
		fmt.Println(ui.FormatMuted("  2. Export the active viewport: zx export"))
		fmt.Println(ui.FormatMuted("  3. Or try it out first: zx init --demo"))
	}

	return nil
}

func createDefaultConfig(ws *workspace.Workspace) error {
	defaultConfig := `# ZX Configuration
# This file is optional - all settings have sensible defaults

# Session directory written by the viewer (default: sessions/current)
# session_dir: ""

# File the viewer creates in the session directory to request an export
# trigger_file: "export.request"

# Where archives are saved (default: the workspace exports/ directory)
# output_dir: ""

# How long to wait for the viewport image, 0 waits forever
# capture_timeout_ms: 30000

# Replace an archive with the same name instead of numbering the new one
# overwrite_existing: false

# Copy the saved path to the clipboard after each export
# copy_path_to_clipboard: false

# Number of runs kept in the export history
# history_limit: 100

# Progress display: "plain" or "tui"
# progress_style: plain

# How long progress notifications stay up
# notify_duration_ms: 2000

# Color theme: "auto", "dark" or "light"
# color_theme: auto

# Diagnostics written to stderr: "debug", "info", "warning", "error"
# log_level: warning

# Quiet period before a trigger file starts an export
# watch_debounce_ms: 500
`

	configDir := filepath.Dir(ws.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(ws.ConfigPath); err == nil {
		return nil
	}
	return os.WriteFile(ws.ConfigPath, []byte(defaultConfig), 0644)
}
