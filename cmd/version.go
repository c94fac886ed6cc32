package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Aliases: []string{"v"},
	Long:    `Display the current version of zx along with build information. (alias: v)`,
	Run:     runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println(ui.StyleTitle.Render("ZX") + " - Viewport Zip Exporter")
	fmt.Println()
	fmt.Print(ui.RenderKeyValues(
		[]string{"Version", "Commit", "Build Date", "Go"},
		map[string]string{
			"Version":    Version,
			"Commit":     GitCommit,
			"Build Date": BuildDate,
			"Go":         runtime.Version(),
		},
	))
}
