package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the build version, commit, Go runtime and platform.
Also available as outreach --version or outreach -v.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo(cmd.OutOrStdout())
	},
}

// versionInfo holds the build-time version information
var (
	// These variables are set at build time using -ldflags
	version   = "dev"     // Semantic version (e.g., "v1.0.0")
	buildDate = "unknown" // Build timestamp
	gitCommit = ""        // Git commit hash
	gitTag    = ""        // Git tag (if building from tag)
	goVersion = runtime.Version()
)

// init adds flags and sets up the version command
func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().BoolP("version", "v", false, "Print version information and exit")

	// Bare "outreach" prints help; "outreach -v" prints the version.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			printVersionInfo(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	}
}

// printVersionInfo prints comprehensive version information
func printVersionInfo(w io.Writer) {
	fmt.Fprintf(w, "outreach version %s\n", version)

	if buildDate != "unknown" {
		fmt.Fprintf(w, "Build date: %s\n", buildDate)
	}

	if gitCommit != "" {
		fmt.Fprintf(w, "Git commit: %s\n", gitCommit)
		if gitTag != "" && gitTag != version {
			fmt.Fprintf(w, "Git tag: %s\n", gitTag)
		}
	}

	fmt.Fprintf(w, "Go version: %s\n", goVersion)

	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(w, "Module: %s\n", info.Main.Path)
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			fmt.Fprintf(w, "Module version: %s\n", info.Main.Version)
		}
	}

	fmt.Fprintf(w, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
