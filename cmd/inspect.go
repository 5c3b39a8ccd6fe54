package cmd

import (
	"fmt"

	"forceu8exe/internal/logger"
	"forceu8exe/internal/manifest"
	"github.com/spf13/cobra"
)

// inspectCmd lists the manifests embedded in an executable and whether UTF-8 is already active.
// It only reads the file, so it needs neither Windows nor the manifest tool.
var inspectCmd = &cobra.Command{
	Use:   "inspect <exepath>",
	Short: "Show the manifests embedded in an executable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := manifest.Inspect(args[0])
		if err != nil {
			return err
		}

		// A PE without any RT_MANIFEST entry is a normal outcome, not an error
		if !report.HasManifest() {
			logger.Note("%s carries no manifest resource.\n", logger.Highlight(report.Path))
			return nil
		}

		out := cmd.OutOrStdout()
		for _, res := range report.Resources {
			if res.ParseErr != nil {
				logger.Warn("[WARN] RT_MANIFEST #%s (lang %d): %v\n", res.ID, res.Lang, res.ParseErr)
				continue
			}
			codePage := res.CodePage
			if codePage == "" {
				codePage = "(not set)"
			}
			fmt.Fprintf(out, "RT_MANIFEST #%s lang %d name=%q activeCodePage=%s\n", res.ID, res.Lang, res.Name, codePage)
		}

		if report.UTF8() {
			logger.Info(out, "UTF-8 is already the active code page of %s\n", report.Path)
		} else {
			logger.Note("run %s to make UTF-8 the active code page.\n", logger.Highlight("apply"))
		}
		return nil
	},
}

// init adds the inspect command to the root.
func init() {
	rootCmd.AddCommand(inspectCmd)
}
