package cmd

import (
	"fmt"

	"forceu8exe/internal/logger"
	"forceu8exe/internal/mt"
	"github.com/spf13/cobra"
)

// applyCmd embeds the manifest into an executable in place.
var applyCmd = &cobra.Command{
	Use:         "apply <exepath>",
	Short:       "Embed the UTF-8 manifest into an executable in place",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{requiresTool: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		exePath := args[0]

		// Only existing .exe files are handed to mt
		if err := mt.CheckExecutable(exePath); err != nil {
			return err
		}
		return embed(cmd, exePath)
	},
}

// embed runs the probe-then-inject sequence on exePath and reports success.
func embed(cmd *cobra.Command, exePath string) error {
	action, err := embedder.Embed(exePath)
	if err != nil {
		return err
	}
	logger.Debug("[DEBUG] Embedded with -%sresource\n", action)

	// Label and path go to the same writer so the line is never split across streams
	out := cmd.OutOrStdout()
	logger.Info(out, "Succeeded to embed in: ")
	fmt.Fprintln(out, exePath)
	return nil
}

// init registers the apply flags and adds the command to the root.
func init() {
	applyCmd.Flags().BoolVar(&identity, "identity", false, "Name the executable in an assemblyIdentity element")
	rootCmd.AddCommand(applyCmd)
}
