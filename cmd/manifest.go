package cmd

import (
	"forceu8exe/internal/logger"
	"forceu8exe/internal/manifest"
	"github.com/spf13/cobra"
)

// manifestForce allows the manifest command to overwrite an existing file.
var manifestForce bool

// manifestName is the optional assembly identity name for the written manifest.
var manifestName string

// manifestCmd writes the generated manifest to a file without touching any executable.
// It shares the Windows and manifest tool preconditions of the other commands.
var manifestCmd = &cobra.Command{
	Use:         "manifest <output>",
	Short:       "Write the UTF-8 manifest to a file",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{requiresTool: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]

		// WriteFile refuses directories, and existing files unless --force is set
		if err := manifest.WriteFile(output, manifestForce, manifest.Options{Name: manifestName}); err != nil {
			return err
		}
		logger.Note("succeeded to write the manifest to %s.\n", logger.Highlight(output))
		return nil
	},
}

// init registers the manifest flags and adds the command to the root.
func init() {
	manifestCmd.Flags().BoolVarP(&manifestForce, "force", "f", false, "Overwrite the output file if it exists")
	manifestCmd.Flags().StringVar(&manifestName, "name", "", "Assembly identity name to declare")
	rootCmd.AddCommand(manifestCmd)
}
