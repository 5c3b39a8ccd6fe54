package cmd

import (
	"forceu8exe/internal/mt"
	"github.com/spf13/cobra"
)

// applyManifestForce allows apply-manifest to overwrite an existing output file.
var applyManifestForce bool

// applyManifestCmd embeds the manifest into a copy of an executable,
// or in place when no output is given.
var applyManifestCmd = &cobra.Command{
	Use:         "apply-manifest <in> [out]",
	Short:       "Embed the UTF-8 manifest, optionally writing the result to a separate executable",
	Args:        cobra.RangeArgs(1, 2),
	Annotations: map[string]string{requiresTool: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		if err := mt.CheckExecutable(in); err != nil {
			return err
		}

		// Without an output path this is the same as apply
		if len(args) == 1 {
			return embed(cmd, in)
		}

		// Preconditions already passed, so a copy is only made when mt can run on it
		out := args[1]
		if err := mt.PrepareOutput(in, out, applyManifestForce); err != nil {
			return err
		}
		return embed(cmd, out)
	},
}

// init registers the apply-manifest flags and adds the command to the root.
func init() {
	applyManifestCmd.Flags().BoolVarP(&applyManifestForce, "force", "f", false, "Overwrite the output executable if it exists")
	applyManifestCmd.Flags().BoolVar(&identity, "identity", false, "Name the executable in an assemblyIdentity element")
	rootCmd.AddCommand(applyManifestCmd)
}
