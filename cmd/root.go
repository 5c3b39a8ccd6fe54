package cmd

import (
	"fmt"
	"os"
	"runtime"

	"forceu8exe/internal/config"
	"forceu8exe/internal/logger"
	"forceu8exe/internal/mt"
	"github.com/spf13/cobra"
)

// version is the release reported by `--version`.
// Release builds set it with -ldflags "-X forceu8exe/cmd.version=v1.2.3".
var version = "dev"

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// configPath holds the path to the optional YAML configuration file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// toolFlag overrides the manifest tool name or path from the config file.
var toolFlag string

// identity requests an <assemblyIdentity> in the generated manifest.
// Both apply and apply-manifest bind their `--identity` flag to it.
var identity bool

// goos is the OS family the preconditions are checked against.
var goos = runtime.GOOS

// locateTool resolves the manifest tool on PATH.
var locateTool = mt.Locate

// newTool wraps the located manifest tool binary.
var newTool = mt.New

// embedder is prepared by the precondition check and used by the commands that edit executables.
var embedder *mt.Embedder

// requiresTool marks commands that only run on Windows with the manifest tool available.
const requiresTool = "requires-mt"

// rootCmd is the base command for the CLI tool `forceu8exe`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:     "forceu8exe",                                                      // The name of the CLI tool
	Short:   "Embed a UTF-8 active code page manifest into Windows executables", // Short description shown in help output
	Version: version,

	// Errors are printed once by Execute, in the same style as every other message
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE is a hook that runs before any subcommand.
	// It sets up logging, then enforces the Windows and manifest tool
	// preconditions for the commands annotated with requiresTool.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(debug) // Set up logging (verbose if --debug is true)

		if cmd.Annotations[requiresTool] == "" {
			return nil
		}
		return checkPreconditions(cmd)
	},

	// Running the bare binary is a usage error, not a request for help
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("this tool requires a subcommand.  Try %s to get the help", logger.Highlight("-h"))
	},
}

// Execute starts the command execution and exits with status 1 on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v\n", err)
		os.Exit(1)
	}
}

// settings merges the config file with the command-line flags.
// Flags only win when they were given explicitly.
func settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("mt") {
		cfg.Tool = toolFlag
	}
	if f := cmd.Flags().Lookup("identity"); f != nil && f.Changed {
		cfg.AssemblyIdentity = identity
	}
	return cfg, nil
}

// checkPreconditions refuses to run off Windows or without the manifest tool,
// and prepares the Embedder for the command.
func checkPreconditions(cmd *cobra.Command) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}

	// The OS check comes first: mt is never on PATH elsewhere
	if err := mt.CheckPlatform(goos); err != nil {
		return err
	}
	path, err := locateTool(cfg.Tool)
	if err != nil {
		return fmt.Errorf("%w.  Run this tool from e.g. Native Tools Command Prompt", err)
	}

	embedder = &mt.Embedder{Tool: newTool(path), Identity: cfg.AssemblyIdentity}
	return nil
}

// init registers the global flags shared by every subcommand.
func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&toolFlag, "mt", config.DefaultTool, "Name or path of the manifest tool")
}
