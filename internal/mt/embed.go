package mt

import (
	"fmt"
	"os"
	"path/filepath"

	"forceu8exe/internal/logger"
	"forceu8exe/internal/manifest"
)

// Embedder runs the probe-then-inject sequence against one executable.
// - Identity: name the target in an <assemblyIdentity> of the generated manifest.
type Embedder struct {
	Tool     *Tool
	Identity bool
}

// Embed writes the UTF-8 manifest into exePath in place and returns the action used.
func (e *Embedder) Embed(exePath string) (Action, error) {
	workDir, err := os.MkdirTemp("", "forceu8exe-")
	if err != nil {
		return "", fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("[WARN] Failed to remove %s: %v\n", workDir, err)
		}
	}()

	var opts manifest.Options
	if e.Identity {
		opts.Name = manifest.IdentityName(exePath)
	}
	manifestPath := filepath.Join(workDir, filepath.Base(exePath)+".manifest")
	if err := manifest.WriteFile(manifestPath, false, opts); err != nil {
		return "", err
	}

	action, err := e.Tool.Probe(exePath)
	if err != nil {
		return "", err
	}
	if action == ActionOutput {
		logger.Note("no valid manifest is found in this executable.  Embedding a manifest as the first....\n")
	}

	if err := e.Tool.Inject(manifestPath, exePath, action); err != nil {
		return action, err
	}
	return action, nil
}
