// Package mt drives the Windows manifest tool (mt.exe) to embed the UTF-8
// code page manifest into executables.
package mt

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"forceu8exe/internal/logger"
)

var (
	ErrUnsupportedOS = errors.New("this tool only needs to run on Windows")
	ErrToolNotFound  = errors.New("manifest tool is not in PATH")
	ErrInjectFailed  = errors.New("manifest tool failed to embed the manifest")
)

// Action selects how the manifest is written into the executable.
type Action string

const (
	// ActionUpdate merges into the manifest resource the executable already has.
	ActionUpdate Action = "update"
	// ActionOutput writes a fresh manifest resource.
	ActionOutput Action = "output"
)

// Runner starts an external process and waits for it.
// A process that ran and exited non-zero reports its exit code with a nil error;
// err is only set when the process could not be launched.
type Runner interface {
	Run(name string, args ...string) (exitCode int, output []byte, err error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(name string, args ...string) (int, []byte, error) {
	cmd := exec.Command(name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), output, nil
	}
	if err != nil {
		return -1, output, err
	}
	return 0, output, nil
}

// CheckPlatform refuses any OS family other than Windows.
func CheckPlatform(goos string) error {
	if goos != "windows" {
		return ErrUnsupportedOS
	}
	return nil
}

// Locate resolves the manifest tool name or path through PATH.
func Locate(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrToolNotFound)
	}
	logger.Debug("[DEBUG] Using manifest tool at %s\n", path)
	return path, nil
}

// Tool wraps the manifest tool binary.
type Tool struct {
	Path   string
	Runner Runner
}

// New returns a Tool running the binary at path with os/exec.
func New(path string) *Tool {
	return &Tool{Path: path, Runner: ExecRunner{}}
}

// Probe asks the tool to validate the manifest embedded in exePath.
// mt exits 0 when a valid manifest resource exists and 31 when there is none;
// any non-zero code selects ActionOutput.
func (t *Tool) Probe(exePath string) (Action, error) {
	code, output, err := t.Runner.Run(t.Path,
		"-nologo",
		"-inputresource:"+exePath,
		"-validate_manifest",
	)
	if err != nil {
		return "", fmt.Errorf("failed to launch %s: %w", t.Path, err)
	}
	logger.Debug("[DEBUG] validate_manifest exited with %d\nOutput: %s\n", code, output)

	if code == 0 {
		return ActionUpdate, nil
	}
	return ActionOutput, nil
}

// Inject writes the manifest file into exePath with the given action.
func (t *Tool) Inject(manifestPath, exePath string, action Action) error {
	code, output, err := t.Runner.Run(t.Path,
		"-nologo",
		"-manifest", manifestPath,
		fmt.Sprintf("-%sresource:%s", action, exePath),
	)
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", t.Path, err)
	}
	if code != 0 {
		return fmt.Errorf("%w (exit status %d): %s", ErrInjectFailed, code, strings.TrimSpace(string(output)))
	}
	logger.Debug("[DEBUG] %sresource succeeded\nOutput: %s\n", action, output)
	return nil
}
