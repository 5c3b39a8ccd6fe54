package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"forceu8exe/internal/manifest"
	"forceu8exe/internal/mt"
	"github.com/spf13/pflag"
)

// scriptedRunner answers each manifest tool invocation with the next exit code.
type scriptedRunner struct {
	codes []int
	calls [][]string
}

func (r *scriptedRunner) Run(name string, args ...string) (int, []byte, error) {
	code := 0
	if i := len(r.calls); i < len(r.codes) {
		code = r.codes[i]
	}
	r.calls = append(r.calls, args)
	return code, nil, nil
}

// run executes the root command with args, resetting flag state left by earlier runs.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	embedder = nil

	if args == nil {
		args = []string{}
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// onWindows makes the precondition check pass, with the manifest tool driven by r.
func onWindows(t *testing.T, r mt.Runner) {
	t.Helper()

	savedGOOS, savedLocate, savedNew := goos, locateTool, newTool
	t.Cleanup(func() { goos, locateTool, newTool = savedGOOS, savedLocate, savedNew })

	goos = "windows"
	locateTool = func(name string) (string, error) { return name, nil }
	newTool = func(path string) *mt.Tool { return &mt.Tool{Path: path, Runner: r} }
}

// offWindows makes the platform check fail.
func offWindows(t *testing.T) {
	t.Helper()

	saved := goos
	t.Cleanup(func() { goos = saved })
	goos = "linux"
}

func writeExe(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("MZ"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManifestCommand(t *testing.T) {
	onWindows(t, &scriptedRunner{})
	out := filepath.Join(t.TempDir(), "app.exe.manifest")

	if _, err := run(t, "manifest", out); err != nil {
		t.Fatalf("manifest error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != manifest.Generate(manifest.Options{}) {
		t.Errorf("manifest wrote:\n%s", data)
	}

	if _, err := run(t, "manifest", out); !errors.Is(err, mt.ErrOutputExists) {
		t.Errorf("manifest on existing file without -f error = %v, want ErrOutputExists", err)
	}

	if _, err := run(t, "manifest", out, "-f", "--name", "app"); err != nil {
		t.Fatalf("manifest -f error = %v", err)
	}
	data, _ = os.ReadFile(out)
	if !strings.Contains(string(data), `name="app"`) {
		t.Errorf("manifest -f --name did not overwrite with the identity:\n%s", data)
	}
}

func TestManifestCommandPreconditions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.exe.manifest")

	t.Run("off windows", func(t *testing.T) {
		offWindows(t)
		if _, err := run(t, "manifest", out); !errors.Is(err, mt.ErrUnsupportedOS) {
			t.Errorf("manifest off Windows error = %v, want ErrUnsupportedOS", err)
		}
	})

	t.Run("tool missing", func(t *testing.T) {
		onWindows(t, &scriptedRunner{})
		locateTool = func(name string) (string, error) { return "", mt.ErrToolNotFound }
		if _, err := run(t, "manifest", out); !errors.Is(err, mt.ErrToolNotFound) {
			t.Errorf("manifest without the tool error = %v, want ErrToolNotFound", err)
		}
	})

	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("manifest wrote %s despite failing its preconditions", out)
	}
}

func TestApplyRefusesNonExe(t *testing.T) {
	r := &scriptedRunner{}
	onWindows(t, r)

	target := filepath.Join(t.TempDir(), "app.dll")
	writeExe(t, target)

	if _, err := run(t, "apply", target); !errors.Is(err, mt.ErrNotExecutable) {
		t.Errorf("apply on a .dll error = %v, want ErrNotExecutable", err)
	}
	if _, err := run(t, "apply", filepath.Join(t.TempDir(), "absent.exe")); !errors.Is(err, mt.ErrTargetMissing) {
		t.Errorf("apply on a missing file error = %v, want ErrTargetMissing", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("manifest tool ran %d times for refused targets", len(r.calls))
	}
}

func TestApplyPreconditions(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.exe")
	writeExe(t, target)

	t.Run("off windows", func(t *testing.T) {
		offWindows(t)
		if _, err := run(t, "apply", target); !errors.Is(err, mt.ErrUnsupportedOS) {
			t.Errorf("apply off Windows error = %v, want ErrUnsupportedOS", err)
		}
	})

	t.Run("tool not on PATH", func(t *testing.T) {
		onWindows(t, &scriptedRunner{})
		locateTool = mt.Locate
		t.Setenv("PATH", t.TempDir())
		if _, err := run(t, "apply", target, "--mt", "mt-definitely-not-installed"); !errors.Is(err, mt.ErrToolNotFound) {
			t.Errorf("apply without the tool error = %v, want ErrToolNotFound", err)
		}
	})
}

func TestApplyEmbeds(t *testing.T) {
	r := &scriptedRunner{codes: []int{31, 0}}
	onWindows(t, r)

	target := filepath.Join(t.TempDir(), "app.exe")
	writeExe(t, target)

	out, err := run(t, "apply", target)
	if err != nil {
		t.Fatalf("apply error = %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("manifest tool ran %d times, want 2", len(r.calls))
	}
	if got := r.calls[1][3]; got != "-outputresource:"+target {
		t.Errorf("inject resource arg = %q, want -outputresource for an executable without a manifest", got)
	}
	if !strings.Contains(out, "Succeeded to embed in: ") || !strings.Contains(out, target) {
		t.Errorf("apply output = %q, want the success line with the path", out)
	}
}

func TestApplyManifestToSeparateOutput(t *testing.T) {
	r := &scriptedRunner{codes: []int{0, 0}}
	onWindows(t, r)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.exe")
	out := filepath.Join(dir, "out.exe")
	writeExe(t, in)

	if _, err := run(t, "apply-manifest", in, out); err != nil {
		t.Fatalf("apply-manifest error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("apply-manifest did not create %s: %v", out, err)
	}
	if got := r.calls[1][3]; got != "-updateresource:"+out {
		t.Errorf("inject resource arg = %q, want the output executable", got)
	}

	if _, err := run(t, "apply-manifest", in, out); !errors.Is(err, mt.ErrOutputExists) {
		t.Errorf("apply-manifest onto an existing output without -f error = %v, want ErrOutputExists", err)
	}
	if _, err := run(t, "apply-manifest", in, out, "-f"); err != nil {
		t.Errorf("apply-manifest -f error = %v", err)
	}
}

func TestApplyManifestLeavesNoOutputOnPreconditionFailure(t *testing.T) {
	offWindows(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.exe")
	out := filepath.Join(dir, "out.exe")
	writeExe(t, in)

	if _, err := run(t, "apply-manifest", in, out); !errors.Is(err, mt.ErrUnsupportedOS) {
		t.Errorf("apply-manifest off Windows error = %v, want ErrUnsupportedOS", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("apply-manifest created %s despite failing", out)
	}
}

func TestInspectRunsAnywhere(t *testing.T) {
	offWindows(t)

	fixture := filepath.Join("..", "internal", "manifest", "testdata", "noresources.exe")
	if _, err := run(t, "inspect", fixture); err != nil {
		t.Errorf("inspect on a PE without resources error = %v", err)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("--version output = %q, want it to contain %q", out, version)
	}
}

func TestRootRequiresSubcommand(t *testing.T) {
	if _, err := run(t); err == nil {
		t.Error("running without a subcommand error = nil, want error")
	}
}
