package mt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"forceu8exe/internal/logger"
	"forceu8exe/internal/manifest"
)

var (
	ErrTargetMissing = errors.New("doesn't exist")
	ErrNotExecutable = errors.New("doesn't end with .exe")

	// The output checks share their errors with manifest.WriteFile
	ErrIsDirectory  = manifest.ErrIsDirectory
	ErrOutputExists = manifest.ErrOutputExists
)

// CheckExecutable verifies that path names an existing .exe file.
func CheckExecutable(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s %w", path, ErrTargetMissing)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s %w", path, ErrIsDirectory)
	}
	if !strings.EqualFold(filepath.Ext(path), ".exe") {
		return fmt.Errorf("%s %w", path, ErrNotExecutable)
	}
	return nil
}

// PrepareOutput copies the executable at in to out so that out can be modified
// while in stays untouched. An existing out is refused unless force is set.
func PrepareOutput(in, out string, force bool) error {
	if err := CheckExecutable(in); err != nil {
		return err
	}
	inInfo, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", in, err)
	}
	if !strings.EqualFold(filepath.Ext(out), ".exe") {
		return fmt.Errorf("%s %w", out, ErrNotExecutable)
	}

	info, err := os.Stat(out)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s %w", out, ErrIsDirectory)
	case err == nil && !force:
		return fmt.Errorf("%s %w", out, ErrOutputExists)
	case err == nil && os.SameFile(inInfo, info):
		// Copying a file onto itself would truncate it
		return nil
	}

	logger.Debug("[DEBUG] Copying %s to %s\n", in, out)
	return copyFile(in, out)
}

// copyFile copies a file from src to dst, preserving permissions.
// It creates any missing directories in the destination path.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	if stat, err := os.Stat(src); err == nil {
		return os.Chmod(dst, stat.Mode())
	}
	return nil
}
