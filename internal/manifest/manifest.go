// Package manifest generates the UTF-8 active code page manifest and reads
// manifests already embedded in PE files.
package manifest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"forceu8exe/internal/logger"
)

// CodePage is the active code page every generated manifest declares.
const CodePage = "UTF-8"

const (
	header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<assembly manifestVersion="1.0" xmlns="urn:schemas-microsoft-com:asm.v1">
`
	identity = `  <assemblyIdentity type="win32" name="%s" version="1.0.0.0"/>
`
	body = `  <application>
    <windowsSettings>
      <activeCodePage xmlns="http://schemas.microsoft.com/SMI/2019/WindowsSettings">` + CodePage + `</activeCodePage>
    </windowsSettings>
  </application>
</assembly>
`
)

// Errors returned when an output path cannot be written.
var (
	ErrIsDirectory  = errors.New("is a directory")
	ErrOutputExists = errors.New("already exists")
)

// Options tweaks the generated manifest.
// - Name: when set, an <assemblyIdentity> naming the target is included.
type Options struct {
	Name string
}

// Generate returns the manifest text.
func Generate(opts Options) string {
	var b strings.Builder
	b.WriteString(header)
	if opts.Name != "" {
		var esc bytes.Buffer
		// EscapeText only fails on writer errors, which bytes.Buffer never returns
		_ = xml.EscapeText(&esc, []byte(opts.Name))
		fmt.Fprintf(&b, identity, esc.String())
	}
	b.WriteString(body)
	return b.String()
}

// IdentityName derives an assembly identity name from an executable path:
// the base name without its .exe extension.
func IdentityName(exePath string) string {
	base := filepath.Base(exePath)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".exe") {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// WriteFile writes the generated manifest to path.
// A directory at path is always refused; an existing file is refused unless force is set.
func WriteFile(path string, force bool, opts Options) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s %w", path, ErrIsDirectory)
	case err == nil && !force:
		return fmt.Errorf("%s %w", path, ErrOutputExists)
	}

	logger.Debug("[DEBUG] Writing manifest to %s\n", path)
	if err := os.WriteFile(path, []byte(Generate(opts)), 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
