package manifest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"forceu8exe/internal/logger"
	"github.com/tc-hib/winres"
)

// Resource describes one RT_MANIFEST entry found in a PE file.
type Resource struct {
	ID       string // resource identifier, usually "1"
	Lang     uint16 // language ID
	Name     string // assemblyIdentity name, empty when absent
	CodePage string // declared activeCodePage, empty when absent
	ParseErr error  // set when the manifest XML could not be decoded
}

// Report is the result of inspecting an executable.
type Report struct {
	Path      string
	Resources []Resource
}

// HasManifest reports whether at least one RT_MANIFEST entry is embedded.
func (r Report) HasManifest() bool {
	return len(r.Resources) > 0
}

// UTF8 reports whether an embedded manifest already declares the UTF-8 code page.
func (r Report) UTF8() bool {
	for _, res := range r.Resources {
		if strings.EqualFold(res.CodePage, CodePage) {
			return true
		}
	}
	return false
}

// assemblyXML holds the few manifest fields we care about.
// Tags carry no namespace so prefixed elements (asmv3:application) match too.
type assemblyXML struct {
	XMLName  xml.Name `xml:"assembly"`
	Identity struct {
		Name string `xml:"name,attr"`
	} `xml:"assemblyIdentity"`
	Applications []struct {
		Settings []struct {
			CodePage string `xml:"activeCodePage"`
		} `xml:"windowsSettings"`
	} `xml:"application"`
}

// Parse extracts the identity name and active code page from manifest XML.
func Parse(data []byte) (name, codePage string, err error) {
	var a assemblyXML
	if err := xml.Unmarshal(data, &a); err != nil {
		return "", "", fmt.Errorf("invalid manifest XML: %w", err)
	}
	for _, app := range a.Applications {
		for _, s := range app.Settings {
			if cp := strings.TrimSpace(s.CodePage); cp != "" {
				codePage = cp
			}
		}
	}
	return a.Identity.Name, codePage, nil
}

// Inspect lists the manifests embedded in the PE file at path.
// It only reads the file; embedding is left to the manifest tool.
func Inspect(path string) (Report, error) {
	report := Report{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rs, err := winres.LoadFromEXE(f)
	if errors.Is(err, winres.ErrNoResources) {
		// No .rsrc section at all, so no manifest either
		logger.Debug("[DEBUG] %s has no resource directory\n", path)
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("failed to read resources of %s: %w", path, err)
	}

	rs.WalkType(winres.RT_MANIFEST, func(resID winres.Identifier, langID uint16, data []byte) bool {
		res := Resource{ID: identifier(resID), Lang: langID}
		res.Name, res.CodePage, res.ParseErr = Parse(data)
		logger.Debug("[DEBUG] %s: RT_MANIFEST #%s lang %d, codepage %q\n", path, res.ID, langID, res.CodePage)
		report.Resources = append(report.Resources, res)
		return true
	})

	return report, nil
}

func identifier(id winres.Identifier) string {
	switch v := id.(type) {
	case winres.ID:
		return strconv.Itoa(int(v))
	case winres.Name:
		return string(v)
	}
	return fmt.Sprint(id)
}
