package dashboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// DashboardManifest models a YAML document describing a dashboard: its
// sections and widgets with their raw (unnormalized) configuration blobs.
type DashboardManifest struct {
	Version   string    `json:"version" yaml:"version"`
	Dashboard Dashboard `json:"dashboard" yaml:"dashboard"`
	Source    string    `json:"-" yaml:"-"`
}

// ReadManifest loads a dashboard manifest from disk.
func ReadManifest(path string) (*DashboardManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader, applies defaults,
// validates it, and repairs the section structure.
func DecodeManifest(r io.Reader) (*DashboardManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc DashboardManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	RepairSections(&doc.Dashboard)
	return &doc, nil
}

// WriteManifest persists the manifest as YAML.
func WriteManifest(path string, doc *DashboardManifest) error {
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashboard: create manifest %s: %w", path, err)
	}
	defer file.Close()

	tmp := *doc
	tmp.Source = ""
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmp); err != nil {
		return fmt.Errorf("dashboard: write manifest: %w", err)
	}
	return nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *DashboardManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	if doc.Dashboard.Title == "" {
		return fmt.Errorf("dashboard: manifest is missing dashboard.title")
	}
	seen := make(map[string]struct{}, len(doc.Dashboard.Widgets))
	for idx, widget := range doc.Dashboard.Widgets {
		if widget.ID == "" {
			return fmt.Errorf("dashboard: widget at index %d is missing id", idx)
		}
		if _, exists := seen[widget.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget id %s", widget.ID)
		}
		seen[widget.ID] = struct{}{}
	}
	return nil
}

// ValidateConfigs runs the advisory schema validator over every widget's raw
// configuration. A nil validator accepts everything.
func (doc *DashboardManifest) ValidateConfigs(v ConfigValidator) error {
	if v == nil {
		v = noopConfigValidator{}
	}
	for _, widget := range doc.Dashboard.Widgets {
		widgetType, _ := widget.RawConfig["widget_type"].(string)
		if err := v.Validate(WidgetType(widgetType), widget.RawConfig); err != nil {
			return fmt.Errorf("dashboard: widget %s: %w", widget.ID, err)
		}
	}
	return nil
}

func (doc *DashboardManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
