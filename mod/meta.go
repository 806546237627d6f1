package mod

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/resmerge/resmerge/format"
)

// Platform states which console a mod targets. Universal mods carry
// platform-agnostic resources only.
type Platform string

const (
	PlatformWiiU      Platform = "wiiu"
	PlatformSwitch    Platform = "switch"
	PlatformUniversal Platform = "universal"
)

// Endian returns the scalar encoding of a platform-specific mod. Universal
// mods report ok false.
func (p Platform) Endian() (format.Endian, bool) {
	switch p {
	case PlatformWiiU:
		return format.Big, true
	case PlatformSwitch:
		return format.Little, true
	}
	return format.Big, false
}

// Option is one selectable sub-part of a mod, rooted at its own folder
// with its own manifest.
type Option struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Path        string   `yaml:"path"`
	Requires    []string `yaml:"requires,omitempty"`
}

// OptionGroup bundles options. Exclusive groups allow one selection;
// multiple groups allow any subset.
type OptionGroup struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Exclusive   bool     `yaml:"exclusive"`
	Required    bool     `yaml:"required"`
	Default     string   `yaml:"default,omitempty"`
	Options     []Option `yaml:"options"`
}

// Meta is a mod's metadata document, stored as meta.yml in the package.
type Meta struct {
	API          string        `yaml:"api"`
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Author       string        `yaml:"author"`
	Category     string        `yaml:"category"`
	Description  string        `yaml:"description"`
	Platform     Platform      `yaml:"platform"`
	URL          string        `yaml:"url,omitempty"`
	OptionGroups []OptionGroup `yaml:"option_groups,omitempty"`
}

// ParseMeta decodes a meta.yml document.
func ParseMeta(data []byte) (*Meta, error) {
	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse mod meta: %w", err)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("parse mod meta: missing name")
	}
	if meta.Platform == "" {
		meta.Platform = PlatformUniversal
	}
	return &meta, nil
}

// Encode renders the document as YAML.
func (m *Meta) Encode() ([]byte, error) {
	return yaml.Marshal(m)
}

// ParseManifest decodes a manifest.yml document.
func ParseManifest(data []byte) (*Manifest, error) {
	var man Manifest
	if err := yaml.Unmarshal(data, &man); err != nil {
		return nil, fmt.Errorf("parse mod manifest: %w", err)
	}
	return &man, nil
}
