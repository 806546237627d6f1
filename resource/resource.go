// Package resource dispatches raw bytes to typed resource schemas and
// holds the merged resource table. Given a logical path and a payload, it
// strips transparent compression, matches the path against the known
// schema patterns in fixed priority order, falls back to magic sniffing
// for generic parameter and tree documents, and refuses anything else.
package resource

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/content"
	"github.com/resmerge/resmerge/format"
	"github.com/resmerge/resmerge/sarc"
	"github.com/resmerge/resmerge/yaz0"
)

// BinaryResource is an opaque payload the engine does not merge. Logically
// identical content differs byte for byte across platforms, so platform
// payloads are kept side by side; platform-independent content uses the
// agnostic arm alone.
type BinaryResource struct {
	Agnostic []byte
	WiiU     []byte
	Switch   []byte
}

// Bytes returns the payload for the target platform.
func (b *BinaryResource) Bytes(endian format.Endian) []byte {
	if b.Agnostic != nil {
		return b.Agnostic
	}
	if endian == format.Big {
		return b.WiiU
	}
	return b.Switch
}

// ResourceData is the tagged union stored in the resource table: an opaque
// blob, a typed mergeable resource, or a nested archive map. Exactly one
// arm is non-nil.
type ResourceData struct {
	Binary    *BinaryResource
	Mergeable *MergeableResource
	Sarc      *SarcMap
}

// Canonical maps a file path to its resource table key: the compression
// marker infix is dropped, since compressed and plain forms name one
// logical resource. Plain archive suffixes keep their name.
func Canonical(path string) string {
	path = strings.TrimPrefix(path, "/")
	i := strings.LastIndexByte(path, '.')
	if i < 0 || !strings.HasPrefix(path[i:], ".s") || path[i:] == ".sarc" {
		return path
	}
	return path[:i+1] + path[i+2:]
}

// schemaPattern decides typed dispatch by path. Patterns are tried in
// order; earlier entries win when one pattern is a prefix of another.
type schemaPattern struct {
	match func(path string) bool
	parse func(data []byte) (*MergeableResource, error)
}

func aampSchema(build func(*aamp.ParameterIO) (*MergeableResource, error)) func([]byte) (*MergeableResource, error) {
	return func(data []byte) (*MergeableResource, error) {
		pio, err := aamp.Parse(data)
		if err != nil {
			return nil, err
		}
		return build(pio)
	}
}

func bymlSchema(build func(*byml.Node) (*MergeableResource, error)) func([]byte) (*MergeableResource, error) {
	return func(data []byte) (*MergeableResource, error) {
		doc, err := byml.Parse(data)
		if err != nil {
			return nil, err
		}
		return build(doc)
	}
}

func sarcSchema(build func(*sarc.Archive) (*MergeableResource, error)) func([]byte) (*MergeableResource, error) {
	return func(data []byte) (*MergeableResource, error) {
		a, err := sarc.Parse(data)
		if err != nil {
			return nil, err
		}
		return build(a)
	}
}

var schemaPatterns = []schemaPattern{
	{
		match: func(p string) bool { return strings.Contains(p, "GameData/gamedata") },
		parse: sarcSchema(func(a *sarc.Archive) (*MergeableResource, error) {
			pack, err := content.GameDataPackFromArchive(a)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{GameDataPack: pack}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.Contains(p, "GameData/savedataformat") },
		parse: sarcSchema(func(a *sarc.Archive) (*MergeableResource, error) {
			save, err := content.SaveDataPackFromArchive(a)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{SaveData: save}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".bxml") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.ActorLinkFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{ActorLink: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".baiprog") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.AIProgramFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{AIProgram: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".batcllist") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.AttClientListFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{AttClientList: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".bdrop") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.DropTableFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{DropTable: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".brecipe") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.RecipeFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{Recipe: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.HasSuffix(p, ".blifecondition") },
		parse: aampSchema(func(pio *aamp.ParameterIO) (*MergeableResource, error) {
			r, err := content.LifeConditionFromParameterIO(pio)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{LifeCondition: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.Contains(p, "Ecosystem/AreaData") },
		parse: bymlSchema(func(doc *byml.Node) (*MergeableResource, error) {
			r, err := content.AreaDataFromByml(doc)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{AreaData: r}, nil
		}),
	},
	{
		match: func(p string) bool { return strings.Contains(p, "Map/MainField/Static") },
		parse: bymlSchema(func(doc *byml.Node) (*MergeableResource, error) {
			r, err := content.MapStaticFromByml(doc)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{MapStatic: r}, nil
		}),
	},
	// Location must follow the Static patterns: location markers live
	// under the same Map directory.
	{
		match: func(p string) bool { return strings.Contains(p, "Map/") && strings.Contains(p, "Location") },
		parse: bymlSchema(func(doc *byml.Node) (*MergeableResource, error) {
			r, err := content.LocationFromByml(doc)
			if err != nil {
				return nil, err
			}
			return &MergeableResource{Location: r}, nil
		}),
	},
}

// FromBinary identifies and parses one payload. The path steers typed
// schema dispatch; unmatched payloads fall back to magic sniffing, and
// unrecognized bytes are an error, never a guess.
func FromBinary(path string, data []byte) (*ResourceData, error) {
	data, err := yaz0.DecompressIf(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	canon := Canonical(path)
	for _, pat := range schemaPatterns {
		if !pat.match(canon) {
			continue
		}
		m, err := pat.parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &ResourceData{Mergeable: m}, nil
	}
	if sarc.IsArchive(data) {
		sm, err := SarcMapFromBinary(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &ResourceData{Sarc: sm}, nil
	}
	if aamp.IsParameterIO(data) {
		pio, err := aamp.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &ResourceData{Mergeable: &MergeableResource{GenericAamp: &content.GenericAamp{PIO: pio}}}, nil
	}
	if _, ok := byml.SniffEndian(data); ok {
		doc, err := byml.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &ResourceData{Mergeable: &MergeableResource{GenericByml: &content.GenericByml{Node: doc}}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Diff produces a data-shaped value holding what changed. Variants must
// match; a path flipping between blob, mergeable, and archive across mods
// is a dispatch bug.
func (r *ResourceData) Diff(other *ResourceData) *ResourceData {
	switch {
	case r.Mergeable != nil && other.Mergeable != nil:
		return &ResourceData{Mergeable: r.Mergeable.Diff(other.Mergeable)}
	case r.Sarc != nil && other.Sarc != nil:
		return &ResourceData{Sarc: r.Sarc.Diff(other.Sarc)}
	case r.Binary != nil && other.Binary != nil:
		return &ResourceData{Binary: other.Binary}
	}
	panic(fmt.Sprintf("diff of mismatched resource data variants %s and %s", r.variant(), other.variant()))
}

// Merge applies a diff. Opaque blobs replace whole.
func (r *ResourceData) Merge(diff *ResourceData) *ResourceData {
	switch {
	case r.Mergeable != nil && diff.Mergeable != nil:
		return &ResourceData{Mergeable: r.Mergeable.Merge(diff.Mergeable)}
	case r.Sarc != nil && diff.Sarc != nil:
		return &ResourceData{Sarc: r.Sarc.Merge(diff.Sarc)}
	case r.Binary != nil && diff.Binary != nil:
		return &ResourceData{Binary: diff.Binary}
	}
	panic(fmt.Sprintf("merge of mismatched resource data variants %s and %s", r.variant(), diff.variant()))
}

// Equal reports structural equality of two resource data values.
func (r *ResourceData) Equal(other *ResourceData) bool {
	switch {
	case r.Binary != nil && other.Binary != nil:
		return bytes.Equal(r.Binary.Agnostic, other.Binary.Agnostic) &&
			bytes.Equal(r.Binary.WiiU, other.Binary.WiiU) &&
			bytes.Equal(r.Binary.Switch, other.Binary.Switch)
	case r.Mergeable != nil && other.Mergeable != nil:
		return r.Mergeable.Equal(other.Mergeable)
	case r.Sarc != nil && other.Sarc != nil:
		return r.Sarc.Equal(other.Sarc)
	}
	return false
}

func (r *ResourceData) variant() string {
	switch {
	case r.Binary != nil:
		return "Binary"
	case r.Mergeable != nil:
		return "Mergeable"
	case r.Sarc != nil:
		return "Sarc"
	}
	return "Empty"
}

// ToBinary serializes the resource data for the target platform. Archive
// maps need the table to resolve their entries.
func (r *ResourceData) ToBinary(endian format.Endian, table *Table) ([]byte, error) {
	switch {
	case r.Binary != nil:
		return r.Binary.Bytes(endian), nil
	case r.Mergeable != nil:
		return r.Mergeable.ToBinary(endian)
	case r.Sarc != nil:
		return r.Sarc.ToBinary(endian, table)
	}
	return nil, fmt.Errorf("%w: empty resource data", ErrUnsupportedFormat)
}
