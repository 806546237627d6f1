package mod

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestResources(t *testing.T) {
	var m Manifest
	m.AddContent("Actor/Pack/Guardian_A.sbactorpack")
	m.AddContent("Pack/Bootup.pack")
	m.AddAOC("Map/MainField/Static.smubin")

	assert.Equal(t, []string{
		"Actor/Pack/Guardian_A.bactorpack",
		"Pack/Bootup.pack",
		"Aoc/0010/Map/MainField/Static.mubin",
	}, m.Resources())
}

func TestManifestExtendDedup(t *testing.T) {
	var a, b Manifest
	a.AddContent("Pack/Bootup.pack")
	b.AddContent("Pack/Bootup.pack")
	b.AddContent("Actor/ActorLink/Guardian_A.sbxml")
	b.AddAOC("Pack/AocMainField.pack")

	a.Extend(&b)
	assert.Equal(t, []string{
		"Actor/ActorLink/Guardian_A.sbxml",
		"Pack/Bootup.pack",
	}, a.Content)
	assert.Equal(t, []string{"Pack/AocMainField.pack"}, a.AOC)
	assert.False(t, a.IsEmpty())

	a.Clear()
	assert.True(t, a.IsEmpty())
}

func TestMetaRoundTrip(t *testing.T) {
	meta := &Meta{
		API:         "1.0.0",
		Name:        "Second Wind",
		Version:     "1.9.12",
		Author:      "somebody",
		Category:    "Overhaul",
		Description: "Adds a bunch of stuff",
		Platform:    PlatformWiiU,
		OptionGroups: []OptionGroup{{
			Name:      "Difficulty",
			Exclusive: true,
			Options: []Option{
				{Name: "Normal", Path: "normal"},
				{Name: "Hard", Path: "hard"},
			},
		}},
	}
	data, err := meta.Encode()
	require.NoError(t, err)
	got, err := ParseMeta(data)
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	endian, ok := got.Platform.Endian()
	require.True(t, ok)
	assert.Equal(t, "Big", endian.String())
}

func TestMetaDefaults(t *testing.T) {
	got, err := ParseMeta([]byte("name: Bare\nversion: 0.1.0\n"))
	require.NoError(t, err)
	assert.Equal(t, PlatformUniversal, got.Platform)

	_, err = ParseMeta([]byte("version: 0.1.0\n"))
	assert.Error(t, err)
}

func TestPackRoundTrip(t *testing.T) {
	var man Manifest
	man.AddContent("Actor/ActorLink/Guardian_A.sbxml")
	man.AddContent("Actor/ActorLink/Guardian_B.sbxml")
	meta := &Meta{Name: "Test", Version: "1.0.0", Platform: PlatformSwitch}

	payload := bytes.Repeat([]byte("parameter soup "), 100)
	var buf bytes.Buffer
	p, err := NewPacker(&buf)
	require.NoError(t, err)
	require.NoError(t, p.WriteMeta(meta))
	require.NoError(t, p.WriteManifest(&man))
	// Identical payloads under two paths: compressed once, stored twice.
	require.NoError(t, p.AddResource("Actor/ActorLink/Guardian_A.sbxml", payload))
	require.NoError(t, p.AddResource("Actor/ActorLink/Guardian_B.sbxml", payload))
	require.NoError(t, p.Close())

	r, err := OpenReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "Test", r.Meta().Name)
	assert.Equal(t, man.Content, r.Manifest().Content)
	for _, path := range man.Content {
		data, err := r.Get(path)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	}
	_, err = r.Get("not/there.bin")
	assert.Error(t, err)
}

func TestDumpNestedLookup(t *testing.T) {
	// GetFromSarc falls back to the loose path when the archive is absent.
	dir := t.TempDir()
	d := &DirDump{ContentRoot: dir}
	_, err := d.GetFromSarc("Pack/Bootup.pack//GameData/gamedata.ssarc", "GameData/gamedata.ssarc")
	assert.Error(t, err)
}
