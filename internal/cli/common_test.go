package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/resmerge/resmerge/mod"
)

func TestPackageEntries(t *testing.T) {
	man := &mod.Manifest{}
	man.AddContent("Actor/Pack/Enemy_Bokoblin.sbactorpack")
	man.AddAOC("Map/MainField/Static.smubin")

	entries := packageEntries(man)
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	content, aoc := entries[0], entries[1]
	if content.ZipName != "content/Actor/Pack/Enemy_Bokoblin.sbactorpack" {
		t.Errorf("content zip name: %s", content.ZipName)
	}
	if content.Canon != "Actor/Pack/Enemy_Bokoblin.bactorpack" {
		t.Errorf("content canon: %s", content.Canon)
	}
	if aoc.Logical != "Aoc/0010/Map/MainField/Static.smubin" {
		t.Errorf("aoc logical: %s", aoc.Logical)
	}
	if aoc.Canon != "Aoc/0010/Map/MainField/Static.mubin" {
		t.Errorf("aoc canon: %s", aoc.Canon)
	}
}

func TestPackCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "meta.yml"), []byte("name: Test Mod\nversion: 1.0.0\nplatform: wiiu\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "content", "Actor")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "Dummy.bxml"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "test.zip")
	rootCmd.SetArgs([]string{"pack", dir, "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("pack: %v", err)
	}

	r, done, err := openMod(out)
	if err != nil {
		t.Fatalf("open packed mod: %v", err)
	}
	defer done()
	if r.Meta().Name != "Test Mod" {
		t.Errorf("meta name: %s", r.Meta().Name)
	}
	if len(r.Manifest().Content) != 1 || r.Manifest().Content[0] != "Actor/Dummy.bxml" {
		t.Errorf("manifest content: %v", r.Manifest().Content)
	}
	data, err := r.Get("content/Actor/Dummy.bxml")
	if err != nil {
		t.Fatalf("get payload: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("payload: %q", data)
	}
}
