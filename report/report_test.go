package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/content"
	"github.com/resmerge/resmerge/resource"
)

func bymlResource(fields map[string]*byml.Node) *resource.ResourceData {
	return &resource.ResourceData{Mergeable: &resource.MergeableResource{
		GenericByml: &content.GenericByml{Node: byml.FromMap(fields)},
	}}
}

func TestCompare(t *testing.T) {
	base := resource.NewTable()
	base.Set("Actor/A.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(10)}))
	base.Set("Actor/B.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(20)}))
	base.Set("Actor/C.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(30)}))

	modded := resource.NewTable()
	modded.Set("Actor/A.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(99)}))
	modded.Set("Actor/B.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(20)}))
	modded.Set("Actor/D.bxml", bymlResource(map[string]*byml.Node{"Life": byml.FromInt(1)}))

	want := []Change{
		{Path: "Actor/A.bxml", Status: Modified},
		{Path: "Actor/C.bxml", Status: Removed},
		{Path: "Actor/D.bxml", Status: Added},
	}
	if diff := cmp.Diff(want, Compare(base, modded)); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNodeStable(t *testing.T) {
	n := byml.FromMap(map[string]*byml.Node{
		"Name":  byml.FromString("Bokoblin"),
		"Life":  byml.FromInt(13),
		"Tags":  byml.FromSlice([]*byml.Node{byml.FromString("Enemy")}),
		"Scale": byml.FromFloat(1.5),
	})
	first := RenderNode(n)
	if first != RenderNode(n.Clone()) {
		t.Fatal("rendering is not stable across clones")
	}
	for _, want := range []string{`Name: "Bokoblin"`, "Life: 13", "Scale: 1.5", "Tags: [1]"} {
		if !strings.Contains(first, want) {
			t.Errorf("rendering missing %q:\n%s", want, first)
		}
	}
}

func TestTextDiffMarksChangedLines(t *testing.T) {
	base := bymlResource(map[string]*byml.Node{
		"Life":  byml.FromInt(10),
		"Power": byml.FromInt(3),
	})
	modded := bymlResource(map[string]*byml.Node{
		"Life":  byml.FromInt(99),
		"Power": byml.FromInt(3),
	})
	out := ResourceDiff(base, modded)
	if !strings.Contains(out, "-   Life: 10") || !strings.Contains(out, "+   Life: 99") {
		t.Errorf("diff lacks change markers:\n%s", out)
	}
	if !strings.Contains(out, "    Power: 3") {
		t.Errorf("diff lacks context line:\n%s", out)
	}
}

func TestTextDiffCollapsesLongEqualRuns(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("line\n")
	}
	base := sb.String() + "old\n"
	modded := sb.String() + "new\n"
	out := TextDiff(base, modded)
	if !strings.Contains(out, "  ...") {
		t.Errorf("long equal run not collapsed:\n%s", out)
	}
	if strings.Count(out, "  line\n") > 6 {
		t.Errorf("too much context kept:\n%s", out)
	}
}

func TestRenderBinaryAndArchive(t *testing.T) {
	bin := &resource.ResourceData{Binary: &resource.BinaryResource{WiiU: make([]byte, 16)}}
	if got := Render(bin); !strings.Contains(got, "16 bytes") {
		t.Errorf("binary rendering: %q", got)
	}
}
