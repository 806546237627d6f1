package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/resource"
)

// renderer writes a stable indented text form of a document. The layout is
// deterministic for a given document, so two renderings diff line by line.
type renderer struct {
	sb     strings.Builder
	indent int
}

func (r *renderer) line(format string, args ...any) {
	r.sb.WriteString(strings.Repeat("  ", r.indent))
	fmt.Fprintf(&r.sb, format, args...)
	r.sb.WriteByte('\n')
}

func (r *renderer) nested(f func()) {
	r.indent++
	f()
	r.indent--
}

func (r *renderer) node(key string, n *byml.Node) {
	prefix := ""
	if key != "" {
		prefix = key + ": "
	}
	switch {
	case n == nil || n.Type == byml.NullType:
		r.line("%snull", prefix)
	case n.Type == byml.BoolType:
		r.line("%s%t", prefix, n.Bool)
	case n.Type == byml.IntType:
		r.line("%s%d", prefix, n.Int)
	case n.Type == byml.UIntType:
		r.line("%s0x%x", prefix, n.UInt)
	case n.Type == byml.FloatType:
		r.line("%s%g", prefix, n.Float)
	case n.Type == byml.Int64Type:
		r.line("%s%d", prefix, n.Int64)
	case n.Type == byml.UInt64Type:
		r.line("%s0x%x", prefix, n.UInt64)
	case n.Type == byml.DoubleType:
		r.line("%s%g", prefix, n.Double)
	case n.Type == byml.StringType:
		r.line("%s%q", prefix, n.String)
	case n.Type == byml.BinaryType:
		r.line("%s<%d bytes>", prefix, len(n.Binary))
	case n.Type == byml.ArrayType:
		r.line("%s[%d]", prefix, len(n.Values))
		r.nested(func() {
			for i, v := range n.Values {
				r.node(fmt.Sprintf("%d", i), v)
			}
		})
	case n.Type == byml.HashType:
		r.line("%s{%d}", prefix, len(n.Keys))
		r.nested(func() {
			for i, k := range n.Keys {
				r.node(k, n.Values[i])
			}
		})
	default:
		r.line("%s<%s>", prefix, n.Type)
	}
}

func (r *renderer) param(name string, p aamp.Parameter) {
	switch p.Type {
	case aamp.BoolParam:
		r.line("%s: %t", name, p.Bool)
	case aamp.IntParam:
		r.line("%s: %d", name, p.Int)
	case aamp.UIntParam:
		r.line("%s: 0x%x", name, p.UInt)
	case aamp.FloatParam:
		r.line("%s: %g", name, p.Float)
	case aamp.Vec2Param:
		r.line("%s: [%g, %g]", name, p.Vec[0], p.Vec[1])
	case aamp.Vec3Param:
		r.line("%s: [%g, %g, %g]", name, p.Vec[0], p.Vec[1], p.Vec[2])
	case aamp.Vec4Param, aamp.ColorParam, aamp.QuatParam:
		r.line("%s: [%g, %g, %g, %g]", name, p.Vec[0], p.Vec[1], p.Vec[2], p.Vec[3])
	case aamp.String32Param, aamp.String64Param, aamp.String256Param, aamp.StringRefParam:
		r.line("%s: %q", name, p.Str)
	default:
		r.line("%s: <%s, %d curves>", name, p.Type, len(p.Curves))
	}
}

func (r *renderer) object(name string, o *aamp.ParameterObject) {
	r.line("%s:", name)
	r.nested(func() {
		o.Iter(func(pname string, p aamp.Parameter) bool {
			r.param(pname, p)
			return true
		})
	})
}

func (r *renderer) list(name string, l *aamp.ParameterList) {
	r.line("%s:", name)
	r.nested(func() {
		l.IterObjects(func(oname string, o *aamp.ParameterObject) bool {
			r.object(oname, o)
			return true
		})
		l.IterLists(func(lname string, sub *aamp.ParameterList) bool {
			r.list(lname, sub)
			return true
		})
	})
}

// RenderNode renders a tree document as indented text.
func RenderNode(n *byml.Node) string {
	r := &renderer{}
	r.node("", n)
	return r.sb.String()
}

// RenderParameterIO renders a parameter document as indented text.
func RenderParameterIO(pio *aamp.ParameterIO) string {
	r := &renderer{}
	r.line("version: %d", pio.Version)
	r.line("type: %q", pio.Type)
	r.list("param_root", &pio.Root)
	return r.sb.String()
}

// Render returns a stable text form of a resource. Opaque payloads render
// as size lines per platform arm; archives render their entry map.
func Render(rd *resource.ResourceData) string {
	switch {
	case rd.Binary != nil:
		var sb strings.Builder
		if rd.Binary.Agnostic != nil {
			fmt.Fprintf(&sb, "binary: %d bytes\n", len(rd.Binary.Agnostic))
		}
		if rd.Binary.WiiU != nil {
			fmt.Fprintf(&sb, "binary (wiiu): %d bytes\n", len(rd.Binary.WiiU))
		}
		if rd.Binary.Switch != nil {
			fmt.Fprintf(&sb, "binary (switch): %d bytes\n", len(rd.Binary.Switch))
		}
		return sb.String()
	case rd.Sarc != nil:
		var sb strings.Builder
		fmt.Fprintf(&sb, "archive: %d entries\n", rd.Sarc.Entries.Len())
		rd.Sarc.Entries.Iter(func(path, canon string) bool {
			fmt.Fprintf(&sb, "  %s -> %s\n", path, canon)
			return true
		})
		return sb.String()
	case rd.Mergeable != nil:
		return renderMergeable(rd.Mergeable)
	}
	return ""
}

func renderMergeable(m *resource.MergeableResource) string {
	switch {
	case m.ActorLink != nil:
		return RenderParameterIO(m.ActorLink.ToParameterIO())
	case m.AIProgram != nil:
		return RenderParameterIO(m.AIProgram.ToParameterIO())
	case m.AttClientList != nil:
		return RenderParameterIO(m.AttClientList.ToParameterIO())
	case m.DropTable != nil:
		return RenderParameterIO(m.DropTable.ToParameterIO())
	case m.Recipe != nil:
		return RenderParameterIO(m.Recipe.ToParameterIO())
	case m.LifeCondition != nil:
		return RenderParameterIO(m.LifeCondition.ToParameterIO())
	case m.AreaData != nil:
		return RenderNode(m.AreaData.ToByml())
	case m.Location != nil:
		return RenderNode(m.Location.ToByml())
	case m.MapStatic != nil:
		return RenderNode(m.MapStatic.ToByml())
	case m.GameDataPack != nil:
		return renderGameData(m)
	case m.SaveData != nil:
		var sb strings.Builder
		fmt.Fprintf(&sb, "save flags: %d\n", m.SaveData.Flags.Len())
		return sb.String()
	case m.GenericAamp != nil:
		return RenderParameterIO(m.GenericAamp.PIO)
	case m.GenericByml != nil:
		return RenderNode(m.GenericByml.Node)
	}
	return ""
}

func renderGameData(m *resource.MergeableResource) string {
	families := make([]string, 0, len(m.GameDataPack.Families))
	for name := range m.GameDataPack.Families {
		families = append(families, name)
	}
	sort.Strings(families)
	var sb strings.Builder
	for _, name := range families {
		fmt.Fprintf(&sb, "%s: %d flags\n", name, m.GameDataPack.Families[name].Flags.Len())
	}
	return sb.String()
}
