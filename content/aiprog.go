package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// aiCategory is one of the four AI program sections. Entries are keyed by
// class name so mods that reorder or interleave entries still diff cleanly;
// serialization renumbers them per section.
type aiCategory struct {
	listName string
	prefix   string
}

var aiCategories = []aiCategory{
	{"AI", "AI_%d"},
	{"Action", "Action_%d"},
	{"Behavior", "Behavior_%d"},
	{"Query", "Query_%d"},
}

// AIProgram is an actor's AI definition: four sections of named AI classes,
// each holding that class's full parameter list, plus the demo (cutscene)
// override table.
type AIProgram struct {
	AIs       *delmap.DeleteMap[string, *aamp.ParameterList]
	Actions   *delmap.DeleteMap[string, *aamp.ParameterList]
	Behaviors *delmap.DeleteMap[string, *aamp.ParameterList]
	Queries   *delmap.DeleteMap[string, *aamp.ParameterList]
	Demos     *delmap.DeleteMap[string, string]
}

func (p *AIProgram) section(i int) *delmap.DeleteMap[string, *aamp.ParameterList] {
	switch i {
	case 0:
		return p.AIs
	case 1:
		return p.Actions
	case 2:
		return p.Behaviors
	default:
		return p.Queries
	}
}

// aiClassName extracts the stable key of one AI class entry: its ClassName
// parameter, falling back to the Name parameter for named trees.
func aiClassName(entry *aamp.ParameterList) (string, error) {
	def, ok := entry.Object("Def")
	if !ok {
		return "", missingKey(aamp.ErrMissingKey, "AI program entry", "Def")
	}
	if p, ok := def.Get("Name"); ok {
		if s, err := p.AsString(); err == nil && s != "" {
			return s, nil
		}
	}
	p, ok := def.Get("ClassName")
	if !ok {
		return "", missingKey(aamp.ErrMissingKey, "AI program entry", "ClassName")
	}
	return p.AsString()
}

// AIProgramFromParameterIO builds an AIProgram from a parsed .baiprog
// document.
func AIProgramFromParameterIO(pio *aamp.ParameterIO) (*AIProgram, error) {
	res := &AIProgram{
		AIs:       delmap.New[string, *aamp.ParameterList](),
		Actions:   delmap.New[string, *aamp.ParameterList](),
		Behaviors: delmap.New[string, *aamp.ParameterList](),
		Queries:   delmap.New[string, *aamp.ParameterList](),
		Demos:     delmap.New[string, string](),
	}
	for i, cat := range aiCategories {
		list, ok := pio.List(cat.listName)
		if !ok {
			return nil, missingKey(aamp.ErrMissingKey, "AI program", cat.listName)
		}
		var err error
		list.IterLists(func(_ string, entry *aamp.ParameterList) bool {
			var key string
			if key, err = aiClassName(entry); err != nil {
				return false
			}
			clone := entry.Clone()
			res.section(i).Set(key, &clone)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	if demos, ok := pio.Object("DemoAIActionIdx"); ok {
		var err error
		demos.Iter(func(name string, p aamp.Parameter) bool {
			var s string
			if s, err = p.AsString(); err != nil {
				return false
			}
			res.Demos.Set(name, s)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ToParameterIO re-emits the document with per-section renumbering.
func (p *AIProgram) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	for i, cat := range aiCategories {
		var list aamp.ParameterList
		n := 0
		p.section(i).Iter(func(_ string, entry *aamp.ParameterList) bool {
			list.SetList(fmt.Sprintf(cat.prefix, n), entry.Clone())
			n++
			return true
		})
		pio.Root.SetList(cat.listName, list)
	}
	if p.Demos.Len() > 0 {
		var demos aamp.ParameterObject
		p.Demos.Iter(func(name, val string) bool {
			demos.Set(name, aamp.StringRef(val))
			return true
		})
		pio.Root.SetObject("DemoAIActionIdx", demos)
	}
	return pio
}

func listsEqual(a, b *aamp.ParameterList) bool { return a.Equal(b) }

func (p *AIProgram) Diff(other *AIProgram) *AIProgram {
	return &AIProgram{
		AIs:       p.AIs.Diff(other.AIs, listsEqual),
		Actions:   p.Actions.Diff(other.Actions, listsEqual),
		Behaviors: p.Behaviors.Diff(other.Behaviors, listsEqual),
		Queries:   p.Queries.Diff(other.Queries, listsEqual),
		Demos:     p.Demos.Diff(other.Demos, func(x, y string) bool { return x == y }),
	}
}

func (p *AIProgram) Merge(diff *AIProgram) *AIProgram {
	return &AIProgram{
		AIs:       p.AIs.Merge(diff.AIs),
		Actions:   p.Actions.Merge(diff.Actions),
		Behaviors: p.Behaviors.Merge(diff.Behaviors),
		Queries:   p.Queries.Merge(diff.Queries),
		Demos:     p.Demos.Merge(diff.Demos),
	}
}

func (p *AIProgram) Equal(other *AIProgram) bool {
	eqStr := func(x, y string) bool { return x == y }
	return p.AIs.Equal(other.AIs, listsEqual) &&
		p.Actions.Equal(other.Actions, listsEqual) &&
		p.Behaviors.Equal(other.Behaviors, listsEqual) &&
		p.Queries.Equal(other.Queries, listsEqual) &&
		p.Demos.Equal(other.Demos, eqStr)
}
