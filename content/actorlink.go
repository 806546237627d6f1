package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// ActorLink is the root actor definition: a flat object of link targets
// naming the actor's other parameter users, plus an optional tag set.
type ActorLink struct {
	Targets aamp.ParameterObject
	Tags    *delmap.DeleteMap[string, bool]
}

// ActorLinkFromParameterIO builds an ActorLink from a parsed .bxml document.
func ActorLinkFromParameterIO(pio *aamp.ParameterIO) (*ActorLink, error) {
	targets, ok := pio.Object("LinkTarget")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "actor link", "LinkTarget")
	}
	res := &ActorLink{Targets: targets.Clone(), Tags: delmap.New[string, bool]()}
	if tags, ok := pio.Object("Tags"); ok {
		var err error
		tags.Iter(func(name string, p aamp.Parameter) bool {
			tag, e := p.AsString()
			if e != nil {
				err = fmt.Errorf("actor link tag %s: %w", name, e)
				return false
			}
			res.Tags.Set(tag, true)
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ToParameterIO re-emits the actor link document. Tags are renumbered
// Tag0..TagN in map order.
func (a *ActorLink) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	pio.Root.SetObject("LinkTarget", a.Targets.Clone())
	if a.Tags.Len() > 0 {
		var tags aamp.ParameterObject
		i := 0
		a.Tags.Iter(func(tag string, _ bool) bool {
			tags.Set(fmt.Sprintf("Tag%d", i), aamp.String64(tag))
			i++
			return true
		})
		pio.Root.SetObject("Tags", tags)
	}
	return pio
}

func (a *ActorLink) Diff(other *ActorLink) *ActorLink {
	return &ActorLink{
		Targets: DiffObject(&a.Targets, &other.Targets),
		Tags:    a.Tags.Diff(other.Tags, func(x, y bool) bool { return x == y }),
	}
}

func (a *ActorLink) Merge(diff *ActorLink) *ActorLink {
	return &ActorLink{
		Targets: MergeObject(&a.Targets, &diff.Targets),
		Tags:    a.Tags.Merge(diff.Tags),
	}
}

func (a *ActorLink) Equal(other *ActorLink) bool {
	return a.Targets.Equal(&other.Targets) &&
		a.Tags.Equal(other.Tags, func(x, y bool) bool { return x == y })
}
