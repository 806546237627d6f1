package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// LifeCondition controls when an actor spawns and despawns: weather and
// time-of-day gates plus display distance tuning. The gate objects are
// optional in the source document.
type LifeCondition struct {
	InvalidWeathers *delmap.DeleteMap[string, bool]
	InvalidTimes    *delmap.DeleteMap[string, bool]
	DeleteWeathers  *delmap.DeleteMap[string, bool]
	DeleteTimes     *delmap.DeleteMap[string, bool]
	DisplayDistance aamp.ParameterObject
}

func lifeGateFromObject(pio *aamp.ParameterIO, name string) (*delmap.DeleteMap[string, bool], error) {
	res := delmap.New[string, bool]()
	obj, ok := pio.Object(name)
	if !ok {
		return res, nil
	}
	var err error
	obj.Iter(func(item string, p aamp.Parameter) bool {
		var s string
		if s, err = p.AsString(); err != nil {
			err = fmt.Errorf("life condition %s %s: %w", name, item, err)
			return false
		}
		res.Set(s, true)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// LifeConditionFromParameterIO builds a LifeCondition from a parsed
// .blifecondition document.
func LifeConditionFromParameterIO(pio *aamp.ParameterIO) (*LifeCondition, error) {
	res := &LifeCondition{}
	var err error
	if res.InvalidWeathers, err = lifeGateFromObject(pio, "InvalidWeathers"); err != nil {
		return nil, err
	}
	if res.InvalidTimes, err = lifeGateFromObject(pio, "InvalidTimes"); err != nil {
		return nil, err
	}
	if res.DeleteWeathers, err = lifeGateFromObject(pio, "DeleteWeathers"); err != nil {
		return nil, err
	}
	if res.DeleteTimes, err = lifeGateFromObject(pio, "DeleteTimes"); err != nil {
		return nil, err
	}
	if obj, ok := pio.Object("DisplayDistance"); ok {
		res.DisplayDistance = obj.Clone()
	}
	return res, nil
}

func lifeGateToObject(root *aamp.ParameterList, name, itemPrefix string, gate *delmap.DeleteMap[string, bool]) {
	if gate.Len() == 0 {
		return
	}
	var obj aamp.ParameterObject
	i := 0
	gate.Iter(func(item string, _ bool) bool {
		obj.Set(fmt.Sprintf("%s%d", itemPrefix, i), aamp.String32(item))
		i++
		return true
	})
	root.SetObject(name, obj)
}

// ToParameterIO re-emits the document, renumbering gate entries.
func (l *LifeCondition) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	lifeGateToObject(&pio.Root, "InvalidWeathers", "Item", l.InvalidWeathers)
	lifeGateToObject(&pio.Root, "InvalidTimes", "Item", l.InvalidTimes)
	lifeGateToObject(&pio.Root, "DeleteWeathers", "Item", l.DeleteWeathers)
	lifeGateToObject(&pio.Root, "DeleteTimes", "Item", l.DeleteTimes)
	if l.DisplayDistance.Len() > 0 {
		pio.Root.SetObject("DisplayDistance", l.DisplayDistance.Clone())
	}
	return pio
}

func (l *LifeCondition) Diff(other *LifeCondition) *LifeCondition {
	eq := func(x, y bool) bool { return x == y }
	return &LifeCondition{
		InvalidWeathers: l.InvalidWeathers.Diff(other.InvalidWeathers, eq),
		InvalidTimes:    l.InvalidTimes.Diff(other.InvalidTimes, eq),
		DeleteWeathers:  l.DeleteWeathers.Diff(other.DeleteWeathers, eq),
		DeleteTimes:     l.DeleteTimes.Diff(other.DeleteTimes, eq),
		DisplayDistance: DiffObject(&l.DisplayDistance, &other.DisplayDistance),
	}
}

func (l *LifeCondition) Merge(diff *LifeCondition) *LifeCondition {
	return &LifeCondition{
		InvalidWeathers: l.InvalidWeathers.Merge(diff.InvalidWeathers),
		InvalidTimes:    l.InvalidTimes.Merge(diff.InvalidTimes),
		DeleteWeathers:  l.DeleteWeathers.Merge(diff.DeleteWeathers),
		DeleteTimes:     l.DeleteTimes.Merge(diff.DeleteTimes),
		DisplayDistance: MergeObject(&l.DisplayDistance, &diff.DisplayDistance),
	}
}

func (l *LifeCondition) Equal(other *LifeCondition) bool {
	eq := func(x, y bool) bool { return x == y }
	return l.InvalidWeathers.Equal(other.InvalidWeathers, eq) &&
		l.InvalidTimes.Equal(other.InvalidTimes, eq) &&
		l.DeleteWeathers.Equal(other.DeleteWeathers, eq) &&
		l.DeleteTimes.Equal(other.DeleteTimes, eq) &&
		l.DisplayDistance.Equal(&other.DisplayDistance)
}
