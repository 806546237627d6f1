package content

import (
	"fmt"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/delmap"
)

// AttClientList maps an actor's attention client names to their parameter
// file names, plus the shared attention position object.
type AttClientList struct {
	AttPos     aamp.ParameterObject
	AttClients *delmap.DeleteMap[string, string]
}

// AttClientListFromParameterIO builds an AttClientList from a parsed
// .batcllist document.
func AttClientListFromParameterIO(pio *aamp.ParameterIO) (*AttClientList, error) {
	pos, ok := pio.Object("AttPos")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "attention client list", "AttPos")
	}
	clients, ok := pio.List("AttClients")
	if !ok {
		return nil, missingKey(aamp.ErrMissingKey, "attention client list", "AttClients")
	}
	res := &AttClientList{AttPos: pos.Clone(), AttClients: delmap.New[string, string]()}
	var err error
	clients.IterObjects(func(objName string, obj *aamp.ParameterObject) bool {
		name, ok := obj.Get("Name")
		if !ok {
			err = missingKey(aamp.ErrMissingKey, "attention client "+objName, "Name")
			return false
		}
		file, ok := obj.Get("FileName")
		if !ok {
			err = missingKey(aamp.ErrMissingKey, "attention client "+objName, "FileName")
			return false
		}
		nameStr, e := name.AsString()
		if e != nil {
			err = e
			return false
		}
		fileStr, e := file.AsString()
		if e != nil {
			err = e
			return false
		}
		res.AttClients.Set(nameStr, fileStr)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ToParameterIO re-emits the document. Clients are renumbered
// AttClient_0..AttClient_N in map order.
func (a *AttClientList) ToParameterIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	pio.Root.SetObject("AttPos", a.AttPos.Clone())
	var clients aamp.ParameterList
	i := 0
	a.AttClients.Iter(func(name, file string) bool {
		var obj aamp.ParameterObject
		obj.Set("Name", aamp.String64(name))
		obj.Set("FileName", aamp.String64(file))
		clients.SetObject(fmt.Sprintf("AttClient_%d", i), obj)
		i++
		return true
	})
	pio.Root.SetList("AttClients", clients)
	return pio
}

func (a *AttClientList) Diff(other *AttClientList) *AttClientList {
	return &AttClientList{
		AttPos:     DiffObject(&a.AttPos, &other.AttPos),
		AttClients: a.AttClients.Diff(other.AttClients, func(x, y string) bool { return x == y }),
	}
}

func (a *AttClientList) Merge(diff *AttClientList) *AttClientList {
	return &AttClientList{
		AttPos:     MergeObject(&a.AttPos, &diff.AttPos),
		AttClients: a.AttClients.Merge(diff.AttClients),
	}
}

func (a *AttClientList) Equal(other *AttClientList) bool {
	return a.AttPos.Equal(&other.AttPos) &&
		a.AttClients.Equal(other.AttClients, func(x, y string) bool { return x == y })
}
