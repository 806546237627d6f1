package resource

import (
	"fmt"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/content"
	"github.com/resmerge/resmerge/format"
)

// MergeableResource is the closed sum over every typed resource schema.
// Exactly one arm is non-nil. The kind set is fixed, so diff, merge, and
// serialization switch exhaustively; pairing two different kinds is a
// caller bug and panics.
type MergeableResource struct {
	ActorLink     *content.ActorLink
	AIProgram     *content.AIProgram
	AttClientList *content.AttClientList
	DropTable     *content.DropTable
	Recipe        *content.Recipe
	AreaData      *content.AreaData
	LifeCondition *content.LifeCondition
	Location      *content.Location
	MapStatic     *content.MapStatic
	GameDataPack  *content.GameDataPack
	SaveData      *content.SaveData
	GenericAamp   *content.GenericAamp
	GenericByml   *content.GenericByml
}

// Kind names the populated arm.
func (m *MergeableResource) Kind() string {
	switch {
	case m.ActorLink != nil:
		return "ActorLink"
	case m.AIProgram != nil:
		return "AIProgram"
	case m.AttClientList != nil:
		return "AttClientList"
	case m.DropTable != nil:
		return "DropTable"
	case m.Recipe != nil:
		return "Recipe"
	case m.AreaData != nil:
		return "AreaData"
	case m.LifeCondition != nil:
		return "LifeCondition"
	case m.Location != nil:
		return "Location"
	case m.MapStatic != nil:
		return "MapStatic"
	case m.GameDataPack != nil:
		return "GameDataPack"
	case m.SaveData != nil:
		return "SaveData"
	case m.GenericAamp != nil:
		return "GenericAamp"
	case m.GenericByml != nil:
		return "GenericByml"
	}
	return "Empty"
}

func (m *MergeableResource) mustPair(other *MergeableResource, op string) {
	if m.Kind() != other.Kind() {
		panic(fmt.Sprintf("%s of mismatched resource kinds %s and %s", op, m.Kind(), other.Kind()))
	}
}

// Diff produces a resource-shaped value holding only what changed between
// m and other.
func (m *MergeableResource) Diff(other *MergeableResource) *MergeableResource {
	m.mustPair(other, "diff")
	switch {
	case m.ActorLink != nil:
		return &MergeableResource{ActorLink: m.ActorLink.Diff(other.ActorLink)}
	case m.AIProgram != nil:
		return &MergeableResource{AIProgram: m.AIProgram.Diff(other.AIProgram)}
	case m.AttClientList != nil:
		return &MergeableResource{AttClientList: m.AttClientList.Diff(other.AttClientList)}
	case m.DropTable != nil:
		return &MergeableResource{DropTable: m.DropTable.Diff(other.DropTable)}
	case m.Recipe != nil:
		return &MergeableResource{Recipe: m.Recipe.Diff(other.Recipe)}
	case m.AreaData != nil:
		return &MergeableResource{AreaData: m.AreaData.Diff(other.AreaData)}
	case m.LifeCondition != nil:
		return &MergeableResource{LifeCondition: m.LifeCondition.Diff(other.LifeCondition)}
	case m.Location != nil:
		return &MergeableResource{Location: m.Location.Diff(other.Location)}
	case m.MapStatic != nil:
		return &MergeableResource{MapStatic: m.MapStatic.Diff(other.MapStatic)}
	case m.GameDataPack != nil:
		return &MergeableResource{GameDataPack: m.GameDataPack.Diff(other.GameDataPack)}
	case m.SaveData != nil:
		return &MergeableResource{SaveData: m.SaveData.Diff(other.SaveData)}
	case m.GenericAamp != nil:
		return &MergeableResource{GenericAamp: m.GenericAamp.Diff(other.GenericAamp)}
	case m.GenericByml != nil:
		return &MergeableResource{GenericByml: m.GenericByml.Diff(other.GenericByml)}
	}
	panic("diff of empty resource")
}

// Merge applies a diff to m, producing a new resource.
func (m *MergeableResource) Merge(diff *MergeableResource) *MergeableResource {
	m.mustPair(diff, "merge")
	switch {
	case m.ActorLink != nil:
		return &MergeableResource{ActorLink: m.ActorLink.Merge(diff.ActorLink)}
	case m.AIProgram != nil:
		return &MergeableResource{AIProgram: m.AIProgram.Merge(diff.AIProgram)}
	case m.AttClientList != nil:
		return &MergeableResource{AttClientList: m.AttClientList.Merge(diff.AttClientList)}
	case m.DropTable != nil:
		return &MergeableResource{DropTable: m.DropTable.Merge(diff.DropTable)}
	case m.Recipe != nil:
		return &MergeableResource{Recipe: m.Recipe.Merge(diff.Recipe)}
	case m.AreaData != nil:
		return &MergeableResource{AreaData: m.AreaData.Merge(diff.AreaData)}
	case m.LifeCondition != nil:
		return &MergeableResource{LifeCondition: m.LifeCondition.Merge(diff.LifeCondition)}
	case m.Location != nil:
		return &MergeableResource{Location: m.Location.Merge(diff.Location)}
	case m.MapStatic != nil:
		return &MergeableResource{MapStatic: m.MapStatic.Merge(diff.MapStatic)}
	case m.GameDataPack != nil:
		return &MergeableResource{GameDataPack: m.GameDataPack.Merge(diff.GameDataPack)}
	case m.SaveData != nil:
		return &MergeableResource{SaveData: m.SaveData.Merge(diff.SaveData)}
	case m.GenericAamp != nil:
		return &MergeableResource{GenericAamp: m.GenericAamp.Merge(diff.GenericAamp)}
	case m.GenericByml != nil:
		return &MergeableResource{GenericByml: m.GenericByml.Merge(diff.GenericByml)}
	}
	panic("merge of empty resource")
}

// Equal reports structural equality of two resources of the same kind.
func (m *MergeableResource) Equal(other *MergeableResource) bool {
	if m.Kind() != other.Kind() {
		return false
	}
	switch {
	case m.ActorLink != nil:
		return m.ActorLink.Equal(other.ActorLink)
	case m.AIProgram != nil:
		return m.AIProgram.Equal(other.AIProgram)
	case m.AttClientList != nil:
		return m.AttClientList.Equal(other.AttClientList)
	case m.DropTable != nil:
		return m.DropTable.Equal(other.DropTable)
	case m.Recipe != nil:
		return m.Recipe.Equal(other.Recipe)
	case m.AreaData != nil:
		return m.AreaData.Equal(other.AreaData)
	case m.LifeCondition != nil:
		return m.LifeCondition.Equal(other.LifeCondition)
	case m.Location != nil:
		return m.Location.Equal(other.Location)
	case m.MapStatic != nil:
		return m.MapStatic.Equal(other.MapStatic)
	case m.GameDataPack != nil:
		return m.GameDataPack.Equal(other.GameDataPack)
	case m.SaveData != nil:
		return m.SaveData.Equal(other.SaveData)
	case m.GenericAamp != nil:
		return m.GenericAamp.Equal(other.GenericAamp)
	case m.GenericByml != nil:
		return m.GenericByml.Equal(other.GenericByml)
	}
	return true
}

// ToBinary serializes the resource for the target platform.
func (m *MergeableResource) ToBinary(endian format.Endian) ([]byte, error) {
	switch {
	case m.ActorLink != nil:
		return m.ActorLink.ToParameterIO().ToBinaryEndian(endian), nil
	case m.AIProgram != nil:
		return m.AIProgram.ToParameterIO().ToBinaryEndian(endian), nil
	case m.AttClientList != nil:
		return m.AttClientList.ToParameterIO().ToBinaryEndian(endian), nil
	case m.DropTable != nil:
		return m.DropTable.ToParameterIO().ToBinaryEndian(endian), nil
	case m.Recipe != nil:
		return m.Recipe.ToParameterIO().ToBinaryEndian(endian), nil
	case m.LifeCondition != nil:
		return m.LifeCondition.ToParameterIO().ToBinaryEndian(endian), nil
	case m.AreaData != nil:
		return byml.ToBinary(m.AreaData.ToByml(), endian)
	case m.Location != nil:
		return byml.ToBinary(m.Location.ToByml(), endian)
	case m.MapStatic != nil:
		return byml.ToBinary(m.MapStatic.ToByml(), endian)
	case m.GameDataPack != nil:
		a, err := m.GameDataPack.ToArchive(endian)
		if err != nil {
			return nil, err
		}
		return a.ToBinary(), nil
	case m.SaveData != nil:
		a, err := m.SaveData.ToArchive(endian)
		if err != nil {
			return nil, err
		}
		return a.ToBinary(), nil
	case m.GenericAamp != nil:
		return m.GenericAamp.PIO.ToBinaryEndian(endian), nil
	case m.GenericByml != nil:
		return byml.ToBinary(m.GenericByml.Node, endian)
	}
	return nil, fmt.Errorf("%w: empty resource", ErrUnsupportedFormat)
}
