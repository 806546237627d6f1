package content

import (
	"testing"

	"github.com/resmerge/resmerge/aamp"
	"github.com/resmerge/resmerge/byml"
)

func baseActorLinkPIO() *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	var targets aamp.ParameterObject
	targets.Set("ActorNameJpn", aamp.String32("ガーディアン"))
	targets.Set("AIProgramUser", aamp.StringRef("Guardian_A"))
	targets.Set("DropTableUser", aamp.StringRef("Guardian_A"))
	pio.Root.SetObject("LinkTarget", targets)
	var tags aamp.ParameterObject
	tags.Set("Tag0", aamp.String64("Enemy"))
	tags.Set("Tag1", aamp.String64("Guardian"))
	pio.Root.SetObject("Tags", tags)
	return pio
}

func TestActorLinkSerde(t *testing.T) {
	link, err := ActorLinkFromParameterIO(baseActorLinkPIO())
	if err != nil {
		t.Fatal(err)
	}
	link2, err := ActorLinkFromParameterIO(link.ToParameterIO())
	if err != nil {
		t.Fatal(err)
	}
	if !link.Equal(link2) {
		t.Fatal("round trip lost data")
	}
}

func TestActorLinkDiffMerge(t *testing.T) {
	base, err := ActorLinkFromParameterIO(baseActorLinkPIO())
	if err != nil {
		t.Fatal(err)
	}
	modPIO := baseActorLinkPIO()
	obj, _ := modPIO.Object("LinkTarget")
	obj.Set("DropTableUser", aamp.StringRef("Guardian_B"))
	var tags aamp.ParameterObject
	tags.Set("Tag0", aamp.String64("Enemy"))
	tags.Set("Tag1", aamp.String64("Ancient"))
	modPIO.Root.SetObject("Tags", tags)
	mod, err := ActorLinkFromParameterIO(modPIO)
	if err != nil {
		t.Fatal(err)
	}

	diff := base.Diff(mod)
	if !diff.Tags.IsDelete("Guardian") {
		t.Fatal("removed tag not tombstoned")
	}
	if _, ok := diff.Tags.Get("Ancient"); !ok {
		t.Fatal("added tag missing from diff")
	}
	merged := base.Merge(diff)
	if !merged.Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	if merged.Tags.HasDeletes() {
		t.Fatal("merged result carries tombstones")
	}
}

func TestAttClientListDiffMerge(t *testing.T) {
	pio := aamp.NewParameterIO()
	var pos aamp.ParameterObject
	pos.Set("AttPosOffset", aamp.Vec3(0, 1.5, 0))
	pio.Root.SetObject("AttPos", pos)
	var clients aamp.ParameterList
	for i, pair := range [][2]string{{"Chase", "Guardian_Chase"}, {"Look", "Guardian_Look"}} {
		var obj aamp.ParameterObject
		obj.Set("Name", aamp.String64(pair[0]))
		obj.Set("FileName", aamp.String64(pair[1]))
		clients.SetObject([]string{"AttClient_0", "AttClient_1"}[i], obj)
	}
	pio.Root.SetList("AttClients", clients)

	base, err := AttClientListFromParameterIO(pio)
	if err != nil {
		t.Fatal(err)
	}
	mod := &AttClientList{AttPos: base.AttPos.Clone(), AttClients: base.AttClients.Clone()}
	mod.AttClients.Set("Chase", "Guardian_Chase_Fast")

	diff := base.Diff(mod)
	merged := base.Merge(diff)
	if !merged.Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}

	// Serialization renumbers clients from zero in map order.
	out := merged.ToParameterIO()
	list, _ := out.List("AttClients")
	if _, ok := list.Object("AttClient_0"); !ok {
		t.Fatal("client renumbering lost AttClient_0")
	}
}

func TestAIProgramDiffMerge(t *testing.T) {
	pio := aamp.NewParameterIO()
	for _, section := range []string{"AI", "Action", "Behavior", "Query"} {
		var list aamp.ParameterList
		var entry aamp.ParameterList
		var def aamp.ParameterObject
		def.Set("ClassName", aamp.String32("Root"+section))
		entry.SetObject("Def", def)
		list.SetList(section+"_0", entry)
		pio.Root.SetList(section, list)
	}
	base, err := AIProgramFromParameterIO(pio)
	if err != nil {
		t.Fatal(err)
	}

	mod, err := AIProgramFromParameterIO(base.ToParameterIO())
	if err != nil {
		t.Fatal(err)
	}
	var added aamp.ParameterList
	var def aamp.ParameterObject
	def.Set("ClassName", aamp.String32("SubAction"))
	added.SetObject("Def", def)
	mod.Actions.Set("SubAction", &added)

	diff := base.Diff(mod)
	if diff.Actions.Len() != 1 || diff.AIs.Len() != 0 {
		t.Fatalf("diff scope wrong: actions %d, ais %d", diff.Actions.Len(), diff.AIs.Len())
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func dropPIO(prob float32) *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	var header aamp.ParameterObject
	header.Set("TableNum", aamp.Int(1))
	header.Set("Table01", aamp.String64("Normal"))
	pio.Root.SetObject("Header", header)
	var table aamp.ParameterObject
	table.Set("RepeatNumMin", aamp.Int(1))
	table.Set("RepeatNumMax", aamp.Int(1))
	table.Set("ColumnNum", aamp.Int(2))
	table.Set("ItemName01", aamp.String64("Item_Ore_A"))
	table.Set("ItemProbability01", aamp.Float(prob))
	table.Set("ItemName02", aamp.String64("Item_Ore_B"))
	table.Set("ItemProbability02", aamp.Float(100-prob))
	pio.Root.SetObject("Normal", table)
	return pio
}

func TestDropTableSerde(t *testing.T) {
	table, err := DropTableFromParameterIO(dropPIO(30))
	if err != nil {
		t.Fatal(err)
	}
	table2, err := DropTableFromParameterIO(table.ToParameterIO())
	if err != nil {
		t.Fatal(err)
	}
	if !table.Equal(table2) {
		t.Fatal("round trip lost data")
	}
}

func TestDropTableDiffMerge(t *testing.T) {
	base, err := DropTableFromParameterIO(dropPIO(30))
	if err != nil {
		t.Fatal(err)
	}
	mod, err := DropTableFromParameterIO(dropPIO(75))
	if err != nil {
		t.Fatal(err)
	}
	diff := base.Diff(mod)
	if diff.Tables.Len() != 1 {
		t.Fatalf("diff holds %d tables, want 1", diff.Tables.Len())
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	if empty := base.Diff(base); empty.Tables.Len() != 0 || empty.Tables.HasDeletes() {
		t.Fatal("self diff not empty")
	}
}

func recipePIO(num int32) *aamp.ParameterIO {
	pio := aamp.NewParameterIO()
	var header aamp.ParameterObject
	header.Set("TableNum", aamp.Int(1))
	header.Set("Table01", aamp.String64("Normal0"))
	pio.Root.SetObject("Header", header)
	var table aamp.ParameterObject
	table.Set("ColumnNum", aamp.Int(1))
	table.Set("ItemName01", aamp.String64("Item_Wood"))
	table.Set("ItemNum01", aamp.Int(num))
	pio.Root.SetObject("Normal0", table)
	return pio
}

func TestRecipeDiffMerge(t *testing.T) {
	base, err := RecipeFromParameterIO(recipePIO(3))
	if err != nil {
		t.Fatal(err)
	}
	mod, err := RecipeFromParameterIO(recipePIO(5))
	if err != nil {
		t.Fatal(err)
	}
	if !base.Merge(base.Diff(mod)).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	round, err := RecipeFromParameterIO(base.ToParameterIO())
	if err != nil {
		t.Fatal(err)
	}
	if !round.Equal(base) {
		t.Fatal("round trip lost data")
	}
}

func TestLifeConditionDiffMerge(t *testing.T) {
	pio := aamp.NewParameterIO()
	var weathers aamp.ParameterObject
	weathers.Set("Item0", aamp.String32("HeavyRain"))
	pio.Root.SetObject("InvalidWeathers", weathers)
	var dist aamp.ParameterObject
	dist.Set("Item", aamp.Float(100))
	pio.Root.SetObject("DisplayDistance", dist)

	base, err := LifeConditionFromParameterIO(pio)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := LifeConditionFromParameterIO(base.ToParameterIO())
	if err != nil {
		t.Fatal(err)
	}
	mod.InvalidWeathers.Set("ThunderStorm", true)
	mod.DisplayDistance.Set("Item", aamp.Float(200))

	diff := base.Diff(mod)
	if _, ok := diff.InvalidWeathers.Get("HeavyRain"); ok {
		t.Fatal("unchanged weather leaked into diff")
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func areaDoc(climate string) *byml.Node {
	return byml.FromSlice([]*byml.Node{
		byml.FromMap(map[string]*byml.Node{
			"AreaNumber": byml.FromInt(0),
			"Climate":    byml.FromString(climate),
		}),
		byml.FromMap(map[string]*byml.Node{
			"AreaNumber": byml.FromInt(1),
			"Climate":    byml.FromString("HyrulePlainClimate"),
		}),
	})
}

func TestAreaDataDiffMerge(t *testing.T) {
	base, err := AreaDataFromByml(areaDoc("ColdClimate"))
	if err != nil {
		t.Fatal(err)
	}
	mod, err := AreaDataFromByml(areaDoc("DesertClimate"))
	if err != nil {
		t.Fatal(err)
	}
	diff := base.Diff(mod)
	if diff.Areas.Len() != 1 {
		t.Fatalf("diff holds %d areas, want 1", diff.Areas.Len())
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	round, err := AreaDataFromByml(base.ToByml())
	if err != nil {
		t.Fatal(err)
	}
	if !round.Equal(base) {
		t.Fatal("round trip lost data")
	}
}

func TestLocationDiffMerge(t *testing.T) {
	doc := byml.FromSlice([]*byml.Node{
		byml.FromMap(map[string]*byml.Node{
			"MessageID": byml.FromString("Village_Kakariko"),
			"Icon":      byml.FromString("Village"),
		}),
	})
	base, err := LocationFromByml(doc)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := LocationFromByml(base.ToByml())
	if err != nil {
		t.Fatal(err)
	}
	mod.Markers.Set("Tower_Central", byml.FromMap(map[string]*byml.Node{
		"MessageID": byml.FromString("Tower_Central"),
		"Icon":      byml.FromString("Tower"),
	}))
	if !base.Merge(base.Diff(mod)).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func TestGenericAampDiffMerge(t *testing.T) {
	base := &GenericAamp{PIO: baseActorLinkPIO()}
	modPIO := baseActorLinkPIO()
	obj, _ := modPIO.Object("LinkTarget")
	obj.Set("Scale", aamp.Float(2))
	mod := &GenericAamp{PIO: modPIO}

	diff := base.Diff(mod)
	if diff.PIO.Root.NumObjects() != 1 {
		t.Fatalf("diff holds %d objects, want 1", diff.PIO.Root.NumObjects())
	}
	if !base.Merge(diff).Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
}

func TestGenericBymlDiffMerge(t *testing.T) {
	base := &GenericByml{Node: byml.FromMap(map[string]*byml.Node{
		"Keep":   byml.FromInt(1),
		"Change": byml.FromString("old"),
		"Drop":   byml.FromBool(true),
		"Nest": byml.FromMap(map[string]*byml.Node{
			"Inner": byml.FromFloat(1.5),
		}),
	})}
	mod := &GenericByml{Node: byml.FromMap(map[string]*byml.Node{
		"Keep":   byml.FromInt(1),
		"Change": byml.FromString("new"),
		"Added":  byml.FromInt(7),
		"Nest": byml.FromMap(map[string]*byml.Node{
			"Inner": byml.FromFloat(2.5),
		}),
	})}

	diff := base.Diff(mod)
	if diff.Node.Get("Keep") != nil {
		t.Fatal("unchanged key leaked into diff")
	}
	if !isGenericDelete(diff.Node.Get("Drop")) {
		t.Fatal("removed key not marked")
	}
	merged := base.Merge(diff)
	if !merged.Equal(mod) {
		t.Fatal("merge(base, diff(base, mod)) != mod")
	}
	if merged.Node.Get("Drop") != nil {
		t.Fatal("delete marker not consumed")
	}
}
