package pack

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockpacks/internal/eventbus"
	"github.com/annel0/blockpacks/internal/lang"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/recipe"
	"github.com/annel0/blockpacks/internal/vec"
)

const slabShape = `
bounds:
  use-vanilla-collision: false
  collision-box: "0-1-0-16-16-16"
shapes:
  - texture: 0
    coords: |
      0 0 0
      1 0 0
      1 0.5 1
      0 0.5 1
`

const crateFullShape = `
shapes:
  - texture: 1
    coords: |
      0 0 0
      1 0 0
      1 1 0
      0 1 0
  - texture: 2
    coords: |
      0 0 1
      1 0 1
      1 1 1
      0 1 1
`

// writePacks раскладывает файлы каталога паков во временной директории
func writePacks(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func compile(t *testing.T, opts Options, files map[string]string) *Result {
	t.Helper()
	res, err := NewCompiler(opts).LoadDirectory(writePacks(t, files))
	require.NoError(t, err)
	return res
}

func findBlock(t *testing.T, p *Pack, identifier string) *Block {
	t.Helper()
	for _, b := range p.Blocks {
		if b.Identifier == identifier {
			return b
		}
	}
	t.Fatalf("блок %s не найден в паке %s", identifier, p.Name)
	return nil
}

func issuesOfKind(r *Report, kind string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, err := NewCompiler(Options{}).LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestCropStagesFirstRegistrationWins(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Farm/corn.yml": `
type: crop
title: Corn
texture: corn.png
stages:
  0:
    growth:
      chance: "50"
  3:
    shape: corn_tall
  3:
    shape: corn_other
  16: {}
seed:
  title: Corn Seed
`,
	})

	p, ok := res.Pack("farm")
	require.True(t, ok)
	require.Len(t, p.Crops, 1)
	crop := p.Crops[0]

	assert.Equal(t, []int{0, 3}, crop.StageIDs())
	assert.Equal(t, "corn_tall", crop.Stages[3].ModelName)
	assert.Equal(t, "corn", crop.Stages[3].TextureName)
	assert.Len(t, issuesOfKind(res.Report, "structural"), 2)

	growth, ok := node.Lookup[*node.GrowthNode](crop.Stages[0].Nodes())
	require.True(t, ok)
	assert.Equal(t, 50.0, growth.Chance.Max)

	stage, ok := crop.StageAt(2)
	require.True(t, ok)
	assert.Equal(t, 0, stage.ID)

	require.NotNil(t, crop.Seed)
	assert.Equal(t, "corn\\seed", crop.Seed.Identifier)
	assert.Equal(t, "Corn Seed", crop.Seed.Title)
	assert.Same(t, crop, crop.Seed.Crop)

	soil, ok := node.Lookup[*node.SoilNode](crop.Seed.Nodes())
	require.True(t, ok)
	assert.Equal(t, "farmland", soil.Source.Name)

	_, hasBreak := node.Lookup[*node.BreakNode](crop.Nodes())
	assert.False(t, hasBreak, "культура без ключа break не получает инструмент по умолчанию")
}

func TestMalformedCollisionBoxFallsBackToVanilla(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"slab.shape":     slabShape,
		"Deco/table.yml": "title: Table\nshape: slab.shape\n",
	})

	m, ok := res.Models.Get("SLAB")
	require.True(t, ok)
	assert.Nil(t, m.Physics.Collision)
	assert.False(t, m.Physics.UseVanillaCollision)

	p, _ := res.Pack("Deco")
	table := findBlock(t, p, "table")
	require.Same(t, m, table.Model)

	pos := vec.Of(2, 3, 4)
	assert.Equal(t, model.FullCube().Offset(2, 3, 4), table.CollisionBox(pos))

	parseIssues := issuesOfKind(res.Report, "parse")
	require.Len(t, parseIssues, 1)
	assert.Equal(t, "slab", parseIssues[0].Object)
	assert.Contains(t, parseIssues[0].Message, "collision-box")
}

func TestShapeCompletedToFourFaces(t *testing.T) {
	res := compile(t, Options{}, map[string]string{"slab.shape": slabShape})

	m, ok := res.Models.Get("slab")
	require.True(t, ok)
	require.True(t, m.HasShape())
	require.Len(t, m.Shape.Faces, MinShapeFaces)
	assert.False(t, m.Shape.Faces[0].Mirrored)
	for _, f := range m.Shape.Faces[1:] {
		assert.True(t, f.Mirrored)
	}
	assert.True(t, m.Shape.Model)
}

func TestEmptyShapeKeepsPhysics(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Deco/empty.shape": "bounds:\n  use-vanilla-wireframe: false\n  wireframe-box: \"0 0 0 1 0.5 1\"\n",
	})

	m, ok := res.Models.Get("empty")
	require.True(t, ok)
	assert.False(t, m.HasShape())
	require.NotNil(t, m.Physics.Wireframe)
	assert.Equal(t, 0.5, m.Physics.Wireframe.Max[1])

	structural := issuesOfKind(res.Report, "structural")
	require.Len(t, structural, 1)
	assert.Equal(t, "Deco", structural[0].Pack)
}

func TestDefaultBreakTool(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Deco/bricks.yml": "title: Bricks\n",
	})
	p, _ := res.Pack("Deco")
	b := findBlock(t, p, "bricks")

	br, ok := node.Lookup[*node.BreakNode](b.Nodes())
	require.True(t, ok)
	require.Len(t, br.Tools, 1)
	assert.True(t, br.Tools[0].OffHand)
	require.Len(t, br.Tools[0].Drops, 1)
	assert.True(t, br.Tools[0].Drops[0].Source.Same(b.Game))
	assert.Equal(t, "Deco\\bricks", b.Game.Name)
}

func TestBreakToolsResolveAgainstRegistry(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Deco/ore.yml": `
break:
  tools:
    iron_pickaxe:
      experience: "1-3"
      drops:
        diamond:
          amount: "2"
    none:
      drops:
        cobblestone: {}
    golden_spoon:
      drops:
        diamond: {}
`,
	})
	p, _ := res.Pack("Deco")
	b := findBlock(t, p, "ore")

	br, ok := node.Lookup[*node.BreakNode](b.Nodes())
	require.True(t, ok)
	require.Len(t, br.Tools, 2)
	assert.Equal(t, "iron_pickaxe", br.Tools[0].Tool.Name)
	assert.Equal(t, 3, br.Tools[0].Experience.Max)
	assert.True(t, br.Tools[1].OffHand)
	assert.Len(t, issuesOfKind(res.Report, "unresolved-reference"), 1)

	pick, _ := res.Registry.Lookup("minecraft", "iron_pickaxe")
	tool := br.SelectTool(&pick)
	require.NotNil(t, tool)
	assert.Equal(t, "diamond", tool.Drops[0].Source.Name)
}

func TestShapedRecipeEncoding(t *testing.T) {
	recipes := recipe.NewManager()
	res := compile(t, Options{Recipes: recipes}, map[string]string{
		"Deco/table.yml": `
recipes:
  1:
    type: shaped
    amount: 2
    ingredients:
      - stick cobblestone stick
      - _ coal _
  2:
    type: teleport
  x:
    type: shapeless
  3:
    type: shapeless
    ingredients:
      - unknown_thing
  4:
    type: smelt
    input: log
    experience: 0.5
`,
	})

	r, ok := recipes.Get("Deco", "table", 1)
	require.True(t, ok)
	assert.Equal(t, recipe.Shaped, r.Kind)
	assert.Equal(t, 2, r.Result.Amount)
	require.GreaterOrEqual(t, len(r.Params), 2)
	assert.Equal(t, []any{"aba", " c "}, r.Params[:2])
	assert.Equal(t, 'a', r.Params[2])

	smelt, ok := recipes.Get("Deco", "table", 4)
	require.True(t, ok)
	assert.Equal(t, 0.5, smelt.Experience)

	p, _ := res.Pack("Deco")
	rn, ok := node.Lookup[*node.RecipeNode](findBlock(t, p, "table").Nodes())
	require.True(t, ok)
	assert.Len(t, rn.Recipes, 2)
	assert.Equal(t, 2, res.Report.Recipes)

	assert.Equal(t, 1, res.Report.Counts["unknown-recipe-type"])
	assert.Equal(t, 1, res.Report.Counts["parse"])
	assert.Equal(t, 1, res.Report.Counts["invalid-recipe"])
}

func TestShapedRecipeFromFlatIngredientList(t *testing.T) {
	recipes := recipe.NewManager()
	res := compile(t, Options{Recipes: recipes}, map[string]string{
		"Deco/shelf.yml": `
recipes:
  1:
    type: shaped
    ingredients:
      - stick cobblestone stick _ coal _
`,
	})

	r, ok := recipes.Get("Deco", "shelf", 1)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(r.Params), 2)
	assert.Equal(t, []any{"aba", " c "}, r.Params[:2])
	assert.Zero(t, res.Report.Counts["invalid-recipe"])
}

func TestDuplicateRecipeAcrossCompilations(t *testing.T) {
	recipes := recipe.NewManager()
	files := map[string]string{
		"Food/pie.yml": "type: food\nrecipes:\n  1:\n    type: shapeless\n    ingredients:\n      - apple apple@2\n",
	}
	compile(t, Options{Recipes: recipes}, files)
	res := compile(t, Options{Recipes: recipes}, files)

	assert.Equal(t, 1, res.Report.Counts["duplicate-recipe"])
	r, ok := recipes.Get("food", "PIE", 1)
	require.True(t, ok)
	require.Len(t, r.Params, 2)
	assert.Equal(t, 2, r.Params[1].(recipe.Ingredient).Amount)
}

func TestContainerStatesAndInventorySize(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"slab.shape":       slabShape,
		"crate_full.shape": crateFullShape,
		"Storage/crate.yml": `
type: container
shape: slab
texture: crate.png
container:
  inventory-size: 10
  state:
    has-contents:
      enabled: true
      shape: crate_full.shape
      texture: crate_full.png
      texture-coordinates:
        - "0 0 8 8"
    FULL:
      enabled: false
`,
		"Storage/vault.yml": "type: container\ncontainer:\n  inventory-size: 64\n",
	})

	p, _ := res.Pack("Storage")
	crate := findBlock(t, p, "crate")
	cn, ok := node.Lookup[*node.ContainerNode](crate.Nodes())
	require.True(t, ok)
	assert.Equal(t, 9, cn.Size)

	vault, ok := node.Lookup[*node.ContainerNode](findBlock(t, p, "vault").Nodes())
	require.True(t, ok)
	assert.Equal(t, 54, vault.Size)

	slab, _ := res.Models.Get("slab")
	full, _ := res.Models.Get("crate_full")
	assert.Same(t, slab, crate.ModelAt(FillEmpty))
	assert.Same(t, full, crate.ModelAt(FillHasContents))
	assert.Same(t, full, crate.ModelAt(FillFull), "выключенное FULL использует HAS-CONTENTS")

	reg := &fakeIcons{}
	crate.RegisterIcons(reg)
	crate.RegisterIcons(reg)
	assert.Equal(t, []string{"crate", "crate_full"}, reg.names)
	assert.Nil(t, crate.ClipIconsAt(FillEmpty))
	require.Len(t, crate.ClipIconsAt(FillFull), 1)
	assert.Equal(t, "crate_full", crate.ClipIconsAt(FillFull)[0].Parent.Name)

	assert.Len(t, issuesOfKind(res.Report, "parse"), 3, "рамка slab и размеры инвентаря crate и vault")
}

// fakeIcons регистратор атласа, запоминающий запрошенные текстуры
type fakeIcons struct {
	names []string
}

func (f *fakeIcons) RegisterIcon(texture string) model.Icon {
	f.names = append(f.names, texture)
	return model.Icon{Name: texture, MaxU: 1, MaxV: 1, Width: 16, Height: 16}
}

func TestIconsAndClipFallback(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Deco/lamp.yml": `
texture: lamp.png
texture-coordinates:
  - "0 0 8 8"
  - "8 0 8 8"
light:
  emission: 15
  opacity: 300
`,
		"Deco/plain.yml": "texture: plain.png\n",
	})
	p, _ := res.Pack("Deco")
	lamp := findBlock(t, p, "lamp")
	plain := findBlock(t, p, "plain")

	reg := &fakeIcons{}
	lamp.RegisterIcons(reg)
	plain.RegisterIcons(reg)

	require.Len(t, lamp.ClipIcons(), 2)
	assert.InDelta(t, 0.5, lamp.Icon(1).MinU, 1e-9)
	assert.InDelta(t, 0.0, lamp.Icon(5).MinU, 1e-9, "индекс вне диапазона даёт первую иконку")
	assert.Equal(t, 1.0, plain.Icon(3).MaxU)

	sparse := &Object{
		icon:      model.Icon{MaxU: 1, MaxV: 1, Width: 16, Height: 16},
		clipIcons: []*model.ClippedIcon{nil, {MinU: 0.5, MaxU: 1}},
	}
	require.NotNil(t, sparse.Icon(0))
	assert.InDelta(t, 0.5, sparse.Icon(0).MinU, 1e-9)
	assert.Equal(t, 1.0, (&Object{icon: model.Icon{MaxU: 1}}).Icon(0).MaxU)

	assert.Equal(t, 15, lamp.LightValue())
	assert.Equal(t, 255, lamp.Opacity())
	assert.True(t, lamp.RenderAsNormalBlock())
	assert.True(t, lamp.OpaqueCube())
}

func TestLanguageKeysAndTooltip(t *testing.T) {
	tr := lang.NewRegistry()
	res := compile(t, Options{Lang: tr}, map[string]string{
		"Food/apple.yml": "type: food\ntitle: |\n  Apple\n  Crunchy\n",
		"Food/oven.yml":  "type: block\ntitle: Oven\n",
		"Farm/corn.yml":  "type: crop\ntitle: Corn\nseed:\n  title: Corn Seed\n",
	})

	v, ok := tr.Get(lang.Default, "item.Food\\apple.name")
	require.True(t, ok)
	assert.Equal(t, "Apple", v)
	v, _ = tr.Get(lang.Default, "tile.Food\\oven.name")
	assert.Equal(t, "Oven", v)
	v, _ = tr.Get(lang.Default, "tile.Farm\\corn.name")
	assert.Equal(t, "Corn", v)
	v, _ = tr.Get(lang.Default, "item.Farm\\corn\\seed.name")
	assert.Equal(t, "Corn Seed", v)

	p, _ := res.Pack("Food")
	require.Len(t, p.Items, 1)
	assert.Equal(t, []string{"Crunchy"}, p.Items[0].Tooltip)
	assert.True(t, p.Items[0].Food)
	_, ok = node.Lookup[*node.ConsumptionNode](p.Items[0].Nodes())
	assert.True(t, ok)
}

func TestDuplicateAndUnknownObjects(t *testing.T) {
	res := compile(t, Options{}, map[string]string{
		"Deco/Lamp.yml":   "title: First\n",
		"Deco/lamp.yml":   "title: Second\n",
		"Deco/ghost.yml":  "type: spirit\n",
		"Deco/broken.yml": "title: [unterminated\n",
		"Deco/notes.txt":  "ignored",
	})
	p, _ := res.Pack("Deco")
	require.Len(t, p.Blocks, 1)
	assert.Equal(t, "First", p.Blocks[0].Title)

	assert.Equal(t, 2, res.Report.Counts["structural"])
	assert.Equal(t, 1, res.Report.Counts["parse"])

	summary, ok := res.Report.Summary("Deco")
	require.True(t, ok)
	assert.Equal(t, 1, summary.Objects)
	assert.Equal(t, 3, summary.Issues)
	assert.Len(t, res.Report.IssuesFor("Deco"), 3)
}

func TestNodeAttachedEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(1024)

	var mu sync.Mutex
	attached := map[string][]string{}
	compiled := 0
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.EventType {
		case eventbus.TypeNodeAttached:
			var p eventbus.NodeAttached
			if ev.Decode(&p) == nil {
				attached[p.Owner] = append(attached[p.Owner], p.Kind)
			}
		case eventbus.TypePackCompiled:
			compiled++
		}
	})
	require.NoError(t, err)

	res := compile(t, Options{Bus: bus}, map[string]string{"Deco/lamp.yml": "light:\n  emission: 0.5\n"})
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, compiled)
	assert.ElementsMatch(t, []string{"rotation", "light", "render", "break"}, attached["Deco\\lamp"])
	assert.NotEmpty(t, res.Session)
}

func TestMetricsCountObjectsAndIssues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	compile(t, Options{Metrics: m}, map[string]string{
		"Deco/a.yml": "title: A\n",
		"Deco/b.yml": "type: item\n",
		"Deco/c.yml": "type: nope\n",
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.objects.WithLabelValues("Deco", TypeBlock)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.objects.WithLabelValues("Deco", TypeItem)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issues.WithLabelValues("structural")))
}

func TestDebugModeLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	logging.SetDefaultLogger(logging.NewWriterLogger("pack", &buf, logging.DEBUG))
	t.Cleanup(func() { logging.SetDefaultLogger(nil) })

	files := map[string]string{"Deco/ghost.yml": "type: spirit\n"}
	compile(t, Options{}, files)
	assert.Contains(t, buf.String(), "[WARN]")
	assert.NotContains(t, buf.String(), "[ERROR]")

	buf.Reset()
	compile(t, Options{Debug: true}, files)
	assert.Contains(t, buf.String(), "[ERROR]")
}
