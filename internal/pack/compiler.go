// Package pack компилирует каталоги паков: модели из файлов форм, объявления блоков,
// предметов, еды, культур и контейнеров, а также узлы возможностей на них.
// Ошибка в одном объекте, узле или записи фиксируется в отчёте и не прерывает компиляцию.
package pack

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/annel0/blockpacks/internal/eventbus"
	"github.com/annel0/blockpacks/internal/lang"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/parse"
	"github.com/annel0/blockpacks/internal/pack/tree"
	"github.com/annel0/blockpacks/internal/recipe"
)

// Options параметры компилятора. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	ModID        string
	DefaultModID string
	Debug        bool
	Language     string
	Host         HostRegistry
	Recipes      recipe.Registrar
	Lang         lang.Registrar
	Bus          eventbus.EventBus
	Metrics      *Metrics
}

// Compiler компилятор каталога паков
type Compiler struct {
	opts Options
}

func NewCompiler(opts Options) *Compiler {
	if opts.ModID == "" {
		opts.ModID = "almura"
	}
	if opts.DefaultModID == "" {
		opts.DefaultModID = "minecraft"
	}
	if opts.Language == "" {
		opts.Language = lang.Default
	}
	if opts.Host == nil {
		opts.Host = Vanilla()
	}
	if opts.Recipes == nil {
		opts.Recipes = recipe.NewManager()
	}
	if opts.Lang == nil {
		opts.Lang = lang.NewRegistry()
	}
	return &Compiler{opts: opts}
}

// Options действующие параметры компилятора
func (c *Compiler) Options() Options { return c.opts }

// Result итог компиляции
type Result struct {
	Session  string
	Packs    []*Pack
	Models   *model.Library
	Registry *mapper.Registry
	Report   *Report
}

// Pack пак по имени без учёта регистра
func (r *Result) Pack(name string) (*Pack, bool) {
	for _, p := range r.Packs {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// declared объявление, ожидающее прикрепления ссылочных узлов
type declared struct {
	scope *scope
	root  *tree.Node
	block *Block
	item  *Item
	crop  *Crop
}

// compilation состояние одного запуска LoadDirectory
type compilation struct {
	opts       Options
	diag       *diagnostics
	models     *model.Library
	builder    *mapper.Builder
	stageRoots map[*Stage]*tree.Node
	pending    map[*Pack][]declared
	types      map[*Pack]map[string]int
}

// LoadDirectory компилирует каталог: каждый подкаталог является паком, файлы форм
// ищутся рекурсивно по всему дереву. Возвращается ошибка только при недоступном каталоге.
func (c *Compiler) LoadDirectory(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read packs directory %s", dir)
	}

	started := time.Now()
	report := &Report{
		Session:   uuid.NewString(),
		StartedAt: started,
		Counts:    make(map[string]int),
	}
	comp := &compilation{
		opts:       c.opts,
		diag:       newDiagnostics(c.opts.Debug, report, c.opts.Metrics, c.opts.Bus),
		models:     model.NewLibrary(),
		builder:    mapper.NewBuilder(c.opts.DefaultModID),
		stageRoots: make(map[*Stage]*tree.Node),
		pending:    make(map[*Pack][]declared),
		types:      make(map[*Pack]map[string]int),
	}
	c.opts.Host.Populate(comp.builder)

	logging.Info("Компиляция паков из %s (сессия %s)", dir, report.Session)

	comp.loadModels(dir)

	var packs []*Pack
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		packs = append(packs, comp.declarePack(filepath.Join(dir, e.Name()), e.Name()))
	}

	reg := comp.builder.Build()
	for _, p := range packs {
		comp.bind(reg, p)
	}
	for _, p := range packs {
		comp.attach(reg, p)
	}

	report.Models = comp.models.Len()
	for _, p := range packs {
		report.Recipes += recipeCount(p)
		summary := PackSummary{
			Name:    p.Name,
			Objects: len(comp.pending[p]),
			Types:   comp.types[p],
			Issues:  comp.diag.issuesFor(p.Name),
		}
		report.Packs = append(report.Packs, summary)
		comp.diag.publish(eventbus.TypePackCompiled, eventbus.PackCompiled{
			Session: report.Session,
			Pack:    p.Name,
			Objects: summary.Objects,
			Issues:  summary.Issues,
		})
	}
	comp.diag.finish(started)
	c.opts.Metrics.compiled(report.Models, report.Duration)

	logging.Info("Скомпилировано паков: %d, моделей: %d, ошибок: %d за %v",
		len(packs), report.Models, len(report.Issues), report.Duration)

	return &Result{
		Session:  report.Session,
		Packs:    packs,
		Models:   comp.models,
		Registry: reg,
		Report:   report,
	}, nil
}

func (c *compilation) newScope(pack, object string) *scope {
	return &scope{diag: c.diag, models: c.models, pack: pack, object: object}
}

func (c *compilation) newNodes(owner string) *node.Set {
	return node.NewSet(owner, func(owner string, n node.Node) {
		c.diag.publish(eventbus.TypeNodeAttached, eventbus.NodeAttached{Owner: owner, Kind: n.Kind().String()})
	})
}

// loadModels фаза 1: модели из всех файлов форм
func (c *compilation) loadModels(dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("Пропуск %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ShapeExt) {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		s := c.newScope(packOf(dir, path), name)
		root, err := tree.ReadFile(path)
		if err != nil {
			s.fail(errors.WithMessage(packerr.Parse("invalid shape file"), err.Error()))
			return nil
		}
		m := buildModel(s, name, root)
		if !c.models.Add(m) {
			s.fail(packerr.Structural("model [%s] is already loaded", name))
		}
		return nil
	})
	if err != nil {
		logging.Warn("Обход каталога моделей прерван: %v", err)
	}
}

// packOf имя пака по первому элементу относительного пути
func packOf(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// declarePack фаза 2: объявления объектов одного пака
func (c *compilation) declarePack(dir, name string) *Pack {
	p := &Pack{Name: name}
	c.types[p] = make(map[string]int)

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.diag.issue(name, "", errors.WithMessage(packerr.Structural("pack directory is not readable"), err.Error()))
		return p
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ObjectExt) {
			continue
		}
		identifier := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		c.declareFile(p, identifier, filepath.Join(dir, e.Name()))
	}
	return p
}

func (c *compilation) declareFile(p *Pack, identifier, path string) {
	s := c.newScope(p.Name, identifier)
	root, err := tree.ReadFile(path)
	if err != nil {
		s.fail(errors.WithMessage(packerr.Parse("invalid object file"), err.Error()))
		return
	}

	modID := c.opts.ModID
	name := mapper.PackObjectName(p.Name, identifier)
	if c.builder.Has(modID, name) {
		s.fail(packerr.Structural("object [%s] is already declared in pack [%s]", identifier, p.Name))
		return
	}

	typ := strings.ToLower(strings.TrimSpace(root.Get(KeyType).String(TypeBlock)))
	d := declared{scope: s, root: root}
	switch typ {
	case TypeBlock, TypeContainer:
		b := c.declareBlock(s, p, identifier, typ, root)
		c.builder.AddBlock(modID, name, b, true)
		p.Blocks = append(p.Blocks, b)
		c.opts.Lang.Put(c.opts.Language, "tile."+name+".name", b.Title)
		d.block = b
	case TypeItem, TypeFood:
		it := c.declareItem(s, p, identifier, typ, root)
		c.builder.AddItem(modID, name, it)
		p.Items = append(p.Items, it)
		c.opts.Lang.Put(c.opts.Language, "item."+name+".name", it.Title)
		d.item = it
	case TypeCrop:
		crop := c.declareCrop(s, p, identifier, root)
		c.builder.AddBlock(modID, name, crop, false)
		seedName := crop.Seed.RegistryName()
		c.builder.AddItem(modID, seedName, crop.Seed)
		p.Crops = append(p.Crops, crop)
		c.opts.Lang.Put(c.opts.Language, "tile."+name+".name", crop.Title)
		c.opts.Lang.Put(c.opts.Language, "item."+seedName+".name", crop.Seed.Title)
		d.crop = crop
	default:
		s.fail(packerr.Structural("type [%s] is not a known object type", typ))
		return
	}

	c.pending[p] = append(c.pending[p], d)
	c.types[p][typ]++
	c.opts.Metrics.object(p.Name, typ)
}

// initObject общие поля объявления
func (c *compilation) initObject(o *Object, s *scope, p *Pack, identifier, typ string, root *tree.Node) {
	o.PackName = p.Name
	o.Identifier = identifier
	o.Type = typ
	o.Title, o.Tooltip = parse.Title(root.Get(KeyTitle).String(""))
	o.TextureName = parse.StripExt(root.Get(KeyTexture).String(""), TextureExt)
	o.TextureCoordinates = s.textureCoordinates(root.Get(KeyTextureCoordinates))
	o.ModelName = parse.StripExt(root.Get(KeyShape).String(""), ShapeExt)
	o.Model = s.model(o.ModelName)
	o.ShowInCreativeTab = root.Get(KeyShowInCreativeTab).Bool(true)
	o.CreativeTab = root.Get(KeyCreativeTab).String(DefaultCreativeTab)
	o.nodes = c.newNodes(o.RegistryName())
}

func (c *compilation) declareBlock(s *scope, p *Pack, identifier, typ string, root *tree.Node) *Block {
	b := &Block{}
	c.initObject(&b.Object, s, p, identifier, typ, root)
	b.Hardness = root.Get(KeyHardness).Float(DefaultHardness)
	b.Resistance = root.Get(KeyResistance).Float(DefaultResistance)
	b.Stairs = root.Get(KeyStairs).Bool(false)

	b.nodes.Attach(rotationNode(s, root.Get(NodeRotate)))
	b.nodes.Attach(lightNode(s, root.Get(NodeLight)))
	b.nodes.Attach(renderNode(root.Get(NodeRender)))
	if fuel := root.Get(NodeFuel); !fuel.Virtual() {
		b.nodes.Attach(fuelNode(fuel))
	}
	if typ == TypeContainer {
		container, models := containerNode(s, root.Get(NodeContainer))
		b.nodes.Attach(container)
		b.stateModel = models
	}
	return b
}

func (c *compilation) declareItem(s *scope, p *Pack, identifier, typ string, root *tree.Node) *Item {
	it := &Item{Food: typ == TypeFood}
	c.initObject(&it.Object, s, p, identifier, typ, root)
	if fuel := root.Get(NodeFuel); !fuel.Virtual() {
		it.nodes.Attach(fuelNode(fuel))
	}
	if it.Food {
		it.nodes.Attach(consumptionNode(s, root.Get(NodeConsumption)))
	}
	return it
}

// bind фаза 3: ссылки объектов на их записи в замороженном реестре
func (c *compilation) bind(reg *mapper.Registry, p *Pack) {
	lookup := func(o *Object) {
		if obj, ok := reg.Lookup(c.opts.ModID, o.RegistryName()); ok {
			o.Game = obj
		}
	}
	for _, b := range p.Blocks {
		lookup(&b.Object)
	}
	for _, it := range p.Items {
		lookup(&it.Object)
	}
	for _, crop := range p.Crops {
		lookup(&crop.Object)
		lookup(&crop.Seed.Object)
	}
}

// attach фаза 4: узлы со ссылками на другие объекты
func (c *compilation) attach(reg *mapper.Registry, p *Pack) {
	resolver := reg.Resolver(c.opts.ModID, p.Name)
	for _, d := range c.pending[p] {
		s := d.scope
		s.resolver = resolver
		switch {
		case d.block != nil:
			b := d.block
			b.nodes.Attach(breakNode(s, d.root.Get(NodeBreak), b.Game, true))
			if col := d.root.Get(NodeCollision); !col.Virtual() {
				b.nodes.Attach(collisionNode(s, col))
			}
			if recipes := d.root.Get(NodeRecipes); !recipes.Virtual() {
				b.nodes.Attach(recipeNode(s, recipes, b.Game, c.opts.Recipes))
			}
		case d.item != nil:
			it := d.item
			if recipes := d.root.Get(NodeRecipes); !recipes.Virtual() {
				it.nodes.Attach(recipeNode(s, recipes, it.Game, c.opts.Recipes))
			}
		case d.crop != nil:
			c.attachCrop(s, d.crop, d.root)
		}
	}
}

func recipeCount(p *Pack) int {
	n := 0
	for _, o := range p.Objects() {
		if rn, ok := node.Lookup[*node.RecipeNode](o.Nodes()); ok {
			n += len(rn.Recipes)
		}
	}
	return n
}
