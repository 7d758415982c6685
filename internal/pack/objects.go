package pack

import (
	"sort"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/physics"
	"github.com/annel0/blockpacks/internal/vec"
)

// HasNodes объект с набором узлов
type HasNodes interface {
	Nodes() *node.Set
}

// HasModel объект с общей моделью
type HasModel interface {
	ModelContainer() *model.Container
}

// HasClipIcons объект с вырезанными иконками граней
type HasClipIcons interface {
	ClipIcons() []*model.ClippedIcon
}

// IconRegistrar колбэк хоста, регистрирующий текстуру в атласе
type IconRegistrar interface {
	RegisterIcon(texture string) model.Icon
}

// Pack набор объектов одного каталога
type Pack struct {
	Name   string
	Blocks []*Block
	Items  []*Item
	Crops  []*Crop
}

// Objects все объекты пака, включая семена и стадии культур
func (p *Pack) Objects() []*Object {
	var out []*Object
	for _, b := range p.Blocks {
		out = append(out, &b.Object)
	}
	for _, i := range p.Items {
		out = append(out, &i.Object)
	}
	for _, c := range p.Crops {
		out = append(out, &c.Object)
		if c.Seed != nil {
			out = append(out, &c.Seed.Object)
		}
		for _, id := range c.StageIDs() {
			out = append(out, &c.Stages[id].Object)
		}
	}
	return out
}

// Find объект по локальному идентификатору без учёта регистра
func (p *Pack) Find(identifier string) (*Object, bool) {
	for _, o := range p.Objects() {
		if strings.EqualFold(o.Identifier, identifier) {
			return o, true
		}
	}
	return nil, false
}

// Object общие поля всех объявлений пака
type Object struct {
	PackName           string
	Identifier         string
	Type               string
	Title              string
	Tooltip            []string
	TextureName        string
	TextureCoordinates map[int][4]int
	ModelName          string
	Model              *model.Container
	ShowInCreativeTab  bool
	CreativeTab        string

	// Game ссылка в реестре; заполняется после заморозки реестра
	Game mapper.GameObject

	nodes     *node.Set
	iconsOnce sync.Once
	icon      model.Icon
	clipIcons []*model.ClippedIcon
}

// RegistryName имя в реестре: pack\identifier
func (o *Object) RegistryName() string {
	return mapper.PackObjectName(o.PackName, o.Identifier)
}

func (o *Object) Nodes() *node.Set { return o.nodes }

func (o *Object) ModelContainer() *model.Container { return o.Model }

func (o *Object) ClipIcons() []*model.ClippedIcon { return o.clipIcons }

// BaseIcon иконка текстуры целиком
func (o *Object) BaseIcon() model.Icon { return o.icon }

// RegisterIcons регистрирует текстуру и один раз нарезает иконки граней
func (o *Object) RegisterIcons(reg IconRegistrar) {
	o.iconsOnce.Do(func() {
		o.icon = reg.RegisterIcon(o.TextureName)
		o.clipIcons = model.ClipIcons(o.icon, o.TextureCoordinates)
	})
}

// Icon иконка стороны: вырезанная, если координаты заданы, иначе текстура целиком
func (o *Object) Icon(side int) *model.ClippedIcon {
	if icon := model.SelectClip(o.clipIcons, side); icon != nil {
		return icon
	}
	return model.FullClip(o.icon)
}

// Fill заполненность блока-контейнера
type Fill int

const (
	FillEmpty Fill = iota
	FillHasContents
	FillFull
)

// Block блок пака; контейнеры и культуры также являются блоками
type Block struct {
	Object
	Hardness   float64
	Resistance float64
	Stairs     bool

	stateIcons map[string][]*model.ClippedIcon
	stateModel map[string]*model.Container
}

// LightValue уровень свечения 0-15
func (b *Block) LightValue() int {
	if light, ok := node.Lookup[*node.LightNode](b.nodes); ok {
		return light.LightValue()
	}
	return 0
}

// Opacity непрозрачность для света
func (b *Block) Opacity() int {
	if light, ok := node.Lookup[*node.LightNode](b.nodes); ok {
		return light.Opacity
	}
	return 0
}

// RenderAsNormalBlock блок без модели рисуется как обычный куб, если узел отрисовки это разрешает
func (b *Block) RenderAsNormalBlock() bool {
	render, ok := node.Lookup[*node.RenderNode](b.nodes)
	return b.Model == nil && (!ok || render.NormalCube)
}

// OpaqueCube блок с собственной геометрией никогда не считается непрозрачным кубом
func (b *Block) OpaqueCube() bool {
	if b.Model.HasShape() {
		return false
	}
	render, ok := node.Lookup[*node.RenderNode](b.nodes)
	return !ok || render.Opaque
}

// RenderColor множитель цвета блока
func (b *Block) RenderColor(meta int) int { return 0xFFFFFF }

func (b *Block) vanillaBox(pos vec.Vec3) model.AABB {
	return model.FullCube().Offset(float64(pos.X), float64(pos.Y), float64(pos.Z))
}

// CollisionBox рамка столкновений в мировых координатах
func (b *Block) CollisionBox(pos vec.Vec3) model.AABB {
	vanilla := b.vanillaBox(pos)
	if b.Model == nil {
		return vanilla
	}
	return b.Model.Physics.CollisionBox(vanilla, pos.X, pos.Y, pos.Z)
}

// SelectionBox рамка выделения в мировых координатах
func (b *Block) SelectionBox(pos vec.Vec3) model.AABB {
	vanilla := b.vanillaBox(pos)
	if b.Model == nil {
		return vanilla
	}
	return b.Model.Physics.WireframeBox(vanilla, pos.X, pos.Y, pos.Z)
}

// CollisionBoxes рамки столкновений, пересекающие mask. В режиме ступеней блок
// раскладывается на части, иначе используется одна рамка блока.
func (b *Block) CollisionBoxes(access physics.StairsAccess, pos vec.Vec3, mask model.AABB) []model.AABB {
	if b.Stairs {
		return physics.StairsCollisionBoxes(access, pos, mask)
	}
	box := b.CollisionBox(pos)
	if !mask.Intersects(box) {
		return nil
	}
	return []model.AABB{box}
}

// RayTrace пересечение луча с блоком
func (b *Block) RayTrace(access physics.StairsAccess, pos vec.Vec3, start, end mgl64.Vec3) (model.Hit, bool) {
	if b.Stairs {
		return physics.StairsRayTrace(access, pos, start, end)
	}
	return b.SelectionBox(pos).RayTrace(start, end)
}

// RegisterIcons регистрирует иконки блока и состояний контейнера
func (b *Block) RegisterIcons(reg IconRegistrar) {
	b.Object.RegisterIcons(reg)
	container, ok := node.Lookup[*node.ContainerNode](b.nodes)
	if !ok || b.stateIcons != nil {
		return
	}
	b.stateIcons = make(map[string][]*model.ClippedIcon, len(container.States))
	for id, st := range container.States {
		icon := b.icon
		if st.TextureName != "" {
			icon = reg.RegisterIcon(st.TextureName)
		}
		b.stateIcons[id] = model.ClipIcons(icon, st.TextureCoordinates)
	}
}

// stateFor включённое состояние для заполненности; FULL без описания использует HAS-CONTENTS
func (b *Block) stateFor(fill Fill) (string, bool) {
	container, ok := node.Lookup[*node.ContainerNode](b.nodes)
	if !ok || fill == FillEmpty {
		return "", false
	}
	if fill == FillFull {
		if _, ok := container.State(node.StateFull); ok {
			return node.StateFull, true
		}
	}
	if _, ok := container.State(node.StateHasContents); ok {
		return node.StateHasContents, true
	}
	return "", false
}

// ModelAt модель с учётом состояния контейнера
func (b *Block) ModelAt(fill Fill) *model.Container {
	if id, ok := b.stateFor(fill); ok {
		if m := b.stateModel[id]; m != nil {
			return m
		}
	}
	return b.Model
}

// ClipIconsAt иконки граней с учётом состояния контейнера
func (b *Block) ClipIconsAt(fill Fill) []*model.ClippedIcon {
	if id, ok := b.stateFor(fill); ok {
		if icons := b.stateIcons[id]; !model.IsEmptyClip(icons) {
			return icons
		}
	}
	return b.clipIcons
}

// Item предмет или еда пака; семя культуры ссылается на свою культуру
type Item struct {
	Object
	Food bool
	Crop *Crop
}

// Crop культура: блок со стадиями роста и семенем
type Crop struct {
	Block
	LevelRequired int
	Stages        map[int]*Stage
	Seed          *Item
}

// RegisterIcons регистрирует иконки культуры, её стадий и семени
func (c *Crop) RegisterIcons(reg IconRegistrar) {
	c.Block.RegisterIcons(reg)
	for _, id := range c.StageIDs() {
		c.Stages[id].RegisterIcons(reg)
	}
	if c.Seed != nil {
		c.Seed.RegisterIcons(reg)
	}
}

// StageIDs идентификаторы стадий по возрастанию
func (c *Crop) StageIDs() []int {
	ids := make([]int, 0, len(c.Stages))
	for id := range c.Stages {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// StageAt стадия для метаданных блока; отсутствующая стадия даёт ближайшую предыдущую
func (c *Crop) StageAt(meta int) (*Stage, bool) {
	ids := c.StageIDs()
	var found *Stage
	for _, id := range ids {
		if id > meta {
			break
		}
		found = c.Stages[id]
	}
	if found == nil && len(ids) > 0 {
		found = c.Stages[ids[0]]
	}
	return found, found != nil
}

// NextStage следующая объявленная стадия после id
func (c *Crop) NextStage(id int) (*Stage, bool) {
	for _, next := range c.StageIDs() {
		if next > id {
			return c.Stages[next], true
		}
	}
	return nil, false
}

// Stage стадия роста культуры: своя модель, координаты текстуры и узлы роста
type Stage struct {
	Object
	ID int
}
