package pack

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/parse"
	"github.com/annel0/blockpacks/internal/pack/property"
	"github.com/annel0/blockpacks/internal/pack/tree"
)

// scope контекст компиляции одного объекта: куда писать ошибки и как разрешать ссылки
type scope struct {
	diag     *diagnostics
	models   *model.Library
	resolver *mapper.Resolver
	pack     string
	object   string
}

func (s *scope) fail(err error) {
	s.diag.issue(s.pack, s.object, err)
}

func (s *scope) failAt(n *tree.Node, err error) {
	s.fail(errors.WithMessagef(err, "%s", n.Path()))
}

// with копия контекста для вложенного объекта
func (s *scope) with(object string) *scope {
	c := *s
	c.object = object
	return &c
}

// rangeAt диапазон из значения узла; ошибка разбора даёт значение по умолчанию
func rangeAt[T parse.Number](s *scope, n *tree.Node, def T) property.Range[T] {
	r, err := property.NewRange(true, n.String(""), def)
	if err != nil {
		s.failAt(n, err)
	}
	return r
}

// optionalRange диапазон включён, только если ключ задан
func optionalRange[T parse.Number](s *scope, n *tree.Node, def T) property.Range[T] {
	if n.Virtual() {
		return property.Range[T]{Min: def, Max: def}
	}
	return rangeAt(s, n, def)
}

func (s *scope) textureCoordinates(n *tree.Node) map[int][4]int {
	if n.Virtual() {
		return map[int][4]int{}
	}
	coords, err := parse.TextureCoordinates(n.StringList())
	if err != nil {
		s.failAt(n, err)
		return map[int][4]int{}
	}
	return coords
}

// model ищет модель по имени; отсутствующая модель означает отрисовку обычным кубом
func (s *scope) model(name string) *model.Container {
	if name == "" {
		return nil
	}
	c, ok := s.models.Get(name)
	if !ok {
		s.diag.notice("Model [%s] in [%s] in pack [%s] was not found. Will render as a basic cube.", name, s.object, s.pack)
		return nil
	}
	return c
}

func rotationNode(s *scope, n *tree.Node) *node.RotationNode {
	rn := &node.RotationNode{
		Enabled:             n.Get(KeyEnabled).Bool(true),
		DefaultRotate:       n.Get(KeyDefaultRotate).Bool(false),
		DefaultMirrorRotate: n.Get(KeyDefaultMirrorRotate).Bool(false),
		Properties:          make(map[property.Rotation]property.RotationProperty),
	}
	for _, e := range n.Get(KeyDirection).Children() {
		rot, ok := property.RotationFromName(e.Key)
		if !ok {
			s.failAt(e.Node, packerr.Parse("rotation %q is not valid", e.Key))
			continue
		}
		rn.Properties[rot] = property.RotationProperty{
			Enabled: e.Node.Get(KeyEnabled).Bool(false),
			State:   rot,
			Angle:   e.Node.Get(KeyAngle).Float(0),
			X:       property.DirectionFromName(e.Node.Get(KeyDirectionX).String("none")),
			Y:       property.DirectionFromName(e.Node.Get(KeyDirectionY).String("none")),
			Z:       property.DirectionFromName(e.Node.Get(KeyDirectionZ).String("none")),
		}
	}
	return rn
}

func lightNode(s *scope, n *tree.Node) *node.LightNode {
	req := n.Get(KeyRequired)
	min := req.Get(KeyMin).Int(0)
	max := req.Get(KeyMax).Int(DefaultLightMax)
	if min > max {
		s.failAt(req, packerr.Parse("light min %d is greater than max %d", min, max))
		min, max = 0, DefaultLightMax
	}
	return &node.LightNode{
		Emission: node.NormalizeEmission(n.Get(KeyEmission).Float(0)),
		Opacity:  node.ClampOpacity(n.Get(KeyOpacity).Int(0)),
		Required: property.Range[int]{Enabled: req.Get(KeyEnabled).Bool(false), Min: min, Max: max},
	}
}

func renderNode(n *tree.Node) *node.RenderNode {
	return &node.RenderNode{
		NormalCube: n.Get(KeyNormalCube).Bool(true),
		Opaque:     n.Get(KeyOpaque).Bool(true),
	}
}

func fuelNode(n *tree.Node) *node.FuelNode {
	return &node.FuelNode{
		Enabled:     n.Get(KeyEnabled).Bool(true),
		MaxBurnTime: n.Get(KeyMaxBurnTime).Int(0),
	}
}

func consumptionNode(s *scope, n *tree.Node) *node.ConsumptionNode {
	return &node.ConsumptionNode{
		Food:         rangeAt[int](s, n.Get(KeyFoodChange), 0),
		Saturation:   rangeAt[float32](s, n.Get(KeySaturationChange), 0),
		Health:       rangeAt[float32](s, n.Get(KeyHealthChange), 0),
		AlwaysEdible: n.Get(KeyAlwaysEdible).Bool(false),
		WolfFavorite: n.Get(KeyWolfFavorite).Bool(false),
	}
}

// containerNode узел контейнера и модели его состояний
func containerNode(s *scope, n *tree.Node) (*node.ContainerNode, map[string]*model.Container) {
	raw := n.Get(KeyInventorySize).Int(DefaultInventorySize)
	size, changed := node.NormalizeInventorySize(raw)
	if changed {
		s.failAt(n.Get(KeyInventorySize), packerr.Parse(
			"container size [%d] is invalid. Must be a multiple of [9] that does not exceed [54]. This has been set to [%d]", raw, size))
	}

	cn := &node.ContainerNode{
		Title:        n.Get(KeyTitle).String(""),
		Size:         size,
		MaxStackSize: n.Get(KeyMaxStackSize).Int(DefaultMaxStackSize),
		States:       make(map[string]property.State),
	}
	models := make(map[string]*model.Container)
	for _, e := range n.Get(KeyState).Children() {
		id := strings.ToUpper(strings.TrimSpace(e.Key))
		if id != node.StateHasContents && id != node.StateFull {
			s.failAt(e.Node, packerr.Parse("container state %q is not valid", e.Key))
			continue
		}
		st := property.State{
			Enabled:            e.Node.Get(KeyEnabled).Bool(false),
			ID:                 id,
			TextureName:        parse.StripExt(e.Node.Get(KeyTexture).String(""), TextureExt),
			TextureCoordinates: s.textureCoordinates(e.Node.Get(KeyTextureCoordinates)),
			ModelName:          parse.StripExt(e.Node.Get(KeyShape).String(""), ShapeExt),
		}
		cn.States[id] = st
		if m := s.model(st.ModelName); m != nil {
			models[id] = m
		}
	}
	return cn, models
}

// breakNode таблица инструментов. Нераспознанный инструмент или дроп пропускается.
// При addDefault и пустой таблице синтезируется инструмент, дропающий сам объект.
func breakNode(s *scope, n *tree.Node, self mapper.GameObject, addDefault bool) *node.BreakNode {
	bn := &node.BreakNode{Enabled: n.Get(KeyEnabled).Bool(true)}

	for _, e := range n.Get(KeyTools).Children() {
		var tool node.Tool
		if strings.EqualFold(e.Key, ToolNone) {
			tool.OffHand = true
		} else {
			obj, err := s.resolver.Resolve(e.Key)
			if err != nil {
				s.failAt(e.Node, errors.WithMessage(err, "tool source"))
				continue
			}
			tool.Tool = obj
		}
		tool.Experience = rangeAt[int](s, e.Node.Get(KeyExperience), 0)
		tool.Exhaustion = rangeAt[float64](s, e.Node.Get(KeyExhaustionChange), DefaultExhaustion)

		for _, d := range e.Node.Get(KeyDrops).Children() {
			obj, err := s.resolver.Resolve(d.Key)
			if err != nil {
				s.failAt(d.Node, errors.WithMessage(err, "drop source"))
				continue
			}
			bonus := d.Node.Get(KeyBonus)
			tool.Drops = append(tool.Drops, property.Drop{
				Source: obj,
				Amount: rangeAt[int](s, d.Node.Get(KeyAmount), 1),
				Data:   d.Node.Get(KeyData).Int(obj.Data),
				Bonus: property.Bonus[int]{
					Enabled: bonus.Get(KeyEnabled).Bool(false),
					Amount:  rangeAt[int](s, bonus.Get(KeyAmount), 1),
					Chance:  rangeAt[float64](s, bonus.Get(KeyChance), DefaultChance),
				},
			})
		}
		bn.Tools = append(bn.Tools, tool)
	}

	if len(bn.Tools) == 0 && addDefault {
		bn.Tools = append(bn.Tools, node.DefaultTool(self))
	}
	return bn
}

func collisionNode(s *scope, n *tree.Node) *node.CollisionNode {
	cn := &node.CollisionNode{Enabled: n.Get(KeyEnabled).Bool(false)}
	for _, e := range n.Get(KeySources).Children() {
		entity, err := s.resolver.Entity(e.Key)
		if err != nil {
			s.failAt(e.Node, errors.WithMessage(err, "entity source"))
			continue
		}
		cn.Sources = append(cn.Sources, property.Collision{
			Enabled:      e.Node.Get(KeyEnabled).Bool(false),
			Entity:       entity,
			HealthChange: rangeAt[float32](s, e.Node.Get(KeyHealthChange), 0),
		})
	}
	return cn
}

func growthNode(s *scope, n *tree.Node) *node.GrowthNode {
	return &node.GrowthNode{Chance: rangeAt[float64](s, n.Get(KeyChance), DefaultChance)}
}

func fertilizerNode(s *scope, n *tree.Node) *node.FertilizerNode {
	fn := &node.FertilizerNode{Enabled: n.Get(KeyEnabled).Bool(false)}
	for _, e := range n.Get(KeySources).Children() {
		obj, err := s.resolver.Resolve(e.Key)
		if err != nil {
			s.failAt(e.Node, errors.WithMessage(err, "fertilizer"))
			continue
		}
		fn.Sources = append(fn.Sources, property.GameObject{
			Source: obj,
			Amount: rangeAt[int](s, e.Node.Get(KeyAmount), 1),
		})
	}
	return fn
}

// soilNode почва семени. Источник обязан быть блоком, иначе узел не создаётся.
func soilNode(s *scope, n *tree.Node) *node.SoilNode {
	source, err := s.resolver.ResolveBlock(n.Get(KeySource).String(DefaultSoil))
	if err != nil {
		s.failAt(n.Get(KeySource), errors.WithMessage(err, "soil source"))
		return nil
	}

	biome := n.Get(NodeBiome)
	sn := &node.SoilNode{
		Source: source,
		Biome:  node.BiomeNode{Enabled: biome.Get(KeyEnabled).Bool(false)},
	}
	for _, e := range biome.Get(KeySources).Children() {
		b, err := s.resolver.Biome(e.Key)
		if err != nil {
			s.failAt(e.Node, errors.WithMessage(err, "biome source"))
			continue
		}
		sn.Biome.Biomes = append(sn.Biome.Biomes, property.Biome{
			Biome:       b,
			Temperature: optionalRange[float64](s, e.Node.Get(KeyTemperatureRequired), 0),
			Humidity:    optionalRange[float64](s, e.Node.Get(KeyHumidityRequired), 0),
		})
	}
	return sn
}

func grassNode(s *scope, n *tree.Node, seed mapper.GameObject) *node.GrassNode {
	return &node.GrassNode{
		Enabled: n.Get(KeyEnabled).Bool(false),
		Seed: property.GameObject{
			Source: seed,
			Amount: rangeAt[int](s, n.Get(KeyAmount), 1),
		},
		Chance: rangeAt[float64](s, n.Get(KeyChance), DefaultChance),
	}
}
