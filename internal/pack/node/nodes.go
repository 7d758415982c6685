package node

import (
	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/property"
	"github.com/annel0/blockpacks/internal/recipe"
)

// RotationNode правила поворота блока по состоянию размещения
type RotationNode struct {
	Enabled             bool
	DefaultRotate       bool
	DefaultMirrorRotate bool
	Properties          map[property.Rotation]property.RotationProperty
}

func (*RotationNode) Kind() Kind { return KindRotation }

// Property явный поворот для состояния, если он объявлен и включён
func (n *RotationNode) Property(r property.Rotation) (property.RotationProperty, bool) {
	p, ok := n.Properties[r]
	if !ok || !p.Enabled {
		return property.RotationProperty{}, false
	}
	return p, true
}

// Placement состояние при размещении блока игроком; без поворота блок всегда NORTH
func (n *RotationNode) Placement(pitch property.Pitch, facing property.Facing) property.Rotation {
	if n == nil || !n.Enabled {
		return property.North
	}
	return property.PlacementRotation(pitch, facing)
}

// LightNode свечение, непрозрачность и требование к освещённости
type LightNode struct {
	Emission float64
	Opacity  int
	Required property.Range[int]
}

func (*LightNode) Kind() Kind { return KindLight }

// NormalizeEmission приводит свечение к [0,1]; значения больше 1 считаются уровнем 0-15
func NormalizeEmission(e float64) float64 {
	if e < 0 {
		return 0
	}
	if e > 1 {
		e /= 15
	}
	if e > 1 {
		return 1
	}
	return e
}

// ClampOpacity ограничивает непрозрачность диапазоном [0,255]
func ClampOpacity(o int) int {
	if o < 0 {
		return 0
	}
	if o > 255 {
		return 255
	}
	return o
}

// LightValue уровень света 0-15
func (n *LightNode) LightValue() int {
	return int(n.Emission * 15)
}

// Allows проверяет уровень освещённости, если требование включено
func (n *LightNode) Allows(level int) bool {
	return !n.Required.Enabled || n.Required.Contains(level)
}

// RenderNode параметры отрисовки
type RenderNode struct {
	NormalCube bool
	Opaque     bool
}

func (*RenderNode) Kind() Kind { return KindRender }

// CollisionNode реакция на столкновение сущностей
type CollisionNode struct {
	Enabled bool
	Sources []property.Collision
}

func (*CollisionNode) Kind() Kind { return KindCollision }

// HealthChangeFor изменение здоровья для сущности
func (n *CollisionNode) HealthChangeFor(entity mapper.Entity, src property.Source) (float32, bool) {
	if !n.Enabled {
		return 0, false
	}
	for _, c := range n.Sources {
		if c.Enabled && c.Entity.Identifier() == entity.Identifier() {
			return c.HealthChange.Draw(src), true
		}
	}
	return 0, false
}

// ConsumptionNode эффект от поедания
type ConsumptionNode struct {
	Food         property.Range[int]
	Saturation   property.Range[float32]
	Health       property.Range[float32]
	AlwaysEdible bool
	WolfFavorite bool
}

func (*ConsumptionNode) Kind() Kind { return KindConsumption }

// Consumption итог поедания
type Consumption struct {
	Food       int
	Saturation float32
	Health     float32
}

func (n *ConsumptionNode) Consume(src property.Source) Consumption {
	return Consumption{
		Food:       n.Food.Draw(src),
		Saturation: n.Saturation.Draw(src),
		Health:     n.Health.Draw(src),
	}
}

// FuelNode время горения в печи
type FuelNode struct {
	Enabled     bool
	MaxBurnTime int
}

func (*FuelNode) Kind() Kind { return KindFuel }

func (n *FuelNode) BurnTime() int {
	if n == nil || !n.Enabled || n.MaxBurnTime < 0 {
		return 0
	}
	return n.MaxBurnTime
}

// ContainerNode инвентарь блока-контейнера
type ContainerNode struct {
	Title        string
	Size         int
	MaxStackSize int
	States       map[string]property.State
}

func (*ContainerNode) Kind() Kind { return KindContainer }

// Идентификаторы состояний контейнера
const (
	StateHasContents = "HAS-CONTENTS"
	StateFull        = "FULL"
)

// NormalizeInventorySize приводит размер к кратному 9 в [9,54].
// changed сообщает, что исходное значение было исправлено.
func NormalizeInventorySize(s int) (size int, changed bool) {
	switch {
	case s > 54:
		return 54, true
	case s < 9 || s%9 != 0:
		return 9, true
	default:
		return s, false
	}
}

// State включённое состояние по идентификатору
func (n *ContainerNode) State(id string) (property.State, bool) {
	st, ok := n.States[id]
	if !ok || !st.Enabled {
		return property.State{}, false
	}
	return st, true
}

// RecipeNode рецепты, результатом которых является объект
type RecipeNode struct {
	Recipes map[int]*recipe.Recipe
}

func (*RecipeNode) Kind() Kind { return KindRecipe }

// Get рецепт по идентификатору
func (n *RecipeNode) Get(id int) (*recipe.Recipe, bool) {
	r, ok := n.Recipes[id]
	return r, ok
}
