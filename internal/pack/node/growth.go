package node

import (
	"strings"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/property"
)

// GrowthNode шанс перехода стадии культуры
type GrowthNode struct {
	Chance property.Range[float64]
}

func (*GrowthNode) Kind() Kind { return KindGrowth }

// ShouldGrow шанс в процентах разыгрывается в диапазоне, затем проверяется случайным значением
func (n *GrowthNode) ShouldGrow(src property.Source) bool {
	chance := n.Chance.Draw(src)
	if chance <= 0 {
		return false
	}
	return src.Float64() <= chance/100
}

// FertilizerNode объекты, ускоряющие рост стадии
type FertilizerNode struct {
	Enabled bool
	Sources []property.GameObject
}

func (*FertilizerNode) Kind() Kind { return KindFertilizer }

// Accepts количество стадий роста, которое даёт удобрение obj
func (n *FertilizerNode) Accepts(obj mapper.GameObject, src property.Source) (int, bool) {
	if n == nil || !n.Enabled {
		return 0, false
	}
	for _, s := range n.Sources {
		if s.Source.Same(obj) && s.Source.Data == obj.Data {
			return s.Amount.Draw(src), true
		}
	}
	return 0, false
}

// BiomeNode допустимые биомы
type BiomeNode struct {
	Enabled bool
	Biomes  []property.Biome
}

// AllowsBiome без включённого ограничения подходит любой биом
func (n BiomeNode) AllowsBiome(b mapper.Biome) bool {
	if !n.Enabled {
		return true
	}
	for _, p := range n.Biomes {
		if strings.EqualFold(p.Biome.Name, b.Name) {
			return p.Allows(b)
		}
	}
	return false
}

// SoilNode блок почвы, на который высаживается семя
type SoilNode struct {
	Source mapper.GameObject
	Biome  BiomeNode
}

func (*SoilNode) Kind() Kind { return KindSoil }

// Accepts проверяет почву и биом
func (n *SoilNode) Accepts(soil mapper.GameObject, biome mapper.Biome) bool {
	return n.Source.Same(soil) && n.Biome.AllowsBiome(biome)
}

// GrassNode выпадение семени из травы
type GrassNode struct {
	Enabled bool
	Seed    property.GameObject
	Chance  property.Range[float64]
}

func (*GrassNode) Kind() Kind { return KindGrass }

// Roll стопка семян, если шанс сработал
func (n *GrassNode) Roll(src property.Source) (property.Stack, bool) {
	if n == nil || !n.Enabled {
		return property.Stack{}, false
	}
	chance := n.Chance.Draw(src)
	if chance <= 0 || src.Float64() > chance/100 {
		return property.Stack{}, false
	}
	return property.Stack{Object: n.Seed.Source, Amount: n.Seed.Amount.Draw(src), Data: n.Seed.Source.Data}, true
}
