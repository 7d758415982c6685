package pack

import "github.com/annel0/blockpacks/internal/pack/mapper"

// HostRegistry объекты хоста, которые паки могут упоминать по имени
type HostRegistry interface {
	Populate(b *mapper.Builder)
}

// HostFunc адаптер функции к HostRegistry
type HostFunc func(b *mapper.Builder)

func (f HostFunc) Populate(b *mapper.Builder) { f(b) }

var (
	vanillaBlocks = []string{
		"stone", "grass", "dirt", "cobblestone", "planks", "sand", "gravel", "log", "leaves",
		"glass", "wool", "farmland", "tallgrass", "torch", "chest", "furnace", "crafting_table",
		"iron_block", "gold_block", "clay", "snow", "ice", "water", "lava",
	}
	vanillaItems = []string{
		"stick", "coal", "iron_ingot", "gold_ingot", "diamond", "string", "feather", "flint",
		"wheat", "wheat_seeds", "apple", "bread", "bucket", "bone", "dye", "sugar", "paper",
		"wooden_pickaxe", "stone_pickaxe", "iron_pickaxe", "golden_pickaxe", "diamond_pickaxe",
		"wooden_axe", "stone_axe", "iron_axe", "wooden_shovel", "iron_shovel", "shears",
	}
	vanillaEntities = []string{"Pig", "Cow", "Sheep", "Chicken", "Zombie", "Skeleton", "Creeper", "Spider", "Wolf"}
	vanillaBiomes   = []mapper.Biome{
		{Name: "Plains", Temperature: 0.8, Humidity: 0.4},
		{Name: "Desert", Temperature: 2.0, Humidity: 0},
		{Name: "Forest", Temperature: 0.7, Humidity: 0.8},
		{Name: "Taiga", Temperature: 0.25, Humidity: 0.8},
		{Name: "Swampland", Temperature: 0.8, Humidity: 0.9},
		{Name: "Jungle", Temperature: 1.2, Humidity: 0.9},
		{Name: "Extreme Hills", Temperature: 0.2, Humidity: 0.3},
		{Name: "Ice Plains", Temperature: 0, Humidity: 0.5},
		{Name: "Ocean", Temperature: 0.5, Humidity: 0.5},
	}
)

// Vanilla стандартный набор блоков, предметов, сущностей и биомов хоста
func Vanilla() HostRegistry {
	return HostFunc(func(b *mapper.Builder) {
		mod := b.DefaultModID()
		for _, name := range vanillaBlocks {
			b.AddBlock(mod, name, nil, true)
		}
		for _, name := range vanillaItems {
			b.AddItem(mod, name, nil)
		}
		for _, name := range vanillaEntities {
			b.AddEntity(mod, name)
		}
		for _, biome := range vanillaBiomes {
			b.AddBiome(biome)
		}
	})
}
