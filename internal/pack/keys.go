package pack

// Расширения файлов пака
const (
	ObjectExt  = ".yml"
	ShapeExt   = ".shape"
	TextureExt = ".png"
)

// Типы объявлений
const (
	TypeBlock     = "block"
	TypeItem      = "item"
	TypeFood      = "food"
	TypeCrop      = "crop"
	TypeContainer = "container"
)

// Общие ключи объекта
const (
	KeyType               = "type"
	KeyTitle              = "title"
	KeyTexture            = "texture"
	KeyShape              = "shape"
	KeyTextureCoordinates = "texture-coordinates"
	KeyShowInCreativeTab  = "show-in-creative-tab"
	KeyCreativeTab        = "creative-tab"
	KeyHardness           = "hardness"
	KeyResistance         = "resistance"
	KeyStairs             = "stairs"
	KeyEnabled            = "enabled"
	KeyAmount             = "amount"
	KeyData               = "data"
	KeyChance             = "chance"
	KeySources            = "sources"
	KeySource             = "source"
)

// Узлы
const (
	NodeRotate      = "rotate"
	NodeLight       = "light"
	NodeRender      = "render"
	NodeFuel        = "fuel"
	NodeBreak       = "break"
	NodeCollision   = "collision"
	NodeConsumption = "consumption"
	NodeContainer   = "container"
	NodeRecipes     = "recipes"
	NodeStages      = "stages"
	NodeSeed        = "seed"
	NodeGrowth      = "growth"
	NodeFertilizer  = "fertilizer"
	NodeGrass       = "grass"
	NodeSoil        = "soil"
	NodeBiome       = "biome"
	NodeBounds      = "bounds"
	NodeShapes      = "shapes"
)

// Ключи узлов
const (
	KeyDefaultRotate       = "default-rotate"
	KeyDefaultMirrorRotate = "default-mirror-rotate"
	KeyDirection           = "direction"
	KeyAngle               = "angle"
	KeyDirectionX          = "direction-x"
	KeyDirectionY          = "direction-y"
	KeyDirectionZ          = "direction-z"

	KeyEmission = "emission"
	KeyOpacity  = "opacity"
	KeyRequired = "required"
	KeyMin      = "min"
	KeyMax      = "max"

	KeyNormalCube = "normal-cube"
	KeyOpaque     = "opaque"

	KeyMaxBurnTime = "max-burn-time"

	KeyTools            = "tools"
	KeyExperience       = "experience"
	KeyExhaustionChange = "exhaustion-change"
	KeyDrops            = "drops"
	KeyBonus            = "bonus"
	ToolNone            = "none"

	KeyHealthChange = "health-change"

	KeyFoodChange       = "food-change"
	KeySaturationChange = "saturation-change"
	KeyWolfFavorite     = "wolf-favorite"
	KeyAlwaysEdible     = "always-edible"

	KeyInventorySize = "inventory-size"
	KeyMaxStackSize  = "max-stack-size"
	KeyState         = "state"

	KeyIngredients = "ingredients"
	KeyInput       = "input"

	KeyLevelRequired = "level-required"

	KeyTemperatureRequired = "temperature-required"
	KeyHumidityRequired    = "humidity-required"

	KeyUseVanillaCollision = "use-vanilla-collision"
	KeyCollisionBox        = "collision-box"
	KeyUseVanillaWireframe = "use-vanilla-wireframe"
	KeyWireframeBox        = "wireframe-box"
	KeyFaceTexture         = "texture"
	KeyFaceCoords          = "coords"
)

// Значения по умолчанию
const (
	DefaultCreativeTab   = "other"
	DefaultHardness      = 1.0
	DefaultResistance    = 1.0
	DefaultExhaustion    = 0.025
	DefaultChance        = 100.0
	DefaultLightMax      = 15
	DefaultInventorySize = 9
	DefaultMaxStackSize  = 64
	DefaultSoil          = "minecraft:farmland"
	DefaultStageCount    = 16
	MinShapeFaces        = 4
	seedSuffix           = "seed"
	stageSuffix          = "stage"
)
