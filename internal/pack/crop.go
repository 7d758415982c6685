package pack

import (
	"strconv"
	"strings"

	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/parse"
	"github.com/annel0/blockpacks/internal/pack/tree"
)

// declareCrop культура, её стадии и семя. Узлы, ссылающиеся на другие объекты,
// прикрепляются позже в attachCrop.
func (c *compilation) declareCrop(s *scope, p *Pack, identifier string, root *tree.Node) *Crop {
	crop := &Crop{Stages: make(map[int]*Stage)}
	c.initObject(&crop.Object, s, p, identifier, TypeCrop, root)
	crop.Hardness = root.Get(KeyHardness).Float(DefaultHardness)
	crop.Resistance = root.Get(KeyResistance).Float(DefaultResistance)
	crop.LevelRequired = root.Get(KeyLevelRequired).Int(0)

	for _, e := range root.Get(NodeStages).Children() {
		id, err := strconv.Atoi(strings.TrimSpace(e.Key))
		if err != nil || id < 0 || id >= DefaultStageCount {
			s.failAt(e.Node, packerr.Structural("stage [%s] is not a valid integer between 0 and %d", e.Key, DefaultStageCount-1))
			continue
		}
		if _, exists := crop.Stages[id]; exists {
			s.failAt(e.Node, packerr.Structural("stage [%d] already exists as a stage", id))
			continue
		}
		st := c.declareStage(s, crop, id, e.Node)
		crop.Stages[id] = st
		c.stageRoots[st] = e.Node
	}

	crop.Seed = c.declareSeed(s, p, crop, root.Get(NodeSeed))
	return crop
}

func (c *compilation) declareStage(s *scope, crop *Crop, id int, n *tree.Node) *Stage {
	st := &Stage{ID: id}
	identifier := crop.Identifier + "\\" + stageSuffix + "\\" + strconv.Itoa(id)
	ss := s.with(identifier)

	st.PackName = crop.PackName
	st.Identifier = identifier
	st.Type = TypeCrop
	st.TextureName = crop.TextureName
	st.TextureCoordinates = ss.textureCoordinates(n.Get(KeyTextureCoordinates))
	st.ModelName = parse.StripExt(n.Get(KeyShape).String(""), ShapeExt)
	st.Model = ss.model(st.ModelName)
	st.nodes = c.newNodes(st.RegistryName())

	st.nodes.Attach(growthNode(ss, n.Get(NodeGrowth)))
	st.nodes.Attach(lightNode(ss, n.Get(NodeLight)))
	return st
}

// declareSeed семя создаётся всегда; его текстура совпадает с текстурой культуры
func (c *compilation) declareSeed(s *scope, p *Pack, crop *Crop, n *tree.Node) *Item {
	seed := &Item{Crop: crop}
	identifier := crop.Identifier + "\\" + seedSuffix
	ss := s.with(identifier)
	c.initObject(&seed.Object, ss, p, identifier, TypeItem, n)
	seed.TextureName = crop.TextureName

	if fuel := n.Get(NodeFuel); !fuel.Virtual() {
		seed.nodes.Attach(fuelNode(fuel))
	}
	return seed
}

// attachCrop узлы культуры, требующие замороженного реестра
func (c *compilation) attachCrop(s *scope, crop *Crop, root *tree.Node) {
	if br := root.Get(NodeBreak); !br.Virtual() {
		crop.nodes.Attach(breakNode(s, br, crop.Game, false))
	}
	if col := root.Get(NodeCollision); !col.Virtual() {
		crop.nodes.Attach(collisionNode(s, col))
	}

	for _, id := range crop.StageIDs() {
		st := crop.Stages[id]
		if fert := c.stageRoots[st].Get(NodeFertilizer); !fert.Virtual() {
			st.nodes.Attach(fertilizerNode(s.with(st.Identifier), fert))
		}
	}

	seedRoot := root.Get(NodeSeed)
	seed := crop.Seed
	ss := s.with(seed.Identifier)
	seed.nodes.Attach(grassNode(ss, seedRoot.Get(NodeGrass), seed.Game))
	if soil := soilNode(ss, seedRoot.Get(NodeSoil)); soil != nil {
		seed.nodes.Attach(soil)
	}

	if recipes := root.Get(NodeRecipes); !recipes.Virtual() {
		crop.nodes.Attach(recipeNode(s, recipes, seed.Game, c.opts.Recipes))
	}
}
