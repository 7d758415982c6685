package node

import (
	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/property"
)

// Tool правило ломания для одного инструмента
type Tool struct {
	// OffHand ломание рукой или неподходящим предметом (ключ "none" и синтезированный инструмент)
	OffHand    bool
	Tool       mapper.GameObject
	Experience property.Range[int]
	Exhaustion property.Range[float64]
	Drops      []property.Drop
}

// Matches true, если инструмент соответствует предмету в руке
func (t *Tool) Matches(held mapper.GameObject) bool {
	return !t.OffHand && t.Tool.Same(held)
}

// DefaultTool инструмент, дропающий сам объект в количестве 1
func DefaultTool(self mapper.GameObject) Tool {
	return Tool{
		OffHand:    true,
		Experience: property.Fixed(1),
		Exhaustion: property.Range[float64]{Enabled: true},
		Drops: []property.Drop{{
			Source: self,
			Amount: property.Fixed(1),
		}},
	}
}

// BreakNode таблица инструментов и дропов
type BreakNode struct {
	Enabled bool
	Tools   []Tool
}

func (*BreakNode) Kind() Kind { return KindBreak }

// Harvest результат ломания
type Harvest struct {
	Tool       *Tool
	Experience int
	Exhaustion float64
	Drops      []property.Stack
}

// SelectTool выбирает правило для предмета в руке: точное совпадение, иначе первый OffHand
func (n *BreakNode) SelectTool(held *mapper.GameObject) *Tool {
	var offHand *Tool
	for i := range n.Tools {
		t := &n.Tools[i]
		if t.OffHand {
			if offHand == nil {
				offHand = t
			}
			continue
		}
		if held != nil && t.Matches(*held) {
			return t
		}
	}
	return offHand
}

// Harvest разыгрывает опыт, истощение и дропы выбранного инструмента
func (n *BreakNode) Harvest(held *mapper.GameObject, src property.Source) (Harvest, bool) {
	if n == nil || !n.Enabled {
		return Harvest{}, false
	}
	tool := n.SelectTool(held)
	if tool == nil {
		return Harvest{}, false
	}
	h := Harvest{
		Tool:       tool,
		Experience: tool.Experience.Draw(src),
		Exhaustion: tool.Exhaustion.Draw(src),
		Drops:      make([]property.Stack, 0, len(tool.Drops)),
	}
	for _, d := range tool.Drops {
		stack := d.Roll(src)
		if stack.Amount > 0 {
			h.Drops = append(h.Drops, stack)
		}
	}
	return h, true
}
