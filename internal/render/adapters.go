package render

import (
	"github.com/annel0/blockpacks/internal/pack"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
)

func fillAt(ctx Context) pack.Fill {
	if ctx.World == nil {
		return pack.FillEmpty
	}
	return ctx.World.Fill(ctx.Pos)
}

type blockAdapter struct {
	*pack.Block
}

// ForBlock адаптер блока пака; модель и иконки контейнера зависят от заполненности в мире
func ForBlock(b *pack.Block) Block {
	return blockAdapter{b}
}

func (a blockAdapter) Model(ctx Context) *model.Container {
	return a.ModelAt(fillAt(ctx))
}

func (a blockAdapter) ClipIcons(ctx Context) []*model.ClippedIcon {
	if ctx.World == nil {
		return a.Block.ClipIcons()
	}
	return a.ClipIconsAt(fillAt(ctx))
}

type cropAdapter struct {
	crop *pack.Crop
}

// ForCrop адаптер культуры: модель и иконки берутся из стадии, соответствующей metadata
func ForCrop(c *pack.Crop) Block {
	return cropAdapter{crop: c}
}

func (a cropAdapter) stage(ctx Context) *pack.Stage {
	st, _ := a.crop.StageAt(ctx.Meta)
	return st
}

func (a cropAdapter) Nodes() *node.Set {
	return a.crop.Nodes()
}

func (a cropAdapter) Model(ctx Context) *model.Container {
	if st := a.stage(ctx); st != nil && st.Model != nil {
		return st.Model
	}
	return a.crop.Model
}

func (a cropAdapter) ClipIcons(ctx Context) []*model.ClippedIcon {
	if st := a.stage(ctx); st != nil && !model.IsEmptyClip(st.ClipIcons()) {
		return st.ClipIcons()
	}
	return a.crop.ClipIcons()
}

func (a cropAdapter) BaseIcon() model.Icon { return a.crop.BaseIcon() }

func (a cropAdapter) RenderColor(meta int) int { return a.crop.RenderColor(meta) }
