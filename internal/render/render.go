// Package render превращает модели и узлы объектов паков в грани для тесселятора хоста.
// Каждый вызов Render работает с собственной копией геометрии: базовые формы не изменяются.
package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/blockpacks/internal/pack"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/vec"
)

// Pass проход отрисовки хоста
type Pass int

const (
	// PassWorld блок в мире
	PassWorld Pass = iota
	// PassTileEntity блок, отрисованный как сущность в мире
	PassTileEntity
	// PassInventory предмет в инвентаре или в руке
	PassInventory
)

func (p Pass) String() string {
	switch p {
	case PassWorld:
		return "world"
	case PassTileEntity:
		return "tile-entity"
	case PassInventory:
		return "inventory"
	default:
		return "unknown"
	}
}

// World доступ к миру хоста вокруг отрисовываемого блока
type World interface {
	Metadata(pos vec.Vec3) int
	ColorMultiplier(pos vec.Vec3) int
	LightValue(pos vec.Vec3) int
	// AmbientOcclusion коэффициент затенения блока в позиции, 0.2 для непрозрачного и 1 для воздуха
	AmbientOcclusion(pos vec.Vec3) float64
	IsOpaque(pos vec.Vec3) bool
	Fill(pos vec.Vec3) pack.Fill
}

// Block отрисовываемый объект пака
type Block interface {
	pack.HasNodes
	Model(ctx Context) *model.Container
	ClipIcons(ctx Context) []*model.ClippedIcon
	BaseIcon() model.Icon
	RenderColor(meta int) int
}

// Vertex вершина, готовая к отправке в тесселятор
type Vertex struct {
	Pos   mgl64.Vec3
	U, V  float64
	Color int
}

// Quad отрисованная грань
type Quad struct {
	Side      model.Direction
	TextureID int
	Icon      *model.ClippedIcon
	Vertices  []Vertex
}

// Tessellator приёмник граней хоста
type Tessellator interface {
	Draw(q Quad)
}

// Context параметры одного вызова отрисовки
type Context struct {
	Pass  Pass
	Lines bool
	World World
	Pos   vec.Vec3
	Meta  int
	// ColorMultiplier общий множитель цвета, заменяющий цвет блока
	ColorMultiplier *int
}

// WorldContext контекст отрисовки блока в мире; metadata читается из мира
func WorldContext(w World, pos vec.Vec3) Context {
	return Context{Pass: PassWorld, World: w, Pos: pos, Meta: w.Metadata(pos)}
}

func (c Context) inWorld() bool {
	return c.World != nil && (c.Pass == PassWorld || c.Pass == PassTileEntity)
}

// Params параметры выборки текстуры для формы
type Params struct {
	FlipU          bool
	FlipV          bool
	InterpolateUV  bool
	RenderAllFaces bool
	PerVertexColor bool
}

// ParamsFor собственные формы используют явные UV с отражением, стандартный куб интерполирует UV по границам
func ParamsFor(custom bool) Params {
	if custom {
		return Params{FlipU: true, FlipV: true, RenderAllFaces: true}
	}
	return Params{InterpolateUV: true}
}

// Renderer отрисовщик блоков паков
type Renderer struct {
	cube             *model.Shape
	ambientOcclusion bool
}

// New создаёт отрисовщик; ambientOcclusion соответствует настройке клиента
func New(ambientOcclusion bool) *Renderer {
	return &Renderer{cube: model.Cube(), ambientOcclusion: ambientOcclusion}
}

// Render отрисовывает блок и возвращает число переданных граней
func (r *Renderer) Render(ctx Context, b Block, t Tessellator) int {
	shape := r.cube
	custom := false
	if m := b.Model(ctx); m.HasShape() {
		shape = m.Shape
		custom = true
	}
	params := ParamsFor(custom)

	transform := mgl64.Ident4()
	if custom {
		switch ctx.Pass {
		case PassWorld:
			if ctx.World != nil {
				if rot, ok := node.Lookup[*node.RotationNode](b.Nodes()); ok {
					if m, ok := Rotation(rot, ctx.Meta); ok {
						transform = m
					}
				}
			}
		case PassInventory:
			transform = InventoryScale(shape)
		}
	}
	work := shape.Transformed(transform)

	clips := b.ClipIcons(ctx)
	emissive := false
	if light, ok := node.Lookup[*node.LightNode](b.Nodes()); ok && light.Emission > 0 {
		emissive = true
	}
	base := baseColor(ctx, b)

	var origin mgl64.Vec3
	if ctx.inWorld() {
		origin = ctx.Pos.Float()
	}

	drawn := 0
	for i := range work.Faces {
		face := &work.Faces[i]
		side := face.Direction()
		if !params.RenderAllFaces && ctx.inWorld() && side != model.Unknown {
			dx, dy, dz := side.Offset()
			if ctx.World.IsOpaque(ctx.Pos.Offset(dx, dy, dz)) {
				continue
			}
		}

		textureID := face.TextureID
		if !custom {
			textureID = int(side)
		}
		icon := SelectIcon(clips, b.BaseIcon(), textureID)
		flipU, flipV := FaceFlip(params, side, custom)

		q := Quad{Side: side, TextureID: face.TextureID, Icon: icon, Vertices: make([]Vertex, len(face.Vertices))}
		for j, v := range face.Vertices {
			u, vv := v.U, v.V
			if params.InterpolateUV {
				u, vv = interpolateUV(side, v.Pos)
			}
			u, vv = icon.UV(u, vv, flipU, flipV)

			color := base
			if params.PerVertexColor {
				color = v.Color
			}
			q.Vertices[j] = Vertex{
				Pos:   v.Pos.Add(origin),
				U:     u,
				V:     vv,
				Color: r.vertexColor(ctx, color, side, v.Pos, emissive),
			}
		}
		t.Draw(q)
		drawn++
	}
	return drawn
}

func baseColor(ctx Context, b Block) int {
	if ctx.ColorMultiplier != nil {
		return *ctx.ColorMultiplier
	}
	if ctx.World != nil {
		return ctx.World.ColorMultiplier(ctx.Pos)
	}
	return b.RenderColor(ctx.Meta)
}

// vertexColor цвет вершины с учётом затенения грани и ambient occlusion.
// Светящийся блок всегда рисуется с полной яркостью.
func (r *Renderer) vertexColor(ctx Context, color int, side model.Direction, pos mgl64.Vec3, emissive bool) int {
	if ctx.Lines || !ctx.inWorld() {
		return color
	}

	factor := 1.0
	if r.ambientOcclusion && side != model.Unknown && ctx.World.LightValue(ctx.Pos) == 0 {
		samples := aoSamples(side, pos)
		dx, dy, dz := side.Offset()
		factor = ctx.World.AmbientOcclusion(ctx.Pos.Offset(dx, dy, dz))
		for _, s := range samples {
			factor += ctx.World.AmbientOcclusion(ctx.Pos.Add(s))
		}
		factor /= float64(len(samples) + 1)
	}
	factor *= side.Shade()
	if emissive {
		factor = 1
	}
	return scaleColor(color, factor)
}

func scaleColor(color int, factor float64) int {
	r := int(float64(color>>16&0xFF) * factor)
	g := int(float64(color>>8&0xFF) * factor)
	b := int(float64(color&0xFF) * factor)
	return r<<16 | g<<8 | b
}

// SelectIcon иконка грани: вырезанная по индексу текстуры, а без вырезанных иконок текстура целиком
func SelectIcon(clips []*model.ClippedIcon, base model.Icon, textureID int) *model.ClippedIcon {
	if model.IsEmptyClip(clips) {
		return model.FullClip(base)
	}
	if icon := model.SelectClip(clips, textureID); icon != nil {
		return icon
	}
	return model.FullClip(base)
}

// FaceFlip отражение UV грани. У собственных форм грани NORTH и EAST дополнительно отражаются по U.
func FaceFlip(params Params, side model.Direction, custom bool) (bool, bool) {
	flipU, flipV := params.FlipU, params.FlipV
	if custom && (side == model.North || side == model.East) {
		flipU = !flipU
	}
	return flipU, flipV
}

// InventoryScale масштаб, при котором наибольший модуль координаты формы становится равным 1
func InventoryScale(s *model.Shape) mgl64.Mat4 {
	max := s.MaxCoordinate()
	if max <= 0 {
		return mgl64.Ident4()
	}
	return mgl64.Scale3D(1/max, 1/max, 1/max)
}

// interpolateUV UV по положению вершины в плоскости грани
func interpolateUV(side model.Direction, p mgl64.Vec3) (float64, float64) {
	switch side {
	case model.Down, model.Up:
		return p[0], p[2]
	case model.North, model.South:
		return p[0], 1 - p[1]
	case model.West, model.East:
		return p[2], 1 - p[1]
	}
	return 0, 0
}

// aoSamples соседи вершины в плоскости грани: два ребра и угол
func aoSamples(side model.Direction, p mgl64.Vec3) []vec.Vec3 {
	dx, dy, dz := side.Offset()
	normal := vec.Of(dx, dy, dz)

	var axes [2]int
	switch side {
	case model.Down, model.Up:
		axes = [2]int{0, 2}
	case model.North, model.South:
		axes = [2]int{0, 1}
	default:
		axes = [2]int{1, 2}
	}

	step := func(axis int) vec.Vec3 {
		d := 1
		if p[axis] < 0.5 {
			d = -1
		}
		switch axis {
		case 0:
			return vec.Of(d, 0, 0)
		case 1:
			return vec.Of(0, d, 0)
		default:
			return vec.Of(0, 0, d)
		}
	}
	a, b := step(axes[0]), step(axes[1])
	return []vec.Vec3{normal.Add(a), normal.Add(b), normal.Add(a).Add(b)}
}
