package pack

import (
	"github.com/pkg/errors"

	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/parse"
	"github.com/annel0/blockpacks/internal/pack/tree"
)

// buildModel собирает модель из файла формы: физические рамки и, если получилось, геометрию.
// Модель без граней сохраняется ради физики и рисуется обычным кубом.
func buildModel(s *scope, name string, root *tree.Node) *model.Container {
	bounds := root.Get(NodeBounds)
	c := &model.Container{
		Name: name,
		Physics: model.Physics{
			UseVanillaCollision: bounds.Get(KeyUseVanillaCollision).Bool(true),
			UseVanillaWireframe: bounds.Get(KeyUseVanillaWireframe).Bool(true),
			Collision:           box(s, bounds.Get(KeyCollisionBox)),
			Wireframe:           box(s, bounds.Get(KeyWireframeBox)),
		},
	}

	shape := buildShape(s, root.Get(NodeShapes))
	if shape == nil {
		s.fail(packerr.Structural("model [%s] has no faces and therefore will not be loaded", name))
		return c
	}
	c.Shape = shape
	return c
}

// box рамка из шести чисел "minX minY minZ maxX maxY maxZ"; пустое значение рамки не задаёт
func box(s *scope, n *tree.Node) *model.AABB {
	raw := n.String("")
	if raw == "" {
		return nil
	}
	v, err := parse.List[float64](raw, 6)
	if err != nil {
		s.failAt(n, errors.WithMessage(err, "invalid coordinates"))
		return nil
	}
	b := model.Box(v[0], v[1], v[2], v[3], v[4], v[5])
	return &b
}

// buildShape грани формы. Вершина, которую не удалось разобрать, пропускается.
// Форма меньше чем из MinShapeFaces граней достраивается отражёнными копиями.
func buildShape(s *scope, n *tree.Node) *model.Shape {
	shape := &model.Shape{Model: true}
	for _, fn := range n.List() {
		textureID := fn.Get(KeyFaceTexture).Int(0)
		face := model.Face{TextureID: textureID, Side: model.DirectionOf(textureID)}
		for _, line := range parse.Lines(fn.Get(KeyFaceCoords).String("")) {
			v, err := parse.List[float64](line, 3)
			if err != nil {
				s.failAt(fn, errors.WithMessagef(err, "could not parse vertex [%s]", line))
				continue
			}
			face.Vertices = append(face.Vertices, model.NewVertex(v[0], v[1], v[2]))
		}
		if len(face.Vertices) == 0 {
			continue
		}
		face.SetStandardUV()
		shape.Faces = append(shape.Faces, face)
	}
	if len(shape.Faces) == 0 {
		return nil
	}
	shape.Complete(MinShapeFaces)
	return shape
}
