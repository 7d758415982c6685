package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/pack/property"
)

// turn поворот на angle градусов вокруг оси
type turn struct {
	angle   float64
	x, y, z float64
}

var (
	yawHalf    = turn{180, 0, -1, 0}
	yawLeft    = turn{90, 0, -1, 0}
	yawRight   = turn{90, 0, 1, 0}
	pitchDown  = turn{90, -1, 0, 0}
	pitchFlip  = turn{180, -1, 0, 0}
	noRotation = turn{}
)

// defaultTurns повороты по умолчанию: первый включается default-rotate, второй default-mirror-rotate.
// Состояния SOUTH не поворачиваются.
var defaultTurns = map[property.Rotation][2]turn{
	property.North:     {yawHalf, noRotation},
	property.West:      {yawLeft, noRotation},
	property.East:      {yawRight, noRotation},
	property.DownNorth: {yawHalf, pitchDown},
	property.DownWest:  {yawLeft, pitchFlip},
	property.DownEast:  {yawRight, pitchFlip},
	property.UpNorth:   {yawHalf, noRotation},
	property.UpWest:    {yawLeft, noRotation},
	property.UpEast:    {yawRight, noRotation},
}

func (t turn) matrix() mgl64.Mat4 {
	return model.RotationAbout(t.angle, mgl64.Vec3{t.x, t.y, t.z}, model.Center)
}

// Rotation матрица поворота формы для metadata блока. false, если поворот выключен.
// Явное свойство состояния заменяет таблицу поворотов по умолчанию.
func Rotation(n *node.RotationNode, meta int) (mgl64.Mat4, bool) {
	if n == nil || !n.Enabled {
		return mgl64.Ident4(), false
	}
	state := property.RotationState(meta)
	if p, ok := n.Property(state); ok {
		x, y, z := p.Axis()
		return turn{p.Angle, x, y, z}.matrix(), true
	}

	m := mgl64.Ident4()
	turns, ok := defaultTurns[state]
	if !ok {
		return m, true
	}
	if n.DefaultRotate {
		m = m.Mul4(turns[0].matrix())
	}
	if n.DefaultMirrorRotate {
		m = m.Mul4(turns[1].matrix())
	}
	return m, true
}
