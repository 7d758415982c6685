package model

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AABB выровненный по осям параллелепипед
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Box конструктор из шести координат
func Box(minX, minY, minZ, maxX, maxY, maxZ float64) AABB {
	return AABB{Min: mgl64.Vec3{minX, minY, minZ}, Max: mgl64.Vec3{maxX, maxY, maxZ}}
}

// FullCube единичный куб
func FullCube() AABB { return Box(0, 0, 0, 1, 1, 1) }

// Offset сдвиг на позицию блока
func (b AABB) Offset(x, y, z float64) AABB {
	d := mgl64.Vec3{x, y, z}
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Intersects строгое пересечение объёмов; касание гранями не считается
func (b AABB) Intersects(o AABB) bool {
	for i := 0; i < 3; i++ {
		if o.Max[i] <= b.Min[i] || o.Min[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// Hit точка попадания луча
type Hit struct {
	Pos  mgl64.Vec3
	Side Direction
}

// RayTrace пересечение отрезка start-end с рамкой; возвращается ближайшая к start точка на грани
func (b AABB) RayTrace(start, end mgl64.Vec3) (Hit, bool) {
	type candidate struct {
		axis int
		val  float64
		side Direction
	}
	planes := [6]candidate{
		{0, b.Min[0], West}, {0, b.Max[0], East},
		{1, b.Min[1], Down}, {1, b.Max[1], Up},
		{2, b.Min[2], North}, {2, b.Max[2], South},
	}

	var best Hit
	bestDist := -1.0
	delta := end.Sub(start)
	for _, p := range planes {
		d := delta[p.axis]
		if d*d < 1e-14 {
			continue
		}
		t := (p.val - start[p.axis]) / d
		if t < 0 || t > 1 {
			continue
		}
		point := start.Add(delta.Mul(t))
		if !b.containsOnPlane(point, p.axis) {
			continue
		}
		dist := point.Sub(start).LenSqr()
		if bestDist < 0 || dist < bestDist {
			best = Hit{Pos: point, Side: p.side}
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

func (b AABB) containsOnPlane(p mgl64.Vec3, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}
