// Package physics содержит геометрию столкновений блоков в режиме ступеней.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/vec"
)

// StairsAccess доступ к миру, нужный для стыковки соседних ступеней
type StairsAccess interface {
	Metadata(pos vec.Vec3) int
	// IsStairs true для ванильных ступеней и блоков паков с включённым режимом ступеней
	IsStairs(pos vec.Vec3) bool
}

// Бит перевёрнутой ступени и маска направления в метаданных
const (
	upsideDownBit = 4
	facingMask    = 3
)

// Октанты, исключаемые из трассировки для каждого состояния (направление + перевёрнутость)
var excludedOctants = [8][2]int{{2, 6}, {3, 7}, {2, 3}, {6, 7}, {0, 4}, {1, 5}, {0, 1}, {4, 5}}

// Octant рамка j-го октанта блока (0..7): биты j задают сдвиг по X, Y и Z
func Octant(j int) model.AABB {
	x := 0.5 * float64(j%2)
	y := 0.5 * float64(j/2%2)
	z := 0.5 * float64(j/4%2)
	return model.Box(x, y, z, x+0.5, y+0.5, z+0.5)
}

// StairsBounds нижняя или, для перевёрнутой ступени, верхняя половина блока
func StairsBounds(meta int) model.AABB {
	if meta&upsideDownBit != 0 {
		return model.Box(0, 0.5, 0, 1, 1, 1)
	}
	return model.Box(0, 0, 0, 1, 0.5, 1)
}

// sameStairs соседняя ступень с теми же метаданными
func sameStairs(access StairsAccess, pos vec.Vec3, meta int) bool {
	return access.IsStairs(pos) && access.Metadata(pos) == meta
}

// neighbour метаданные соседней ступени той же ориентации по вертикали
func neighbour(access StairsAccess, pos vec.Vec3, meta int) (int, bool) {
	if !access.IsStairs(pos) {
		return 0, false
	}
	m := access.Metadata(pos)
	if meta&upsideDownBit != m&upsideDownBit {
		return 0, false
	}
	return m & facingMask, true
}

func verticalHalf(meta int) (float64, float64) {
	if meta&upsideDownBit != 0 {
		return 0, 0.5
	}
	return 0.5, 1
}

// stepBounds верхняя ступенька. full=false, когда ступенька срезана внешним углом.
func stepBounds(access StairsAccess, pos vec.Vec3, meta int) (model.AABB, bool) {
	minY, maxY := verticalHalf(meta)
	minX, maxX, minZ, maxZ := 0.0, 1.0, 0.0, 0.5
	full := true

	switch meta & facingMask {
	case 0, 1:
		var n vec.Vec3
		if meta&facingMask == 0 {
			minX, maxZ = 0.5, 1
			n = pos.Offset(1, 0, 0)
		} else {
			maxX, maxZ = 0.5, 1
			n = pos.Offset(-1, 0, 0)
		}
		if k, ok := neighbour(access, n, meta); ok {
			if k == 3 && !sameStairs(access, pos.Offset(0, 0, 1), meta) {
				maxZ = 0.5
				full = false
			} else if k == 2 && !sameStairs(access, pos.Offset(0, 0, -1), meta) {
				minZ = 0.5
				full = false
			}
		}
	case 2, 3:
		var n vec.Vec3
		if meta&facingMask == 2 {
			minZ, maxZ = 0.5, 1
			n = pos.Offset(0, 0, 1)
		} else {
			n = pos.Offset(0, 0, -1)
		}
		if k, ok := neighbour(access, n, meta); ok {
			if k == 1 && !sameStairs(access, pos.Offset(1, 0, 0), meta) {
				maxX = 0.5
				full = false
			} else if k == 0 && !sameStairs(access, pos.Offset(-1, 0, 0), meta) {
				minX = 0.5
				full = false
			}
		}
	}
	return model.Box(minX, minY, minZ, maxX, maxY, maxZ), full
}

// cornerBounds дополнительная четверть внутреннего угла, если он образуется
func cornerBounds(access StairsAccess, pos vec.Vec3, meta int) (model.AABB, bool) {
	minY, maxY := verticalHalf(meta)
	minX, maxX, minZ, maxZ := 0.0, 0.5, 0.5, 1.0
	corner := false

	switch meta & facingMask {
	case 0, 1:
		n := pos.Offset(-1, 0, 0)
		if meta&facingMask == 1 {
			n = pos.Offset(1, 0, 0)
		}
		if k, ok := neighbour(access, n, meta); ok {
			if meta&facingMask == 1 {
				minX, maxX = 0.5, 1
			}
			if k == 3 && !sameStairs(access, pos.Offset(0, 0, -1), meta) {
				minZ, maxZ = 0, 0.5
				corner = true
			} else if k == 2 && !sameStairs(access, pos.Offset(0, 0, 1), meta) {
				minZ, maxZ = 0.5, 1
				corner = true
			}
		}
	case 2, 3:
		n := pos.Offset(0, 0, -1)
		if meta&facingMask == 3 {
			n = pos.Offset(0, 0, 1)
		}
		if k, ok := neighbour(access, n, meta); ok {
			if meta&facingMask == 2 {
				minZ, maxZ = 0, 0.5
			}
			if k == 1 && !sameStairs(access, pos.Offset(-1, 0, 0), meta) {
				corner = true
			} else if k == 0 && !sameStairs(access, pos.Offset(1, 0, 0), meta) {
				minX, maxX = 0.5, 1
				corner = true
			}
		}
	}
	return model.Box(minX, minY, minZ, maxX, maxY, maxZ), corner
}

// StairsCollisionBoxes раскладывает ступень на половину блока, ступеньку и, при стыковке
// с соседней ступенью, угловую четверть. Возвращаются рамки в мировых координатах,
// пересекающие mask.
func StairsCollisionBoxes(access StairsAccess, pos vec.Vec3, mask model.AABB) []model.AABB {
	meta := access.Metadata(pos)
	boxes := []model.AABB{StairsBounds(meta)}

	step, full := stepBounds(access, pos, meta)
	boxes = append(boxes, step)
	if full {
		if corner, ok := cornerBounds(access, pos, meta); ok {
			boxes = append(boxes, corner)
		}
	}

	out := boxes[:0]
	x, y, z := float64(pos.X), float64(pos.Y), float64(pos.Z)
	for _, b := range boxes {
		b = b.Offset(x, y, z)
		if mask.Intersects(b) {
			out = append(out, b)
		}
	}
	return out
}

// StairsRayTrace трассирует луч по восьми октантам блока, отбрасывает октанты,
// исключённые для текущего состояния, и возвращает попадание, наиболее удалённое от end.
func StairsRayTrace(access StairsAccess, pos vec.Vec3, start, end mgl64.Vec3) (model.Hit, bool) {
	meta := access.Metadata(pos)
	state := meta & facingMask
	if meta&upsideDownBit != 0 {
		state += 4
	}

	var hits [8]*model.Hit
	origin := pos.Float()
	for j := 0; j < 8; j++ {
		if h, ok := Octant(j).Offset(origin[0], origin[1], origin[2]).RayTrace(start, end); ok {
			hits[j] = &h
		}
	}
	for _, j := range excludedOctants[state] {
		hits[j] = nil
	}

	var best *model.Hit
	bestDist := 0.0
	for _, h := range hits {
		if h == nil {
			continue
		}
		if d := h.Pos.Sub(end).LenSqr(); d > bestDist {
			best = h
			bestDist = d
		}
	}
	if best == nil {
		return model.Hit{}, false
	}
	return *best, true
}
