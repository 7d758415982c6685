package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/vec"
)

type stairsWorld map[vec.Vec3]int

func (w stairsWorld) Metadata(pos vec.Vec3) int { return w[pos] }

func (w stairsWorld) IsStairs(pos vec.Vec3) bool {
	_, ok := w[pos]
	return ok
}

var everything = model.Box(-10, -10, -10, 10, 10, 10)

func TestOctant(t *testing.T) {
	assert.Equal(t, model.Box(0, 0, 0, 0.5, 0.5, 0.5), Octant(0))
	assert.Equal(t, model.Box(0.5, 0.5, 0.5, 1, 1, 1), Octant(7))
	assert.Equal(t, model.Box(0, 0.5, 0, 0.5, 1, 0.5), Octant(2))
}

func TestLoneStairs(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0}

	boxes := StairsCollisionBoxes(w, pos, everything)
	require.Len(t, boxes, 2)
	assert.Equal(t, model.Box(0, 0, 0, 1, 0.5, 1), boxes[0])
	assert.Equal(t, model.Box(0.5, 0.5, 0, 1, 1, 1), boxes[1])
}

func TestUpsideDownStairs(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 4}

	boxes := StairsCollisionBoxes(w, pos, everything)
	require.Len(t, boxes, 2)
	assert.Equal(t, model.Box(0, 0.5, 0, 1, 1, 1), boxes[0])
	assert.Equal(t, model.Box(0.5, 0, 0, 1, 0.5, 1), boxes[1])
}

func TestBoxesAreOffsetAndMasked(t *testing.T) {
	pos := vec.Of(2, 3, 4)
	w := stairsWorld{pos: 0}

	boxes := StairsCollisionBoxes(w, pos, model.Box(2, 3, 4, 3, 3.4, 5))
	require.Len(t, boxes, 1, "маска задевает только нижнюю половину")
	assert.Equal(t, model.Box(2, 3, 4, 3, 3.5, 5), boxes[0])
}

func TestOuterCornerCutsStep(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0, vec.Of(1, 0, 0): 3}

	boxes := StairsCollisionBoxes(w, pos, everything)
	require.Len(t, boxes, 2)
	assert.Equal(t, model.Box(0.5, 0.5, 0, 1, 1, 0.5), boxes[1])
}

func TestInnerCornerAddsQuarter(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0, vec.Of(-1, 0, 0): 3}

	boxes := StairsCollisionBoxes(w, pos, everything)
	require.Len(t, boxes, 3)
	assert.Equal(t, model.Box(0, 0.5, 0, 0.5, 1, 0.5), boxes[2])
}

func TestNeighbourWithOtherHalfIsIgnored(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0, vec.Of(-1, 0, 0): 7}

	assert.Len(t, StairsCollisionBoxes(w, pos, everything), 2)
}

func TestRayTraceSkipsExcludedOctants(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0}

	hit, ok := StairsRayTrace(w, pos, mgl64.Vec3{0.25, 2, 0.25}, mgl64.Vec3{0.25, -1, 0.25})
	require.True(t, ok)
	assert.InDelta(t, 0.5, hit.Pos.Y(), 1e-9)
	assert.Equal(t, model.Up, hit.Side)
}

func TestRayTracePicksFarthestFromEnd(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0}

	hit, ok := StairsRayTrace(w, pos, mgl64.Vec3{0.75, 2, 0.25}, mgl64.Vec3{0.75, -1, 0.25})
	require.True(t, ok)
	assert.InDelta(t, 1.0, hit.Pos.Y(), 1e-9)
}

func TestRayTraceMiss(t *testing.T) {
	pos := vec.Of(0, 0, 0)
	w := stairsWorld{pos: 0}

	_, ok := StairsRayTrace(w, pos, mgl64.Vec3{5, 2, 5}, mgl64.Vec3{5, -1, 5})
	assert.False(t, ok)
}
