package vec

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	p := Of(1, 2, 3)
	assert.Equal(t, Of(2, 2, 2), p.Offset(1, 0, -1))
	assert.True(t, p.Add(Of(1, 1, 1)).Equals(Of(2, 3, 4)))
	assert.Equal(t, 3.0, p.DistanceTo(Of(2, 3, 4)))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, p.Float())
	assert.Equal(t, "(1, 2, 3)", p.String())
}
