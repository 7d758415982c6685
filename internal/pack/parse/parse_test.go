package parse

import (
	"testing"

	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValid(t *testing.T) {
	min, max, err := Range[int]("1-3")
	require.NoError(t, err)
	assert.Equal(t, 1, min)
	assert.Equal(t, 3, max)

	fmin, fmax, err := Range[float64]("10.5-20.5")
	require.NoError(t, err)
	assert.Equal(t, 10.5, fmin)
	assert.Equal(t, 20.5, fmax)

	smin, smax, err := Range[float32](" 7 ")
	require.NoError(t, err)
	assert.Equal(t, float32(7), smin)
	assert.Equal(t, float32(7), smax)
}

func TestRangeNegativeBounds(t *testing.T) {
	min, max, err := Range[int]("-3--1")
	require.NoError(t, err)
	assert.Equal(t, -3, min)
	assert.Equal(t, -1, max)

	min, max, err = Range[int]("-2")
	require.NoError(t, err)
	assert.Equal(t, -2, min)
	assert.Equal(t, -2, max)
}

func TestRangeMalformed(t *testing.T) {
	for _, raw := range []string{"", "a", "1-", "-", "1-b", "3-1", "1.5-2"} {
		min, max, err := Range[int](raw)
		assert.Error(t, err, "строка %q должна отклоняться", raw)
		assert.True(t, packerr.IsParse(err))
		assert.Zero(t, min)
		assert.Zero(t, max)
	}
}

func TestRangeOrFallback(t *testing.T) {
	min, max, err := RangeOr[float64]("", 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, min)
	assert.Equal(t, 100.0, max)
}

func TestListArity(t *testing.T) {
	values, err := List[float64]("0 0.5 1", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, values)

	_, err = List[float64]("0-1-0-16-16-16", 6)
	assert.True(t, packerr.IsParse(err))

	_, err = List[float64]("0 1 x", 3)
	assert.True(t, packerr.IsParse(err))
}

func TestTextureCoordinates(t *testing.T) {
	coords, err := TextureCoordinates([]string{"0 0 16 16", "16 0 16 16"})
	require.NoError(t, err)
	assert.Equal(t, [4]int{16, 0, 16, 16}, coords[1])

	_, err = TextureCoordinates([]string{"0 0 16"})
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	name, tooltip := Title("Apple")
	assert.Equal(t, "Apple", name)
	assert.Nil(t, tooltip)

	name, tooltip = Title("Apple\nТочно яблоко")
	assert.Equal(t, "Apple", name)
	assert.Equal(t, []string{"Точно яблоко"}, tooltip)
}

func TestStripExt(t *testing.T) {
	assert.Equal(t, "apple", StripExt("apple.png", ".png"))
	assert.Equal(t, "table", StripExt("table", ".shape"))
}
