package recipe

import (
	"testing"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ing(name string) Ingredient {
	return Ingredient{Object: mapper.GameObject{ModID: "minecraft", Name: name, Kind: mapper.KindItem}, Amount: 1}
}

var air = Ingredient{Air: true}

func TestEncodeShapedFirstSeenOrder(t *testing.T) {
	a, b, c := ing("planks"), ing("stick"), ing("iron")
	params := EncodeShaped([][]Ingredient{{a, b, a}, {air, c, air}})

	require.Len(t, params, 8)
	assert.Equal(t, "aba", params[0])
	assert.Equal(t, " c ", params[1])
	assert.Equal(t, 'a', params[2])
	assert.Equal(t, a, params[3])
	assert.Equal(t, 'b', params[4])
	assert.Equal(t, b, params[5])
	assert.Equal(t, 'c', params[6])
	assert.Equal(t, c, params[7])
}

func TestEncodeShapedDistinguishesDataAndAmount(t *testing.T) {
	red := ing("wool")
	red.Object.Data = 14
	double := ing("wool")
	double.Amount = 2
	params := EncodeShaped([][]Ingredient{{ing("wool"), red, double}})
	assert.Equal(t, "abc", params[0])
}

func TestRegisterShaped(t *testing.T) {
	m := NewManager()
	params := EncodeShaped([][]Ingredient{{ing("planks"), ing("planks")}, {ing("planks"), ing("planks")}})
	r, err := m.Register("Tools", "bench", 0, Shaped, property.Stack{Amount: 1}, params)
	require.NoError(t, err)
	assert.Equal(t, Shaped, r.Kind)

	_, err = m.Register("tools", "BENCH", 0, Shaped, property.Stack{Amount: 1}, params)
	assert.True(t, packerr.IsDuplicateRecipe(err))

	_, err = m.Register("Tools", "bench", 1, Shaped, property.Stack{Amount: 1}, params)
	assert.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestRegisterInvalidShapes(t *testing.T) {
	m := NewManager()
	tooWide := EncodeShaped([][]Ingredient{{ing("a"), ing("b"), ing("c"), ing("d")}})
	_, err := m.Register("p", "x", 0, Shaped, property.Stack{}, tooWide)
	assert.True(t, packerr.IsInvalidRecipe(err))

	ragged := EncodeShaped([][]Ingredient{{ing("a"), ing("b")}, {ing("a")}})
	_, err = m.Register("p", "x", 1, Shaped, property.Stack{}, ragged)
	assert.True(t, packerr.IsInvalidRecipe(err))

	allAir := EncodeShaped([][]Ingredient{{air, air}})
	_, err = m.Register("p", "x", 2, Shaped, property.Stack{}, allAir)
	assert.True(t, packerr.IsInvalidRecipe(err))

	unbound := []any{"ab", 'a', ing("a")}
	_, err = m.Register("p", "x", 3, Shaped, property.Stack{}, unbound)
	assert.True(t, packerr.IsInvalidRecipe(err))

	assert.Zero(t, m.Len())
}

func TestRegisterShapelessAndSmelt(t *testing.T) {
	m := NewManager()
	_, err := m.Register("p", "dough", 0, Shapeless, property.Stack{}, []any{ing("flour"), ing("water")})
	require.NoError(t, err)

	_, err = m.Register("p", "bread", 0, Smelt, property.Stack{}, []any{ing("dough"), ing("dough")})
	assert.True(t, packerr.IsInvalidRecipe(err))

	_, err = m.Register("p", "bread", 0, Smelt, property.Stack{}, []any{ing("dough"), "hot"})
	assert.True(t, packerr.IsInvalidRecipe(err))

	r, err := m.Register("p", "bread", 0, Smelt, property.Stack{}, []any{ing("dough"), 0.35})
	require.NoError(t, err)
	assert.Equal(t, 0.35, r.Experience)
	assert.Len(t, r.Params, 1)

	_, err = m.Register("p", "bread", 1, Kind(42), property.Stack{}, nil)
	assert.True(t, packerr.IsUnknownRecipeType(err))

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, "bread", all[0].Name)
}

func TestKindFromName(t *testing.T) {
	k, err := KindFromName("SHAPELESS")
	require.NoError(t, err)
	assert.Equal(t, Shapeless, k)

	_, err = KindFromName("brewing")
	assert.True(t, packerr.IsUnknownRecipeType(err))
}
