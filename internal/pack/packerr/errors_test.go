package packerr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindPredicates(t *testing.T) {
	err := Parse("bad range %q", "1-")
	assert.True(t, IsParse(err))
	assert.False(t, IsStructural(err))
	assert.Equal(t, KindParse, KindOf(err))
	assert.Equal(t, `bad range "1-"`, err.Error())
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	err := errors.Wrap(DuplicateRecipe("recipe 3 exists"), "object apple")
	assert.True(t, IsDuplicateRecipe(err))
	assert.Equal(t, KindDuplicateRecipe, KindOf(err))
}

func TestStackTraceInVerboseFormat(t *testing.T) {
	err := Structural("model has no faces")
	verbose := fmt.Sprintf("%+v", err)
	assert.Contains(t, verbose, "model has no faces")
	assert.Contains(t, verbose, "errors_test.go")
}

func TestForeignErrorHasNoKind(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(fmt.Errorf("plain")))
	assert.Equal(t, "unknown-recipe-type error", ErrUnknownRecipeType.Error())
}
