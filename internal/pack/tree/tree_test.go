package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
title: "Apple"
hardness: 2.5
light:
  emission: 15
bounds:
  collision-box: "0 0 0 1 0.5 1"
stages:
  0:
    shape: a
  3:
    shape: b
  3:
    shape: c
texture-coordinates:
  - "0 0 16 16"
  - "16 0 16 16"
`

func TestGetWithDefaults(t *testing.T) {
	root, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "Apple", root.Get("title").String(""))
	assert.Equal(t, 2.5, root.Get("hardness").Float(1))
	assert.Equal(t, 15, root.Get("light", "emission").Int(0))
	assert.Equal(t, 1.0, root.Get("resistance").Float(1))
	assert.True(t, root.Get("render.normal-cube").Bool(true))
	assert.True(t, root.Get("missing", "deeper").Virtual())
	assert.Equal(t, "light.required.max", root.Get("light.required", "max").Path())
}

func TestDottedPath(t *testing.T) {
	root, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "0 0 0 1 0.5 1", root.Get("bounds.collision-box").String(""))
}

func TestChildrenKeepDuplicates(t *testing.T) {
	root, err := Parse([]byte(sample))
	require.NoError(t, err)

	children := root.Get("stages").Children()
	require.Len(t, children, 3)
	assert.Equal(t, "0", children[0].Key)
	assert.Equal(t, "3", children[1].Key)
	assert.Equal(t, "b", children[1].Node.Get("shape").String(""))
	assert.Equal(t, "c", children[2].Node.Get("shape").String(""))
}

func TestStringList(t *testing.T) {
	root, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"0 0 16 16", "16 0 16 16"}, root.Get("texture-coordinates").StringList())
	assert.Equal(t, "0 0 16 16\n16 0 16 16", root.Get("texture-coordinates").String(""))
	assert.Nil(t, root.Get("nothing").StringList())
}

func TestEmptyDocument(t *testing.T) {
	root, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.True(t, root.Get("a").Virtual())
	assert.Nil(t, root.Children())
}
