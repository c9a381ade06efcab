package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
)

func TestContainerTree(t *testing.T) {
	c := New().
		AddFloats("/ENS_MAA/m/NOE/COO", 0, 1, 0, 1).
		AddInts("/ENS_MAA/m/NOE/NUM", 1, 2).
		AddGroup("/FAS/m").
		AddNames("/ENS_MAA/m/NOE/NOM", decode.ShortNameWidth, "N1", "N2")

	names, err := c.Children("/")
	require.NoError(t, err)
	assert.Equal(t, []string{"ENS_MAA", "FAS"}, names)

	names, err = c.Children("/ENS_MAA/m/NOE")
	require.NoError(t, err)
	assert.Equal(t, []string{"COO", "NUM", "NOM"}, names, "insertion order is kept")

	a, err := c.ReadArray("/ENS_MAA/m/NOE/COO")
	require.NoError(t, err)
	assert.Equal(t, container.Float64, a.Kind)
	assert.Equal(t, 4, a.Len())

	a, err = c.ReadArray("/ENS_MAA/m/NOE/NOM")
	require.NoError(t, err)
	b, err := a.Int8s()
	require.NoError(t, err)
	ids, err := decode.DecodeNames(b, decode.ShortNameWidth)
	require.NoError(t, err)
	assert.Equal(t, []string{"N1", "N2"}, ids)

	_, err = c.ReadArray("/ENS_MAA/m/NOE/FAM")
	assert.ErrorIs(t, err, container.ErrNotFound)

	_, err = c.Children("/ENS_MAA/m/NOE/COO")
	assert.ErrorIs(t, err, container.ErrNotGroup)

	_, err = c.ReadArray("/ENS_MAA/m")
	assert.Error(t, err)
}

func TestContainerHelpers(t *testing.T) {
	c := New().AddInts("/a/b/c", 3)

	ok, err := container.Has(c, "/a/b/c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = container.Has(c, "/a/x/c")
	require.NoError(t, err)
	assert.False(t, ok)

	a, err := container.ReadOptional(c, "/a/b/missing")
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = container.ReadOptional(c, "/a/b/c")
	require.NoError(t, err)
	v, err := a.Scalar()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	c.Remove("/a/b/c")
	ok, err = container.Has(c, "/a/b/c")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainerAttrsAndClose(t *testing.T) {
	c := New().SetAttr("/ENS_MAA/m", "ESP", container.Int64Array([]int64{2}))

	a, err := c.ReadAttr("/ENS_MAA/m", "ESP")
	require.NoError(t, err)
	v, err := a.Scalar()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = c.ReadAttr("/ENS_MAA/m", "DIM")
	assert.ErrorIs(t, err, container.ErrNotFound)

	require.NoError(t, c.Close())
	assert.True(t, c.Closed())
	_, err = c.Children("/")
	assert.Error(t, err)

	reopened, err := c.Opener()("whatever.med")
	require.NoError(t, err)
	assert.False(t, c.Closed())
	_, err = reopened.Children("/")
	assert.NoError(t, err)
}

func TestReadArrayCopies(t *testing.T) {
	c := New().AddInts("/v", 1, 2, 3)
	a, err := c.ReadArray("/v")
	require.NoError(t, err)
	a.Ints[0] = 99

	b, err := c.ReadArray("/v")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, b.Ints)
}

func TestBuildersThroughDataset(t *testing.T) {
	c := New().AddInts("/ENS_MAA/m/NOE/NUM", 1, 2)

	assert.PanicsWithValue(t, `memory: "/ENS_MAA/m/NOE/NUM/X": object is not a group`, func() {
		c.AddGroup("/ENS_MAA/m/NOE/NUM/X")
	})
	assert.Panics(t, func() { c.AddGroup("/ENS_MAA/m/NOE/NUM") })
	assert.Panics(t, func() { c.AddInts("/ENS_MAA/m/NOE/NUM/X/Y", 1) })
	assert.Panics(t, func() { c.AddInts("/ENS_MAA/m/NOE/NUM/X", 1) })
	assert.Panics(t, func() {
		c.SetAttr("/ENS_MAA/m/NOE/NUM/X", "ESP", container.Int64Array([]int64{2}))
	})

	// the tree is untouched and still usable
	a, err := c.ReadArray("/ENS_MAA/m/NOE/NUM")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	c.SetAttr("/ENS_MAA/m/NOE/NUM", "ESP", container.Int64Array([]int64{2}))
	_, err = c.ReadAttr("/ENS_MAA/m/NOE/NUM", "ESP")
	assert.NoError(t, err)
}
