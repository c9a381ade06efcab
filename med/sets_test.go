package med

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/mesh"
)

func TestElementSets(t *testing.T) {
	sets, err := NewReader(squareContainer(), nil).ElementSets("square")
	require.NoError(t, err)

	assert.Equal(t, []int{-3, -2, -1, 0}, sets.IDs())
	assert.Equal(t, &mesh.NamedSet{
		ID:      -1,
		Names:   []string{"OUTER", "BOUNDARY_2"},
		Members: []int{1, 2, 101}, // edges first, in element type order
	}, sets[-1])
	assert.Equal(t, []string{"INNER"}, sets[-2].Names)
	assert.Equal(t, []int{102}, sets[-2].Members)

	assert.Empty(t, sets[0].Names, "the zero family is unnamed")
	assert.Equal(t, []int{3}, sets[0].Members)

	assert.Equal(t, []string{"UNUSED"}, sets[-3].Names)
	assert.Empty(t, sets[-3].Members)

	byName := sets.ByName()
	assert.Equal(t, byName["OUTER"], byName["BOUNDARY_2"])
	assert.Equal(t, []int{1, 2, 101}, byName["OUTER"])
}

func TestNodeSets(t *testing.T) {
	sets, err := NewReader(squareContainer(), nil).NodeSets("")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, sets.IDs())
	assert.Equal(t, []string{"CORNERS"}, sets[1].Names)
	assert.Equal(t, []int{10, 20}, sets[1].Members)
	assert.Equal(t, []int{30, 40}, sets[0].Members)

	// family 2 has members but no entry in the family table
	assert.Empty(t, sets[2].Names)
	assert.Equal(t, []int{50}, sets[2].Members)
}

func TestSetsGroupNamesAsStrings(t *testing.T) {
	c := squareContainer()
	c.AddArray("/FAS/square/ELEME/FAM_-2_INNER/GRO/NOM", container.StringArray([]string{"INNER", "CORE"}))
	sets, err := NewReader(c, nil).ElementSets("")
	require.NoError(t, err)
	assert.Equal(t, []string{"INNER", "CORE"}, sets[-2].Names)
}

func TestSetTableMissing(t *testing.T) {
	t.Run("node membership missing", func(t *testing.T) {
		c := squareContainer()
		c.Remove("/ENS_MAA/square/NOE/FAM")
		_, err := NewReader(c, nil).NodeSets("")
		assert.ErrorIs(t, err, ErrSetTableMissing)
	})
	t.Run("element membership missing", func(t *testing.T) {
		c := squareContainer()
		c.Remove("/ENS_MAA/square/MAI/TR3/FAM")
		c.Remove("/ENS_MAA/square/MAI/SE2/FAM")
		_, err := NewReader(c, nil).ElementSets("")
		assert.ErrorIs(t, err, ErrSetTableMissing)
	})
	t.Run("family table missing", func(t *testing.T) {
		c := squareContainer()
		c.Remove("/FAS/square")
		_, err := NewReader(c, nil).ExtractMesh("", true)
		assert.ErrorIs(t, err, ErrSetTableMissing)
	})
	t.Run("family table missing without sets requested", func(t *testing.T) {
		c := squareContainer()
		c.Remove("/FAS/square")
		_, err := NewReader(c, nil).ExtractMesh("", false)
		assert.NoError(t, err)
	})
	t.Run("only the zero family", func(t *testing.T) {
		c := squareContainer()
		c.Remove("/FAS")
		c.AddInts("/ENS_MAA/square/NOE/FAM", 0, 0, 0, 0, 0)
		sets, err := NewReader(c, nil).NodeSets("")
		require.NoError(t, err)
		assert.Equal(t, []int{0}, sets.IDs())
		assert.Len(t, sets[0].Members, 5)
	})
}

func TestSetsBadFamilyGroupName(t *testing.T) {
	c := squareContainer()
	c.AddGroup("/FAS/square/NOEUD/NOT_A_FAMILY")
	_, err := NewReader(c, nil).NodeSets("")
	assert.ErrorIs(t, err, ErrParse)
}
