package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeASCII(t *testing.T) {
	s, err := DecodeASCII([]int8{72, 73}, true)
	require.NoError(t, err)
	assert.Equal(t, "HI", s)

	// Round trip
	again, err := DecodeASCII(EncodeASCII(s), true)
	require.NoError(t, err)
	assert.Equal(t, s, again)

	// NUL terminated and blank padded
	s, err = DecodeASCII([]int8{'T', 'O', 'P', ' ', ' ', 0, 'X'}, true)
	require.NoError(t, err)
	assert.Equal(t, "TOP", s)

	_, err = DecodeASCII([]int8{'A', 7}, true)
	assert.ErrorIs(t, err, ErrDecode)

	s, err = DecodeASCII([]int8{'A', 7}, false)
	require.NoError(t, err)
	assert.Equal(t, "A\a", s)
}

func TestDecodeNodeID(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"N123", 123},
		{"EL7", 7},
		{"M0042", 42},
		{"N1      ", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := DecodeNodeID(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}

	for _, bad := range []string{"abc", "", "N12a"} {
		_, err := DecodeNodeID(bad)
		assert.ErrorIs(t, err, ErrParse, bad)
	}
}

func TestDecodeFlat(t *testing.T) {
	recs, err := DecodeFlat([]float64{0, 1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 2}, {3, 4, 5}}, recs)

	_, err = DecodeFlat([]float64{0, 1, 2, 3}, 3)
	assert.ErrorIs(t, err, ErrLayout)

	_, err = DecodeFlat([]int64{1}, 0)
	assert.ErrorIs(t, err, ErrLayout)

	recs, err = DecodeFlat([]float64{}, 2)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDecodeNoInterlace(t *testing.T) {
	// x0 x1 x2 | y0 y1 y2
	recs, err := DecodeNoInterlace([]float64{0, 1, 2, 10, 11, 12}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 10}, {1, 11}, {2, 12}}, recs)

	_, err = DecodeNoInterlace([]int64{1, 2, 3, 4, 5}, 2)
	assert.ErrorIs(t, err, ErrLayout)
}

func TestDecodeNames(t *testing.T) {
	raw := make([]int8, 0, 2*LongNameWidth)
	for _, name := range []string{"OUTER", "BOUNDARY_2"} {
		field := make([]int8, LongNameWidth)
		copy(field, EncodeASCII(name))
		raw = append(raw, field...)
	}
	names, err := DecodeNames(raw, LongNameWidth)
	require.NoError(t, err)
	assert.Equal(t, []string{"OUTER", "BOUNDARY_2"}, names)

	_, err = DecodeNames(raw[:LongNameWidth+3], LongNameWidth)
	assert.ErrorIs(t, err, ErrLayout)
}

func TestDecodeFamilyID(t *testing.T) {
	id, err := DecodeFamilyID("FAM_-3_LEFT_TOP")
	require.NoError(t, err)
	assert.Equal(t, -3, id)

	id, err = DecodeFamilyID("FAM_2_FIXED")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	id, err = DecodeFamilyID("FAMILLE_ZERO")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	_, err = DecodeFamilyID("GROUP_1")
	assert.ErrorIs(t, err, ErrParse)
	_, err = DecodeFamilyID("FAM_x_1")
	assert.ErrorIs(t, err, ErrParse)
}
