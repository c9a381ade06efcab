// Package decode converts the raw arrays stored in MED containers into
// domain values: signed-byte names, numeric identifiers embedded in names and
// fixed-width records packed into flat buffers.
package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrDecode = errors.New("decode error")
	ErrParse  = errors.New("parse error")
	ErrLayout = errors.New("layout error")
)

// Widths of the fixed-size name fields used by MED.
const (
	ShortNameWidth = 16 // node and element names
	NameWidth      = 64 // mesh and field names
	LongNameWidth  = 80 // group names
)

// DecodeASCII interprets each byte as a character code. Decoding stops at the
// first NUL and trailing blanks are removed, since MED pads names with both.
// In strict mode any code outside printable ASCII is an ErrDecode.
func DecodeASCII(b []int8, strict bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	for i, c := range b {
		if c == 0 {
			break
		}
		if strict && (c < 0x20 || c > 0x7e) {
			return "", fmt.Errorf("%w: byte %d at offset %d is not printable ASCII",
				ErrDecode, c, i)
		}
		sb.WriteByte(byte(c))
	}
	return strings.TrimRight(sb.String(), " "), nil
}

// EncodeASCII is the inverse of DecodeASCII for printable strings.
func EncodeASCII(s string) []int8 {
	b := make([]int8, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = int8(s[i])
	}
	return b
}

// DecodeNodeID extracts the trailing run of decimal digits from an entity
// name such as "N123" or "EL7".
func DecodeNodeID(name string) (int, error) {
	s := strings.TrimSpace(name)
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, fmt.Errorf("%w: no trailing digits in %q", ErrParse, name)
	}
	id, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrParse, name, err)
	}
	return id, nil
}

// DecodeFlat splits an interlaced buffer into records of stride values:
// record k is raw[k*stride : (k+1)*stride].
func DecodeFlat[T any](raw []T, stride int) ([][]T, error) {
	n, err := recordCount(len(raw), stride)
	if err != nil {
		return nil, err
	}
	out := make([][]T, n)
	for k := 0; k < n; k++ {
		rec := make([]T, stride)
		copy(rec, raw[k*stride:(k+1)*stride])
		out[k] = rec
	}
	return out, nil
}

// DecodeNoInterlace splits a component-major buffer into records of stride
// values: all first components, then all second components, and so on. This
// is how MED lays out coordinates, connectivity and field values on disk.
func DecodeNoInterlace[T any](raw []T, stride int) ([][]T, error) {
	n, err := recordCount(len(raw), stride)
	if err != nil {
		return nil, err
	}
	out := make([][]T, n)
	for k := 0; k < n; k++ {
		rec := make([]T, stride)
		for c := 0; c < stride; c++ {
			rec[c] = raw[c*n+k]
		}
		out[k] = rec
	}
	return out, nil
}

func recordCount(length, stride int) (int, error) {
	if stride < 1 {
		return 0, fmt.Errorf("%w: invalid stride %d", ErrLayout, stride)
	}
	if length%stride != 0 {
		return 0, fmt.Errorf("%w: buffer of %d values is not a multiple of stride %d",
			ErrLayout, length, stride)
	}
	return length / stride, nil
}

// DecodeNames decodes a table of fixed-width names.
func DecodeNames(b []int8, width int) ([]string, error) {
	recs, err := DecodeFlat(b, width)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(recs))
	for i, rec := range recs {
		if names[i], err = DecodeASCII(rec, false); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// DecodeFamilyID parses the family number out of a family group name of the
// form FAM_<id>_<label>. The zero family is named FAMILLE_ZERO.
func DecodeFamilyID(groupName string) (int, error) {
	name := strings.TrimSpace(groupName)
	if name == "FAMILLE_ZERO" {
		return 0, nil
	}
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 2 || parts[0] != "FAM" {
		return 0, fmt.Errorf("%w: %q is not a family group name", ErrParse, groupName)
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: family number in %q: %v", ErrParse, groupName, err)
	}
	return id, nil
}
