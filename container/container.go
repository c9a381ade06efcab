// Package container defines the capability the MED readers need from a
// hierarchical data file: list the children of a group and read a dataset.
// Concrete accessors live in the subpackages h5file (HDF5 on disk) and memory.
package container

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/notargets/medread/decode"
)

var (
	ErrNotFound = errors.New("object not found")
	ErrNotGroup = errors.New("object is not a group")
)

// Container is an open hierarchical file. Paths are absolute and slash
// separated. A Container is not safe for concurrent use unless the
// implementation says otherwise.
type Container interface {
	// Children returns the names of the members of the group at path, in
	// the order the file stores them.
	Children(path string) ([]string, error)
	// ReadArray reads the whole dataset at path.
	ReadArray(path string) (*Array, error)
	Close() error
}

// AttrReader is implemented by containers that can also read attributes.
type AttrReader interface {
	ReadAttr(path, name string) (*Array, error)
}

// Opener opens the container stored at path.
type Opener func(path string) (Container, error)

// Kind is the element type of an Array.
type Kind int

const (
	Int8 Kind = iota
	Int64
	Float64
	String
)

func (k Kind) String() string {
	return [...]string{"int8", "int64", "float64", "string"}[k]
}

// Array is a raw typed buffer read from a dataset or attribute.
type Array struct {
	Kind    Kind
	Bytes   []int8
	Ints    []int64
	Floats  []float64
	Strings []string
}

func Int8Array(b []int8) *Array       { return &Array{Kind: Int8, Bytes: b} }
func Int64Array(v []int64) *Array     { return &Array{Kind: Int64, Ints: v} }
func Float64Array(v []float64) *Array { return &Array{Kind: Float64, Floats: v} }
func StringArray(v []string) *Array   { return &Array{Kind: String, Strings: v} }

// Len returns the number of elements.
func (a *Array) Len() int {
	switch a.Kind {
	case Int8:
		return len(a.Bytes)
	case Int64:
		return len(a.Ints)
	case Float64:
		return len(a.Floats)
	default:
		return len(a.Strings)
	}
}

// Int64s returns integer contents. Signed bytes widen losslessly.
func (a *Array) Int64s() ([]int64, error) {
	switch a.Kind {
	case Int64:
		return a.Ints, nil
	case Int8:
		out := make([]int64, len(a.Bytes))
		for i, b := range a.Bytes {
			out[i] = int64(b)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: want integers, have %s", decode.ErrDecode, a.Kind)
	}
}

// IntSlice returns integer contents as int.
func (a *Array) IntSlice() ([]int, error) {
	v, err := a.Int64s()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out, nil
}

// Float64s returns floating point contents. Integer arrays are converted.
func (a *Array) Float64s() ([]float64, error) {
	switch a.Kind {
	case Float64:
		return a.Floats, nil
	case Int64:
		out := make([]float64, len(a.Ints))
		for i, x := range a.Ints {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: want floats, have %s", decode.ErrDecode, a.Kind)
	}
}

// Int8s returns signed byte contents, the storage MED uses for names.
func (a *Array) Int8s() ([]int8, error) {
	if a.Kind != Int8 {
		return nil, fmt.Errorf("%w: want signed bytes, have %s", decode.ErrDecode, a.Kind)
	}
	return a.Bytes, nil
}

// Scalar returns the first integer of the array.
func (a *Array) Scalar() (int64, error) {
	v, err := a.Int64s()
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: empty array", decode.ErrDecode)
	}
	return v[0], nil
}

// Join builds an absolute container path.
func Join(elem ...string) string {
	return path.Join(append([]string{"/"}, elem...)...)
}

// Split returns the parent group and base name of p.
func Split(p string) (dir, name string) {
	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	return path.Dir(p), path.Base(p)
}

// Has reports whether the object at p exists, by listing its parent. A
// missing parent is reported as absent rather than as an error.
func Has(c Container, p string) (bool, error) {
	dir, name := Split(p)
	if dir == "/" && name == "/" {
		return true, nil
	}
	names, err := c.Children(dir)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotGroup) {
			return false, nil
		}
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ReadOptional reads the dataset at p, returning nil when it does not exist.
func ReadOptional(c Container, p string) (*Array, error) {
	ok, err := Has(c, p)
	if err != nil || !ok {
		return nil, err
	}
	return c.ReadArray(p)
}
