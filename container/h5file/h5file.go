// Package h5file implements container.Container on top of the pure Go HDF5
// reader github.com/robert-malhotra/go-hdf5.
package h5file

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
)

// File is an open HDF5 file. Not safe for concurrent use.
type File struct {
	f *hdf5.File
}

var _ container.Container = (*File)(nil)
var _ container.AttrReader = (*File)(nil)

// Open opens the HDF5 file at path for reading.
func Open(path string) (container.Container, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// Close releases the underlying file descriptor.
func (h *File) Close() error {
	return h.f.Close()
}

// group resolves p one component at a time, so a missing member is reported
// as container.ErrNotFound instead of whatever the library wraps.
func (h *File) group(p string) (*hdf5.Group, error) {
	g := h.f.Root()
	cur := "/"
	for _, part := range hdf5.SplitPath(p) {
		names, err := g.Members()
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", cur, err)
		}
		if !contains(names, part) {
			return nil, fmt.Errorf("%s: %w", container.Join(cur, part), container.ErrNotFound)
		}
		cur = container.Join(cur, part)
		if g, err = g.OpenGroup(part); err != nil {
			return nil, fmt.Errorf("%s: %w", cur, container.ErrNotGroup)
		}
	}
	return g, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Children implements container.Container.
func (h *File) Children(p string) ([]string, error) {
	g, err := h.group(p)
	if err != nil {
		return nil, err
	}
	return g.Members()
}

// ReadArray implements container.Container. Integer datasets of any width
// are widened to int64 except signed bytes, which MED uses for names.
func (h *File) ReadArray(p string) (*container.Array, error) {
	dir, name := container.Split(p)
	g, err := h.group(dir)
	if err != nil {
		return nil, err
	}
	names, err := g.Members()
	if err != nil {
		return nil, err
	}
	if !contains(names, name) {
		return nil, fmt.Errorf("%s: %w", p, container.ErrNotFound)
	}
	ds, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", p, err)
	}
	goType, err := ds.GoType()
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", p, err)
	}
	return read(goType, ds, p)
}

type reader interface {
	ReadInt8() ([]int8, error)
	ReadInt64() ([]int64, error)
	ReadFloat64() ([]float64, error)
	ReadString() ([]string, error)
}

func read(t reflect.Type, r reader, p string) (*container.Array, error) {
	var (
		a   *container.Array
		err error
	)
	switch t.Kind() {
	case reflect.Int8:
		var v []int8
		v, err = r.ReadInt8()
		a = container.Int8Array(v)
	case reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var v []int64
		v, err = r.ReadInt64()
		a = container.Int64Array(v)
	case reflect.Float32, reflect.Float64:
		var v []float64
		v, err = r.ReadFloat64()
		a = container.Float64Array(v)
	case reflect.String:
		var v []string
		v, err = r.ReadString()
		a = container.StringArray(v)
	default:
		return nil, fmt.Errorf("%s: unsupported element type %s", p, t)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return a, nil
}

// HDF5 datatype classes of attribute values
const (
	classFixedPoint = 0
	classFloatPoint = 1
	classString     = 3
	classVarLen     = 9
)

// ReadAttr implements container.AttrReader for attributes on groups and
// datasets. The value is read according to its stored datatype class.
func (h *File) ReadAttr(p, name string) (*container.Array, error) {
	attr, err := h.attr(p, name)
	if err != nil {
		return nil, err
	}
	var a *container.Array
	switch class := attr.DtypeClass(); class {
	case classFixedPoint:
		var v []int64
		v, err = attr.ReadInt64()
		a = container.Int64Array(v)
	case classFloatPoint:
		var v []float64
		v, err = attr.ReadFloat64()
		a = container.Float64Array(v)
	case classString, classVarLen:
		var v []string
		v, err = attr.ReadString()
		a = container.StringArray(v)
	default:
		return nil, fmt.Errorf("%w: attribute %s of %s has datatype class %d",
			decode.ErrDecode, name, p, class)
	}
	if err != nil {
		return nil, fmt.Errorf("reading attribute %s of %s: %w", name, p, err)
	}
	return a, nil
}

func (h *File) attr(p, name string) (*hdf5.Attribute, error) {
	dir, base := container.Split(p)
	var attr *hdf5.Attribute
	if base == "/" {
		attr = h.f.Root().Attr(name)
	} else {
		g, err := h.group(dir)
		if err != nil {
			return nil, err
		}
		names, err := g.Members()
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		if !contains(names, base) {
			return nil, fmt.Errorf("%s: %w", p, container.ErrNotFound)
		}
		if sub, err := g.OpenGroup(base); err == nil {
			attr = sub.Attr(name)
		} else {
			ds, err := g.OpenDataset(base)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", p, err)
			}
			attr = ds.Attr(name)
		}
	}
	if attr == nil {
		return nil, fmt.Errorf("attribute %s of %s: %w", name, p, container.ErrNotFound)
	}
	return attr, nil
}
