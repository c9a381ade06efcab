package readers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/med"
	"github.com/notargets/medread/mesh"
)

var ErrInvalidInput = errors.New("invalid input")

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string, opts ...Option) (*mesh.Snapshot, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".med", ".mmed", ".rmed":
		return ReadMesh(filename, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported mesh format: %s", ErrInvalidInput, ext)
	}
}

// ReadMesh reads the nodes, connectivity and, unless WithSets(false) is
// given, the node and element sets of one mesh.
func ReadMesh(path string, opts ...Option) (snap *mesh.Snapshot, err error) {
	o := applyOptions(opts)
	if o.meshName, err = checkName("mesh", o.meshName, true); err != nil {
		return nil, err
	}
	err = withReader(path, o, func(r *med.Reader) (err error) {
		snap, err = r.ExtractMesh(o.meshName, o.withSets)
		return
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ReadResultNodes reads the node table stored in a result file.
func ReadResultNodes(path string, opts ...Option) (nodes []mesh.Node, err error) {
	o := applyOptions(opts)
	if o.meshName, err = checkName("mesh", o.meshName, true); err != nil {
		return nil, err
	}
	err = withReader(path, o, func(r *med.Reader) (err error) {
		nodes, err = r.ResultNodes(o.meshName)
		return
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// ReadNodalField reads a nodal field of a result file, at the step given
// with WithStep or else at the last stored step.
func ReadNodalField(path, field string, opts ...Option) (f *mesh.NodalField, err error) {
	o := applyOptions(opts)
	if field, err = checkName("field", field, false); err != nil {
		return nil, err
	}
	err = withReader(path, o, func(r *med.Reader) (err error) {
		f, err = r.NodalField(field, o.step)
		return
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListMeshes returns the mesh names of a file.
func ListMeshes(path string, opts ...Option) (names []string, err error) {
	err = withReader(path, applyOptions(opts), func(r *med.Reader) (err error) {
		names, err = r.MeshNames()
		return
	})
	return names, err
}

// FieldInfo names a field and its stored steps.
type FieldInfo struct {
	Name  string
	Steps []mesh.Step
}

// ListFields returns the fields of a result file with their steps.
func ListFields(path string, opts ...Option) (fields []FieldInfo, err error) {
	err = withReader(path, applyOptions(opts), func(r *med.Reader) error {
		names, err := r.FieldNames()
		if err != nil {
			return err
		}
		for _, name := range names {
			steps, err := r.FieldSteps(name)
			if err != nil {
				return err
			}
			fields = append(fields, FieldInfo{Name: name, Steps: steps})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// withReader opens the file, runs fn and closes the file on every path.
func withReader(path string, o *readOptions, fn func(r *med.Reader) error) (err error) {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidInput)
	}
	c, err := o.opener(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return fn(med.NewReader(c, o.logger))
}

// checkName trims the blank padding of a MED name and checks its length.
func checkName(kind, name string, optional bool) (string, error) {
	trimmed := strings.TrimRight(name, " ")
	switch {
	case name == "" && optional:
		return "", nil
	case strings.TrimSpace(trimmed) == "":
		return "", fmt.Errorf("%w: blank %s name", ErrInvalidInput, kind)
	case len(trimmed) > decode.NameWidth:
		return "", fmt.Errorf("%w: %s name %q exceeds %d characters",
			ErrInvalidInput, kind, trimmed, decode.NameWidth)
	}
	return trimmed, nil
}
