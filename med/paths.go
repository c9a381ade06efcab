package med

import (
	"errors"
	"fmt"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/mesh"
)

// Group and dataset names of the MED layout
const (
	MeshRoot   = "ENS_MAA"
	FamilyRoot = "FAS"
	FieldRoot  = "CHA"

	NodeGroup    = "NOE"
	CellGroup    = "MAI"
	NodeFamilies = "NOEUD"
	CellFamilies = "ELEME"
	FamilyGroups = "GRO"

	Coordinates  = "COO"
	Connectivity = "NOD"
	Numbers      = "NUM"
	Names        = "NOM"
	Families     = "FAM"
	Values       = "CO"

	NoProfile = "MED_NO_PROFILE_INTERNAL"

	AttrSpaceDim   = "ESP" // on /ENS_MAA/<mesh>
	AttrComponents = "NCO" // on /CHA/<field>
	AttrCompNames  = "NOM" // on /CHA/<field>
	AttrFieldMesh  = "MAI" // on /CHA/<field>
)

// children lists a group, treating a missing group as empty.
func children(c container.Container, p string) ([]string, error) {
	names, err := c.Children(p)
	if errors.Is(err, container.ErrNotFound) {
		return nil, nil
	}
	return names, err
}

// meshBase returns the group holding NOE and MAI for a mesh. MED 3 files keep
// them under a computation step subgroup; the latest step in time step then
// iteration order is the most recent one.
func meshBase(c container.Container, meshName string) (string, error) {
	p := container.Join(MeshRoot, meshName)
	names, err := c.Children(p)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == NodeGroup || n == CellGroup {
			return p, nil
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: mesh %q holds no node table", ErrLayout, meshName)
	}
	var (
		latest string
		last   mesh.Step
	)
	for i, n := range names {
		s, err := ParseStepKey(n)
		if err != nil {
			return "", fmt.Errorf("mesh %q: %w", meshName, err)
		}
		if i == 0 || last.Less(s) {
			latest, last = n, s
		}
	}
	return container.Join(p, latest), nil
}

// intAttr reads an integer attribute when the container supports attributes
// and the attribute exists.
func intAttr(c container.Container, p, name string) (int, bool, error) {
	ar, ok := c.(container.AttrReader)
	if !ok {
		return 0, false, nil
	}
	a, err := ar.ReadAttr(p, name)
	if errors.Is(err, container.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := a.Scalar()
	if err != nil {
		return 0, false, fmt.Errorf("attribute %s of %s: %w", name, p, err)
	}
	return int(v), true, nil
}

// namesAttr reads a fixed-width name table attribute, stored either as signed
// bytes or as a string.
func namesAttr(c container.Container, p, name string, width int) ([]string, error) {
	ar, ok := c.(container.AttrReader)
	if !ok {
		return nil, nil
	}
	a, err := ar.ReadAttr(p, name)
	if errors.Is(err, container.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names, err := nameTable(a, width)
	if err != nil {
		return nil, fmt.Errorf("attribute %s of %s: %w", name, p, err)
	}
	return names, nil
}

// nameTable decodes a fixed-width name table stored either as signed bytes or
// as strings.
func nameTable(a *container.Array, width int) ([]string, error) {
	var raw []int8
	switch a.Kind {
	case container.Int8:
		raw = a.Bytes
	case container.String:
		for _, s := range a.Strings {
			b := decode.EncodeASCII(s)
			if rem := len(b) % width; rem != 0 || len(b) == 0 {
				b = append(b, make([]int8, width-rem)...)
			}
			raw = append(raw, b...)
		}
	default:
		return nil, fmt.Errorf("%w: name table stored as %s", ErrDecode, a.Kind)
	}
	// A trailing short name is padded to the full width
	if rem := len(raw) % width; rem != 0 {
		raw = append(raw, make([]int8, width-rem)...)
	}
	return decode.DecodeNames(raw, width)
}
