package med

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
)

// Reader extracts entities from one open container. It keeps no state
// between calls and, like the container, must not be shared between
// goroutines.
type Reader struct {
	c   container.Container
	log *slog.Logger
}

// NewReader wraps an open container. A nil logger discards log output.
func NewReader(c container.Container, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{c: c, log: logger}
}

// MeshNames lists the meshes stored in the container.
func (r *Reader) MeshNames() ([]string, error) {
	return children(r.c, container.Join(MeshRoot))
}

// selectMesh resolves an optional mesh name. Without a name the container
// must hold exactly one mesh.
func (r *Reader) selectMesh(name string) (string, error) {
	names, err := r.MeshNames()
	if err != nil {
		return "", err
	}
	if name == "" {
		switch len(names) {
		case 0:
			return "", fmt.Errorf("%w: container holds no mesh", ErrMeshNotFound)
		case 1:
			return names[0], nil
		default:
			return "", fmt.Errorf("%w: pick one of %s", ErrAmbiguousMesh, strings.Join(names, ", "))
		}
	}
	for _, n := range names {
		if n == name {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q, available meshes: %s", ErrMeshNotFound, name, strings.Join(names, ", "))
}

// nodeTable is the decoded NOE group
type nodeTable struct {
	dim      int
	ids      []int
	coords   [][]float64
	families []int // nil when the file stores none
}

func (r *Reader) readNodes(meshName, base string) (*nodeTable, error) {
	noe := container.Join(base, NodeGroup)
	cooA, err := container.ReadOptional(r.c, container.Join(noe, Coordinates))
	if err != nil {
		return nil, err
	}
	if cooA == nil {
		return nil, fmt.Errorf("%w: mesh %q has no coordinates at %s", ErrLayout, meshName, noe)
	}
	coo, err := cooA.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", noe, err)
	}

	ids, err := r.readIDs(noe)
	if err != nil {
		return nil, err
	}
	families, err := r.readFamilies(noe)
	if err != nil {
		return nil, err
	}

	nnodes := -1
	switch {
	case ids != nil:
		nnodes = len(ids)
	case families != nil:
		nnodes = len(families)
	}

	dim, declared, err := intAttr(r.c, container.Join(MeshRoot, meshName), AttrSpaceDim)
	if err != nil {
		return nil, err
	}
	switch {
	case declared:
	case len(coo) == 0:
		nnodes = 0
	case nnodes > 0:
		if len(coo)%nnodes != 0 {
			return nil, fmt.Errorf("%w: %d coordinates do not divide among %d nodes",
				ErrLayout, len(coo), nnodes)
		}
		dim = len(coo) / nnodes
	default:
		return nil, fmt.Errorf("%w: mesh %q declares neither a dimension nor a node count",
			ErrLayout, meshName)
	}

	t := &nodeTable{dim: dim, families: families}
	if len(coo) > 0 {
		if dim < 1 || dim > 3 {
			return nil, fmt.Errorf("%w: unsupported spatial dimension %d", ErrLayout, dim)
		}
		if t.coords, err = decode.DecodeNoInterlace(coo, dim); err != nil {
			return nil, fmt.Errorf("mesh %q coordinates: %w", meshName, err)
		}
	}
	if nnodes >= 0 && len(t.coords) != nnodes {
		return nil, fmt.Errorf("%w: mesh %q has %d coordinate records for %d nodes",
			ErrLayout, meshName, len(t.coords), nnodes)
	}
	if families != nil && len(families) != len(t.coords) {
		return nil, fmt.Errorf("%w: %d node families for %d nodes", ErrLayout, len(families), len(t.coords))
	}
	if t.ids = ids; t.ids == nil {
		t.ids = sequence(len(t.coords))
	}
	r.log.Debug("read node table", "mesh", meshName, "path", noe,
		"nodes", len(t.ids), "dimension", dim, "explicitIDs", ids != nil)
	return t, nil
}

// readIDs returns the identifiers stored in NUM, or decoded from NOM names,
// or nil when the group stores neither.
func (r *Reader) readIDs(group string) ([]int, error) {
	num, err := container.ReadOptional(r.c, container.Join(group, Numbers))
	if err != nil {
		return nil, err
	}
	if num != nil {
		ids, err := num.IntSlice()
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", group, Numbers, err)
		}
		return ids, nil
	}
	nom, err := container.ReadOptional(r.c, container.Join(group, Names))
	if err != nil || nom == nil {
		return nil, err
	}
	raw, err := nom.Int8s()
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, Names, err)
	}
	names, err := decode.DecodeNames(raw, decode.ShortNameWidth)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, Names, err)
	}
	ids := make([]int, len(names))
	for i, n := range names {
		if ids[i], err = decode.DecodeNodeID(n); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", group, Names, err)
		}
	}
	return ids, nil
}

func (r *Reader) readFamilies(group string) ([]int, error) {
	fam, err := container.ReadOptional(r.c, container.Join(group, Families))
	if err != nil || fam == nil {
		return nil, err
	}
	v, err := fam.IntSlice()
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", group, Families, err)
	}
	return v, nil
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}
