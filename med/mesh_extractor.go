package med

import (
	"fmt"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/mesh"
)

// ExtractMesh reads the nodes and the connectivity of every element type of
// a mesh. An empty name selects the only mesh of the container. With
// withSets the node and element sets are resolved too.
func (r *Reader) ExtractMesh(name string, withSets bool) (*mesh.Snapshot, error) {
	meshName, err := r.selectMesh(name)
	if err != nil {
		return nil, err
	}
	base, err := meshBase(r.c, meshName)
	if err != nil {
		return nil, err
	}
	r.log.Debug("extracting mesh", "mesh", meshName, "path", base)

	nodes, err := r.readNodes(meshName, base)
	if err != nil {
		return nil, err
	}
	groups, cellFamilies, err := r.readElements(meshName, base, nodes)
	if err != nil {
		return nil, err
	}

	snap := &mesh.Snapshot{
		Name:         meshName,
		Dimension:    nodes.dim,
		Nodes:        make([]mesh.Node, len(nodes.ids)),
		Connectivity: groups,
	}
	for i, id := range nodes.ids {
		snap.Nodes[i] = mesh.Node{ID: id, Coords: nodes.coords[i]}
	}

	if withSets {
		if snap.NodeSets, err = r.nodeSets(meshName, nodes); err != nil {
			return nil, err
		}
		if snap.ElementSets, err = r.elementSets(meshName, groups, cellFamilies); err != nil {
			return nil, err
		}
	}

	if err = snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	return snap, nil
}

// readElements decodes every MAI/<TYPE> group. It also returns the family
// number of every element, per type, for groups that store one.
func (r *Reader) readElements(meshName, base string, nodes *nodeTable) (
	map[mesh.ElementType]*mesh.ElementGroup, map[mesh.ElementType][]int, error) {

	mai := container.Join(base, CellGroup)
	tags, err := children(r.c, mai)
	if err != nil {
		return nil, nil, err
	}

	groups := make(map[mesh.ElementType]*mesh.ElementGroup, len(tags))
	families := make(map[mesh.ElementType][]int)
	for _, tag := range tags {
		et, err := mesh.ParseMEDType(tag)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %q: %w", meshName, err)
		}
		group := container.Join(mai, tag)
		g, fam, err := r.readElementGroup(group, et, nodes)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh %q %s: %w", meshName, tag, err)
		}
		groups[et] = g
		if fam != nil {
			families[et] = fam
		}
		r.log.Debug("read element group", "mesh", meshName, "type", et,
			"elements", len(g.Elements), "implicitIDs", g.ImplicitIDs)
	}
	return groups, families, nil
}

func (r *Reader) readElementGroup(group string, et mesh.ElementType, nodes *nodeTable) (
	*mesh.ElementGroup, []int, error) {

	nodA, err := container.ReadOptional(r.c, container.Join(group, Connectivity))
	if err != nil {
		return nil, nil, err
	}
	if nodA == nil {
		return nil, nil, fmt.Errorf("%w: no connectivity at %s", ErrLayout, group)
	}
	raw, err := nodA.IntSlice()
	if err != nil {
		return nil, nil, err
	}
	records, err := decode.DecodeNoInterlace(raw, et.GetNumNodes())
	if err != nil {
		return nil, nil, err
	}

	ids, err := r.readIDs(group)
	if err != nil {
		return nil, nil, err
	}
	g := &mesh.ElementGroup{Type: et, Elements: make([]mesh.Element, len(records))}
	if ids == nil {
		ids = sequence(len(records))
		g.ImplicitIDs = true
	} else if len(ids) != len(records) {
		return nil, nil, fmt.Errorf("%w: %d identifiers for %d elements", ErrLayout, len(ids), len(records))
	}

	fam, err := r.readFamilies(group)
	if err != nil {
		return nil, nil, err
	}
	if fam != nil && len(fam) != len(records) {
		return nil, nil, fmt.Errorf("%w: %d families for %d elements", ErrLayout, len(fam), len(records))
	}

	for i, rec := range records {
		conn := make([]int, len(rec))
		for j, ordinal := range rec {
			if ordinal < 1 || ordinal > len(nodes.ids) {
				return nil, nil, fmt.Errorf("%w: element %d references node position %d of %d",
					ErrLayout, ids[i], ordinal, len(nodes.ids))
			}
			conn[j] = nodes.ids[ordinal-1]
		}
		g.Elements[i] = mesh.Element{ID: ids[i], Type: et, Connectivity: conn}
	}
	return g, fam, nil
}
