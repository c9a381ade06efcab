package med

import (
	"fmt"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/mesh"
)

// familyTable is the decoded /FAS/<mesh>/{NOEUD,ELEME} group: the names bound
// to every declared family, in stored order.
type familyTable struct {
	present bool // /FAS/<mesh> exists
	order   []int
	names   map[int][]string
}

func (t *familyTable) declaresNonZero() bool {
	for _, id := range t.order {
		if id != 0 {
			return true
		}
	}
	return false
}

// NodeSets resolves the node families of a mesh.
func (r *Reader) NodeSets(meshName string) (mesh.Sets, error) {
	meshName, base, err := r.resolveBase(meshName)
	if err != nil {
		return nil, err
	}
	nodes, err := r.readNodes(meshName, base)
	if err != nil {
		return nil, err
	}
	return r.nodeSets(meshName, nodes)
}

// ElementSets resolves the element families of a mesh. Members are element
// identifiers of all element types.
func (r *Reader) ElementSets(meshName string) (mesh.Sets, error) {
	meshName, base, err := r.resolveBase(meshName)
	if err != nil {
		return nil, err
	}
	nodes, err := r.readNodes(meshName, base)
	if err != nil {
		return nil, err
	}
	groups, families, err := r.readElements(meshName, base, nodes)
	if err != nil {
		return nil, err
	}
	return r.elementSets(meshName, groups, families)
}

func (r *Reader) resolveBase(name string) (meshName, base string, err error) {
	if meshName, err = r.selectMesh(name); err != nil {
		return "", "", err
	}
	if base, err = meshBase(r.c, meshName); err != nil {
		return "", "", err
	}
	return meshName, base, nil
}

func (r *Reader) nodeSets(meshName string, nodes *nodeTable) (mesh.Sets, error) {
	table, err := r.readFamilyTable(meshName, NodeFamilies)
	if err != nil {
		return nil, err
	}
	if nodes.families == nil {
		if table.declaresNonZero() {
			return nil, fmt.Errorf("%w: mesh %q declares node families but stores no node membership",
				ErrSetTableMissing, meshName)
		}
		return r.joinSets(meshName, table, nil, nil)
	}
	return r.joinSets(meshName, table, nodes.families, nodes.ids)
}

func (r *Reader) elementSets(meshName string, groups map[mesh.ElementType]*mesh.ElementGroup,
	families map[mesh.ElementType][]int) (mesh.Sets, error) {

	table, err := r.readFamilyTable(meshName, CellFamilies)
	if err != nil {
		return nil, err
	}
	if len(families) == 0 && table.declaresNonZero() {
		return nil, fmt.Errorf("%w: mesh %q declares element families but stores no element membership",
			ErrSetTableMissing, meshName)
	}
	var fam, ids []int
	for _, et := range mesh.SortedTypes(groups) {
		f, ok := families[et]
		if !ok {
			continue
		}
		fam = append(fam, f...)
		for _, e := range groups[et].Elements {
			ids = append(ids, e.ID)
		}
	}
	return r.joinSets(meshName, table, fam, ids)
}

// joinSets joins the family table with per-entity family numbers. Families
// missing from the table are unnamed; declared families without members are
// kept with no members.
func (r *Reader) joinSets(meshName string, table *familyTable, families, ids []int) (mesh.Sets, error) {
	if !table.present {
		for _, f := range families {
			if f != 0 {
				return nil, fmt.Errorf("%w: mesh %q references family %d but has no %s table",
					ErrSetTableMissing, meshName, f, FamilyRoot)
			}
		}
	}

	sets := make(mesh.Sets, len(table.order))
	for _, id := range table.order {
		sets[id] = &mesh.NamedSet{ID: id, Names: table.names[id], Members: []int{}}
	}
	for i, f := range families {
		set, ok := sets[f]
		if !ok {
			set = &mesh.NamedSet{ID: f, Names: []string{}, Members: []int{}}
			sets[f] = set
		}
		set.Members = append(set.Members, ids[i])
	}
	r.log.Debug("resolved sets", "mesh", meshName, "declared", len(table.order), "sets", len(sets))
	return sets, nil
}

// readFamilyTable reads /FAS/<mesh>/<kind>/FAM_<id>_<label>/GRO/NOM.
func (r *Reader) readFamilyTable(meshName, kind string) (*familyTable, error) {
	t := &familyTable{names: make(map[int][]string)}
	root := container.Join(FamilyRoot, meshName)
	ok, err := container.Has(r.c, root)
	if err != nil || !ok {
		return t, err
	}
	t.present = true

	groups, err := children(r.c, container.Join(root, kind))
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		id, err := decode.DecodeFamilyID(g)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", meshName, err)
		}
		a, err := container.ReadOptional(r.c, container.Join(root, kind, g, FamilyGroups, Names))
		if err != nil {
			return nil, err
		}
		names := []string{}
		if a != nil {
			if names, err = nameTable(a, decode.LongNameWidth); err != nil {
				return nil, fmt.Errorf("family %s of mesh %q: %w", g, meshName, err)
			}
		}
		if _, dup := t.names[id]; !dup {
			t.order = append(t.order, id)
		}
		t.names[id] = append(t.names[id], names...)
	}
	return t, nil
}
