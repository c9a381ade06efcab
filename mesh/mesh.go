// Package mesh holds the value types produced by the MED readers: nodes,
// elements grouped by type, named node and element sets, and nodal result
// fields. Values carry no reference to the container they were read from.
package mesh

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/james-bowman/sparse"
)

var ErrInvalidMesh = errors.New("invalid mesh")

// Node is a mesh vertex
type Node struct {
	ID     int
	Coords []float64 // [dimension]
}

// Element is a cell with its ordered node identifiers
type Element struct {
	ID           int
	Type         ElementType
	Connectivity []int // node identifiers
}

// ElementGroup holds all elements of one type in stored order.
//
// When the container stores no element identifiers, elements are numbered
// 1, 2, ... within the group and ImplicitIDs is set. Identifiers of two
// implicitly numbered groups overlap.
type ElementGroup struct {
	Type        ElementType
	Elements    []Element
	ImplicitIDs bool
}

// NamedSet is a node or element family: an identifier, the names (groups)
// bound to it in stored order, and its members.
type NamedSet struct {
	ID      int
	Names   []string
	Members []int
}

// Sets maps a family identifier to its set
type Sets map[int]*NamedSet

// IDs returns the set identifiers in ascending order.
func (s Sets) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ByName returns, for every name, the sorted union of the members of the
// sets carrying that name. Unnamed sets do not appear.
func (s Sets) ByName() map[string][]int {
	seen := make(map[string]map[int]bool)
	for _, id := range s.IDs() {
		set := s[id]
		for _, name := range set.Names {
			if seen[name] == nil {
				seen[name] = make(map[int]bool)
			}
			for _, m := range set.Members {
				seen[name][m] = true
			}
		}
	}
	out := make(map[string][]int, len(seen))
	for name, members := range seen {
		list := make([]int, 0, len(members))
		for m := range members {
			list = append(list, m)
		}
		sort.Ints(list)
		out[name] = list
	}
	return out
}

// Snapshot is a fully extracted mesh
type Snapshot struct {
	Name         string
	Dimension    int
	Nodes        []Node
	Connectivity map[ElementType]*ElementGroup
	NodeSets     Sets // nil unless sets were requested
	ElementSets  Sets
}

// NumNodes returns the node count
func (s *Snapshot) NumNodes() int { return len(s.Nodes) }

// NumElements returns the element count over all groups
func (s *Snapshot) NumElements() (n int) {
	for _, g := range s.Connectivity {
		n += len(g.Elements)
	}
	return
}

// ElementTypes returns the element types present, in enumeration order.
func (s *Snapshot) ElementTypes() []ElementType {
	return SortedTypes(s.Connectivity)
}

// SortedTypes returns the keys of a connectivity map in enumeration order.
func SortedTypes(conn map[ElementType]*ElementGroup) []ElementType {
	types := make([]ElementType, 0, len(conn))
	for t := range conn {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// NodeIndex maps node identifiers to positions in Nodes
func (s *Snapshot) NodeIndex() map[int]int {
	idx := make(map[int]int, len(s.Nodes))
	for i, n := range s.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Validate checks that node identifiers are unique, that every node has
// Dimension coordinates and that every element has the node count of its
// type and references existing nodes.
func (s *Snapshot) Validate() error {
	idx := make(map[int]int, len(s.Nodes))
	for i, n := range s.Nodes {
		if j, dup := idx[n.ID]; dup {
			return fmt.Errorf("%w: node id %d at positions %d and %d", ErrInvalidMesh, n.ID, j, i)
		}
		idx[n.ID] = i
		if len(n.Coords) != s.Dimension {
			return fmt.Errorf("%w: node %d has %d coordinates, mesh dimension is %d",
				ErrInvalidMesh, n.ID, len(n.Coords), s.Dimension)
		}
	}
	for _, t := range s.ElementTypes() {
		g := s.Connectivity[t]
		for _, el := range g.Elements {
			if el.Type != t {
				return fmt.Errorf("%w: element %d of type %s stored in %s group",
					ErrInvalidMesh, el.ID, el.Type, t)
			}
			if len(el.Connectivity) != t.GetNumNodes() {
				return fmt.Errorf("%w: %s element %d has %d nodes, expected %d",
					ErrInvalidMesh, t, el.ID, len(el.Connectivity), t.GetNumNodes())
			}
			for _, nid := range el.Connectivity {
				if _, ok := idx[nid]; !ok {
					return fmt.Errorf("%w: %s element %d references unknown node %d",
						ErrInvalidMesh, t, el.ID, nid)
				}
			}
		}
	}
	return nil
}

// Incidence returns the element to node incidence matrix, one row per
// element (groups in ElementTypes order, elements in stored order) and one
// column per node in Nodes order. Returns nil for a mesh without elements.
func (s *Snapshot) Incidence() *sparse.CSR {
	nelem := s.NumElements()
	if nelem == 0 || len(s.Nodes) == 0 {
		return nil
	}
	idx := s.NodeIndex()
	dok := sparse.NewDOK(nelem, len(s.Nodes))
	row := 0
	for _, t := range s.ElementTypes() {
		for _, el := range s.Connectivity[t].Elements {
			for _, nid := range el.Connectivity {
				if col, ok := idx[nid]; ok {
					dok.Set(row, col, 1)
				}
			}
			row++
		}
	}
	return dok.ToCSR()
}

// OrphanNodes returns the identifiers of nodes referenced by no element.
func (s *Snapshot) OrphanNodes() []int {
	used := make([]bool, len(s.Nodes))
	if inc := s.Incidence(); inc != nil {
		inc.DoNonZero(func(i, j int, v float64) {
			used[j] = true
		})
	}
	var orphans []int
	for i, n := range s.Nodes {
		if !used[i] {
			orphans = append(orphans, n.ID)
		}
	}
	return orphans
}

// PrintStatistics prints mesh statistics
func (s *Snapshot) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh %q Statistics:\n", s.Name)
	fmt.Fprintf(w, "  Dimension: %d\n", s.Dimension)
	fmt.Fprintf(w, "  Nodes: %d\n", s.NumNodes())
	fmt.Fprintf(w, "  Elements: %d\n", s.NumElements())

	fmt.Fprintf(w, "  Element types:\n")
	for _, t := range s.ElementTypes() {
		g := s.Connectivity[t]
		implicit := ""
		if g.ImplicitIDs {
			implicit = " (implicit ids)"
		}
		fmt.Fprintf(w, "    %s [%s]: %d%s\n", t, t.MEDTag(), len(g.Elements), implicit)
	}
	if s.NodeSets != nil {
		fmt.Fprintf(w, "  Node sets: %d\n", len(s.NodeSets))
	}
	if s.ElementSets != nil {
		fmt.Fprintf(w, "  Element sets: %d\n", len(s.ElementSets))
	}
	fmt.Fprintf(w, "  Orphan nodes: %d\n", len(s.OrphanNodes()))
}
