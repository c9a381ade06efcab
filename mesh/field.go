package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Step identifies a computation step by time step number and iteration.
type Step struct {
	TimeStep  int
	Iteration int
}

func (s Step) String() string {
	return fmt.Sprintf("%d.%d", s.TimeStep, s.Iteration)
}

// Less orders steps by time step, then iteration.
func (s Step) Less(o Step) bool {
	if s.TimeStep != o.TimeStep {
		return s.TimeStep < o.TimeStep
	}
	return s.Iteration < o.Iteration
}

// NodalField is a result quantity with one value vector per node
type NodalField struct {
	Name       string
	Step       Step
	Components []string    // component names, may be empty
	NodeIDs    []int       // [nnodes]
	Values     [][]float64 // [nnodes][ncomponents]
	index      map[int]int
}

// NewNodalField builds a field; nodeIDs and values must have equal length.
func NewNodalField(name string, step Step, components []string, nodeIDs []int, values [][]float64) *NodalField {
	idx := make(map[int]int, len(nodeIDs))
	for i, id := range nodeIDs {
		idx[id] = i
	}
	return &NodalField{
		Name:       name,
		Step:       step,
		Components: components,
		NodeIDs:    nodeIDs,
		Values:     values,
		index:      idx,
	}
}

// NumComponents returns the length of each value vector
func (f *NodalField) NumComponents() int {
	if len(f.Values) == 0 {
		return len(f.Components)
	}
	return len(f.Values[0])
}

// Value returns the values at a node
func (f *NodalField) Value(nodeID int) ([]float64, bool) {
	i, ok := f.index[nodeID]
	if !ok {
		return nil, false
	}
	return f.Values[i], true
}

// ByNode returns the values keyed by node identifier
func (f *NodalField) ByNode() map[int][]float64 {
	out := make(map[int][]float64, len(f.NodeIDs))
	for i, id := range f.NodeIDs {
		out[id] = f.Values[i]
	}
	return out
}

// Dense returns the values as an nnodes x ncomponents matrix, rows in
// NodeIDs order. Returns nil for an empty field.
func (f *NodalField) Dense() *mat.Dense {
	nr, nc := len(f.Values), f.NumComponents()
	if nr == 0 || nc == 0 {
		return nil
	}
	data := make([]float64, 0, nr*nc)
	for _, v := range f.Values {
		data = append(data, v...)
	}
	return mat.NewDense(nr, nc, data)
}
