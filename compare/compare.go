// Package compare checks a nodal field read from a result file against
// reference values computed elsewhere, node by node.
package compare

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/medread/mesh"
)

// Tolerance bounds the largest absolute difference and the relative L2 norm
// of the difference. A zero bound is not checked.
type Tolerance struct {
	Abs float64
	Rel float64
}

// Report is the outcome of a comparison
type Report struct {
	Field             string
	Step              mesh.Step
	Tol               Tolerance
	Compared          int   // nodes compared
	Missing           []int // reference nodes absent from the field
	ComponentMismatch []int // nodes whose value length differs
	MaxAbsDiff        float64
	MaxAbsNode        int
	RelL2             float64
}

// Fields compares got with the reference values want, keyed by node id.
// Nodes of got without a reference value are ignored.
func Fields(got *mesh.NodalField, want map[int][]float64, tol Tolerance) *Report {
	r := &Report{Field: got.Name, Step: got.Step, Tol: tol}

	ids := make([]int, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var gotFlat, wantFlat []float64
	for _, id := range ids {
		w := want[id]
		g, ok := got.Value(id)
		switch {
		case !ok:
			r.Missing = append(r.Missing, id)
			continue
		case len(g) != len(w):
			r.ComponentMismatch = append(r.ComponentMismatch, id)
			continue
		}
		diff := make([]float64, len(g))
		floats.SubTo(diff, g, w)
		if d := floats.Norm(diff, math.Inf(1)); d > r.MaxAbsDiff || r.Compared == 0 {
			r.MaxAbsDiff, r.MaxAbsNode = d, id
		}
		gotFlat = append(gotFlat, g...)
		wantFlat = append(wantFlat, w...)
		r.Compared++
	}

	if r.Compared > 0 {
		dist := floats.Distance(gotFlat, wantFlat, 2)
		if norm := floats.Norm(wantFlat, 2); norm > 0 {
			r.RelL2 = dist / norm
		} else {
			r.RelL2 = dist
		}
	}
	return r
}

// Pass reports whether every reference node was compared within tolerance.
func (r *Report) Pass() bool {
	if len(r.Missing) > 0 || len(r.ComponentMismatch) > 0 || r.Compared == 0 {
		return false
	}
	if r.Tol.Abs > 0 && r.MaxAbsDiff > r.Tol.Abs {
		return false
	}
	if r.Tol.Rel > 0 && r.RelL2 > r.Tol.Rel {
		return false
	}
	return true
}

// Print writes a summary of the report
func (r *Report) Print(w io.Writer) {
	status := "PASS"
	if !r.Pass() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "%s field %q at step %s\n", status, r.Field, r.Step)
	fmt.Fprintf(w, "  Nodes compared: %d\n", r.Compared)
	fmt.Fprintf(w, "  Max abs diff: %g at node %d (tolerance %g)\n", r.MaxAbsDiff, r.MaxAbsNode, r.Tol.Abs)
	fmt.Fprintf(w, "  Relative L2: %g (tolerance %g)\n", r.RelL2, r.Tol.Rel)
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "  Missing nodes: %v\n", r.Missing)
	}
	if len(r.ComponentMismatch) > 0 {
		fmt.Fprintf(w, "  Component count mismatch at nodes: %v\n", r.ComponentMismatch)
	}
}
