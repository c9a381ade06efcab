package med

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/mesh"
)

// StepKeyWidth is the length of a step group name: the time step number
// and the iteration number, 20 digits each.
const StepKeyWidth = 40

// ParseStepKey decodes a step group name.
func ParseStepKey(key string) (mesh.Step, error) {
	if len(key) != StepKeyWidth {
		return mesh.Step{}, fmt.Errorf("%w: step key %q is not %d characters", ErrParse, key, StepKeyWidth)
	}
	ts, err := strconv.Atoi(key[:StepKeyWidth/2])
	if err != nil {
		return mesh.Step{}, fmt.Errorf("%w: time step of %q: %v", ErrParse, key, err)
	}
	it, err := strconv.Atoi(key[StepKeyWidth/2:])
	if err != nil {
		return mesh.Step{}, fmt.Errorf("%w: iteration of %q: %v", ErrParse, key, err)
	}
	return mesh.Step{TimeStep: ts, Iteration: it}, nil
}

// ResultNodes reads the node table of a result container. It does not consult
// any mesh file; callers correlate by node identifier.
func (r *Reader) ResultNodes(meshName string) ([]mesh.Node, error) {
	meshName, base, err := r.resolveBase(meshName)
	if err != nil {
		return nil, err
	}
	t, err := r.readNodes(meshName, base)
	if err != nil {
		return nil, err
	}
	nodes := make([]mesh.Node, len(t.ids))
	for i, id := range t.ids {
		nodes[i] = mesh.Node{ID: id, Coords: t.coords[i]}
	}
	return nodes, nil
}

// FieldNames lists the result fields of the container.
func (r *Reader) FieldNames() ([]string, error) {
	return children(r.c, container.Join(FieldRoot))
}

// FieldSteps lists the steps stored for a field, in ascending order.
func (r *Reader) FieldSteps(field string) ([]mesh.Step, error) {
	keys, err := r.stepKeys(field)
	if err != nil {
		return nil, err
	}
	steps := make([]mesh.Step, 0, len(keys))
	for _, k := range keys {
		steps = append(steps, k.step)
	}
	return steps, nil
}

type stepKey struct {
	key  string
	step mesh.Step
}

func (r *Reader) stepKeys(field string) ([]stepKey, error) {
	fields, err := r.FieldNames()
	if err != nil {
		return nil, err
	}
	if !contains(fields, field) {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	names, err := children(r.c, container.Join(FieldRoot, field))
	if err != nil {
		return nil, err
	}
	keys := make([]stepKey, 0, len(names))
	for _, n := range names {
		s, err := ParseStepKey(n)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		keys = append(keys, stepKey{key: n, step: s})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].step.Less(keys[j].step) })
	return keys, nil
}

// NodalField reads a nodal field at a step, or at the last stored step when
// step is nil. Values are matched with the node table of the mesh the field
// is defined on and must hold one record per node.
func (r *Reader) NodalField(field string, step *mesh.Step) (*mesh.NodalField, error) {
	keys, err := r.stepKeys(field)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %q has no steps", ErrFieldNotFound, field)
	}
	sel := keys[len(keys)-1]
	if step != nil {
		found := false
		for _, k := range keys {
			if k.step == *step {
				sel, found = k, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q at step %s", ErrFieldNotFound, field, step)
		}
	}

	fieldPath := container.Join(FieldRoot, field)
	co, err := r.readValues(field, container.Join(fieldPath, sel.key, NodeGroup))
	if err != nil {
		return nil, err
	}

	meshName := ""
	if names, err := namesAttr(r.c, fieldPath, AttrFieldMesh, decode.NameWidth); err != nil {
		return nil, err
	} else if len(names) > 0 {
		meshName = names[0]
	}
	meshName, base, err := r.resolveBase(meshName)
	if err != nil {
		return nil, err
	}
	nodes, err := r.readNodes(meshName, base)
	if err != nil {
		return nil, err
	}
	nnodes := len(nodes.ids)

	ncomp, declared, err := intAttr(r.c, fieldPath, AttrComponents)
	if err != nil {
		return nil, err
	}
	if !declared {
		if nnodes == 0 || len(co)%nnodes != 0 {
			return nil, fmt.Errorf("%w: field %q stores %d values for %d nodes",
				ErrLayout, field, len(co), nnodes)
		}
		ncomp = len(co) / nnodes
	}
	if ncomp < 1 || len(co) != ncomp*nnodes {
		return nil, fmt.Errorf("%w: field %q stores %d values, expected %d nodes x %d components",
			ErrLayout, field, len(co), nnodes, ncomp)
	}
	values, err := decode.DecodeNoInterlace(co, ncomp)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}

	components, err := namesAttr(r.c, fieldPath, AttrCompNames, decode.ShortNameWidth)
	if err != nil {
		return nil, err
	}
	switch {
	case len(components) >= ncomp:
		components = components[:ncomp]
	case len(components) > 0:
		return nil, fmt.Errorf("%w: field %q names %d of %d components",
			ErrLayout, field, len(components), ncomp)
	}

	r.log.Debug("read nodal field", "field", field, "step", sel.step, "mesh", meshName,
		"nodes", nnodes, "components", ncomp)
	return mesh.NewNodalField(field, sel.step, components, nodes.ids, values), nil
}

// readValues reads CO from the unprofiled subgroup of a NOE group, or from
// its only profile.
func (r *Reader) readValues(field, noe string) ([]float64, error) {
	profiles, err := children(r.c, noe)
	if err != nil {
		return nil, err
	}
	var profile string
	switch {
	case len(profiles) == 0:
		return nil, fmt.Errorf("%w: %q has no nodal values at %s", ErrFieldNotFound, field, noe)
	case contains(profiles, NoProfile):
		profile = NoProfile
	case len(profiles) == 1:
		profile = profiles[0]
	default:
		return nil, fmt.Errorf("%w: field %q has %d profiles and no %s",
			ErrLayout, field, len(profiles), NoProfile)
	}
	a, err := container.ReadOptional(r.c, container.Join(noe, profile, Values))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no values at %s", ErrLayout, container.Join(noe, profile))
	}
	co, err := a.Float64s()
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	return co, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
