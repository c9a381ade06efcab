package mesh

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownElementType = errors.New("unknown element type")

// ElementType represents the MED cell geometries
type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	Line4 // 4-node line (cubic)
	// 2D elements
	Triangle
	Triangle6 // 6-node triangle (quadratic)
	Triangle7 // 7-node triangle (with face node)
	Quad
	Quad8 // 8-node quad (quadratic)
	Quad9 // 9-node quad
	// 3D elements
	Tet
	Tet10 // 10-node tetrahedron (quadratic)
	Pyramid
	Pyramid13 // 13-node pyramid (quadratic)
	Prism
	Prism15 // 15-node prism (quadratic)
	Prism18 // 18-node prism
	Hex
	Hex20 // 20-node hexahedron (quadratic)
	Hex27 // 27-node hexahedron
)

var elementNames = []string{
	"Unknown",
	"Point",
	"Line", "Line3", "Line4",
	"Triangle", "Triangle6", "Triangle7", "Quad", "Quad8", "Quad9",
	"Tet", "Tet10", "Pyramid", "Pyramid13", "Prism", "Prism15", "Prism18", "Hex", "Hex20", "Hex27",
}

// medTags are the group names MED uses under MAI, indexed by ElementType
var medTags = []string{
	"",
	"PO1",
	"SE2", "SE3", "SE4",
	"TR3", "TR6", "TR7", "QU4", "QU8", "QU9",
	"TE4", "T10", "PY5", "P13", "PE6", "P15", "P18", "HE8", "H20", "H27",
}

// String representation of element types
func (e ElementType) String() string {
	if e >= 0 && int(e) < len(elementNames) {
		return elementNames[e]
	}
	return "Invalid"
}

// MEDTag returns the three letter geometry name used by MED, e.g. "TR3".
func (e ElementType) MEDTag() string {
	if e > 0 && int(e) < len(medTags) {
		return medTags[e]
	}
	return ""
}

// ParseMEDType maps a MED geometry name to an ElementType. MED pads names with
// blanks, which are ignored.
func ParseMEDType(tag string) (ElementType, error) {
	t := strings.ToUpper(strings.TrimSpace(tag))
	for i := 1; i < len(medTags); i++ {
		if medTags[i] == t {
			return ElementType(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownElementType, tag)
}

// GetDimension returns the topological dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line, Line3, Line4:
		return 1
	case Triangle, Triangle6, Triangle7, Quad, Quad8, Quad9:
		return 2
	case Tet, Tet10, Pyramid, Pyramid13, Prism, Prism15, Prism18, Hex, Hex20, Hex27:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3, Triangle:
		return 3
	case Line4, Quad, Tet:
		return 4
	case Pyramid:
		return 5
	case Triangle6, Prism:
		return 6
	case Triangle7:
		return 7
	case Quad8, Hex:
		return 8
	case Quad9:
		return 9
	case Tet10:
		return 10
	case Pyramid13:
		return 13
	case Prism15:
		return 15
	case Prism18:
		return 18
	case Hex20:
		return 20
	case Hex27:
		return 27
	default:
		return 0
	}
}

// GeometryCode returns the integer MED uses for the geometry,
// 100*dimension + number of nodes (e.g. 203 for TR3, 304 for TE4).
func (e ElementType) GeometryCode() int {
	if e == Unknown || e.GetDimension() < 0 {
		return 0
	}
	return 100*e.GetDimension() + e.GetNumNodes()
}
