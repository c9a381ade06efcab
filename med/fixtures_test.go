package med

import (
	"fmt"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/container/memory"
	"github.com/notargets/medread/decode"
)

func stepKeyName(ts, it int) string {
	return fmt.Sprintf("%020d%020d", ts, it)
}

func nameArray(width int, names ...string) *container.Array {
	raw := make([]int8, 0, width*len(names))
	for _, n := range names {
		field := make([]int8, width)
		copy(field, decode.EncodeASCII(n))
		raw = append(raw, field...)
	}
	return container.Int8Array(raw)
}

// squareMesh writes a unit square split into two triangles, three boundary
// edges stored without identifiers and one extra node, under base.
//
//	4 ---- 3
//	|    / |      nodes 10 20 30 40 (corners) and 50 at (2,2)
//	|  /   |      TR3 101 = 10 20 30, 102 = 10 30 40
//	1 ---- 2      SE2 (implicit) 1 = 10 20, 2 = 20 30, 3 = 30 40
func squareMesh(c *memory.Container, base string) *memory.Container {
	noe := base + "/NOE"
	c.AddFloats(noe+"/COO",
		0, 1, 1, 0, 2, // x
		0, 0, 1, 1, 2) // y
	c.AddInts(noe+"/NUM", 10, 20, 30, 40, 50)
	c.AddInts(noe+"/FAM", 1, 1, 0, 0, 2)

	c.AddInts(base+"/MAI/TR3/NOD",
		1, 1, // first node of each triangle
		2, 3,
		3, 4)
	c.AddInts(base+"/MAI/TR3/NUM", 101, 102)
	c.AddInts(base+"/MAI/TR3/FAM", -1, -2)

	c.AddInts(base+"/MAI/SE2/NOD",
		1, 2, 3,
		2, 3, 4)
	c.AddInts(base+"/MAI/SE2/FAM", -1, -1, 0)
	return c
}

// squareFamilies writes the family table of squareMesh. Node family 2 is
// used but not declared; element family -3 is declared but unused.
func squareFamilies(c *memory.Container, meshName string) *memory.Container {
	fas := "/FAS/" + meshName
	c.AddGroup(fas + "/FAMILLE_ZERO")
	c.AddArray(fas+"/NOEUD/FAM_1_CORNERS/GRO/NOM", nameArray(decode.LongNameWidth, "CORNERS"))
	c.AddArray(fas+"/ELEME/FAM_-1_OUTER/GRO/NOM",
		nameArray(decode.LongNameWidth, "OUTER", "BOUNDARY_2"))
	c.AddArray(fas+"/ELEME/FAM_-2_INNER/GRO/NOM", nameArray(decode.LongNameWidth, "INNER"))
	c.AddArray(fas+"/ELEME/FAM_-3_UNUSED/GRO/NOM", nameArray(decode.LongNameWidth, "UNUSED"))
	return c
}

// squareContainer is a complete mesh file holding the single mesh "square".
func squareContainer() *memory.Container {
	c := memory.New()
	c.SetAttr("/ENS_MAA/square", AttrSpaceDim, container.Int64Array([]int64{2}))
	squareMesh(c, "/ENS_MAA/square")
	return squareFamilies(c, "square")
}

// resultContainer holds the node table of squareMesh as mesh "res" and a two
// component field DEPL at steps (1,0) and (2,0). At step ts node i of the
// table has DX = ts*i and DY = -ts*i.
func resultContainer() *memory.Container {
	c := memory.New()
	c.SetAttr("/ENS_MAA/res", AttrSpaceDim, container.Int64Array([]int64{2}))
	squareMesh(c, "/ENS_MAA/res")

	field := "/CHA/DEPL"
	c.SetAttr(field, AttrComponents, container.Int64Array([]int64{2}))
	c.SetAttr(field, AttrCompNames, nameArray(decode.ShortNameWidth, "DX", "DY"))
	c.SetAttr(field, AttrFieldMesh, container.StringArray([]string{"res"}))
	for _, ts := range []int{1, 2} {
		co := make([]float64, 10)
		for i := 0; i < 5; i++ {
			co[i] = float64(ts * i)
			co[5+i] = -float64(ts * i)
		}
		c.AddFloats(field+"/"+stepKeyName(ts, 0)+"/NOE/"+NoProfile+"/CO", co...)
	}
	return c
}
