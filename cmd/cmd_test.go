package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/container/memory"
	"github.com/notargets/medread/decode"
	"github.com/notargets/medread/med"
)

// segmentResult holds a 1D mesh "bar" of three nodes and two segments, and
// field TEMP at steps 1 and 2 with value step*id at every node.
func segmentResult() *memory.Container {
	c := memory.New()
	c.AddFloats("/ENS_MAA/bar/NOE/COO", 0, 0.5, 1)
	c.AddInts("/ENS_MAA/bar/NOE/NUM", 1, 2, 3)
	c.AddInts("/ENS_MAA/bar/NOE/FAM", 1, 0, 1)
	c.AddInts("/ENS_MAA/bar/MAI/SE2/NOD", 1, 2, 2, 3)
	c.AddNames("/FAS/bar/NOEUD/FAM_1_ENDS/GRO/NOM", decode.LongNameWidth, "ENDS")
	c.SetAttr("/CHA/TEMP", med.AttrComponents, container.Int64Array([]int64{1}))
	for _, ts := range []int{1, 2} {
		key := fmt.Sprintf("%020d%020d", ts, 0)
		c.AddFloats("/CHA/TEMP/"+key+"/NOE/"+med.NoProfile+"/CO",
			float64(ts), float64(2*ts), float64(3*ts))
	}
	return c
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, c *memory.Container, args ...string) (string, error) {
	t.Helper()
	opener = c.Opener()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := execute()
	return out.String(), err
}

func TestMeshCommand(t *testing.T) {
	out, err := run(t, segmentResult(), "mesh", "bar.med")
	require.NoError(t, err)
	assert.Contains(t, out, `Mesh "bar" Statistics:`)
	assert.Contains(t, out, "Nodes: 3")
	assert.Contains(t, out, "Line [SE2]: 2 (implicit ids)")
	assert.Contains(t, out, "1 [ENDS]: 2 members")

	out, err = run(t, segmentResult(), "mesh", "--list", "bar.med")
	require.NoError(t, err)
	assert.Equal(t, "bar\n", out)

	out, err = run(t, segmentResult(), "mesh", "--yaml", "bar.med")
	require.NoError(t, err)
	assert.Contains(t, out, "name: bar")
	assert.Contains(t, out, "SE2:")
	assert.Contains(t, out, "geometry: 102")
	assert.Contains(t, out, "ENDS:\n  - 1\n  - 3")

	c := segmentResult()
	_, err = run(t, c, "mesh", "--mesh", "beam", "bar.med")
	assert.ErrorIs(t, err, med.ErrMeshNotFound)
	assert.True(t, c.Closed(), "file left open")
}

func TestResultCommands(t *testing.T) {
	out, err := run(t, segmentResult(), "fields", "bar.rmed")
	require.NoError(t, err)
	assert.Equal(t, "TEMP\t1.0 2.0\n", out)

	out, err = run(t, segmentResult(), "nodes", "bar.rmed")
	require.NoError(t, err)
	assert.Contains(t, out, "2 5.00000000e-01\n")

	out, err = run(t, segmentResult(), "field", "bar.rmed", "TEMP")
	require.NoError(t, err)
	assert.Contains(t, out, "# TEMP step 2.0")
	assert.Contains(t, out, "3 6.00000000e+00\n")

	out, err = run(t, segmentResult(), "field", "--step", "1", "bar.rmed", "TEMP")
	require.NoError(t, err)
	assert.Contains(t, out, "3 3.00000000e+00\n")

	out, err = run(t, segmentResult(), "field", "--step", "1", "--iteration", "0", "bar.rmed", "TEMP")
	require.NoError(t, err)
	assert.Contains(t, out, "# TEMP step 1.0")

	_, err = run(t, segmentResult(), "field", "--iteration", "0", "bar.rmed", "TEMP")
	assert.ErrorIs(t, err, errIterationWithoutStep)

	_, err = run(t, segmentResult(), "field", "--step", "1", "--iteration", "4", "bar.rmed", "TEMP")
	assert.ErrorIs(t, err, med.ErrFieldNotFound)

	out, err = run(t, segmentResult(), "field", "--summary", "bar.rmed", "TEMP")
	require.NoError(t, err)
	assert.Equal(t, "# TEMP step 2.0\n#1 min 2.00000000e+00 max 6.00000000e+00\n", out)

	_, err = run(t, segmentResult(), "field", "bar.rmed", "DEPL")
	assert.ErrorIs(t, err, med.ErrFieldNotFound)
}

type stopCounter struct{ stops int }

func (s *stopCounter) Stop() { s.stops++ }

func TestProfilerStoppedOnError(t *testing.T) {
	p := &stopCounter{}
	profiler = p
	_, err := run(t, segmentResult(), "field", "bar.rmed", "DEPL")
	assert.ErrorIs(t, err, med.ErrFieldNotFound)
	assert.Equal(t, 1, p.stops)
	assert.Nil(t, profiler)

	p = &stopCounter{}
	profiler = p
	_, err = run(t, segmentResult(), "fields", "bar.rmed")
	require.NoError(t, err)
	assert.Equal(t, 1, p.stops, "stopped once by the post run hook")
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	params := filepath.Join(dir, "compare.yaml")
	write := func(content string) {
		require.NoError(t, os.WriteFile(params, []byte(content), 0644))
	}

	write("Field: TEMP\nTimeStep: 1\nAbsTol: 1.0e-9\nReference:\n  1: [1]\n  3: [3]\n")
	out, err := run(t, segmentResult(), "compare", params, "bar.rmed")
	require.NoError(t, err)
	assert.Contains(t, out, `PASS field "TEMP" at step 1.0`)

	write("Field: TEMP\nAbsTol: 1.0e-9\nReference:\n  1: [1]\n")
	out, err = run(t, segmentResult(), "compare", params, "bar.rmed")
	assert.ErrorIs(t, err, ErrComparisonFailed)
	assert.Contains(t, out, "FAIL")

	_, err = run(t, segmentResult(), "compare", filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())
	newLogger(&buf, true).Debug("shown", "mesh", "bar")
	assert.Contains(t, buf.String(), "mesh=bar")
}
