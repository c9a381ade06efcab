/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/medread/mesh"
	"github.com/notargets/medread/mesh/readers"
)

var errIterationWithoutStep = errors.New("--iteration requires --step")

// NodesCmd represents the nodes command
var NodesCmd = &cobra.Command{
	Use:   "nodes FILE",
	Short: "Print the node table of a result file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := readers.ReadResultNodes(args[0], readOptions()...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range nodes {
			fmt.Fprintf(out, "%d%s\n", n.ID, formatValues(n.Coords))
		}
		return nil
	},
}

// FieldsCmd represents the fields command
var FieldsCmd = &cobra.Command{
	Use:   "fields FILE",
	Short: "List the result fields of a file and their steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := readers.ListFields(args[0], readOptions()...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range fields {
			steps := make([]string, len(f.Steps))
			for i, s := range f.Steps {
				steps[i] = s.String()
			}
			fmt.Fprintf(out, "%s\t%s\n", f.Name, strings.Join(steps, " "))
		}
		return nil
	},
}

// FieldCmd represents the field command
var FieldCmd = &cobra.Command{
	Use:   "field FILE FIELD",
	Short: "Print the values of a nodal field, one node per line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var extra []readers.Option
		if cmd.Flags().Changed("iteration") && !cmd.Flags().Changed("step") {
			return errIterationWithoutStep
		}
		if cmd.Flags().Changed("step") {
			ts, _ := cmd.Flags().GetInt("step")
			it, _ := cmd.Flags().GetInt("iteration")
			extra = append(extra, readers.WithStep(ts, it))
		}
		f, err := readers.ReadNodalField(args[0], args[1], readOptions(extra...)...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s step %s", f.Name, f.Step)
		if len(f.Components) > 0 {
			fmt.Fprintf(out, " components %s", strings.Join(f.Components, " "))
		}
		fmt.Fprintln(out)
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printSummary(out, f)
			return nil
		}
		for i, id := range f.NodeIDs {
			fmt.Fprintf(out, "%d%s\n", id, formatValues(f.Values[i]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(NodesCmd)
	rootCmd.AddCommand(FieldsCmd)
	rootCmd.AddCommand(FieldCmd)
	FieldCmd.Flags().IntP("step", "t", 0, "time step number, the last stored step when not given")
	FieldCmd.Flags().IntP("iteration", "i", 0, "iteration number within the time step, needs --step")
	FieldCmd.Flags().BoolP("summary", "s", false, "print the range of each component instead of the values")
}

// printSummary writes the minimum and maximum of each component over all
// nodes.
func printSummary(w io.Writer, f *mesh.NodalField) {
	m := f.Dense()
	if m == nil {
		fmt.Fprintln(w, "no values")
		return
	}
	_, nc := m.Dims()
	for j := 0; j < nc; j++ {
		col := mat.Col(nil, j, m)
		name := fmt.Sprintf("#%d", j+1)
		if j < len(f.Components) {
			name = f.Components[j]
		}
		fmt.Fprintf(w, "%s min %.8e max %.8e\n", name, floats.Min(col), floats.Max(col))
	}
}

func formatValues(v []float64) string {
	var sb strings.Builder
	for _, x := range v {
		fmt.Fprintf(&sb, " %.8e", x)
	}
	return sb.String()
}
