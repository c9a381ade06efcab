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
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/medread/mesh"
	"github.com/notargets/medread/mesh/readers"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh FILE",
	Short: "Print statistics, element groups and sets of a mesh",
	Long: `Read one mesh of a MED file and print its statistics. With --list the
mesh names are printed instead, with --yaml the full mesh is written as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if list, _ := cmd.Flags().GetBool("list"); list {
			names, err := readers.ListMeshes(args[0], readOptions()...)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		}
		sets, _ := cmd.Flags().GetBool("sets")
		snap, err := readers.ReadMesh(args[0], readOptions(readers.WithSets(sets))...)
		if err != nil {
			return err
		}
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			return writeYAML(out, newMeshDocument(snap))
		}
		snap.PrintStatistics(out)
		printSets(out, "Node sets", snap.NodeSets)
		printSets(out, "Element sets", snap.ElementSets)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().BoolP("list", "l", false, "list the meshes of the file")
	MeshCmd.Flags().BoolP("sets", "s", true, "resolve node and element sets")
	MeshCmd.Flags().BoolP("yaml", "y", false, "write nodes, elements and sets as YAML")
}

func printSets(w io.Writer, title string, sets mesh.Sets) {
	if len(sets) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, id := range sets.IDs() {
		s := sets[id]
		fmt.Fprintf(w, "  %d %v: %d members\n", id, s.Names, len(s.Members))
	}
}

type meshDocument struct {
	Name      string                   `json:"name"`
	Dimension int                      `json:"dimension"`
	Nodes     map[int][]float64        `json:"nodes"`
	Elements  map[string]elementsEntry `json:"elements"`
	NodeSets  map[string][]int         `json:"nodeSets,omitempty"`
	ElemSets  map[string][]int         `json:"elementSets,omitempty"`
}

type elementsEntry struct {
	Geometry     int           `json:"geometry"`
	ImplicitIDs  bool          `json:"implicitIDs,omitempty"`
	Connectivity map[int][]int `json:"connectivity"`
}

func newMeshDocument(s *mesh.Snapshot) *meshDocument {
	doc := &meshDocument{
		Name:      s.Name,
		Dimension: s.Dimension,
		Nodes:     make(map[int][]float64, len(s.Nodes)),
		Elements:  make(map[string]elementsEntry, len(s.Connectivity)),
	}
	for _, n := range s.Nodes {
		doc.Nodes[n.ID] = n.Coords
	}
	for _, t := range s.ElementTypes() {
		g := s.Connectivity[t]
		e := elementsEntry{
			Geometry:     t.GeometryCode(),
			ImplicitIDs:  g.ImplicitIDs,
			Connectivity: make(map[int][]int, len(g.Elements)),
		}
		for _, el := range g.Elements {
			e.Connectivity[el.ID] = el.Connectivity
		}
		doc.Elements[t.MEDTag()] = e
	}
	if s.NodeSets != nil {
		doc.NodeSets = s.NodeSets.ByName()
	}
	if s.ElementSets != nil {
		doc.ElemSets = s.ElementSets.ByName()
	}
	return doc
}

func writeYAML(w io.Writer, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
