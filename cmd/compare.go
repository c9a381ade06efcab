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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/medread/InputParameters"
	"github.com/notargets/medread/compare"
	"github.com/notargets/medread/mesh/readers"
)

var ErrComparisonFailed = errors.New("comparison failed")

// CompareCmd represents the compare command
var CompareCmd = &cobra.Command{
	Use:   "compare PARAMETERS [RESULT_FILE]",
	Short: "Compare a nodal field against reference values",
	Long: `Compare a nodal field of a result file against the reference values of a
YAML parameters file like:

########################################
Title: "Cantilever"
ResultFile: cantilever.rmed # or given as second argument
Field: DEPL
TimeStep: 1 # last stored step when absent
AbsTol: 1.0e-6
RelTol: 1.0e-4
Reference:
  12: [1.5e-3, -2.0e-4]
########################################`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		cp := &InputParameters.ComparisonParameters{}
		if err = cp.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if len(args) == 2 {
			cp.ResultFile = args[1]
		}
		out := cmd.OutOrStdout()
		if viper.GetBool("verbose") {
			cp.Print(out)
		}

		var extra []readers.Option
		if cp.TimeStep != nil {
			extra = append(extra, readers.WithStep(*cp.TimeStep, cp.Iteration))
		}
		f, err := readers.ReadNodalField(cp.ResultFile, cp.Field, readOptions(extra...)...)
		if err != nil {
			return err
		}
		report := compare.Fields(f, cp.Reference, compare.Tolerance{Abs: cp.AbsTol, Rel: cp.RelTol})
		report.Print(out)
		if !report.Pass() {
			return ErrComparisonFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(CompareCmd)
}
