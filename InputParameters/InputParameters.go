package InputParameters

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"
)

var ErrInvalidParameters = errors.New("invalid comparison parameters")

// Parameters obtained from the YAML comparison file
type ComparisonParameters struct {
	Title      string            `json:"Title"`
	ResultFile string            `json:"ResultFile"`
	Field      string            `json:"Field"`
	TimeStep   *int              `json:"TimeStep,omitempty"` // last stored step when absent
	Iteration  int               `json:"Iteration"`
	AbsTol     float64           `json:"AbsTol"`
	RelTol     float64           `json:"RelTol"`
	Reference  map[int][]float64 `json:"Reference"` // node id -> expected values
}

func (cp *ComparisonParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, cp); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return cp.Validate()
}

// Validate checks the fields required to run a comparison.
func (cp *ComparisonParameters) Validate() error {
	switch {
	case cp.Field == "":
		return fmt.Errorf("%w: Field is required", ErrInvalidParameters)
	case cp.AbsTol < 0 || cp.RelTol < 0:
		return fmt.Errorf("%w: tolerances must not be negative", ErrInvalidParameters)
	case len(cp.Reference) == 0:
		return fmt.Errorf("%w: no Reference values", ErrInvalidParameters)
	}
	return nil
}

func (cp *ComparisonParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", cp.Title)
	fmt.Fprintf(w, "[%s]\t\t= Result File\n", cp.ResultFile)
	fmt.Fprintf(w, "[%s]\t\t\t= Field\n", cp.Field)
	if cp.TimeStep != nil {
		fmt.Fprintf(w, "[%d.%d]\t\t\t= Step\n", *cp.TimeStep, cp.Iteration)
	} else {
		fmt.Fprintf(w, "[last]\t\t\t= Step\n")
	}
	fmt.Fprintf(w, "%8.2e\t\t= AbsTol\n", cp.AbsTol)
	fmt.Fprintf(w, "%8.2e\t\t= RelTol\n", cp.RelTol)
	keys := make([]int, len(cp.Reference))
	i := 0
	for k := range cp.Reference {
		keys[i] = k
		i++
	}
	sort.Ints(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "Reference[%d] = %v\n", key, cp.Reference[key])
	}
}
