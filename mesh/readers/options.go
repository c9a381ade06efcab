package readers

import (
	"log/slog"

	"github.com/notargets/medread/container"
	"github.com/notargets/medread/container/h5file"
	"github.com/notargets/medread/mesh"
)

// Option configures a read.
type Option func(*readOptions)

type readOptions struct {
	meshName string
	withSets bool
	step     *mesh.Step
	opener   container.Opener
	logger   *slog.Logger
}

func defaultReadOptions() *readOptions {
	return &readOptions{
		withSets: true,
		opener:   h5file.Open,
	}
}

func applyOptions(opts []Option) *readOptions {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMeshName selects a mesh by name. Required when the file holds more
// than one mesh.
func WithMeshName(name string) Option {
	return func(o *readOptions) {
		o.meshName = name
	}
}

// WithSets controls whether node and element sets are resolved. Default true.
func WithSets(withSets bool) Option {
	return func(o *readOptions) {
		o.withSets = withSets
	}
}

// WithStep selects the computation step of a field. Default is the last
// stored step.
func WithStep(timeStep, iteration int) Option {
	return func(o *readOptions) {
		o.step = &mesh.Step{TimeStep: timeStep, Iteration: iteration}
	}
}

// WithOpener replaces the HDF5 container backend.
func WithOpener(opener container.Opener) Option {
	return func(o *readOptions) {
		if opener != nil {
			o.opener = opener
		}
	}
}

// WithLogger sets the logger receiving debug output of the extractors.
func WithLogger(logger *slog.Logger) Option {
	return func(o *readOptions) {
		o.logger = logger
	}
}
