package replay

import (
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

// Builder can build replayers.
type Builder struct {
	directory cache.Directory
	scanner   *trace.Scanner
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithDirectory sets the cache directory to replay against.
func (b Builder) WithDirectory(directory cache.Directory) Builder {
	b.directory = directory
	return b
}

// WithScanner sets the trace to replay.
func (b Builder) WithScanner(scanner *trace.Scanner) Builder {
	b.scanner = scanner
	return b
}

// Build builds a replayer. The counters and the logical clock are created
// here so that they share the lifetime of one full trace replay.
func (b Builder) Build() *Replayer {
	b.parametersMustBeValid()

	r := new(Replayer)
	r.scanner = b.scanner
	r.clock = NewClock()
	r.stats = &Stats{}
	r.simulator = NewSimulator(b.directory, r.clock, r.stats)

	return r
}

func (b Builder) parametersMustBeValid() {
	if b.directory == nil {
		panic("replayer requires a cache directory")
	}

	if b.scanner == nil {
		panic("replayer requires a trace scanner")
	}
}
