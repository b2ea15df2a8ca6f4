// Package trace reads Valgrind Lackey style memory-access traces.
package trace

// Op identifies the kind of a memory access.
type Op byte

// The operations that can appear in a trace. Instruction fetches are carried
// through so that the replayer can decide to skip them.
const (
	OpInstr  Op = 'I'
	OpLoad   Op = 'L'
	OpStore  Op = 'S'
	OpModify Op = 'M'
)

// IsData reports whether the operation touches the data cache.
func (o Op) IsData() bool {
	return o == OpLoad || o == OpStore || o == OpModify
}

// An Event is one memory access from a trace.
type Event struct {
	Op   Op
	Addr uint64
	Size int
}
