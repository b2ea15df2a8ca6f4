package replay

import (
	"fmt"
	"io"

	"github.com/sarchlab/cachesim/trace"
)

// A VerbosePrinter is a hook that annotates each replayed trace event with
// its outcomes, in the format of the historical csim reference tool, such as
// "L 10,1 miss" or "M 20,1 miss hit".
type VerbosePrinter struct {
	w io.Writer
}

// NewVerbosePrinter creates a VerbosePrinter that writes to w.
func NewVerbosePrinter(w io.Writer) *VerbosePrinter {
	p := new(VerbosePrinter)
	p.w = w

	return p
}

// Func writes one line per trace event. The outcomes of the two accesses of
// a modify share its line.
func (p *VerbosePrinter) Func(ctx HookCtx) {
	if ctx.Pos != HookPosEvent {
		return
	}

	event := ctx.Item.(trace.Event)
	results := ctx.Detail.([]AccessResult)

	fmt.Fprintf(p.w, "%c %x,%d", event.Op, event.Addr, event.Size)
	for _, result := range results {
		fmt.Fprintf(p.w, " %s", result)
	}
	fmt.Fprintln(p.w)
}
