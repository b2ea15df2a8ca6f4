package replay

import (
	"sync"

	"github.com/sarchlab/cachesim/trace"
)

// A Replayer feeds the events of a trace through a cache simulator, one
// event after another.
type Replayer struct {
	HookableBase

	simulator *Simulator
	scanner   *trace.Scanner
	clock     *Clock
	stats     *Stats

	statsLock sync.RWMutex

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// Run replays the trace until it is exhausted. Loads and stores feed the
// simulator one access each. A modify feeds the same address twice, a load
// followed by a store. Instruction fetches and unrecognized operations never
// reach the simulator.
func (r *Replayer) Run() error {
	r.singleRunLock.Lock()
	defer r.singleRunLock.Unlock()

	for {
		r.pauseLock.Lock()

		event, ok := r.scanner.Next()
		if !ok {
			r.pauseLock.Unlock()
			return r.scanner.Err()
		}

		r.statsLock.Lock()
		results := r.replayEvent(event)
		r.statsLock.Unlock()

		r.invokeHooks(event, results)

		r.pauseLock.Unlock()
	}
}

func (r *Replayer) replayEvent(event trace.Event) []AccessResult {
	switch event.Op {
	case trace.OpLoad:
		r.stats.Loads++
		return []AccessResult{r.simulator.SimulateAccess(event.Addr)}
	case trace.OpStore:
		r.stats.Stores++
		return []AccessResult{r.simulator.SimulateAccess(event.Addr)}
	case trace.OpModify:
		// A modify is a load followed by a store to the same address. The
		// store always hits, as the load just brought the block in.
		r.stats.Loads++
		first := r.simulator.SimulateAccess(event.Addr)
		r.stats.Stores++
		second := r.simulator.SimulateAccess(event.Addr)
		return []AccessResult{first, second}
	default:
		return nil
	}
}

func (r *Replayer) invokeHooks(event trace.Event, results []AccessResult) {
	if results == nil {
		return
	}

	hookCtx := HookCtx{
		Domain: r,
		Pos:    HookPosAccess,
		Item:   event,
	}
	for _, result := range results {
		hookCtx.Detail = result
		r.InvokeHook(hookCtx)
	}

	hookCtx.Pos = HookPosEvent
	hookCtx.Detail = results
	r.InvokeHook(hookCtx)
}

// Pause prevents the Replayer from replaying more events.
func (r *Replayer) Pause() {
	r.isPausedLock.Lock()
	defer r.isPausedLock.Unlock()

	if r.isPaused {
		return
	}

	r.pauseLock.Lock()
	r.isPaused = true
}

// Continue allows the Replayer to replay more events.
func (r *Replayer) Continue() {
	r.isPausedLock.Lock()
	defer r.isPausedLock.Unlock()

	if !r.isPaused {
		return
	}

	r.pauseLock.Unlock()
	r.isPaused = false
}

// Stats returns a snapshot of the current counters.
func (r *Replayer) Stats() Stats {
	r.statsLock.RLock()
	defer r.statsLock.RUnlock()

	return *r.stats
}

// Now returns the current logical time of the replay, the number of accesses
// that have touched a block so far.
func (r *Replayer) Now() uint64 {
	r.statsLock.RLock()
	defer r.statsLock.RUnlock()

	return r.clock.Now()
}
