package replay

import (
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/trace"
)

// Table names used by the Recorder.
const (
	accessTableName  = "trace_accesses"
	summaryTableName = "summary"
)

// A Recorder is a hook that writes every simulated access to a data
// recorder, one row per access.
type Recorder struct {
	backend datarecording.DataRecorder
	seq     uint64
}

// NewRecorder creates a Recorder and prepares its tables on the backend.
func NewRecorder(backend datarecording.DataRecorder) *Recorder {
	r := new(Recorder)
	r.backend = backend

	r.backend.CreateTable(accessTableName, datarecording.AccessEntry{})
	r.backend.CreateTable(summaryTableName, datarecording.SummaryEntry{})

	return r
}

// Func records one row per simulated access. The two accesses of a modify
// produce two rows with consecutive sequence numbers.
func (r *Recorder) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAccess {
		return
	}

	event := ctx.Item.(trace.Event)
	result := ctx.Detail.(AccessResult)

	r.seq++
	r.backend.InsertData(accessTableName, datarecording.AccessEntry{
		Seq:        r.seq,
		Op:         string(rune(event.Op)),
		Addr:       event.Addr,
		Size:       event.Size,
		SetID:      result.SetID,
		WayID:      result.WayID,
		Outcome:    result.String(),
		VictimAddr: result.VictimAddr,
	})
}

// RecordSummary writes the final counters and flushes the backend. It should
// be called once, after the replay completes.
func (r *Recorder) RecordSummary(stats Stats) {
	r.backend.InsertData(summaryTableName, datarecording.SummaryEntry{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
	})

	r.backend.Flush()
}
