package replay

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/trace"
)

var _ = Describe("Recorder", func() {
	var (
		mockCtrl *gomock.Controller
		backend  *MockDataRecorder
		recorder *Recorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backend = NewMockDataRecorder(mockCtrl)

		backend.EXPECT().
			CreateTable("trace_accesses", datarecording.AccessEntry{})
		backend.EXPECT().
			CreateTable("summary", datarecording.SummaryEntry{})

		recorder = NewRecorder(backend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record one row per access", func() {
		backend.EXPECT().InsertData("trace_accesses",
			datarecording.AccessEntry{
				Seq:     1,
				Op:      "L",
				Addr:    0x10,
				Size:    1,
				SetID:   1,
				WayID:   0,
				Outcome: "miss",
			})

		recorder.Func(HookCtx{
			Pos:    HookPosAccess,
			Item:   trace.Event{Op: trace.OpLoad, Addr: 0x10, Size: 1},
			Detail: AccessResult{SetID: 1, WayID: 0},
		})
	})

	It("should record the victim of an eviction", func() {
		backend.EXPECT().InsertData("trace_accesses",
			datarecording.AccessEntry{
				Seq:        1,
				Op:         "S",
				Addr:       0x110,
				Size:       8,
				SetID:      1,
				Outcome:    "miss eviction",
				VictimAddr: 0x10,
			})

		recorder.Func(HookCtx{
			Pos:    HookPosAccess,
			Item:   trace.Event{Op: trace.OpStore, Addr: 0x110, Size: 8},
			Detail: AccessResult{Evicted: true, VictimAddr: 0x10, SetID: 1},
		})
	})

	It("should number the accesses consecutively", func() {
		gomock.InOrder(
			backend.EXPECT().InsertData("trace_accesses",
				datarecording.AccessEntry{
					Seq: 1, Op: "M", Addr: 0x20, Size: 1, Outcome: "miss",
				}),
			backend.EXPECT().InsertData("trace_accesses",
				datarecording.AccessEntry{
					Seq: 2, Op: "M", Addr: 0x20, Size: 1, Outcome: "hit",
				}),
		)

		event := trace.Event{Op: trace.OpModify, Addr: 0x20, Size: 1}
		recorder.Func(HookCtx{
			Pos:    HookPosAccess,
			Item:   event,
			Detail: AccessResult{},
		})
		recorder.Func(HookCtx{
			Pos:    HookPosAccess,
			Item:   event,
			Detail: AccessResult{Hit: true},
		})
	})

	It("should ignore whole-event hook invocations", func() {
		recorder.Func(HookCtx{
			Pos:    HookPosEvent,
			Item:   trace.Event{Op: trace.OpLoad, Addr: 0x10, Size: 1},
			Detail: []AccessResult{{}},
		})
	})

	It("should record the summary and flush", func() {
		gomock.InOrder(
			backend.EXPECT().InsertData("summary",
				datarecording.SummaryEntry{
					Hits:      4,
					Misses:    5,
					Evictions: 3,
				}),
			backend.EXPECT().Flush(),
		)

		recorder.RecordSummary(Stats{
			Loads:     6,
			Stores:    3,
			Hits:      4,
			Misses:    5,
			Evictions: 3,
		})
	})
})
