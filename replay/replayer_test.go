package replay

import (
	"errors"
	"strings"
	"testing/iotest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

type countingHook struct {
	accesses int
	events   int
}

func (h *countingHook) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosAccess:
		h.accesses++
	case HookPosEvent:
		h.events++
	}
}

var _ = Describe("Replayer", func() {
	buildReplayer := func(
		setBits, blockOffsetBits, ways int,
		traceText string,
	) *Replayer {
		directory := cache.MakeBuilder().
			WithSetBits(setBits).
			WithBlockOffsetBits(blockOffsetBits).
			WithWayAssociativity(ways).
			Build()
		scanner := trace.NewScanner(strings.NewReader(traceText))

		return MakeBuilder().
			WithDirectory(directory).
			WithScanner(scanner).
			Build()
	}

	It("should replay the reference trace", func() {
		replayer := buildReplayer(1, 1, 1,
			" L 0,1\n L 2,1\n L 4,1\n L 0,1\n")

		err := replayer.Run()

		Expect(err).To(BeNil())
		stats := replayer.Stats()
		Expect(stats.Hits).To(Equal(uint64(0)))
		Expect(stats.Misses).To(Equal(uint64(4)))
		Expect(stats.Evictions).To(Equal(uint64(2)))
	})

	It("should treat a modify as a load followed by a store", func() {
		replayer := buildReplayer(4, 4, 1, " M 10,4\n")

		err := replayer.Run()

		Expect(err).To(BeNil())
		stats := replayer.Stats()
		Expect(stats.Loads).To(Equal(uint64(1)))
		Expect(stats.Stores).To(Equal(uint64(1)))
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("should never feed instruction fetches to the cache", func() {
		replayer := buildReplayer(4, 4, 1,
			"I 0400d7d4,8\n L 10,1\nI 0400d7e0,8\n")

		err := replayer.Run()

		Expect(err).To(BeNil())
		stats := replayer.Stats()
		Expect(stats.Loads).To(Equal(uint64(1)))
		Expect(stats.Stores).To(Equal(uint64(0)))
		Expect(stats.Hits + stats.Misses).To(Equal(uint64(1)))
	})

	It("should replay a small program trace", func() {
		replayer := buildReplayer(4, 4, 1,
			" L 10,1\n M 20,1\n L 22,1\n S 18,1\n"+
				" L 110,1\n L 210,1\n M 12,1\n")

		err := replayer.Run()

		Expect(err).To(BeNil())
		stats := replayer.Stats()
		Expect(stats.Hits).To(Equal(uint64(4)))
		Expect(stats.Misses).To(Equal(uint64(5)))
		Expect(stats.Evictions).To(Equal(uint64(3)))
		Expect(stats.Hits + stats.Misses).To(
			Equal(stats.Loads + stats.Stores))
		Expect(replayer.Now()).To(Equal(uint64(9)))
	})

	It("should produce the same counts on identical runs", func() {
		traceText := " L 10,1\n M 20,1\n L 22,1\n S 18,1\n L 110,1\n"

		first := buildReplayer(2, 2, 2, traceText)
		second := buildReplayer(2, 2, 2, traceText)

		Expect(first.Run()).To(BeNil())
		Expect(second.Run()).To(BeNil())
		Expect(first.Stats()).To(Equal(second.Stats()))
	})

	It("should fire hooks for each access and each event", func() {
		replayer := buildReplayer(4, 4, 1,
			"I 0400d7d4,8\n L 10,1\n M 20,1\n S 18,1\n")
		hook := &countingHook{}
		replayer.AcceptHook(hook)

		err := replayer.Run()

		Expect(err).To(BeNil())
		Expect(hook.events).To(Equal(3))
		Expect(hook.accesses).To(Equal(4))
	})

	It("should tolerate redundant pause and continue calls", func() {
		replayer := buildReplayer(1, 1, 1, " L 0,1\n L 4,1\n")

		replayer.Pause()
		replayer.Pause()
		replayer.Continue()
		replayer.Continue()

		Expect(replayer.Run()).To(BeNil())
		Expect(replayer.Stats().Misses).To(Equal(uint64(2)))
	})

	It("should not replay while paused", func() {
		replayer := buildReplayer(1, 1, 1, " L 0,1\n L 4,1\n L 0,1\n")
		replayer.Pause()

		done := make(chan error)
		go func() {
			done <- replayer.Run()
		}()

		time.Sleep(10 * time.Millisecond)
		Expect(replayer.Stats().Misses).To(Equal(uint64(0)))

		replayer.Continue()

		Expect(<-done).To(BeNil())
		Expect(replayer.Stats().Misses).To(Equal(uint64(3)))
	})

	It("should report trace read failures", func() {
		readErr := errors.New("trace unreadable")
		directory := cache.MakeBuilder().Build()
		scanner := trace.NewScanner(iotest.ErrReader(readErr))
		replayer := MakeBuilder().
			WithDirectory(directory).
			WithScanner(scanner).
			Build()

		err := replayer.Run()

		Expect(err).To(BeIdenticalTo(readErr))
	})

	It("should panic if the directory is not given", func() {
		scanner := trace.NewScanner(strings.NewReader(""))

		Expect(func() {
			MakeBuilder().WithScanner(scanner).Build()
		}).To(Panic())
	})

	It("should panic if the scanner is not given", func() {
		directory := cache.MakeBuilder().Build()

		Expect(func() {
			MakeBuilder().WithDirectory(directory).Build()
		}).To(Panic())
	})
})
