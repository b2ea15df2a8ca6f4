package replay

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Simulator", func() {
	var (
		directory *cache.DirectoryImpl
		clock     *Clock
		stats     *Stats
		simulator *Simulator
	)

	makeSimulator := func(setBits, blockOffsetBits, ways int) {
		directory = cache.MakeBuilder().
			WithSetBits(setBits).
			WithBlockOffsetBits(blockOffsetBits).
			WithWayAssociativity(ways).
			Build()
		clock = NewClock()
		stats = &Stats{}
		simulator = NewSimulator(directory, clock, stats)
	}

	Context("with direct-mapped sets", func() {
		BeforeEach(func() {
			// 2 sets, 1 way, 2-byte blocks.
			makeSimulator(1, 1, 1)
		})

		It("should miss on a cold cache", func() {
			result := simulator.SimulateAccess(0x0)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeFalse())
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
		})

		It("should hit on a repeated access", func() {
			simulator.SimulateAccess(0x0)

			result := simulator.SimulateAccess(0x0)

			Expect(result.Hit).To(BeTrue())
			Expect(stats.Hits).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Evictions).To(Equal(uint64(0)))
		})

		It("should count an eviction when a full set is refilled", func() {
			simulator.SimulateAccess(0x0)

			// Address 4 maps to set 0 as well, with a different tag.
			result := simulator.SimulateAccess(0x4)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeTrue())
			Expect(result.VictimAddr).To(Equal(uint64(0x0)))
			Expect(stats.Evictions).To(Equal(uint64(1)))
		})

		It("should replay the reference scenario", func() {
			// Addresses 0 and 4 collide in set 0, address 2 maps to set 1.
			// The final access to 0 misses because 4 evicted it.
			simulator.SimulateAccess(0x0)
			simulator.SimulateAccess(0x2)
			simulator.SimulateAccess(0x4)
			simulator.SimulateAccess(0x0)

			Expect(stats.Hits).To(Equal(uint64(0)))
			Expect(stats.Misses).To(Equal(uint64(4)))
			Expect(stats.Evictions).To(Equal(uint64(2)))
		})

		It("should alternate evictions between two colliding addresses",
			func() {
				for i := 0; i < 3; i++ {
					simulator.SimulateAccess(0x0)
					simulator.SimulateAccess(0x4)
				}

				Expect(stats.Hits).To(Equal(uint64(0)))
				Expect(stats.Misses).To(Equal(uint64(6)))
				Expect(stats.Evictions).To(Equal(uint64(5)))
			})
	})

	Context("with 2-way sets", func() {
		BeforeEach(func() {
			makeSimulator(1, 1, 2)
		})

		It("should fill both ways before evicting", func() {
			// Tags 0 and 1, both in set 0.
			first := simulator.SimulateAccess(0x0)
			second := simulator.SimulateAccess(0x4)

			Expect(first.Evicted).To(BeFalse())
			Expect(second.Evicted).To(BeFalse())
			Expect(second.WayID).To(Equal(1))
			Expect(stats.Evictions).To(Equal(uint64(0)))
		})

		It("should evict the least recently used tag", func() {
			simulator.SimulateAccess(0x0) // A
			simulator.SimulateAccess(0x4) // B

			// C arrives in the full set and evicts A, the oldest.
			third := simulator.SimulateAccess(0x8)

			// A returns. B is now the least recently used, not C.
			last := simulator.SimulateAccess(0x0)

			Expect(third.Evicted).To(BeTrue())
			Expect(third.VictimAddr).To(Equal(uint64(0x0)))
			Expect(last.Hit).To(BeFalse())
			Expect(last.Evicted).To(BeTrue())
			Expect(last.VictimAddr).To(Equal(uint64(0x4)))
		})

		It("should let a hit refresh the recency of a block", func() {
			simulator.SimulateAccess(0x0) // A
			simulator.SimulateAccess(0x4) // B
			simulator.SimulateAccess(0x0) // hit A, B becomes the LRU

			result := simulator.SimulateAccess(0x8) // C

			Expect(result.VictimAddr).To(Equal(uint64(0x4)))
			Expect(simulator.SimulateAccess(0x0).Hit).To(BeTrue())
		})
	})

	Context("with a mock directory", func() {
		var (
			mockCtrl      *gomock.Controller
			mockDirectory *MockDirectory
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockDirectory = NewMockDirectory(mockCtrl)

			clock = NewClock()
			stats = &Stats{}
			simulator = NewSimulator(mockDirectory, clock, stats)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should stamp visits with increasing clock values", func() {
			block := &cache.Block{IsValid: true, Tag: 0x1}

			gomock.InOrder(
				mockDirectory.EXPECT().Lookup(uint64(0x40)).Return(block),
				mockDirectory.EXPECT().Visit(block, uint64(0)),
				mockDirectory.EXPECT().Lookup(uint64(0x40)).Return(block),
				mockDirectory.EXPECT().Visit(block, uint64(1)),
			)

			simulator.SimulateAccess(0x40)
			simulator.SimulateAccess(0x40)
		})

		It("should fill the victim on a miss", func() {
			victim := &cache.Block{SetID: 1, WayID: 0}

			gomock.InOrder(
				mockDirectory.EXPECT().Lookup(uint64(0x40)).Return(nil),
				mockDirectory.EXPECT().FindVictim(uint64(0x40)).Return(victim),
				mockDirectory.EXPECT().Fill(victim, uint64(0x40), uint64(0)),
			)

			result := simulator.SimulateAccess(0x40)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Evicted).To(BeFalse())
			Expect(result.SetID).To(Equal(1))
		})
	})
})
