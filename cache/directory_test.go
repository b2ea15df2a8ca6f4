package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Directory", func() {
	var d *DirectoryImpl

	BeforeEach(func() {
		// 4 sets of 2 ways, 16-byte blocks.
		d = MakeBuilder().
			WithSetBits(2).
			WithBlockOffsetBits(4).
			WithWayAssociativity(2).
			Build()
	})

	It("should be able to get total size", func() {
		Expect(d.TotalSize()).To(Equal(uint64(128)))
	})

	It("should start with all blocks invalid", func() {
		for _, set := range d.GetSets() {
			for _, block := range set.Blocks {
				Expect(block.IsValid).To(BeFalse())
				Expect(block.LastVisit).To(Equal(uint64(0)))
			}
		}
	})

	It("should not find a block that was never filled", func() {
		Expect(d.Lookup(0x40)).To(BeNil())
	})

	It("should find a filled block by any address in the block", func() {
		victim := d.FindVictim(0x47)
		d.Fill(victim, 0x47, 1)

		block := d.Lookup(0x40)
		Expect(block).NotTo(BeNil())
		Expect(block.Tag).To(Equal(uint64(0x1)))
		Expect(block.SetID).To(Equal(0))

		Expect(d.Lookup(0x4f)).To(BeIdenticalTo(block))
	})

	It("should not match addresses with the same set index but another tag",
		func() {
			victim := d.FindVictim(0x40)
			d.Fill(victim, 0x40, 1)

			// 0x80 maps to set 0 as well, but carries tag 2.
			Expect(d.Lookup(0x80)).To(BeNil())
		})

	It("should map addresses to sets by the bits above the block offset",
		func() {
			victim := d.FindVictim(0x10)
			Expect(victim.SetID).To(Equal(1))

			victim = d.FindVictim(0x30)
			Expect(victim.SetID).To(Equal(3))

			// Tag bits must not change the set.
			victim = d.FindVictim(0x70)
			Expect(victim.SetID).To(Equal(3))
		})

	It("should reconstruct the block address", func() {
		victim := d.FindVictim(0x7b)
		d.Fill(victim, 0x7b, 1)

		Expect(d.BlockAddr(victim)).To(Equal(uint64(0x70)))
	})

	It("should stamp visit times", func() {
		block := d.FindVictim(0x40)

		d.Fill(block, 0x40, 3)
		Expect(block.IsValid).To(BeTrue())
		Expect(block.LastVisit).To(Equal(uint64(3)))

		d.Visit(block, 9)
		Expect(block.LastVisit).To(Equal(uint64(9)))
	})

	It("should invalidate all blocks on reset", func() {
		d.Fill(d.FindVictim(0x40), 0x40, 1)

		d.Reset()

		Expect(d.Lookup(0x40)).To(BeNil())
	})

	It("should delegate victim finding to the policy", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		victimFinder := NewMockVictimFinder(mockCtrl)
		d.victimFinder = victimFinder

		expected := d.Sets[2].Blocks[1]
		victimFinder.EXPECT().
			FindVictim(&d.Sets[2]).
			Return(expected)

		Expect(d.FindVictim(0x20)).To(BeIdenticalTo(expected))
	})
})
