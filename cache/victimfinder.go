package cache

// A VictimFinder decides which block in a set should hold the data of the
// next fill.
type VictimFinder interface {
	FindVictim(set *Set) *Block
}

// LRUVictimFinder selects the least recently visited block as the victim.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed LRUVictimFinder.
func NewLRUVictimFinder() *LRUVictimFinder {
	f := new(LRUVictimFinder)
	return f
}

// FindVictim returns the block to fill next. Invalid blocks are preferred,
// in way order. If every block in the set is valid, the block with the
// smallest last-visit time is selected, ties broken by way order.
func (f *LRUVictimFinder) FindVictim(set *Set) *Block {
	for _, block := range set.Blocks {
		if !block.IsValid {
			return block
		}
	}

	var victim *Block
	for _, block := range set.Blocks {
		if victim == nil || block.LastVisit < victim.LastVisit {
			victim = block
		}
	}

	return victim
}
