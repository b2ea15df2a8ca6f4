package cache

// A Directory stores the information about what is stored in the cache.
//
// The directory splits each address into tag, set-index, and block-offset
// fields and tracks which tags currently occupy which blocks.
type Directory interface {
	Lookup(addr uint64) *Block
	FindVictim(addr uint64) *Block
	Visit(block *Block, now uint64)
	Fill(block *Block, addr uint64, now uint64)
	BlockAddr(block *Block) uint64
	TotalSize() uint64
	WayAssociativity() int
	GetSets() []Set
	Reset()
}

// A DirectoryImpl is the default implementation of a Directory.
type DirectoryImpl struct {
	NumSets   int
	NumWays   int
	BlockSize int

	Sets []Set

	setBits         int
	blockOffsetBits int
	victimFinder    VictimFinder
}

// TotalSize returns the maximum number of bytes that can be stored in the
// cache.
func (d *DirectoryImpl) TotalSize() uint64 {
	return uint64(d.NumSets) * uint64(d.NumWays) * uint64(d.BlockSize)
}

// Get the set that a certain address should be stored at. The set index is
// the s bits above the block offset. Addresses are unsigned, so the shift
// never sign-extends.
func (d *DirectoryImpl) getSet(addr uint64) (set *Set, setID int) {
	setID = int((addr >> d.blockOffsetBits) & uint64(d.NumSets-1))
	set = &d.Sets[setID]

	return
}

// tagOf extracts the tag field of an address, the bits above the set index.
func (d *DirectoryImpl) tagOf(addr uint64) uint64 {
	return addr >> (d.setBits + d.blockOffsetBits)
}

// Lookup finds the block that holds the memory at addr. If the address is
// resident in the cache, the block information is returned. Otherwise,
// Lookup returns nil.
func (d *DirectoryImpl) Lookup(addr uint64) *Block {
	set, _ := d.getSet(addr)
	tag := d.tagOf(addr)

	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == tag {
			return block
		}
	}

	return nil
}

// FindVictim returns the block that should hold the data at addr on the next
// fill.
//
// If the returned block is valid, the caller is overwriting live data and
// must account for an eviction.
func (d *DirectoryImpl) FindVictim(addr uint64) *Block {
	set, _ := d.getSet(addr)
	block := d.victimFinder.FindVictim(set)

	return block
}

// Visit stamps the block's last-visit time with now.
func (d *DirectoryImpl) Visit(block *Block, now uint64) {
	block.LastVisit = now
}

// Fill installs the tag of addr into the given block and stamps its
// last-visit time with now. Filling a valid block with a different tag is an
// eviction.
func (d *DirectoryImpl) Fill(block *Block, addr uint64, now uint64) {
	block.Tag = d.tagOf(addr)
	block.IsValid = true
	block.LastVisit = now
}

// BlockAddr reconstructs the lowest address that maps to the given block.
func (d *DirectoryImpl) BlockAddr(block *Block) uint64 {
	return block.Tag<<(d.setBits+d.blockOffsetBits) |
		uint64(block.SetID)<<d.blockOffsetBits
}

// GetSets returns all the sets in a directory.
func (d *DirectoryImpl) GetSets() []Set {
	return d.Sets
}

// WayAssociativity returns the number of ways per set in the cache.
func (d *DirectoryImpl) WayAssociativity() int {
	return d.NumWays
}

// Reset marks all the blocks in the directory invalid with last-visit time 0.
func (d *DirectoryImpl) Reset() {
	d.Sets = make([]Set, d.NumSets)
	for i := 0; i < d.NumSets; i++ {
		for j := 0; j < d.NumWays; j++ {
			block := new(Block)
			block.IsValid = false
			block.SetID = i
			block.WayID = j
			d.Sets[i].Blocks = append(d.Sets[i].Blocks, block)
		}
	}
}
