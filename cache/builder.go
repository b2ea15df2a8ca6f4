package cache

// Builder can build cache directories.
type Builder struct {
	setBits          int
	blockOffsetBits  int
	wayAssociativity int
	victimFinder     VictimFinder
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		setBits:          4,
		blockOffsetBits:  6,
		wayAssociativity: 4,
	}
}

// WithSetBits sets the number of set-index bits. The directory will have
// 2^setBits sets.
func (b Builder) WithSetBits(setBits int) Builder {
	b.setBits = setBits
	return b
}

// WithBlockOffsetBits sets the number of block-offset bits. Each block holds
// 2^blockOffsetBits bytes.
func (b Builder) WithBlockOffsetBits(blockOffsetBits int) Builder {
	b.blockOffsetBits = blockOffsetBits
	return b
}

// WithWayAssociativity sets the number of blocks per set.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithVictimFinder sets the policy that picks the block to fill when a set
// has no block holding the requested tag.
func (b Builder) WithVictimFinder(victimFinder VictimFinder) Builder {
	b.victimFinder = victimFinder
	return b
}

// Build creates a directory with all blocks invalid.
func (b Builder) Build() *DirectoryImpl {
	b.parametersMustBeValid()

	d := new(DirectoryImpl)
	d.NumSets = 1 << b.setBits
	d.NumWays = b.wayAssociativity
	d.BlockSize = 1 << b.blockOffsetBits
	d.setBits = b.setBits
	d.blockOffsetBits = b.blockOffsetBits

	d.victimFinder = b.victimFinder
	if d.victimFinder == nil {
		d.victimFinder = NewLRUVictimFinder()
	}

	d.Reset()

	return d
}

func (b Builder) parametersMustBeValid() {
	if b.setBits < 0 {
		panic("number of set-index bits must not be negative")
	}

	if b.blockOffsetBits < 0 {
		panic("number of block-offset bits must not be negative")
	}

	if b.setBits+b.blockOffsetBits >= 64 {
		panic("set-index and block-offset bits must fit in a 64-bit address")
	}

	if b.wayAssociativity <= 0 {
		panic("way associativity must be positive")
	}
}
