package replay

import (
	"github.com/sarchlab/cachesim/cache"
)

// Stats accumulates the aggregate outcomes of a replay. All counters are
// monotonically non-decreasing while a replay runs.
type Stats struct {
	Loads     uint64
	Stores    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// An AccessResult describes what one simulated access did to the cache.
type AccessResult struct {
	// Hit indicates whether the address was already resident.
	Hit bool
	// Evicted is true if the access overwrote a valid block.
	Evicted bool
	// VictimAddr is the block address of the overwritten block, meaningful
	// only when Evicted is true.
	VictimAddr uint64
	// SetID and WayID locate the block that served the access.
	SetID int
	WayID int
}

// String renders the outcome the way the historical csim tool annotates it.
func (r AccessResult) String() string {
	switch {
	case r.Hit:
		return "hit"
	case r.Evicted:
		return "miss eviction"
	default:
		return "miss"
	}
}

// A Simulator performs the hit/miss/eviction decision for one address at a
// time against a cache directory.
//
// The simulator shares the directory, the logical clock, and the counters
// with its creator. It is not safe for concurrent use.
type Simulator struct {
	directory cache.Directory
	clock     *Clock
	stats     *Stats
}

// NewSimulator creates a Simulator that mutates the given directory, clock,
// and counters.
func NewSimulator(
	directory cache.Directory,
	clock *Clock,
	stats *Stats,
) *Simulator {
	s := new(Simulator)
	s.directory = directory
	s.clock = clock
	s.stats = stats

	return s
}

// SimulateAccess runs one load or store at addr through the cache.
//
// On a hit, the block's recency is refreshed and no eviction logic runs. On
// a miss, the directory picks the block to fill. If that block is valid, its
// content is being overwritten and an eviction is counted. Every access that
// touches a block advances the logical clock by one.
func (s *Simulator) SimulateAccess(addr uint64) AccessResult {
	block := s.directory.Lookup(addr)
	if block != nil {
		s.stats.Hits++
		s.directory.Visit(block, s.clock.Tick())

		return AccessResult{
			Hit:   true,
			SetID: block.SetID,
			WayID: block.WayID,
		}
	}

	s.stats.Misses++

	result := AccessResult{}

	victim := s.directory.FindVictim(addr)
	if victim.IsValid {
		s.stats.Evictions++
		result.Evicted = true
		result.VictimAddr = s.directory.BlockAddr(victim)
	}

	s.directory.Fill(victim, addr, s.clock.Tick())

	result.SetID = victim.SetID
	result.WayID = victim.WayID

	return result
}
