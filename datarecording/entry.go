package datarecording

// An AccessEntry is one recorded cache access. Every address that reaches the
// cache produces one entry, so a modify produces two with consecutive
// sequence numbers.
type AccessEntry struct {
	Seq        uint64
	Op         string
	Addr       uint64
	Size       int
	SetID      int
	WayID      int
	Outcome    string
	VictimAddr uint64
}

// A SummaryEntry holds the final counters of one replay.
type SummaryEntry struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}
