// Package cache provides a functional model of a set-associative cache. It
// tracks tag, valid, and recency metadata per cache line, but never the data
// bytes themselves.
package cache

// A Block of a cache is the metadata that is associated with one cache line.
type Block struct {
	Tag       uint64
	SetID     int
	WayID     int
	IsValid   bool
	LastVisit uint64
}

// A Set is a list of blocks where a certain piece of memory can be stored at.
type Set struct {
	Blocks []*Block
}
