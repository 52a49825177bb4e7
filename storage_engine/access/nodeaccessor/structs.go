package nodeaccessor

import (
	"SlotDB/types"
	"encoding/binary"
	"fmt"
)

// ############################################# LAYOUT #############################################

// Layout fixes the physical shape shared by every node of one format.
//
//	[ header 4B ][ reserved R ][ offset index → ][ free ][ ← entries ]
//	0            4             4+R                          PageSize
type Layout struct {
	PageSize      int              // bytes per page buffer, at most types.MaxPageSize
	ReservedBytes int              // bytes after the node header owned by the tree layer
	Order         binary.ByteOrder // byte order of header fields and offsets
}

// DefaultLayout is a 4KB little-endian page with no reserved tree bytes.
func DefaultLayout() Layout {
	return Layout{
		PageSize: types.PageSize,
		Order:    binary.LittleEndian,
	}
}

// DataStart is the offset of slot 0 of the offset index.
func (l Layout) DataStart() int {
	return types.NodeHeaderSize + l.ReservedBytes
}

func (l Layout) Validate() error {
	if l.PageSize <= 0 || l.PageSize > types.MaxPageSize {
		return fmt.Errorf("%w: page size %d outside (0, %d]", ErrInvalidLayout, l.PageSize, types.MaxPageSize)
	}
	if l.ReservedBytes < 0 {
		return fmt.Errorf("%w: negative reserved bytes %d", ErrInvalidLayout, l.ReservedBytes)
	}
	if l.Order == nil {
		return fmt.Errorf("%w: byte order not set", ErrInvalidLayout)
	}
	if l.DataStart() >= l.PageSize {
		return fmt.Errorf("%w: header and reserved bytes (%d) fill the %d byte page",
			ErrInvalidLayout, l.DataStart(), l.PageSize)
	}
	return nil
}

// ############################################# CAPACITY #############################################

// Capacity is a non-mutating estimate of what a node can still absorb.
type Capacity struct {
	EntryCountIfUniform int // more entries of the queried size that fit, compaction included
	BytesFree           int // free bytes once compacted, slot overhead not yet deducted
	BytesFreeContiguous int // free bytes between the offset index and the lowest entry
}

// Report summarizes a validated node.
type Report struct {
	Format              types.NodeFormat
	EntryCount          int
	LiveBytes           int // entry bytes, excluding slots
	BytesFree           int
	BytesFreeContiguous int
}

// Fragmented reports whether deleted entries left gaps inside the heap region.
func (r Report) Fragmented() bool {
	return r.BytesFree != r.BytesFreeContiguous
}

// ############################################# ACCESSOR #############################################

// NodeAccessor is the contract every node layout strategy satisfies.
// Implementations keep no per-node state: everything lives in the Node buffer,
// so one accessor can serve any number of pages concurrently as long as each
// page is held exclusively by its writer.
type NodeAccessor interface {
	Format() types.NodeFormat
	Layout() Layout

	ClearNode(n *Node) error
	AllocateEntry(n *Node, slot, cbEntry int) ([]byte, error)
	DeallocateEntry(n *Node, slot int) error
	HasFixedWidthEntries() bool
	CalculateCapacity(n *Node, cbEntry int) (Capacity, error)
	GetEntryByteCount(cbTuple int) int

	EntryCount(n *Node) (int, error)
	GetEntryForRead(n *Node, slot int) ([]byte, error)
	GetEntryForWrite(n *Node, slot int) ([]byte, error)
	Validate(n *Node) (Report, error)
}
