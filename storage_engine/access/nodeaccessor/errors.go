package nodeaccessor

import "errors"

var (
	// ErrNodeFull means the entry does not fit even after compaction.
	// The tree layer recovers by splitting the node and retrying.
	ErrNodeFull = errors.New("node full")

	// ErrInvalidSlotIndex means the caller lost track of the node's entry count.
	ErrInvalidSlotIndex = errors.New("invalid slot index")

	// ErrCorruptLayout means a loaded page has a bad header, an out-of-range slot or overlapping entries.
	ErrCorruptLayout = errors.New("corrupt node layout")

	ErrReadOnly         = errors.New("node opened for read")
	ErrInvalidEntrySize = errors.New("invalid entry size")
	ErrInvalidLayout    = errors.New("invalid node layout")
	ErrPageSize         = errors.New("page size mismatch")
)
