package nodeaccessor

import (
	"SlotDB/types"
	"fmt"
)

/*
HeapNodeAccessor stores variable-length entries behind an offset index.

	[ header ][ reserved ][ slot0 slot1 ... → ][ free ][ ← entries, gaps ]
	0         4           DataStart            ^                      PageSize
	                                           heap floor (lowest entry)

The offset index grows forward from DataStart. Entries are carved downward
from the heap floor. Deleting an entry only closes its slot; the bytes stay
where they are until an allocation needs more contiguous room than lies
between the index and the floor, at which point the node is compacted once
and the allocation proceeds.

Two formats share this code:

	FormatHeap       2-byte slots (offset). Entry lengths come from a Sizer.
	FormatHeapSized  4-byte slots (offset, length).
*/
type HeapNodeAccessor struct {
	layout    Layout
	format    types.NodeFormat
	slotWidth int
	sizer     Sizer // nil for FormatHeapSized
}

var _ NodeAccessor = (*HeapNodeAccessor)(nil)

// NewHeapNodeAccessor returns a FormatHeap accessor. Entries must be stored in
// an encoding sizer can measure.
func NewHeapNodeAccessor(layout Layout, sizer Sizer) (*HeapNodeAccessor, error) {
	if sizer == nil {
		return nil, fmt.Errorf("%w: heap format needs a sizer", ErrInvalidLayout)
	}
	return newHeapNodeAccessor(layout, types.FormatHeap, sizer)
}

// NewSizedHeapNodeAccessor returns a FormatHeapSized accessor.
func NewSizedHeapNodeAccessor(layout Layout) (*HeapNodeAccessor, error) {
	return newHeapNodeAccessor(layout, types.FormatHeapSized, nil)
}

func newHeapNodeAccessor(layout Layout, format types.NodeFormat, sizer Sizer) (*HeapNodeAccessor, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	a := &HeapNodeAccessor{
		layout:    layout,
		format:    format,
		slotWidth: format.SlotWidth(),
		sizer:     sizer,
	}
	if a.MaxEntrySize() < 1 {
		return nil, fmt.Errorf("%w: %d byte page cannot hold a single %s entry",
			ErrInvalidLayout, layout.PageSize, format)
	}
	return a, nil
}

func (a *HeapNodeAccessor) Format() types.NodeFormat {
	return a.format
}

func (a *HeapNodeAccessor) Layout() Layout {
	return a.layout
}

func (a *HeapNodeAccessor) HasFixedWidthEntries() bool {
	return false
}

// GetEntryByteCount is the page space a tuple consumes once stored: the tuple
// plus its offset index slot.
func (a *HeapNodeAccessor) GetEntryByteCount(cbTuple int) int {
	return cbTuple + a.slotWidth
}

// MaxEntrySize is the largest entry an empty node accepts.
func (a *HeapNodeAccessor) MaxEntrySize() int {
	return a.layout.PageSize - a.layout.DataStart() - a.slotWidth
}

// checkNode verifies the buffer belongs to this accessor and returns the entry count.
func (a *HeapNodeAccessor) checkNode(n *Node) (int, error) {
	if n.Len() != a.layout.PageSize {
		return 0, fmt.Errorf("%w: buffer is %d bytes, layout expects %d", ErrPageSize, n.Len(), a.layout.PageSize)
	}
	if f := getFormat(n); f != a.format {
		return 0, fmt.Errorf("%w: format tag %d (%s), accessor reads %s", ErrCorruptLayout, f, f, a.format)
	}
	count := getEntryCount(n, a.layout.Order)
	if a.indexEnd(count) > a.layout.PageSize {
		return 0, fmt.Errorf("%w: %d entries overflow the offset index", ErrCorruptLayout, count)
	}
	return count, nil
}

// checkWritable is checkNode for mutating calls.
func (a *HeapNodeAccessor) checkWritable(n *Node) (int, error) {
	if !n.Writable() {
		return 0, ErrReadOnly
	}
	return a.checkNode(n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Formatting
// ─────────────────────────────────────────────────────────────────────────────

// ClearNode formats the buffer as an empty node. Every byte is zeroed, including
// the reserved tree bytes, so recycled frames start clean.
func (a *HeapNodeAccessor) ClearNode(n *Node) error {
	if !n.Writable() {
		return ErrReadOnly
	}
	if n.Len() != a.layout.PageSize {
		return fmt.Errorf("%w: buffer is %d bytes, layout expects %d", ErrPageSize, n.Len(), a.layout.PageSize)
	}
	clear(n.data)
	stampHeader(n, a.layout.Order, a.format)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Entry operations
// ─────────────────────────────────────────────────────────────────────────────

// AllocateEntry reserves cbEntry bytes for a new entry at slot, shifting the
// entries at slot and above up by one. The returned span is only valid until
// the next mutating call on the node, and FormatHeap callers must fill it
// (so the Sizer can measure it) before making one.
//
// Returns ErrNodeFull when the entry and its slot do not fit even after compaction.
func (a *HeapNodeAccessor) AllocateEntry(n *Node, slot, cbEntry int) ([]byte, error) {
	count, err := a.checkWritable(n)
	if err != nil {
		return nil, err
	}
	if slot < 0 || slot > count {
		return nil, fmt.Errorf("%w: allocate at %d (count=%d)", ErrInvalidSlotIndex, slot, count)
	}
	if cbEntry <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidEntrySize, cbEntry)
	}

	footprint := a.GetEntryByteCount(cbEntry)

	floor, err := a.heapFloor(n, count)
	if err != nil {
		return nil, err
	}

	if floor-a.indexEnd(count) < footprint {
		live, err := a.liveBytes(n, count)
		if err != nil {
			return nil, err
		}
		free := a.layout.PageSize - a.indexEnd(count) - live
		if free < footprint {
			return nil, fmt.Errorf("%w: need %d bytes, %d free", ErrNodeFull, footprint, free)
		}
		if floor, err = a.compact(n, count); err != nil {
			return nil, err
		}
	}

	offset := floor - cbEntry
	a.openSlot(n, slot, count)
	a.writeSlot(n, slot, offset, cbEntry)
	setEntryCount(n, a.layout.Order, count+1)

	return n.data[offset : offset+cbEntry : offset+cbEntry], nil
}

// DeallocateEntry removes the entry at slot and shifts later entries down by
// one. Its bytes are reclaimed by the next compaction.
func (a *HeapNodeAccessor) DeallocateEntry(n *Node, slot int) error {
	count, err := a.checkWritable(n)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= count {
		return fmt.Errorf("%w: deallocate %d (count=%d)", ErrInvalidSlotIndex, slot, count)
	}

	a.closeSlot(n, slot, count)
	setEntryCount(n, a.layout.Order, count-1)
	return nil
}

func (a *HeapNodeAccessor) EntryCount(n *Node) (int, error) {
	return a.checkNode(n)
}

// GetEntryForRead returns the entry at slot. The slice aliases the page and
// must not be modified.
func (a *HeapNodeAccessor) GetEntryForRead(n *Node, slot int) ([]byte, error) {
	count, err := a.checkNode(n)
	if err != nil {
		return nil, err
	}
	return a.entry(n, slot, count)
}

// GetEntryForWrite returns a mutable span over the entry at slot.
func (a *HeapNodeAccessor) GetEntryForWrite(n *Node, slot int) ([]byte, error) {
	count, err := a.checkWritable(n)
	if err != nil {
		return nil, err
	}
	return a.entry(n, slot, count)
}

func (a *HeapNodeAccessor) entry(n *Node, slot, count int) ([]byte, error) {
	if slot < 0 || slot >= count {
		return nil, fmt.Errorf("%w: read %d (count=%d)", ErrInvalidSlotIndex, slot, count)
	}
	offset, length, err := a.readSlot(n, slot, count)
	if err != nil {
		return nil, err
	}
	return n.data[offset : offset+length : offset+length], nil
}

// EntryOffset returns the physical start of the entry at slot.
func (a *HeapNodeAccessor) EntryOffset(n *Node, slot int) (int, error) {
	count, err := a.checkNode(n)
	if err != nil {
		return 0, err
	}
	if slot < 0 || slot >= count {
		return 0, fmt.Errorf("%w: offset of %d (count=%d)", ErrInvalidSlotIndex, slot, count)
	}
	offset, _, err := a.readSlot(n, slot, count)
	return offset, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Capacity
// ─────────────────────────────────────────────────────────────────────────────

// CalculateCapacity reports how much more the node can take without touching it.
// AllocateEntry(cbEntry) succeeds exactly when EntryCountIfUniform >= 1.
func (a *HeapNodeAccessor) CalculateCapacity(n *Node, cbEntry int) (Capacity, error) {
	count, err := a.checkNode(n)
	if err != nil {
		return Capacity{}, err
	}
	if cbEntry <= 0 {
		return Capacity{}, fmt.Errorf("%w: %d bytes", ErrInvalidEntrySize, cbEntry)
	}

	floor, err := a.heapFloor(n, count)
	if err != nil {
		return Capacity{}, err
	}
	live, err := a.liveBytes(n, count)
	if err != nil {
		return Capacity{}, err
	}

	free := a.layout.PageSize - a.indexEnd(count) - live
	return Capacity{
		EntryCountIfUniform: free / a.GetEntryByteCount(cbEntry),
		BytesFree:           free,
		BytesFreeContiguous: floor - a.indexEnd(count),
	}, nil
}
