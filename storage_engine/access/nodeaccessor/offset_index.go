package nodeaccessor

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Offset index
// ─────────────────────────────────────────────────────────────────────────────

// slotPos returns the byte offset in the page where slot i begins.
//
//	slot 0: DataStart
//	slot i: DataStart + i*slotWidth
func (a *HeapNodeAccessor) slotPos(i int) int {
	return a.layout.DataStart() + i*a.slotWidth
}

// indexEnd is the first byte past an offset index holding count slots.
func (a *HeapNodeAccessor) indexEnd(count int) int {
	return a.slotPos(count)
}

func (a *HeapNodeAccessor) rawOffset(n *Node, i int) int {
	return int(a.layout.Order.Uint16(n.data[a.slotPos(i):]))
}

// readSlot resolves slot i to the entry's bounds and checks them against the
// page. count is the node's current entry count.
func (a *HeapNodeAccessor) readSlot(n *Node, i, count int) (offset, length int, err error) {
	offset = a.rawOffset(n, i)
	if offset < a.indexEnd(count) || offset >= a.layout.PageSize {
		return 0, 0, fmt.Errorf("%w: slot %d offset %d outside heap region [%d, %d)",
			ErrCorruptLayout, i, offset, a.indexEnd(count), a.layout.PageSize)
	}

	if a.sizer == nil {
		length = int(a.layout.Order.Uint16(n.data[a.slotPos(i)+2:]))
	} else {
		length, err = a.sizer.EntrySize(n.data[offset:])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: slot %d at offset %d: %v", ErrCorruptLayout, i, offset, err)
		}
	}

	if length <= 0 || offset+length > a.layout.PageSize {
		return 0, 0, fmt.Errorf("%w: slot %d length %d at offset %d overruns page of %d bytes",
			ErrCorruptLayout, i, length, offset, a.layout.PageSize)
	}
	return offset, length, nil
}

func (a *HeapNodeAccessor) writeSlot(n *Node, i, offset, length int) {
	pos := a.slotPos(i)
	a.layout.Order.PutUint16(n.data[pos:], uint16(offset))
	if a.sizer == nil {
		a.layout.Order.PutUint16(n.data[pos+2:], uint16(length))
	}
}

func (a *HeapNodeAccessor) setSlotOffset(n *Node, i, offset int) {
	a.layout.Order.PutUint16(n.data[a.slotPos(i):], uint16(offset))
}

// openSlot shifts slots [i, count) up by one, leaving slot i free to overwrite.
// The caller guarantees room for count+1 slots.
func (a *HeapNodeAccessor) openSlot(n *Node, i, count int) {
	copy(n.data[a.slotPos(i+1):a.slotPos(count+1)], n.data[a.slotPos(i):a.slotPos(count)])
}

// closeSlot shifts slots (i, count) down by one and zeroes the vacated last slot.
func (a *HeapNodeAccessor) closeSlot(n *Node, i, count int) {
	copy(n.data[a.slotPos(i):a.slotPos(count-1)], n.data[a.slotPos(i+1):a.slotPos(count)])
	clear(n.data[a.slotPos(count-1):a.slotPos(count)])
}

// heapFloor is the lowest live entry offset, or PageSize for an empty node.
// Only offsets are read, so this never consults the Sizer.
func (a *HeapNodeAccessor) heapFloor(n *Node, count int) (int, error) {
	floor := a.layout.PageSize
	for i := 0; i < count; i++ {
		off := a.rawOffset(n, i)
		if off < a.indexEnd(count) || off >= a.layout.PageSize {
			return 0, fmt.Errorf("%w: slot %d offset %d outside heap region", ErrCorruptLayout, i, off)
		}
		if off < floor {
			floor = off
		}
	}
	return floor, nil
}

// liveBytes sums the lengths of all live entries.
func (a *HeapNodeAccessor) liveBytes(n *Node, count int) (int, error) {
	total := 0
	for i := 0; i < count; i++ {
		_, length, err := a.readSlot(n, i, count)
		if err != nil {
			return 0, err
		}
		total += length
	}
	return total, nil
}
