package nodeaccessor

import (
	"SlotDB/logging"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type liveEntry struct {
	slot   int
	offset int
	length int
}

// collectEntries reads every slot and returns the entries ordered by physical
// offset, highest first. Overlapping entries are reported as corruption.
func (a *HeapNodeAccessor) collectEntries(n *Node, count int) ([]liveEntry, error) {
	entries := make([]liveEntry, 0, count)
	for i := 0; i < count; i++ {
		offset, length, err := a.readSlot(n, i, count)
		if err != nil {
			return nil, err
		}
		entries = append(entries, liveEntry{slot: i, offset: offset, length: length})
	}

	slices.SortFunc(entries, func(x, y liveEntry) int {
		return cmp.Compare(y.offset, x.offset)
	})

	for i := 1; i < len(entries); i++ {
		upper, lower := entries[i-1], entries[i]
		if lower.offset+lower.length > upper.offset {
			return nil, fmt.Errorf("%w: slot %d [%d,%d) overlaps slot %d [%d,%d)",
				ErrCorruptLayout, lower.slot, lower.offset, lower.offset+lower.length,
				upper.slot, upper.offset, upper.offset+upper.length)
		}
	}
	return entries, nil
}

// Compact squeezes out the gaps left by deallocated entries. Slot order and
// entry contents are unchanged; only physical offsets move.
func (a *HeapNodeAccessor) Compact(n *Node) error {
	count, err := a.checkWritable(n)
	if err != nil {
		return err
	}
	_, err = a.compact(n, count)
	return err
}

// compact slides every entry toward the end of the page, keeping their
// physical order, and returns the new heap floor. Nothing is moved until every
// slot has been read and checked, so a corrupt node is left as it was found.
func (a *HeapNodeAccessor) compact(n *Node, count int) (int, error) {
	entries, err := a.collectEntries(n, count)
	if err != nil {
		return 0, err
	}

	oldFloor := a.layout.PageSize
	if len(entries) > 0 {
		oldFloor = entries[len(entries)-1].offset
	}

	// Highest entry first: each destination is at or above its source and
	// above every entry not yet moved, so copy never clobbers live bytes.
	top := a.layout.PageSize
	moved := 0
	for _, e := range entries {
		dst := top - e.length
		if dst != e.offset {
			copy(n.data[dst:dst+e.length], n.data[e.offset:e.offset+e.length])
			a.setSlotOffset(n, e.slot, dst)
			moved++
		}
		top = dst
	}

	if logging.GetLogger().Enabled(context.Background(), slog.LevelDebug) {
		logging.WithFormat(a.format.String()).Debug("node compacted",
			"entries", count, "moved", moved, "reclaimed", top-oldFloor)
	}

	return top, nil
}
