package nodeaccessor

import (
	"SlotDB/types"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// sizedNodeWithTwo returns a 64 byte sized node holding "first" at slot 0 and
// "second" at slot 1.
func sizedNodeWithTwo(t *testing.T) (*HeapNodeAccessor, *Node) {
	t.Helper()
	acc, n := newSizedNode(t, smallLayout(64))
	mustAllocate(t, acc, n, 0, []byte("first"))
	mustAllocate(t, acc, n, 1, []byte("second"))
	return acc, n
}

func TestValidateCorruptLayouts(t *testing.T) {
	le := binary.LittleEndian

	tests := []struct {
		name    string
		corrupt func(data []byte)
	}{
		{"format tag", func(data []byte) {
			data[0] = byte(types.FormatHeap)
		}},
		{"entry count overflows index", func(data []byte) {
			le.PutUint16(data[2:], 0xFFFF)
		}},
		{"offset inside header", func(data []byte) {
			le.PutUint16(data[4:], 2)
		}},
		{"offset past page", func(data []byte) {
			le.PutUint16(data[4:], 64)
		}},
		{"length overruns page", func(data []byte) {
			le.PutUint16(data[6:], 60)
		}},
		{"zero length", func(data []byte) {
			le.PutUint16(data[6:], 0)
		}},
		{"overlapping entries", func(data []byte) {
			// slot 1 ("second", 6 bytes) now starts one byte below slot 0
			first := le.Uint16(data[4:])
			le.PutUint16(data[8:], first-1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, n := sizedNodeWithTwo(t)
			tt.corrupt(n.data)

			if _, err := acc.Validate(n); !errors.Is(err, ErrCorruptLayout) {
				t.Errorf("Validate: expected ErrCorruptLayout, got %v", err)
			}
		})
	}
}

func TestCorruptSlotReadIsRejected(t *testing.T) {
	acc, n := sizedNodeWithTwo(t)
	binary.LittleEndian.PutUint16(n.data[8:], 1)

	if _, err := acc.GetEntryForRead(n, 1); !errors.Is(err, ErrCorruptLayout) {
		t.Errorf("Expected ErrCorruptLayout reading slot 1, got %v", err)
	}
	if got, err := acc.GetEntryForRead(n, 0); err != nil || string(got) != "first" {
		t.Errorf("Intact slot 0 should still read: got %q, %v", got, err)
	}
	if _, err := acc.CalculateCapacity(n, 1); !errors.Is(err, ErrCorruptLayout) {
		t.Errorf("Expected ErrCorruptLayout from capacity, got %v", err)
	}
}

// A failed compaction must leave the page exactly as it was.
func TestCorruptNodeIsNotCompacted(t *testing.T) {
	acc, n := sizedNodeWithTwo(t)
	mustAllocate(t, acc, n, 2, []byte("third"))
	if err := acc.DeallocateEntry(n, 1); err != nil {
		t.Fatalf("Failed to deallocate: %v", err)
	}

	// Overlap the two survivors.
	le := binary.LittleEndian
	le.PutUint16(n.data[8:], le.Uint16(n.data[4:])-1)
	before := bytes.Clone(n.data)

	if err := acc.Compact(n); !errors.Is(err, ErrCorruptLayout) {
		t.Fatalf("Expected ErrCorruptLayout from Compact, got %v", err)
	}
	if !bytes.Equal(before, n.data) {
		t.Errorf("Compact modified a corrupt node")
	}
}

func TestCorruptSizerPrefix(t *testing.T) {
	acc, n := newHeapNode(t, smallLayout(64), Uint16Prefixed(binary.LittleEndian))
	mustAllocate(t, acc, n, 0, []byte{3, 0, 'a', 'b', 'c'})

	off, err := acc.EntryOffset(n, 0)
	if err != nil {
		t.Fatalf("Failed to read offset: %v", err)
	}
	binary.LittleEndian.PutUint16(n.data[off:], 500)

	if _, err := acc.GetEntryForRead(n, 0); !errors.Is(err, ErrCorruptLayout) {
		t.Errorf("Expected ErrCorruptLayout for oversized prefix, got %v", err)
	}
	if _, err := acc.Validate(n); !errors.Is(err, ErrCorruptLayout) {
		t.Errorf("Expected ErrCorruptLayout from Validate, got %v", err)
	}
}

func TestValidateReport(t *testing.T) {
	acc, n := sizedNodeWithTwo(t)

	report, err := acc.Validate(n)
	if err != nil {
		t.Fatalf("Failed to validate: %v", err)
	}
	// 64 - header 4 - 2 slots*4 - 11 live bytes
	want := Report{
		Format:              types.FormatHeapSized,
		EntryCount:          2,
		LiveBytes:           11,
		BytesFree:           41,
		BytesFreeContiguous: 41,
	}
	if report != want {
		t.Errorf("Report mismatch:\n  expected %+v\n  got      %+v", want, report)
	}
}

func TestOpenDispatchesOnFormatTag(t *testing.T) {
	layout := smallLayout(64)
	sizer := FixedWidth(4)

	heap, heapNode := newHeapNode(t, layout, sizer)
	mustAllocate(t, heap, heapNode, 0, []byte("heap"))
	_, sizedNode := newSizedNode(t, layout)

	acc, err := Open(layout, sizer, NodeForRead(heapNode.data))
	if err != nil {
		t.Fatalf("Failed to open heap node: %v", err)
	}
	if acc.Format() != types.FormatHeap {
		t.Errorf("Expected heap accessor, got %s", acc.Format())
	}
	if got, _ := acc.GetEntryForRead(NodeForRead(heapNode.data), 0); string(got) != "heap" {
		t.Errorf("Dispatched accessor read %q", got)
	}

	acc, err = Open(layout, nil, sizedNode)
	if err != nil {
		t.Fatalf("Failed to open sized node: %v", err)
	}
	if acc.Format() != types.FormatHeapSized {
		t.Errorf("Expected heap-sized accessor, got %s", acc.Format())
	}

	if _, err := Open(layout, nil, heapNode); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Heap node without sizer: expected ErrInvalidLayout, got %v", err)
	}
	if _, err := Open(layout, sizer, NodeForRead(make([]byte, 64))); !errors.Is(err, ErrCorruptLayout) {
		t.Errorf("Zeroed page: expected ErrCorruptLayout, got %v", err)
	}
	if _, err := Open(layout, sizer, NodeForRead(make([]byte, 32))); !errors.Is(err, ErrPageSize) {
		t.Errorf("Short buffer: expected ErrPageSize, got %v", err)
	}
}
