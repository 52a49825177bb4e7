package types

const (
	PageSize    = 4096  // 4KB page
	MaxPageSize = 65536 // 16-bit entry offsets cannot address past this

	NodeHeaderSize = 4 // format(1) + reserved(1) + entryCount(2)
	OffsetSlotSize = 2 // heap node slot: offset only
	SizedSlotSize  = 4 // heap-sized node slot: offset(2) + length(2)
)

// NodeFormat is the tag stored in byte 0 of every node page. It selects the
// accessor used to interpret the rest of the page.
type NodeFormat uint8

const (
	FormatUnknown NodeFormat = iota
	FormatHeap
	FormatHeapSized
)

func (f NodeFormat) String() string {
	switch f {
	case FormatHeap:
		return "heap"
	case FormatHeapSized:
		return "heap-sized"
	default:
		return "unknown"
	}
}

// SlotWidth returns the offset index slot size for the format, or 0 when the
// format is not a known node layout.
func (f NodeFormat) SlotWidth() int {
	switch f {
	case FormatHeap:
		return OffsetSlotSize
	case FormatHeapSized:
		return SizedSlotSize
	default:
		return 0
	}
}
