package nodeaccessor

import (
	"SlotDB/types"
	"fmt"
)

// AccessorFor returns the accessor for a node format. The format set is closed;
// sizer is only consulted for FormatHeap.
func AccessorFor(format types.NodeFormat, layout Layout, sizer Sizer) (NodeAccessor, error) {
	var (
		acc *HeapNodeAccessor
		err error
	)
	switch format {
	case types.FormatHeap:
		acc, err = NewHeapNodeAccessor(layout, sizer)
	case types.FormatHeapSized:
		acc, err = NewSizedHeapNodeAccessor(layout)
	default:
		return nil, fmt.Errorf("%w: unknown node format tag %d", ErrCorruptLayout, uint8(format))
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Open picks the accessor for a node from the format tag in its header.
func Open(layout Layout, sizer Sizer, n *Node) (NodeAccessor, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if n.Len() != layout.PageSize {
		return nil, fmt.Errorf("%w: buffer is %d bytes, layout expects %d", ErrPageSize, n.Len(), layout.PageSize)
	}
	return AccessorFor(getFormat(n), layout, sizer)
}
