package nodeaccessor

import (
	"encoding/binary"
	"fmt"
)

// Sizer recovers an entry's length from its stored bytes. Heap nodes with
// 2-byte slots do not record lengths, so the tree layer must store entries in
// a self-describing encoding and hand the accessor the matching Sizer.
//
// stored runs from the entry's first byte to the end of the page.
type Sizer interface {
	EntrySize(stored []byte) (int, error)
}

// SizerFunc adapts a function to Sizer.
type SizerFunc func(stored []byte) (int, error)

func (f SizerFunc) EntrySize(stored []byte) (int, error) {
	return f(stored)
}

// FixedWidth treats every entry as exactly width bytes.
func FixedWidth(width int) Sizer {
	return SizerFunc(func(stored []byte) (int, error) {
		if width > len(stored) {
			return 0, fmt.Errorf("fixed width %d exceeds %d remaining bytes", width, len(stored))
		}
		return width, nil
	})
}

// Uint16Prefixed reads a 2-byte payload length; the entry is prefix + payload.
func Uint16Prefixed(order binary.ByteOrder) Sizer {
	return SizerFunc(func(stored []byte) (int, error) {
		if len(stored) < 2 {
			return 0, fmt.Errorf("length prefix truncated")
		}
		return 2 + int(order.Uint16(stored)), nil
	})
}

// UvarintPrefixed reads a uvarint payload length; the entry is prefix + payload.
func UvarintPrefixed() Sizer {
	return SizerFunc(func(stored []byte) (int, error) {
		v, k := binary.Uvarint(stored)
		if k <= 0 {
			return 0, fmt.Errorf("malformed uvarint length prefix")
		}
		if v > uint64(len(stored)) {
			return 0, fmt.Errorf("payload length %d exceeds %d remaining bytes", v, len(stored))
		}
		return k + int(v), nil
	})
}
