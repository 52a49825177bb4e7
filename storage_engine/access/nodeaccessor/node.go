package nodeaccessor

import (
	"SlotDB/types"
	"encoding/binary"
)

/*
Node header binary layout (byte order from Layout.Order):

	Offset  Size  Field
	────────────────────────────────────────────
	0       1     Format      uint8   types.NodeFormat
	1       1     reserved    uint8   always 0
	2       2     EntryCount  uint16  live slots
	────────────────────────────────────────────
	4             types.NodeHeaderSize
*/
const (
	nodeOffFormat     = 0
	nodeOffReserved   = 1
	nodeOffEntryCount = 2
)

// Node is a borrowed view of one page buffer. It carries the access mode the
// buffer was pinned with and nothing else; the buffer pool keeps ownership.
type Node struct {
	data     []byte
	writable bool
}

// NodeForRead wraps a buffer pinned for read. Mutating calls fail with ErrReadOnly.
func NodeForRead(buf []byte) *Node {
	return &Node{data: buf}
}

// NodeForWrite wraps a buffer pinned exclusively for write.
func NodeForWrite(buf []byte) *Node {
	return &Node{data: buf, writable: true}
}

func (n *Node) Writable() bool {
	return n.writable
}

// Bytes exposes the raw page. Callers holding a read node must not modify it.
func (n *Node) Bytes() []byte {
	return n.data
}

// Len is the size of the underlying buffer.
func (n *Node) Len() int {
	return len(n.data)
}

// ─────────────────────────────────────────────────────────────────────────────
// Header accessors
// ─────────────────────────────────────────────────────────────────────────────

func getFormat(n *Node) types.NodeFormat {
	return types.NodeFormat(n.data[nodeOffFormat])
}

func getEntryCount(n *Node, order binary.ByteOrder) int {
	return int(order.Uint16(n.data[nodeOffEntryCount:]))
}

func setEntryCount(n *Node, order binary.ByteOrder, count int) {
	order.PutUint16(n.data[nodeOffEntryCount:], uint16(count))
}

func stampHeader(n *Node, order binary.ByteOrder, format types.NodeFormat) {
	n.data[nodeOffFormat] = byte(format)
	n.data[nodeOffReserved] = 0
	setEntryCount(n, order, 0)
}
