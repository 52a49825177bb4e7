package page

import (
	"SlotDB/storage_engine/access/nodeaccessor"
	"SlotDB/types"
	"sync"
)

/*
Page is the frame a buffer pool hands out. The pool owns Data and its
lifetime; node accessors only borrow it through ForRead / ForWrite for the
duration of one call.

Pinning and latching policy belong to the pool. The RW mutex is here so a
pool can let many readers share a frame while a single writer mutates it:

	pg.RLock(); n := pg.ForRead(); ...; pg.RUnlock()
	pg.Lock();  n := pg.ForWrite(); ...; pg.Unlock()
*/
type Page struct {
	ID       int64
	Data     []byte
	IsDirty  bool
	PinCount int32
	mu       sync.RWMutex
}

// NewPage allocates a zeroed frame of the given size.
func NewPage(pageID int64, pageSize int) *Page {
	return &Page{
		ID:   pageID,
		Data: make([]byte, pageSize),
	}
}

// Format reports the node format tag stamped in the frame.
func (p *Page) Format() types.NodeFormat {
	if len(p.Data) == 0 {
		return types.FormatUnknown
	}
	return types.NodeFormat(p.Data[0])
}

// ForRead returns an immutable node view over the frame.
func (p *Page) ForRead() *nodeaccessor.Node {
	return nodeaccessor.NodeForRead(p.Data)
}

// ForWrite returns a mutable node view and marks the frame dirty.
func (p *Page) ForWrite() *nodeaccessor.Node {
	p.IsDirty = true
	return nodeaccessor.NodeForWrite(p.Data)
}

func (p *Page) Lock() {
	p.mu.Lock()
}

func (p *Page) Unlock() {
	p.mu.Unlock()
}

func (p *Page) RLock() {
	p.mu.RLock()
}

func (p *Page) RUnlock() {
	p.mu.RUnlock()
}
