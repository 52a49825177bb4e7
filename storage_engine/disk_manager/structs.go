package diskmanager

import (
	"io"
	"sync"
)

// ############################################# DISK MANAGER #############################################

// DiskManager owns one file of fixed-size node pages.
// Page i lives at byte offset i*pageSize; there is no file header.
type DiskManager struct {
	file       pageFile
	filePath   string
	pageSize   int
	nextPageID int64 // pages [0, nextPageID) exist in the file
	mu         sync.RWMutex
}

// pageFile is the part of *os.File the disk manager uses.
type pageFile interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}
