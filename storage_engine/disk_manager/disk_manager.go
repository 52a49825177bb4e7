package diskmanager

import (
	"SlotDB/logging"
	"SlotDB/storage_engine/page"
	"SlotDB/types"
	"errors"
	"fmt"
	"io"
	"os"
)

/*
DiskManager reads and writes raw node pages. It does not cache, pin or
interpret them: callers hand the returned frames to an accessor, and the
buffer pool (outside this module) decides when frames go back to disk.
*/

// OpenDiskManager opens or creates a page file. A trailing partial page is
// counted as a page and zero-padded on read.
func OpenDiskManager(filePath string, pageSize int) (*DiskManager, error) {
	if pageSize <= 0 || pageSize > types.MaxPageSize {
		return nil, fmt.Errorf("page size %d outside (0, %d]", pageSize, types.MaxPageSize)
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file %s: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat page file: %w", err)
	}

	numPages := (stat.Size() + int64(pageSize) - 1) / int64(pageSize)

	logging.GetLogger().Info("page file opened", "path", filePath, "page_size", pageSize, "pages", numPages)

	return &DiskManager{
		file:       file,
		filePath:   filePath,
		pageSize:   pageSize,
		nextPageID: numPages,
	}, nil
}

func (dm *DiskManager) PageSize() int {
	return dm.pageSize
}

// ReadPage reads page pageID into a fresh frame.
func (dm *DiskManager) ReadPage(pageID int64) (*page.Page, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.file == nil {
		return nil, fmt.Errorf("page file is closed")
	}
	if pageID < 0 || pageID >= dm.nextPageID {
		return nil, fmt.Errorf("page %d out of range (pages=%d)", pageID, dm.nextPageID)
	}

	pg := page.NewPage(pageID, dm.pageSize)
	// A short read at end of file leaves the rest of the frame zero.
	if _, err := dm.file.ReadAt(pg.Data, pageID*int64(dm.pageSize)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read page %d: %w", pageID, err)
	}

	return pg, nil
}

// WritePage writes a frame back to its slot in the file and clears its dirty flag.
func (dm *DiskManager) WritePage(pg *page.Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return fmt.Errorf("page file is closed")
	}
	if len(pg.Data) != dm.pageSize {
		return fmt.Errorf("page data size %d does not match page size %d", len(pg.Data), dm.pageSize)
	}
	if pg.ID < 0 {
		return fmt.Errorf("invalid page id %d", pg.ID)
	}

	if _, err := dm.file.WriteAt(pg.Data, pg.ID*int64(dm.pageSize)); err != nil {
		return fmt.Errorf("failed to write page %d: %w", pg.ID, err)
	}

	if pg.ID >= dm.nextPageID {
		dm.nextPageID = pg.ID + 1
	}
	pg.IsDirty = false
	return nil
}

// AllocatePage extends the file by one zeroed page and returns its frame.
func (dm *DiskManager) AllocatePage() (*page.Page, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil, fmt.Errorf("page file is closed")
	}

	pg := page.NewPage(dm.nextPageID, dm.pageSize)
	if _, err := dm.file.WriteAt(pg.Data, pg.ID*int64(dm.pageSize)); err != nil {
		return nil, fmt.Errorf("failed to allocate page %d: %w", pg.ID, err)
	}
	dm.nextPageID++
	return pg, nil
}

// NumPages returns the number of pages in the file.
func (dm *DiskManager) NumPages() int64 {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.nextPageID
}

// Sync flushes pending writes to disk
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return fmt.Errorf("page file is closed")
	}
	return dm.file.Sync()
}

// Close syncs and closes the file. Closing twice is a no-op.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil
	}

	if err := dm.file.Sync(); err != nil {
		dm.file.Close()
		dm.file = nil
		return fmt.Errorf("failed to sync before close: %w", err)
	}

	err := dm.file.Close()
	dm.file = nil
	logging.GetLogger().Info("page file closed", "path", dm.filePath)
	return err
}
