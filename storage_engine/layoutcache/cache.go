// Package layoutcache remembers which page images already passed layout
// validation, so identical or unchanged pages are walked once.
//
// Entries are keyed by an xxhash of the accessor's layout (format, page size,
// reserved bytes, byte order) followed by the full page, so any change to the
// page or the layout misses. The Sizer is not part of the key: share a Cache
// only between accessors that measure FormatHeap entries the same way.
package layoutcache

import (
	"SlotDB/storage_engine/access/nodeaccessor"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
)

type Cache struct {
	reports *ristretto.Cache[uint64, nodeaccessor.Report]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// Stats counts lookups since the cache was created. Every miss is one Validate call.
type Stats struct {
	Hits   uint64
	Misses uint64
}

var _ nodeaccessor.Validator = (*Cache)(nil).Check

// New creates a cache holding up to maxPages validated reports.
func New(maxPages int64) (*Cache, error) {
	if maxPages <= 0 {
		return nil, fmt.Errorf("layout cache size must be positive, got %d", maxPages)
	}
	reports, err := ristretto.NewCache(&ristretto.Config[uint64, nodeaccessor.Report]{
		NumCounters:        maxPages * 10,
		MaxCost:            maxPages,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create layout cache: %w", err)
	}
	return &Cache{reports: reports}, nil
}

// Check returns the validation report for n, validating through acc on a
// miss. Corrupt pages are reported every time and never cached. A report
// stored by one Check is visible to the next.
func (c *Cache) Check(acc nodeaccessor.NodeAccessor, n *nodeaccessor.Node) (nodeaccessor.Report, error) {
	key := pageKey(acc, n)

	if report, ok := c.reports.Get(key); ok {
		c.hits.Add(1)
		return report, nil
	}
	c.misses.Add(1)

	report, err := acc.Validate(n)
	if err != nil {
		return nodeaccessor.Report{}, err
	}
	if c.reports.Set(key, report, 1) {
		c.reports.Wait()
	}
	return report, nil
}

func pageKey(acc nodeaccessor.NodeAccessor, n *nodeaccessor.Node) uint64 {
	layout := acc.Layout()

	var prefix [9]byte
	prefix[0] = byte(acc.Format())
	binary.LittleEndian.PutUint32(prefix[1:], uint32(layout.PageSize))
	binary.LittleEndian.PutUint32(prefix[5:], uint32(layout.ReservedBytes))

	d := xxhash.New()
	d.Write(prefix[:])
	d.WriteString(layout.Order.String())
	d.Write(n.Bytes())
	return d.Sum64()
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.reports.Close()
}
