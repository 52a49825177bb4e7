// Node inspection for debugging.
// Use InspectNode(w, acc, node, validate) to print a human-readable dump of one node page.

package nodeaccessor

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

const previewBytes = 8

// Validator produces the layout report for a node. (*layoutcache.Cache).Check
// satisfies it, as does a wrapper around NodeAccessor.Validate.
type Validator func(acc NodeAccessor, n *Node) (Report, error)

func validateDirect(acc NodeAccessor, n *Node) (Report, error) {
	return acc.Validate(n)
}

// InspectNode writes the header, slot table and space usage of a node to w and
// returns the layout report. validate is called exactly once; nil means
// acc.Validate. Corrupt slots are printed with their error rather than
// aborting the dump, and a failed validation is both printed and returned.
func InspectNode(w io.Writer, acc NodeAccessor, n *Node, validate Validator) (Report, error) {
	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }
	if validate == nil {
		validate = validateDirect
	}

	count, err := acc.EntryCount(n)
	if err != nil {
		p("  error: %v\n", err)
		return Report{}, err
	}

	layout := acc.Layout()
	p("  format=%s page=%s entries=%d slotOverhead=%dB\n",
		acc.Format(), humanize.IBytes(uint64(layout.PageSize)), count, acc.GetEntryByteCount(0))

	locator, hasOffsets := acc.(interface {
		EntryOffset(n *Node, slot int) (int, error)
	})

	for i := 0; i < count; i++ {
		entry, err := acc.GetEntryForRead(n, i)
		if err != nil {
			p("    [%3d] error: %v\n", i, err)
			continue
		}
		if hasOffsets {
			off, err := locator.EntryOffset(n, i)
			if err != nil {
				p("    [%3d] error: %v\n", i, err)
				continue
			}
			p("    [%3d] off=%-5d len=%-5d %s\n", i, off, len(entry), formatPreview(entry))
		} else {
			p("    [%3d] len=%-5d %s\n", i, len(entry), formatPreview(entry))
		}
	}

	report, err := validate(acc, n)
	if err != nil {
		p("  layout: %v\n", err)
		return Report{}, err
	}
	p("  live=%s free=%s contiguous=%s fragmented=%t\n",
		humanize.Bytes(uint64(report.LiveBytes)),
		humanize.Bytes(uint64(report.BytesFree)),
		humanize.Bytes(uint64(report.BytesFreeContiguous)),
		report.Fragmented())
	return report, nil
}

// formatPreview shows the first bytes of an entry as hex and, when printable, quoted text.
func formatPreview(b []byte) string {
	head := b
	suffix := ""
	if len(head) > previewBytes {
		head = head[:previewBytes]
		suffix = "…"
	}
	for _, c := range head {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("% x%s", head, suffix)
		}
	}
	return fmt.Sprintf("% x%s %q", head, suffix, string(head))
}
