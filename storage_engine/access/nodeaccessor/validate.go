package nodeaccessor

// Validate walks the header and every slot of a page loaded from storage and
// reports ErrCorruptLayout if any of these fail:
//
//   - the format tag matches the accessor
//   - the offset index fits in the page
//   - every entry starts past the offset index and ends inside the page
//   - no two entries overlap
//
// The node is not modified.
func (a *HeapNodeAccessor) Validate(n *Node) (Report, error) {
	count, err := a.checkNode(n)
	if err != nil {
		return Report{}, err
	}

	entries, err := a.collectEntries(n, count)
	if err != nil {
		return Report{}, err
	}

	floor := a.layout.PageSize
	live := 0
	for _, e := range entries {
		live += e.length
		if e.offset < floor {
			floor = e.offset
		}
	}

	return Report{
		Format:              a.format,
		EntryCount:          count,
		LiveBytes:           live,
		BytesFree:           a.layout.PageSize - a.indexEnd(count) - live,
		BytesFreeContiguous: floor - a.indexEnd(count),
	}, nil
}
