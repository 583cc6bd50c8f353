package relayer

// BlockRange is an inclusive range of destination ledger blocks.
type BlockRange struct {
	Start int64
	End   int64
}

// Len returns the number of blocks in the range.
func (r BlockRange) Len() int64 {
	return r.End - r.Start + 1
}

// Cap shortens the range to at most maxBlocks blocks, keeping Start.
// maxBlocks <= 0 means no cap.
func (r BlockRange) Cap(maxBlocks int64) BlockRange {
	if maxBlocks <= 0 || r.Len() <= maxBlocks {
		return r
	}
	return BlockRange{Start: r.Start, End: r.Start + maxBlocks - 1}
}

// ComputeRange returns the confirmed, not yet scanned blocks given the
// current head. ok is false when there is nothing new past the confirmation
// depth, which is a no-op tick and not an error.
func ComputeRange(currentHeight, lastBlockChecked, confirmations int64) (BlockRange, bool) {
	end := currentHeight - confirmations
	if lastBlockChecked > end {
		return BlockRange{}, false
	}

	start := lastBlockChecked + 1
	if end < start {
		return BlockRange{}, false
	}
	return BlockRange{Start: start, End: end}, true
}
