package casefilter

import "github.com/oisee/casefilter/internal/codec"

// Parts exposes the finalized CSR arrays an Index owns, for internal/wire's
// serializer. The returned slices alias the index's own storage — wire reads
// them but must not retain or mutate them past the call.
type Parts struct {
	Keywords [][]byte
	HCounts  []uint32
	HOffsets []uint32
	HIDs     []uint32
	DCounts  []uint32
	DOffsets []uint32
	DPayload []uint32
}

// Parts returns idx's backing arrays for serialization. Only valid on a
// Finalized or Loaded index.
func (idx *Index) Parts() Parts {
	return Parts{
		Keywords: idx.keywords,
		HCounts:  idx.hCounts,
		HOffsets: idx.hOffsets,
		HIDs:     idx.hIDs,
		DCounts:  idx.dCounts,
		DOffsets: idx.dOffsets,
		DPayload: idx.dPayload,
	}
}

// FromParts reconstructs a Finalized index directly from on-disk-loaded CSR
// arrays and a keyword list, recomputing the nibble-code table (the spec
// does not persist it). This is the loader's entry point; it performs no
// validation of its own beyond recomputing codes — internal/wire is
// responsible for validating the bytes it decoded before calling this.
func FromParts(keywords [][]byte, hCounts, hOffsets, hIDs, dCounts, dOffsets, dPayload []uint32) *Index {
	codes := make([]uint64, len(keywords))
	for i, kw := range keywords {
		codes[i] = codec.PackWord(kw)
	}
	return &Index{
		st:       stateFinalized,
		keywords: keywords,
		codes:    codes,
		hCounts:  hCounts,
		hOffsets: hOffsets,
		hIDs:     hIDs,
		dCounts:  dCounts,
		dOffsets: dOffsets,
		dPayload: dPayload,
	}
}
