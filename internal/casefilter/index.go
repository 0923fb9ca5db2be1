package casefilter

import "github.com/oisee/casefilter/internal/codec"

// Index owns every array backing the keyword database, the nibble-code
// table, and (once finalized) the two CSR posting tables. Apart from Parts and
// FromParts, which alias the backing slices for internal/wire, no array is
// shared with a caller. The zero value is an empty Mutable index, the same
// as New returns.
type Index struct {
	st state

	keywords [][]byte // codec.KeywordLen bytes each, in insertion order
	codes    []uint64 // codes[i] == codec.PackWord(keywords[i])

	// Case A: pair index. Slot address for pair p, subkey s is
	// codec.Pack6(s) + p*HKeySpace.
	hCounts  []uint32 // len NumPairs*HKeySpace
	hOffsets []uint32 // len NumPairs*HKeySpace + 1
	hIDs     []uint32 // len hOffsets[len(hOffsets)-1]; keyword ids

	// Case B: deletion index. Slot address is codec.Pack7(subkey).
	dCounts  []uint32 // len DKeySpace
	dOffsets []uint32 // len DKeySpace + 1
	// payload: (delPos<<20)|id, written in dPayload[dOffsets[slot]:dOffsets[slot+1]]
	dPayload []uint32
}

// New returns an empty Mutable index ready for Insert.
func New() *Index {
	return &Index{st: stateMutable}
}

// Len returns the number of keywords currently held (N).
func (idx *Index) Len() int {
	return len(idx.keywords)
}

// Keyword returns a copy of the stored bytes for keyword id, for callers
// that need to report which string matched outside the core's boolean
// contract (the core itself never does this — spec non-goal).
func (idx *Index) Keyword(id int) []byte {
	out := make([]byte, codec.KeywordLen)
	copy(out, idx.keywords[id])
	return out
}

// hSlot returns the HIndex slot address for pair id p and an already-packed
// 6-subkey value.
func hSlot(p int, subkey6 uint32) uint32 {
	return subkey6 + uint32(p)*HKeySpace
}
