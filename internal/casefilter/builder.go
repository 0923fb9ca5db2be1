package casefilter

import "github.com/oisee/casefilter/internal/codec"

// Insert appends a keyword to the database, assigning it the next id (the
// current Len()). Only valid while the index is Mutable. The byte slice is
// copied; the caller's slice is not retained.
func (idx *Index) Insert(w []byte) error {
	if idx.st != stateMutable {
		return ErrWrongState
	}
	if len(w) != codec.KeywordLen {
		return ErrBadLength
	}
	if len(idx.keywords) >= MaxKeywords {
		return ErrFull
	}
	kw := make([]byte, codec.KeywordLen)
	copy(kw, w)
	idx.keywords = append(idx.keywords, kw)
	idx.codes = append(idx.codes, codec.PackWord(kw))
	return nil
}

// Finalize builds HIndex and DelIndex over the current keyword set via a
// two-pass CSR construction (count, prefix-sum, fill) and transitions the
// index to Finalized. Only valid while Mutable; calling it twice is a
// programming error (ErrWrongState).
func (idx *Index) Finalize() error {
	if idx.st != stateMutable {
		return ErrWrongState
	}
	idx.buildHIndex()
	idx.buildDelIndex()
	idx.st = stateFinalized
	return nil
}

// buildHIndex runs the two-pass CSR construction for the pair index: each
// keyword contributes exactly codec.NumPairs postings, one per block pair,
// each a bare keyword id. Postings within a slot end up in ascending id
// order because pass 2 walks ids 0..N-1 in order.
func (idx *Index) buildHIndex() {
	numSlots := codec.NumPairs * HKeySpace

	counts := make([]uint32, numSlots)
	for id, kw := range idx.keywords {
		_ = id
		for p := 0; p < codec.NumPairs; p++ {
			slot := hSlot(p, codec.Pack6(codec.PairSubkey(kw, p)))
			counts[slot]++
		}
	}

	offsets := make([]uint32, numSlots+1)
	var total uint32
	for slot, c := range counts {
		offsets[slot] = total
		total += c
	}
	offsets[numSlots] = total

	ids := make([]uint32, total)
	cursor := make([]uint32, numSlots)
	copy(cursor, offsets[:numSlots])

	for id, kw := range idx.keywords {
		for p := 0; p < codec.NumPairs; p++ {
			slot := hSlot(p, codec.Pack6(codec.PairSubkey(kw, p)))
			ids[cursor[slot]] = uint32(id)
			cursor[slot]++
		}
	}

	idx.hCounts = counts
	idx.hOffsets = offsets
	idx.hIDs = ids
}

// buildDelIndex runs the two-pass CSR construction for the deletion index:
// each keyword contributes codec.KeywordLen*2 = 30 payloads (one deletion
// position times left/right half). Within a slot, entries for the same
// keyword id appear in ascending deletion-position order because pass 2
// walks positions 0..14 in order for each id.
func (idx *Index) buildDelIndex() {
	counts := make([]uint32, DKeySpace)

	for _, kw := range idx.keywords {
		for pos := 0; pos < codec.KeywordLen; pos++ {
			left, right := deletedHalves(kw, pos)
			counts[codec.Pack7(left)]++
			counts[codec.Pack7(right)]++
		}
	}

	offsets := make([]uint32, DKeySpace+1)
	var total uint32
	for slot, c := range counts {
		offsets[slot] = total
		total += c
	}
	offsets[DKeySpace] = total

	payload := make([]uint32, total)
	cursor := make([]uint32, DKeySpace)
	copy(cursor, offsets[:DKeySpace])

	for id, kw := range idx.keywords {
		for pos := 0; pos < codec.KeywordLen; pos++ {
			left, right := deletedHalves(kw, pos)
			v := (uint32(pos) << 20) | uint32(id)

			ls := codec.Pack7(left)
			payload[cursor[ls]] = v
			cursor[ls]++

			rs := codec.Pack7(right)
			payload[cursor[rs]] = v
			cursor[rs]++
		}
	}

	idx.dCounts = counts
	idx.dOffsets = offsets
	idx.dPayload = payload
}

// deletedHalves returns the left 7 and right 7 characters of the 14-char
// string obtained by textually deleting kw[pos]. The halves are adjacent,
// non-overlapping 7-character slices of that 14-char string (7|7 split).
func deletedHalves(kw []byte, pos int) (left, right []byte) {
	deleted := make([]byte, 0, codec.KeywordLen-1)
	deleted = append(deleted, kw[:pos]...)
	deleted = append(deleted, kw[pos+1:]...)
	return deleted[:7], deleted[7:14]
}
