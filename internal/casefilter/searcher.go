package casefilter

import (
	"sort"

	"github.com/oisee/casefilter/internal/bits"
	"github.com/oisee/casefilter/internal/codec"
)

// Searcher evaluates queries against one Finalized/Loaded Index. It owns a
// visited buffer and a monotonic generation counter, giving each Search call
// an O(1) "clear" by bumping the generation instead of rewriting the buffer
// (spec's visited-generation trick). A Searcher is bound to exactly one
// Index and must not be shared across indexes of differing N without a
// Reset — spec.md §5 requires this binding to be per-caller, never
// process-global.
type Searcher struct {
	idx     *Index
	visited []uint32
	gen     uint32
}

// NewSearcher returns a Searcher bound to idx. idx must be Finalized or
// Loaded; calling Search before then is a programming error.
func NewSearcher(idx *Index) *Searcher {
	return &Searcher{
		idx:     idx,
		visited: make([]uint32, idx.Len()),
	}
}

// Reset rebinds the searcher to a new index, resizing and zeroing the
// visited buffer if the new index is larger. Use this instead of
// constructing a new Searcher when reusing one across indexes, per the
// spec's "resize and zero when a larger N appears" requirement.
func (s *Searcher) Reset(idx *Index) {
	s.idx = idx
	if cap(s.visited) < idx.Len() {
		s.visited = make([]uint32, idx.Len())
	} else {
		s.visited = s.visited[:idx.Len()]
		for i := range s.visited {
			s.visited[i] = 0
		}
	}
	s.gen = 0
}

// nextGen advances the generation counter, zeroing the visited buffer on the
// rare wraparound of a uint32 generation.
func (s *Searcher) nextGen() uint32 {
	s.gen++
	if s.gen == 0 {
		for i := range s.visited {
			s.visited[i] = 0
		}
		s.gen = 1
	}
	return s.gen
}

func (s *Searcher) isVisited(id uint32) bool {
	return s.visited[id] == s.gen
}

func (s *Searcher) markVisited(id uint32) {
	s.visited[id] = s.gen
}

// candidate is one of the ten block-pair posting lists gathered in Phase A,
// kept alongside its length so the ten can be processed shortest-first.
type candidate struct {
	pairID int
	start  uint32
	length uint32
}

// Search returns true iff some keyword in the bound index has Levenshtein
// distance <= k from query. query must be codec.KeywordLen bytes and k must
// be in [0,3]; a query of the wrong length returns false without touching
// the index (spec's InvalidInput contract — never an error).
func (s *Searcher) Search(query []byte, k int) bool {
	if len(query) != codec.KeywordLen {
		return false
	}
	if s.idx.Len() == 0 {
		return false
	}

	qcode := codec.PackWord(query)

	if s.searchPhaseA(query, qcode, k) {
		return true
	}
	return s.searchPhaseB(query, qcode, k)
}

// searchPhaseA handles indel=0 (pure substitution): enumerate the ten
// block-pair subkeys of the query, process their posting lists shortest-
// first, and Hamming-check each unvisited candidate exactly once.
func (s *Searcher) searchPhaseA(query []byte, qcode uint64, k int) bool {
	s.nextGen()

	cands := make([]candidate, codec.NumPairs)
	for p := 0; p < codec.NumPairs; p++ {
		subkey := codec.PairSubkey(query, p)
		slot := hSlot(p, codec.Pack6(subkey))
		start := s.idx.hOffsets[slot]
		end := s.idx.hOffsets[slot+1]
		cands[p] = candidate{pairID: p, start: start, length: end - start}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].length != cands[j].length {
			return cands[i].length < cands[j].length
		}
		return cands[i].pairID < cands[j].pairID
	})

	for _, c := range cands {
		for off := c.start; off < c.start+c.length; off++ {
			id := s.idx.hIDs[off]
			if s.isVisited(id) {
				continue
			}
			s.markVisited(id)
			if bits.Hamming15(qcode, s.idx.codes[id]) <= k {
				return true
			}
		}
	}
	return false
}

// searchPhaseB handles indel=1 (one deletion + one insertion, plus at most
// one substitution): for every deletion position of the query, look up both
// halves of the resulting 14-char string in the deletion index and check
// the 2 + Hamming14 bound. Marking here happens only on success, since the
// evaluated Hamming depends on which (query-pos, keyword-pos) pair produced
// the candidate — a failed check under one pairing says nothing about
// another.
func (s *Searcher) searchPhaseB(query []byte, qcode uint64, k int) bool {
	s.nextGen()
	if k < 2 {
		return false
	}

	deleted := make([]byte, 0, codec.KeywordLen-1)
	for pos := 0; pos < codec.KeywordLen; pos++ {
		qdel := codec.DeleteNibble(qcode, pos)

		deleted = deleted[:0]
		deleted = append(deleted, query[:pos]...)
		deleted = append(deleted, query[pos+1:]...)
		leftSlot := codec.Pack7(deleted[:7])
		rightSlot := codec.Pack7(deleted[7:14])

		if s.scanDelSlot(leftSlot, qdel, k) {
			return true
		}
		if s.scanDelSlot(rightSlot, qdel, k) {
			return true
		}
	}
	return false
}

// scanDelSlot walks one deletion-index posting list, evaluating each
// unvisited candidate's 14-nibble Hamming distance against the query's own
// deletion at qdelCode.
func (s *Searcher) scanDelSlot(slot uint32, qdelCode uint64, k int) bool {
	start := s.idx.dOffsets[slot]
	end := s.idx.dOffsets[slot+1]
	for off := start; off < end; off++ {
		v := s.idx.dPayload[off]
		id := v & 0xFFFFF
		kwDelPos := int((v >> 20) & 0xF)

		if s.isVisited(id) {
			continue
		}
		kwDelCode := codec.DeleteNibble(s.idx.codes[id], kwDelPos)
		if 2+bits.Hamming14(qdelCode, kwDelCode) <= k {
			s.markVisited(id)
			return true
		}
	}
	return false
}
