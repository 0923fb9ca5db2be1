package casefilter

import (
	"math/rand"
	"testing"

	"github.com/oisee/casefilter/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestFinalizeTotalsMatchInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	keywords := make([]string, 250)
	for i := range keywords {
		keywords[i] = randomKeyword(r)
	}
	idx := buildIndex(t, keywords)
	n := uint32(len(keywords))

	numHSlots := codec.NumPairs * HKeySpace
	require.Equal(t, 10*n, idx.hOffsets[numHSlots])
	require.Equal(t, 30*n, idx.dOffsets[DKeySpace])
}

func TestFinalizeOffsetsAreMonotone(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	keywords := make([]string, 50)
	for i := range keywords {
		keywords[i] = randomKeyword(r)
	}
	idx := buildIndex(t, keywords)

	require.Equal(t, uint32(0), idx.hOffsets[0])
	for i := 1; i < len(idx.hOffsets); i++ {
		require.GreaterOrEqual(t, idx.hOffsets[i], idx.hOffsets[i-1])
	}
	require.Equal(t, uint32(0), idx.dOffsets[0])
	for i := 1; i < len(idx.dOffsets); i++ {
		require.GreaterOrEqual(t, idx.dOffsets[i], idx.dOffsets[i-1])
	}
}

func TestEveryKeywordAppearsExactlyOncePerPair(t *testing.T) {
	keywords := []string{"ABCDEFGHIJABCDE", "JJJJJJJJJJJJJJJ", "AAAAAAAAAAAAAAA"}
	idx := buildIndex(t, keywords)

	for id, kwStr := range keywords {
		kw := []byte(kwStr)
		for p := 0; p < codec.NumPairs; p++ {
			slot := hSlot(p, codec.Pack6(codec.PairSubkey(kw, p)))
			start, end := idx.hOffsets[slot], idx.hOffsets[slot+1]
			count := 0
			for off := start; off < end; off++ {
				if int(idx.hIDs[off]) == id {
					count++
				}
			}
			require.Equal(t, 1, count, "id=%d pair=%d", id, p)
		}
	}
}

func TestEveryKeywordDeletionAppearsExactlyOnceBothHalves(t *testing.T) {
	keywords := []string{"ABCDEFGHIJABCDE", "JJJJJJJJJJJJJJJ"}
	idx := buildIndex(t, keywords)

	for id, kwStr := range keywords {
		kw := []byte(kwStr)
		for pos := 0; pos < codec.KeywordLen; pos++ {
			left, right := deletedHalves(kw, pos)
			want := (uint32(pos) << 20) | uint32(id)

			// When both halves are the same 7-subkey (e.g. "JJJJJJJ"), the
			// left and right payloads land in one posting list together.
			wantCount := 1
			if codec.Pack7(left) == codec.Pack7(right) {
				wantCount = 2
			}
			for _, half := range [][]byte{left, right} {
				slot := codec.Pack7(half)
				start, end := idx.dOffsets[slot], idx.dOffsets[slot+1]
				count := 0
				for off := start; off < end; off++ {
					if idx.dPayload[off] == want {
						count++
					}
				}
				require.Equal(t, wantCount, count, "id=%d pos=%d", id, pos)
			}
		}
	}
}

func TestPostingOrderIsAscendingByID(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	keywords := make([]string, 40)
	for i := range keywords {
		keywords[i] = randomKeyword(r)
	}
	idx := buildIndex(t, keywords)

	touched := make(map[uint32]bool)
	for _, kwStr := range keywords {
		kw := []byte(kwStr)
		for p := 0; p < codec.NumPairs; p++ {
			touched[hSlot(p, codec.Pack6(codec.PairSubkey(kw, p)))] = true
		}
	}
	for slot := range touched {
		start, end := idx.hOffsets[slot], idx.hOffsets[slot+1]
		for off := start + 1; off < end; off++ {
			require.Less(t, idx.hIDs[off-1], idx.hIDs[off])
		}
	}
}

func TestDelPostingOrderIsAscendingByIDThenPos(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	keywords := make([]string, 40)
	for i := range keywords {
		keywords[i] = randomKeyword(r)
	}
	idx := buildIndex(t, keywords)

	touched := make(map[uint32]bool)
	for _, kwStr := range keywords {
		kw := []byte(kwStr)
		for pos := 0; pos < codec.KeywordLen; pos++ {
			left, right := deletedHalves(kw, pos)
			touched[codec.Pack7(left)] = true
			touched[codec.Pack7(right)] = true
		}
	}
	for slot := range touched {
		start, end := idx.dOffsets[slot], idx.dOffsets[slot+1]
		for off := start + 1; off < end; off++ {
			prev := idx.dPayload[off-1]
			cur := idx.dPayload[off]
			prevID, prevPos := prev&0xFFFFF, prev>>20
			curID, curPos := cur&0xFFFFF, cur>>20
			if prevID == curID {
				require.Less(t, prevPos, curPos)
			} else {
				require.Less(t, prevID, curID)
			}
		}
	}
}

func TestInsertRejectsWrongLength(t *testing.T) {
	idx := New()
	require.ErrorIs(t, idx.Insert([]byte("TOOSHORT")), ErrBadLength)
}

func TestInsertRejectsAfterFinalize(t *testing.T) {
	idx := buildIndex(t, []string{"AAAAAAAAAAAAAAA"})
	require.ErrorIs(t, idx.Insert([]byte("BBBBBBBBBBBBBBB")), ErrWrongState)
}

func TestFinalizeRejectsTwice(t *testing.T) {
	idx := buildIndex(t, []string{"AAAAAAAAAAAAAAA"})
	require.ErrorIs(t, idx.Finalize(), ErrWrongState)
}
