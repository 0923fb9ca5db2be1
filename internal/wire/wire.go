// Package wire implements the on-disk format for a finalized casefilter
// index: a deterministic, little-endian byte layout with adaptive count
// width and 24-bit payload compaction, as specified in spec.md §6.1. This is
// the cross-implementation contract — every field, order, and width below is
// load-bearing, not an implementation choice.
package wire

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/oisee/casefilter/internal/casefilter"
	"github.com/oisee/casefilter/internal/codec"
	"github.com/pkg/errors"
)

// Sentinel errors for LoadCorruption (spec.md §7): a short read, a
// total_ids/prefix-sum mismatch, or an unsupported count_bits value. Load
// always wraps one of these with github.com/pkg/errors so callers can both
// errors.Is against the sentinel and print human-readable context.
var (
	ErrShortRead     = errors.New("wire: unexpected end of stream")
	ErrCountMismatch = errors.New("wire: total_ids does not match prefix sum of counts")
	ErrBadWidth      = errors.New("wire: unsupported count_bits (want 16 or 32)")
	ErrBadKeySpace   = errors.New("wire: key_space does not match expected value")
	ErrBadPairCount  = errors.New("wire: pair_count does not match expected value")
)

const (
	hKeySpace  = casefilter.HKeySpace
	dKeySpace  = casefilter.DKeySpace
	numPairs   = codec.NumPairs
	keywordLen = codec.KeywordLen
	recordLen  = keywordLen + 1 // 15 chars + trailing NUL
)

// Save writes idx's on-disk form to w: keyword count, keyword bytes, then
// the HIndex and DelIndex CSR blocks, each with adaptive count width and
// 3-byte payload packing. idx must be Finalized or Loaded.
func Save(w io.Writer, idx *casefilter.Index) error {
	bw := bufio.NewWriter(w)
	parts := idx.Parts()

	n := int32(len(parts.Keywords))
	if err := binary.Write(bw, binary.LittleEndian, n); err != nil {
		return errors.Wrap(err, "wire: write keyword count")
	}
	for _, kw := range parts.Keywords {
		var rec [recordLen]byte
		copy(rec[:keywordLen], kw)
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrap(err, "wire: write keyword record")
		}
	}

	if err := writeBlock(bw, int32(hKeySpace), int32(numPairs), parts.HCounts, parts.HIDs); err != nil {
		return errors.Wrap(err, "wire: write HIndex block")
	}
	if err := writeBlock(bw, int32(dKeySpace), 0, parts.DCounts, parts.DPayload); err != nil {
		return errors.Wrap(err, "wire: write DelIndex block")
	}

	return bw.Flush()
}

// writeBlock writes one CSR block: key_space, an optional pair_count (0 to
// omit, used for the DelIndex block which has none per spec.md §6.1),
// count_bits, counts at that width, total_ids, then 3-byte payloads.
func writeBlock(w *bufio.Writer, keySpace, pairCount int32, counts, payload []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, keySpace); err != nil {
		return err
	}
	if pairCount != 0 {
		if err := binary.Write(w, binary.LittleEndian, pairCount); err != nil {
			return err
		}
	}

	bits := countBits(counts)
	if err := w.WriteByte(bits); err != nil {
		return err
	}
	if err := writeCounts(w, counts, bits); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, int32(len(payload))); err != nil {
		return err
	}
	return writePayload(w, payload)
}

// countBits returns 16 if every count fits in 16 bits, else 32.
func countBits(counts []uint32) uint8 {
	for _, c := range counts {
		if c > 0xFFFF {
			return 32
		}
	}
	return 16
}

func writeCounts(w *bufio.Writer, counts []uint32, bits uint8) error {
	if bits == 16 {
		buf := make([]byte, 2)
		for _, c := range counts {
			binary.LittleEndian.PutUint16(buf, uint16(c))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
		return nil
	}
	buf := make([]byte, 4)
	for _, c := range counts {
		binary.LittleEndian.PutUint32(buf, c)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func writePayload(w *bufio.Writer, payload []uint32) error {
	buf := make([]byte, 3)
	for _, v := range payload {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a serialized index from r, validating key_space, pair_count,
// count_bits, and the total_ids/prefix-sum cross-check. Any failure returns
// a wrapped sentinel error (spec.md's LoadCorruption) with no partial index
// returned.
func Load(r io.Reader) (*casefilter.Index, error) {
	br := bufio.NewReader(r)

	var n int32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrap(ErrShortRead, "wire: read keyword count")
	}

	keywords := make([][]byte, n)
	rec := make([]byte, recordLen)
	for i := int32(0); i < n; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, errors.Wrap(ErrShortRead, "wire: read keyword record")
		}
		kw := make([]byte, keywordLen)
		copy(kw, rec[:keywordLen])
		keywords[i] = kw
	}

	hCounts, hIDs, err := readBlock(br, hKeySpace, numPairs)
	if err != nil {
		return nil, errors.Wrap(err, "wire: read HIndex block")
	}
	dCounts, dPayload, err := readBlock(br, dKeySpace, 0)
	if err != nil {
		return nil, errors.Wrap(err, "wire: read DelIndex block")
	}

	hOffsets := prefixSum(hCounts)
	dOffsets := prefixSum(dCounts)

	return casefilter.FromParts(keywords, hCounts, hOffsets, hIDs, dCounts, dOffsets, dPayload), nil
}

// readBlock reads one CSR block and validates key_space, pair_count (when
// wantPairCount != 0), count_bits, and the total_ids/prefix-sum cross-check.
func readBlock(r *bufio.Reader, wantKeySpace, wantPairCount int) (counts []uint32, payload []uint32, err error) {
	var keySpace int32
	if err := binary.Read(r, binary.LittleEndian, &keySpace); err != nil {
		return nil, nil, errors.Wrap(ErrShortRead, "read key_space")
	}
	if int(keySpace) != wantKeySpace {
		return nil, nil, errors.Wrapf(ErrBadKeySpace, "got %d want %d", keySpace, wantKeySpace)
	}

	numSlots := wantKeySpace
	if wantPairCount != 0 {
		var pairCount int32
		if err := binary.Read(r, binary.LittleEndian, &pairCount); err != nil {
			return nil, nil, errors.Wrap(ErrShortRead, "read pair_count")
		}
		if int(pairCount) != wantPairCount {
			return nil, nil, errors.Wrapf(ErrBadPairCount, "got %d want %d", pairCount, wantPairCount)
		}
		numSlots = wantKeySpace * wantPairCount
	}

	bits, err := r.ReadByte()
	if err != nil {
		return nil, nil, errors.Wrap(ErrShortRead, "read count_bits")
	}
	if bits != 16 && bits != 32 {
		return nil, nil, errors.Wrapf(ErrBadWidth, "got %d", bits)
	}

	counts, err = readCounts(r, numSlots, bits)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read counts")
	}

	var totalIDs int32
	if err := binary.Read(r, binary.LittleEndian, &totalIDs); err != nil {
		return nil, nil, errors.Wrap(ErrShortRead, "read total_ids")
	}

	var sum uint64
	for _, c := range counts {
		sum += uint64(c)
	}
	if sum != uint64(totalIDs) {
		return nil, nil, errors.Wrapf(ErrCountMismatch, "total_ids=%d prefix_sum=%d", totalIDs, sum)
	}

	payload, err = readPayload(r, int(totalIDs))
	if err != nil {
		return nil, nil, errors.Wrap(err, "read payload")
	}
	return counts, payload, nil
}

func readCounts(r *bufio.Reader, numSlots int, bits uint8) ([]uint32, error) {
	counts := make([]uint32, numSlots)
	if bits == 16 {
		buf := make([]byte, 2)
		for i := range counts {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, errors.Wrap(ErrShortRead, "read count")
			}
			counts[i] = uint32(binary.LittleEndian.Uint16(buf))
		}
		return counts, nil
	}
	buf := make([]byte, 4)
	for i := range counts {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(ErrShortRead, "read count")
		}
		counts[i] = binary.LittleEndian.Uint32(buf)
	}
	return counts, nil
}

func readPayload(r *bufio.Reader, total int) ([]uint32, error) {
	payload := make([]uint32, total)
	buf := make([]byte, 3)
	for i := range payload {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrap(ErrShortRead, "read payload entry")
		}
		payload[i] = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
	}
	return payload, nil
}

// prefixSum returns the exclusive prefix sum of counts, one longer than
// counts (offsets[len(counts)] is the grand total).
func prefixSum(counts []uint32) []uint32 {
	offsets := make([]uint32, len(counts)+1)
	var total uint32
	for i, c := range counts {
		offsets[i] = total
		total += c
	}
	offsets[len(counts)] = total
	return offsets
}
