// Package bench implements the CSV-recording subprocess wrapper spec.md §1
// calls out as "deliberately out of scope" for the core: it times query
// evaluation and records elapsed time and hit counts, the way
// record_perf.c times a batch of searches in the original implementation.
// It is grounded on the teacher's pkg/result.Table (a mutex-guarded
// accumulator, sorted on read) and pkg/result/checkpoint.go (gob-encoded
// resumable state).
package bench

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"sync"
)

// Row is one query's timing result.
type Row struct {
	Query        string
	K            int
	Hit          bool
	ElapsedNanos int64
}

// Recorder accumulates Rows from (possibly concurrent) callers, the way
// pkg/result.Table accumulates discovered Rules.
type Recorder struct {
	mu   sync.Mutex
	rows []Row
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add appends one timing row.
func (rec *Recorder) Add(r Row) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.rows = append(rec.rows, r)
}

// Rows returns a copy of all recorded rows, in the order they were recorded.
func (rec *Recorder) Rows() []Row {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Row, len(rec.rows))
	copy(out, rec.rows)
	return out
}

// Len returns the number of recorded rows.
func (rec *Recorder) Len() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.rows)
}

// Summary reports aggregate stats over all recorded rows: total count, hit
// count, and total elapsed nanoseconds.
type Summary struct {
	Total        int
	Hits         int
	TotalElapsed int64
}

// Summarize computes a Summary over the current rows.
func (rec *Recorder) Summarize() Summary {
	rows := rec.Rows()
	var s Summary
	s.Total = len(rows)
	for _, r := range rows {
		if r.Hit {
			s.Hits++
		}
		s.TotalElapsed += r.ElapsedNanos
	}
	return s
}

// WriteCSV writes one header row and one row per recorded query (in
// recorded order) to w: query,k,hit,elapsed_ns.
func (rec *Recorder) WriteCSV(w io.Writer) error {
	rows := rec.Rows()
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"query", "k", "hit", "elapsed_ns"}); err != nil {
		return err
	}
	for _, r := range rows {
		hit := "0"
		if r.Hit {
			hit = "1"
		}
		rec := []string{
			r.Query,
			strconv.Itoa(r.K),
			hit,
			strconv.FormatInt(r.ElapsedNanos, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SortedBySlowest returns a copy of the rows sorted by elapsed time,
// descending — useful for spotting outlier queries, the way
// pkg/result.Table.Rules() sorts by bytes/cycles saved.
func (rec *Recorder) SortedBySlowest() []Row {
	rows := rec.Rows()
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ElapsedNanos > rows[j].ElapsedNanos
	})
	return rows
}
