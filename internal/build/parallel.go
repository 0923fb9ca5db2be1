// Package build provides the CLI indexer's ingestion pipeline: reading a
// keyword file, validating lines, and inserting them into a mutable
// casefilter.Index. Parsing/validation is overlapped across worker
// goroutines the way the teacher's pkg/search.WorkerPool overlaps candidate
// checks — but Insert itself is always called from a single goroutine,
// since the index has no internal synchronization (spec.md §5: the core is
// single-threaded).
package build

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/oisee/casefilter/internal/casefilter"
	"github.com/oisee/casefilter/internal/codec"
)

// Stats reports how many non-blank lines were read from the keyword file and
// how many were accepted or skipped. Blank lines are not counted.
type Stats struct {
	Lines    int
	Accepted int
	Skipped  int
}

// Config controls the ingestion pipeline.
type Config struct {
	NumWorkers int  // validation workers; 0 or less means 4
	Verbose    bool // log a progress line every few seconds, teacher-style
}

// FromReader reads one keyword per line from r (blank and non-15-character
// lines are skipped per spec.md §6.2), validates lines concurrently across
// cfg.NumWorkers goroutines, and inserts accepted keywords into idx in the
// order they were read. idx must be Mutable.
func FromReader(idx *casefilter.Index, r io.Reader, cfg Config) (Stats, error) {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 4
	}

	type lineJob struct {
		seq  int
		text string
	}
	type lineResult struct {
		seq int
		ok  bool
		kw  []byte
	}

	jobs := make(chan lineJob, numWorkers*4)
	results := make(chan lineResult, numWorkers*4)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				line := strings.TrimSpace(j.text)
				if len(line) != codec.KeywordLen {
					results <- lineResult{seq: j.seq, ok: false}
					continue
				}
				results <- lineResult{seq: j.seq, ok: true, kw: []byte(line)}
			}
		}()
	}

	var readErr error
	go func() {
		defer close(jobs)
		scanner := bufio.NewScanner(r)
		seq := 0
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			jobs <- lineJob{seq: seq, text: line}
			seq++
		}
		readErr = scanner.Err()
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Results can arrive out of order across workers; buffer by sequence
	// number and drain in order so Insert sees a deterministic id
	// assignment regardless of worker scheduling.
	pending := make(map[int]lineResult)
	next := 0
	var stats Stats

	lastReport := time.Now()
	for res := range results {
		pending[res.seq] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			stats.Lines++
			if !r.ok {
				stats.Skipped++
				continue
			}
			if err := idx.Insert(r.kw); err != nil {
				return stats, err
			}
			stats.Accepted++
		}
		if cfg.Verbose && time.Since(lastReport) > 5*time.Second {
			glog.Infof("casefilter-index: %d lines read, %d accepted, %d skipped", stats.Lines, stats.Accepted, stats.Skipped)
			lastReport = time.Now()
		}
	}

	return stats, readErr
}
