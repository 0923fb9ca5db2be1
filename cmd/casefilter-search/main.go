// Command casefilter-search is the CLI driver spec.md §6.2 calls the
// "Searcher": given a query file and an index file, it loads the index,
// evaluates each query line, and writes one ASCII '0' or '1' per query (in
// order) to standard output, followed by a trailing newline. A query whose
// length is not 15 characters emits '0' without touching the index, per
// spec.md §7.
//
// The "bench" subcommand is the CSV-recording subprocess wrapper from
// spec.md §1: it times each query evaluation and writes per-query timing
// rows to a CSV file via internal/bench.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/oisee/casefilter/internal/bench"
	"github.com/oisee/casefilter/internal/casefilter"
	"github.com/oisee/casefilter/internal/clilog"
	"github.com/oisee/casefilter/internal/wire"
	"github.com/spf13/cobra"
)

func main() {
	var k int

	rootCmd := &cobra.Command{
		Use:   "casefilter-search <query_file> <index_file>",
		Short: "Evaluate queries against a serialized casefilter index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], k)
		},
	}
	rootCmd.Flags().IntVar(&k, "k", 3, "edit-distance threshold (0..3)")

	var csvPath string
	var checkpointPath string
	benchCmd := &cobra.Command{
		Use:   "bench <query_file> <index_file>",
		Short: "Time query evaluation and record per-query CSV rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(args[0], args[1], k, csvPath, checkpointPath)
		},
	}
	benchCmd.Flags().IntVar(&k, "k", 3, "edit-distance threshold (0..3)")
	benchCmd.Flags().StringVar(&csvPath, "csv", "", "output CSV path (default: stdout)")
	benchCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "optional gob checkpoint path to resume an interrupted run")
	rootCmd.AddCommand(benchCmd)

	if err := rootCmd.Execute(); err != nil {
		clilog.Errorf("casefilter-search: %v", err)
		clilog.Flush()
		os.Exit(1)
	}
	clilog.Flush()
}

func loadIndex(indexPath string) (*casefilter.Index, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()
	idx, err := wire.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return idx, nil
}

func run(queryPath, indexPath string, k int) error {
	idx, err := loadIndex(indexPath)
	if err != nil {
		return err
	}

	qf, err := os.Open(queryPath)
	if err != nil {
		return fmt.Errorf("open query file: %w", err)
	}
	defer qf.Close()

	s := casefilter.NewSearcher(idx)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(qf)
	for scanner.Scan() {
		query := []byte(scanner.Text())
		if s.Search(query, k) {
			out.WriteByte('1')
		} else {
			out.WriteByte('0')
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read query file: %w", err)
	}
	out.WriteByte('\n')
	return nil
}

func runBench(queryPath, indexPath string, k int, csvPath, checkpointPath string) error {
	idx, err := loadIndex(indexPath)
	if err != nil {
		return err
	}

	qf, err := os.Open(queryPath)
	if err != nil {
		return fmt.Errorf("open query file: %w", err)
	}
	defer qf.Close()

	rec := bench.NewRecorder()
	resumeFrom := 0
	if checkpointPath != "" {
		if ckpt, err := bench.LoadCheckpoint(checkpointPath); err == nil {
			rec, resumeFrom = bench.Restore(ckpt)
			clilog.Infof("casefilter-search bench: resuming from checkpoint at line %d", resumeFrom)
		}
	}

	s := casefilter.NewSearcher(idx)
	scanner := bufio.NewScanner(qf)
	line := 0
	for scanner.Scan() {
		line++
		if line <= resumeFrom {
			continue
		}
		query := scanner.Text()

		start := time.Now()
		hit := false
		if len(query) == 15 {
			hit = s.Search([]byte(query), k)
		}
		elapsed := time.Since(start)

		rec.Add(bench.Row{Query: query, K: k, Hit: hit, ElapsedNanos: elapsed.Nanoseconds()})

		if checkpointPath != "" && line%10000 == 0 {
			if err := bench.SaveCheckpoint(checkpointPath, rec, line); err != nil {
				clilog.Errorf("casefilter-search bench: checkpoint save failed: %v", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read query file: %w", err)
	}

	w := os.Stdout
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("create CSV file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := rec.WriteCSV(w); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}

	summary := rec.Summarize()
	clilog.Infof("casefilter-search bench: %d queries, %d hits, %s total", summary.Total, summary.Hits, time.Duration(summary.TotalElapsed))
	return nil
}
