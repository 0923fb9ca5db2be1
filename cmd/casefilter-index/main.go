// Command casefilter-index is the CLI driver spec.md §6.2 calls the
// "Indexer": it reads a keyword file, builds a casefilter.Index, and writes
// the serialized index to standard output (or --out). This driver is an
// external collaborator to the core per spec.md §1 — it is not itself part
// of the tested contract, only a thin wrapper around internal/build,
// internal/casefilter, and internal/wire.
package main

import (
	"fmt"
	"os"

	"github.com/oisee/casefilter/internal/build"
	"github.com/oisee/casefilter/internal/casefilter"
	"github.com/oisee/casefilter/internal/clilog"
	"github.com/oisee/casefilter/internal/wire"
	"github.com/spf13/cobra"
)

func main() {
	var out string
	var numWorkers int
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "casefilter-index <keyword_file>",
		Short: "Build a casefilter index from a keyword file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], out, numWorkers, verbose)
		},
	}

	rootCmd.Flags().StringVar(&out, "out", "", "output path for the serialized index (default: stdout)")
	rootCmd.Flags().IntVar(&numWorkers, "workers", 0, "parsing/validation workers (0 = default)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "log build progress")

	if err := rootCmd.Execute(); err != nil {
		clilog.Errorf("casefilter-index: %v", err)
		clilog.Flush()
		os.Exit(1)
	}
	clilog.Flush()
}

func run(keywordPath, out string, numWorkers int, verbose bool) error {
	f, err := os.Open(keywordPath)
	if err != nil {
		return fmt.Errorf("open keyword file: %w", err)
	}
	defer f.Close()

	idx := casefilter.New()
	stats, err := build.FromReader(idx, f, build.Config{NumWorkers: numWorkers, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("ingest keywords: %w", err)
	}
	if verbose {
		clilog.Infof("casefilter-index: read %d lines, accepted %d, skipped %d", stats.Lines, stats.Accepted, stats.Skipped)
	}

	if err := idx.Finalize(); err != nil {
		return fmt.Errorf("finalize index: %w", err)
	}

	w := os.Stdout
	if out != "" {
		outFile, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer outFile.Close()
		w = outFile
	}

	if err := wire.Save(w, idx); err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}
	return nil
}
