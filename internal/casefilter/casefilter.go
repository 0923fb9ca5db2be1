// Package casefilter implements the two-level inverted index and query
// engine that decide, for a 15-character A-J keyword database, whether any
// keyword lies within edit distance k (k<=3) of a query string.
//
// An Index moves through three lifecycle states: Mutable (Insert only),
// Finalized (Search only, built via Finalize), and Loaded (Search only,
// produced by wire.Load — behaviorally identical to Finalized). Calling
// Insert on a non-Mutable index, or Search on a Mutable one, is a programming
// error; the index does not guard against it beyond the checks this file
// documents.
package casefilter

import "github.com/pkg/errors"

// HKeySpace is the number of distinct 6-subkey values (10^6): S_H = HKeySpace
// * NumPairs.
const HKeySpace = 1000000

// DKeySpace is the number of distinct 7-subkey values (10^7): S_D = DKeySpace.
const DKeySpace = 10000000

// MaxKeywords is the hard cap on database size: ids are 20 bits wide, so N
// must stay below 2^20.
const MaxKeywords = 1<<20 - 1

// ErrFull is returned by Insert once the index holds MaxKeywords keywords.
var ErrFull = errors.New("casefilter: index is at maximum capacity (2^20-1 keywords)")

// ErrBadLength is returned by Insert when the keyword is not exactly
// codec.KeywordLen bytes.
var ErrBadLength = errors.New("casefilter: keyword must be exactly 15 bytes")

// ErrWrongState is returned when Insert or Finalize is called on an index in
// the wrong lifecycle state.
var ErrWrongState = errors.New("casefilter: operation not valid in current index state")

// state is the index's position in the Mutable -> Finalized lifecycle.
type state uint8

const (
	stateMutable state = iota
	stateFinalized
)
