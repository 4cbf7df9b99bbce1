// Package seq holds the data model shared by every stage of the assembler:
// base cells, reads, the assembled result, and the closed set of
// classification codes a read pair can end up with.
package seq

import "github.com/bio-tools/pandaseq/nt"

// MaxLen bounds the length of a single read. It sizes the k-mer index and
// every fixed-capacity buffer on the hot path.
const MaxLen = 512

// Cell is a single base call: an IUPAC nucleotide code paired with its
// PHRED quality.
type Cell struct {
	Nt   nt.Code
	Qual byte
}

// Read is one sequenced read: an identifier and an ordered list of base
// cells, at most MaxLen long.
type Read struct {
	ID    string
	Cells []Cell
}

// Len returns the number of bases in the read.
func (r *Read) Len() int { return len(r.Cells) }

// Code identifies why a pair was or wasn't assembled. The fixed codes
// mirror the logger contract in the spec; modules may define additional
// codes of their own.
type Code string

// Fixed classification codes, also used as logger codes.
const (
	CodeOK              Code = "OK"
	CodeBadID           Code = "BADID"
	CodeLowQuality      Code = "LOWQ"
	CodeNoAlignment     Code = "NOALGN"
	CodeNoForwardPrimer Code = "NOFP"
	CodeNoReversePrimer Code = "NORP"
	CodeDegenerate      Code = "DEGEN"
)

// Result is the assembled sequence produced from one read pair: up to
// 2*MaxLen base cells, recalibrated per-position quality, and the
// bookkeeping needed to report how it was built.
//
// Invariant: before primer trimming, len(Cells) == Forward.Len() +
// Reverse.Len() - Overlap.
type Result struct {
	ID       string
	Cells    []Cell
	Forward  *Read
	Reverse  *Read
	Overlap  int
	Quality  float64 // exp(sum of per-position log-probabilities)
	LogProb  float64
	Degenerates int // count of degenerate consensus bases, before primer trimming
}

// Len returns the number of bases currently in the result.
func (r *Result) Len() int { return len(r.Cells) }

// Bytes renders the result's nucleotide codes back to an ASCII sequence.
func (r *Result) Bytes() []byte {
	out := make([]byte, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = nt.Byte(c.Nt)
	}
	return out
}
