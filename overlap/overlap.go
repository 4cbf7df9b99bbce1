// Package overlap implements the probabilistic overlap scorer (C4): given
// a forward read and the reverse-complement of the reverse read, it scores
// every candidate overlap offset and picks the best one.
//
// Grounded on the overlap-quality check in
// grailbio/bio/fusion/stitcher.go's tryStitch (propose candidate, check
// agreement over the shared span, prefer the candidate that covers more of
// both reads), generalized from a hamming-distance cutoff to the spec's
// log-probability model.
package overlap

import (
	"math"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/qualtable"
	"github.com/bio-tools/pandaseq/seq"
)

// Params bundles the assembler configuration the scorer needs beyond the
// per-position C1 table. The assembler's own error-estimation-derived
// log-probabilities (q, and log(0.25*(1-q)^2)/log((3q-2q^2)/18)) are not
// passed here: the per-position contribution is exactly p_match(qa,qb) /
// p_mismatch(qa,qb) "from C1", nothing else — summing a second,
// quality-independent prior on top would double-count the same evidence
// and, since that prior is more pessimistic than the random baseline it's
// compared against, inverts the sign of a confident match.
type Params struct {
	MinOverlap int
}

// pRandom is the per-base log-probability of a uniformly random match,
// used both as the length-normalization baseline and as the
// per-position contribution when the candidate consensus would be
// unresolved (either base is 'N').
func pRandom() float64 { return qualtable.LogPRandom() }

// score returns the raw (un-normalized) sum of per-position
// log-probabilities for pairing the last `offset` bases of fwd against the
// first `offset` bases of revComp.
func score(fwd, revComp []seq.Cell, offset int) float64 {
	nf := len(fwd)
	var sum float64
	for k := 0; k < offset; k++ {
		a := fwd[nf-offset+k]
		b := revComp[k]
		switch {
		case a.Nt == 0 || b.Nt == 0:
			sum += pRandom()
		case nt.Intersect(a.Nt, b.Nt) != 0:
			sum += qualtable.LogPMatch(a.Qual, b.Qual)
		default:
			sum += qualtable.LogPMismatch(a.Qual, b.Qual)
		}
	}
	return sum
}

// Candidate is one scored overlap offset.
type Candidate struct {
	Offset     int
	RawLogProb float64 // sum of per-position contributions
	Normalized float64 // RawLogProb - offset*pRandom, used for comparison
}

// Best scores every candidate offset and returns the winner: the offset
// with the highest length-normalized score, ties broken by longer overlap
// then by smaller offset.
func Best(fwd, revComp []seq.Cell, offsets []int, p Params) (Candidate, bool) {
	var best Candidate
	found := false
	for _, offset := range offsets {
		if offset <= 0 || offset > len(fwd) || offset > len(revComp) || offset < p.MinOverlap {
			continue
		}
		raw := score(fwd, revComp, offset)
		normalized := raw - float64(offset)*pRandom()
		cand := Candidate{Offset: offset, RawLogProb: raw, Normalized: normalized}
		if !found || better(cand, best) {
			best = cand
			found = true
		}
	}
	return best, found
}

// better reports whether a beats b under the scorer's tie-break policy:
// higher normalized score wins; ties prefer the longer overlap; further
// ties prefer the smaller offset index.
func better(a, b Candidate) bool {
	if a.Normalized != b.Normalized {
		return a.Normalized > b.Normalized
	}
	if a.Offset != b.Offset {
		return a.Offset > b.Offset
	}
	return false
}

// PassesThreshold reports whether exp(normalized) meets the configured
// threshold (itself stored as a log for numeric stability).
func PassesThreshold(c Candidate, logThreshold float64) bool {
	return c.Normalized >= logThreshold
}

// Quality converts a raw summed log-probability back to the linear
// [0,1]-ish scale reported to callers.
func Quality(rawLogProb float64) float64 {
	return math.Exp(rawLogProb)
}
