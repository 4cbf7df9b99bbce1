// Package consensus builds the assembled result (C5) from a winning
// overlap: the forward-only prefix and reverse-only suffix are copied
// verbatim, and the overlapping span is merged base by base, picking the
// intersection of the two calls when they agree and the higher-quality
// call when they don't, with quality recalibrated via package qualtable.
//
// Grounded on the prefix/overlap/suffix splicing in
// grailbio/bio/fusion/stitcher.go's tryStitch, generalized from a single
// merged string to a per-base consensus with recalibrated quality.
package consensus

import (
	"math"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/qualtable"
	"github.com/bio-tools/pandaseq/seq"
)

// Build assembles forward and revComp (the reverse-complemented reverse
// read) at the given overlap offset into a Result. rawLogProb is the
// winning candidate's summed per-position log-probability, as returned by
// package overlap.
func Build(id string, forward, reverse *seq.Read, revComp []seq.Cell, offset int, rawLogProb float64) *seq.Result {
	nf := forward.Len()
	nr := len(revComp)
	total := nf + nr - offset
	cells := make([]seq.Cell, total)

	copy(cells[:nf-offset], forward.Cells[:nf-offset])

	degenerates := 0
	for k := 0; k < offset; k++ {
		a := forward.Cells[nf-offset+k]
		b := revComp[k]
		out := mergeBase(a, b)
		if nt.IsDegenerate(out.Nt) {
			degenerates++
		}
		cells[nf-offset+k] = out
	}

	copy(cells[nf:], revComp[offset:])

	return &seq.Result{
		ID:          id,
		Cells:       cells,
		Forward:     forward,
		Reverse:     reverse,
		Overlap:     offset,
		LogProb:     rawLogProb,
		Quality:     math.Exp(rawLogProb),
		Degenerates: degenerates,
	}
}

// mergeBase combines one overlapping base-cell pair into a consensus cell.
func mergeBase(a, b seq.Cell) seq.Cell {
	switch {
	case a.Nt == 0 && b.Nt == 0:
		return seq.Cell{Nt: 0, Qual: 0}
	case a.Nt == 0:
		return b
	case b.Nt == 0:
		return a
	}
	if inter := nt.Intersect(a.Nt, b.Nt); inter != 0 {
		return seq.Cell{Nt: inter, Qual: qualtable.CombineAgree(a.Qual, b.Qual)}
	}
	switch {
	case a.Qual > b.Qual:
		return seq.Cell{Nt: a.Nt, Qual: qualtable.CombineDisagree(a.Qual, b.Qual)}
	case b.Qual > a.Qual:
		return seq.Cell{Nt: b.Nt, Qual: qualtable.CombineDisagree(b.Qual, a.Qual)}
	default:
		// Neither call is more trustworthy than the other: the base is
		// unresolved rather than arbitrarily chosen.
		return seq.Cell{Nt: 0, Qual: qualtable.CombineDisagree(a.Qual, b.Qual)}
	}
}
