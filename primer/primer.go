// Package primer implements the primer locator/trimmer (C6): clips a fixed
// number of bases, or locates and clips an IUPAC primer sequence, from
// either end of an assembled result.
//
// Grounded on the prefix/suffix slicing in
// grailbio/bio/fusion/stitcher.go's trimming helpers, generalized from
// fixed-offset clipping to IUPAC pattern search.
package primer

import (
	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

// Config is one end's primer configuration. Exactly one of Sequence or Trim
// is active; the assembler enforces the mutual exclusion when the fields
// are set (see package assemble).
type Config struct {
	Sequence []nt.Code // IUPAC pattern, length <= seq.MaxLen; nil if unused
	Trim     int       // fixed trim count; 0 if unused
}

// HasPrimer reports whether c names an IUPAC pattern to locate, as opposed
// to a fixed trim count.
func (c Config) HasPrimer() bool { return len(c.Sequence) > 0 }

// locate returns the leftmost offset in cells at which pattern matches base
// by base (intersect(pattern[i], cells[offset+i]) != 0 for every i), and
// whether such an offset exists.
func locate(cells []seq.Cell, pattern []nt.Code) (int, bool) {
	if len(pattern) > len(cells) {
		return 0, false
	}
	for offset := 0; offset+len(pattern) <= len(cells); offset++ {
		matched := true
		for i, p := range pattern {
			if nt.Intersect(p, cells[offset+i].Nt) == 0 {
				matched = false
				break
			}
		}
		if matched {
			return offset, true
		}
	}
	return 0, false
}

// TrimForward applies the forward-end configuration to cells, returning the
// remaining slice. ok is false when a primer was configured but not found.
func TrimForward(cells []seq.Cell, c Config) (out []seq.Cell, ok bool) {
	if !c.HasPrimer() {
		if c.Trim >= len(cells) {
			return cells[:0], true
		}
		return cells[c.Trim:], true
	}
	offset, found := locate(cells, c.Sequence)
	if !found {
		return nil, false
	}
	return cells[offset+len(c.Sequence):], true
}

// TrimReverse applies the reverse-end configuration to cells, returning the
// remaining slice. ok is false when a primer was configured but not found.
//
// The reverse primer is located against the same (forward-oriented)
// consensus as the forward primer; its match therefore marks the end of
// the kept region rather than the start.
func TrimReverse(cells []seq.Cell, c Config) (out []seq.Cell, ok bool) {
	if !c.HasPrimer() {
		if c.Trim >= len(cells) {
			return cells[:0], true
		}
		return cells[:len(cells)-c.Trim], true
	}
	offset, found := locate(cells, c.Sequence)
	if !found {
		return nil, false
	}
	return cells[:offset], true
}

// Apply trims both ends of result in place, in forward-then-reverse order,
// and reports which end (if any) failed to locate its configured primer.
func Apply(result *seq.Result, forward, reverse Config) (ok bool, failedCode seq.Code) {
	cells, ok := TrimForward(result.Cells, forward)
	if !ok {
		return false, seq.CodeNoForwardPrimer
	}
	cells, ok = TrimReverse(cells, reverse)
	if !ok {
		return false, seq.CodeNoReversePrimer
	}
	result.Cells = cells
	return true, ""
}
