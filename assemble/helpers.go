package assemble

import (
	"math"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

// reverseComplement returns the reverse-complement cell sequence of r: the
// spec's "R'", paired against the forward read's 3' end in the overlap
// scorer.
func reverseComplement(r *seq.Read) []seq.Cell {
	n := len(r.Cells)
	out := make([]seq.Cell, n)
	for i, c := range r.Cells {
		out[n-1-i] = seq.Cell{Nt: nt.Complement(c.Nt), Qual: c.Qual}
	}
	return out
}

// decodeIUPAC converts an ASCII primer pattern to IUPAC codes.
func decodeIUPAC(s []byte) []nt.Code {
	out := make([]nt.Code, len(s))
	for i, b := range s {
		out[i] = nt.FromByte(b)
	}
	return out
}

// logOf and expOf convert between linear and log-space configuration
// values; logOf mirrors the source's silent treatment of non-positive
// inputs as "unrepresentable" rather than panicking, since the caller has
// already range-checked before calling.
func logOf(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return math.Log(v)
}

func expOf(v float64) float64 {
	return math.Exp(v)
}
