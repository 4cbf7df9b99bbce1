package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

func read(id, s string, q byte) *seq.Read {
	cells := make([]seq.Cell, len(s))
	for i := 0; i < len(s); i++ {
		cells[i] = seq.Cell{Nt: nt.FromByte(s[i]), Qual: q}
	}
	return &seq.Read{ID: id, Cells: cells}
}

func cellsOf(s string, q byte) []seq.Cell {
	return read("", s, q).Cells
}

func TestExactOverlapReproducesSequence(t *testing.T) {
	f := read("r1", "ACGTACGT", 40)
	revComp := cellsOf("ACGTACGT", 40)
	res := Build("r1", f, f, revComp, 8, 0)
	require.Equal(t, 8, res.Len())
	assert.Equal(t, "ACGTACGT", string(res.Bytes()))
}

func TestPartialOverlapLength(t *testing.T) {
	f := read("r1", "ACGTACGT", 40)
	revComp := cellsOf("ACGTAAAA", 40)
	res := Build("r1", f, f, revComp, 4, 0)
	assert.Equal(t, 8+8-4, res.Len())
}

func TestDisagreementPicksHigherQuality(t *testing.T) {
	f := read("r1", "A", 40)
	revComp := cellsOf("T", 5)
	res := Build("r1", f, f, revComp, 1, 0)
	assert.Equal(t, byte('A'), res.Bytes()[0])
}

func TestDegenerateOnDisagreementWithEqualQuality(t *testing.T) {
	f := read("r1", "A", 2)
	revComp := cellsOf("T", 2)
	res := Build("r1", f, f, revComp, 1, 0)
	// Neither call is more trustworthy: the consensus is unresolved.
	assert.Equal(t, 1, res.Degenerates)
	assert.Equal(t, byte('N'), res.Bytes()[0])
}
