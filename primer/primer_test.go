package primer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

func cells(s string) []seq.Cell {
	out := make([]seq.Cell, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = seq.Cell{Nt: nt.FromByte(s[i]), Qual: 40}
	}
	return out
}

func codes(s string) []nt.Code {
	out := make([]nt.Code, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = nt.FromByte(s[i])
	}
	return out
}

func bytesOf(c []seq.Cell) string {
	out := make([]byte, len(c))
	for i, cell := range c {
		out[i] = nt.Byte(cell.Nt)
	}
	return string(out)
}

func TestFixedTrimForward(t *testing.T) {
	out, ok := TrimForward(cells("ACGTGGGG"), Config{Trim: 4})
	require.True(t, ok)
	assert.Equal(t, "GGGG", bytesOf(out))
}

func TestFixedTrimReverse(t *testing.T) {
	out, ok := TrimReverse(cells("GGGGACGT"), Config{Trim: 4})
	require.True(t, ok)
	assert.Equal(t, "GGGG", bytesOf(out))
}

func TestPrimerSequenceLocatedAndClipped(t *testing.T) {
	out, ok := TrimForward(cells("ACGTGGGGCCCC"), Config{Sequence: codes("ACGT")})
	require.True(t, ok)
	assert.Equal(t, "GGGGCCCC", bytesOf(out))
}

func TestPrimerSequenceNotFound(t *testing.T) {
	_, ok := TrimForward(cells("AAAAGGGGCCCC"), Config{Sequence: codes("ACGT")})
	assert.False(t, ok)
}

func TestPrimerMatchesThroughAmbiguity(t *testing.T) {
	// R = A or G: pattern "AR" matches "AG" at offset 0.
	out, ok := TrimForward(cells("AGCCCC"), Config{Sequence: codes("AR")})
	require.True(t, ok)
	assert.Equal(t, "CCCC", bytesOf(out))
}

func TestApplyBothEnds(t *testing.T) {
	result := &seq.Result{Cells: cells("ACGT" + "GGGGCCCC" + "TTTT")}
	ok, code := Apply(result, Config{Sequence: codes("ACGT")}, Config{Trim: 4})
	require.True(t, ok)
	assert.Empty(t, code)
	assert.Equal(t, "GGGGCCCC", bytesOf(result.Cells))
}

func TestApplyReportsNoReversePrimer(t *testing.T) {
	result := &seq.Result{Cells: cells("ACGTGGGGCCCC")}
	ok, code := Apply(result, Config{}, Config{Sequence: codes("TTTT")})
	assert.False(t, ok)
	assert.Equal(t, seq.CodeNoReversePrimer, code)
}
