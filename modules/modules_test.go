package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

func result(s string) *seq.Result {
	cells := make([]seq.Cell, len(s))
	for i := 0; i < len(s); i++ {
		cells[i] = seq.Cell{Nt: nt.FromByte(s[i]), Qual: 40}
	}
	return &seq.Result{Cells: cells}
}

func TestMinLengthRejectsShort(t *testing.T) {
	accept, code := MinLength{N: 10}.Check(result("ACGT"))
	assert.False(t, accept)
	assert.Equal(t, CodeMinLength, code)
}

func TestMaxLengthRejectsLong(t *testing.T) {
	accept, code := MaxLength{N: 2}.Check(result("ACGT"))
	assert.False(t, accept)
	assert.Equal(t, CodeMaxLength, code)
}

func TestNFractionRejectsTooManyUnresolved(t *testing.T) {
	accept, code := NFraction{Max: 0.1}.Check(result("ANNN"))
	assert.False(t, accept)
	assert.Equal(t, CodeNFraction, code)
}

func TestNFractionAcceptsWithinBudget(t *testing.T) {
	accept, _ := NFraction{Max: 0.5}.Check(result("ANGT"))
	assert.True(t, accept)
}

func TestChainStopsAtFirstRejection(t *testing.T) {
	chain := NewChain(MinLength{N: 1}, MaxLength{N: 2})
	accept, code := chain.Check(result("ACGT"))
	require.False(t, accept)
	assert.Equal(t, CodeMaxLength, code)
}

func TestChainAcceptsWhenAllPass(t *testing.T) {
	chain := NewChain(MinLength{N: 1}, MaxLength{N: 10})
	accept, _ := chain.Check(result("ACGT"))
	assert.True(t, accept)
}
