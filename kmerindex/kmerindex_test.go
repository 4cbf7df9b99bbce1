package kmerindex

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

func TestSeedUnseedRestoresZero(t *testing.T) {
	ix := New(4)
	require.True(t, ix.AllZero())
	f := cells("ACGTACGTACGT")
	r := cells("TTTTACGTACGT")
	ix.Seed(f, Forward)
	ix.Seed(r, Reverse)
	assert.False(t, ix.AllZero())
	ix.Unseed(f, Forward)
	ix.Unseed(r, Reverse)
	assert.True(t, ix.AllZero())
}

func TestCandidateOffsetsFindsExactOverlap(t *testing.T) {
	ix := New(4)
	f := cells("ACGTACGT")
	r := cells("ACGTACGT") // identical: perfect self-overlap candidate
	ix.Seed(f, Forward)
	ix.Seed(r, Reverse)
	defer func() {
		ix.Unseed(f, Forward)
		ix.Unseed(r, Reverse)
	}()
	offsets := ix.CandidateOffsets(f, len(r), 1)
	assert.Contains(t, offsets, 8)
}

func TestCandidateOffsetsEmptyWhenNoSharedKmer(t *testing.T) {
	ix := New(4)
	f := cells("AAAAAAAA")
	r := cells("TTTTTTTT")
	ix.Seed(f, Forward)
	ix.Seed(r, Reverse)
	defer func() {
		ix.Unseed(f, Forward)
		ix.Unseed(r, Reverse)
	}()
	offsets := ix.CandidateOffsets(f, len(r), 1)
	assert.Empty(t, offsets)
}
