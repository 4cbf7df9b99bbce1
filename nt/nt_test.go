package nt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplementInvolution(t *testing.T) {
	for c := Code(0); c < 16; c++ {
		assert.Equal(t, c, Complement(Complement(c)), "complement not an involution for %v", c)
	}
}

func TestComplementBasic(t *testing.T) {
	assert.Equal(t, T, Complement(A))
	assert.Equal(t, A, Complement(T))
	assert.Equal(t, G, Complement(C))
	assert.Equal(t, C, Complement(G))
}

func TestFromByte(t *testing.T) {
	assert.Equal(t, A, FromByte('A'))
	assert.Equal(t, A, FromByte('a'))
	assert.Equal(t, T, FromByte('U'))
	assert.Equal(t, A|G, FromByte('R'))
	assert.Equal(t, Code(0), FromByte('N'))
	assert.Equal(t, Code(0), FromByte('?'))
}

func TestIsDegenerate(t *testing.T) {
	assert.False(t, IsDegenerate(A))
	assert.False(t, IsDegenerate(T))
	assert.True(t, IsDegenerate(A|G))
	assert.True(t, IsDegenerate(0))
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, A, Intersect(A, A|G))
	assert.Equal(t, Code(0), Intersect(A, C))
}

func TestByteRoundTrip(t *testing.T) {
	for _, ch := range []byte("ACGTRYSWKMBDHVN") {
		c := FromByte(ch)
		assert.Equal(t, ch, Byte(c), "round trip failed for %c", ch)
	}
}
