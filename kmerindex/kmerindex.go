// Package kmerindex implements the k-mer seed index (C3): a fixed-size
// bitset recording which (k-mer, read-end, position) triples have been
// observed in the current pair, used to cheaply propose candidate overlap
// offsets before the expensive per-base scoring in package overlap.
//
// Grounded on the Set/Clear word-indexed bit manipulation in
// grailbio/bio/circular/bitmap.go, simplified to a flat (non-circular)
// array addressed arithmetically, as the spec requires: this is an arena
// of bits, not a hash table.
package kmerindex

import (
	"encoding/binary"
	"sort"

	farm "github.com/dgryski/go-farm"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

// Which-read selector for a bit's address.
const (
	Forward = 0
	Reverse = 1
)

const bitsPerWord = 64

// Index is the k-mer seen bitset. It is exclusive to one assembler: two
// assemblers running concurrently need two Indexes.
type Index struct {
	k     int
	words []uint64
}

// New allocates an Index for k-mers of length k. The bitset holds
// 2 * 4^k * seq.MaxLen bits, per the spec's sizing formula.
func New(k int) *Index {
	nbits := uint64(2) * pow4(k) * uint64(seq.MaxLen)
	nwords := (nbits + bitsPerWord - 1) / bitsPerWord
	return &Index{k: k, words: make([]uint64, nwords)}
}

func pow4(k int) uint64 {
	return uint64(1) << uint(2*k)
}

// K returns the configured k-mer length.
func (ix *Index) K() int { return ix.k }

// AllZero reports whether every bit in the index is clear. Used to check
// the per-pair zeroing invariant in tests.
func (ix *Index) AllZero() bool {
	for _, w := range ix.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (ix *Index) bitAddr(kmer uint64, which, pos int) uint64 {
	return kmer*2*uint64(seq.MaxLen) + uint64(which)*uint64(seq.MaxLen) + uint64(pos)
}

func (ix *Index) set(bit uint64) {
	ix.words[bit/bitsPerWord] |= 1 << (bit % bitsPerWord)
}

func (ix *Index) clear(bit uint64) {
	ix.words[bit/bitsPerWord] &^= 1 << (bit % bitsPerWord)
}

func (ix *Index) test(bit uint64) bool {
	return ix.words[bit/bitsPerWord]&(1<<(bit%bitsPerWord)) != 0
}

// kmerAt extracts the non-degenerate k-mer starting at pos in cells,
// packing each base into 2 bits. It returns ok=false if the window runs
// past the end of cells or contains any ambiguous/unresolved base.
func kmerAt(cells []seq.Cell, pos, k int) (uint64, bool) {
	if pos+k > len(cells) {
		return 0, false
	}
	var kmer uint64
	for i := 0; i < k; i++ {
		code := cells[pos+i].Nt
		var bits uint64
		switch code {
		case nt.A:
			bits = 0
		case nt.C:
			bits = 1
		case nt.G:
			bits = 2
		case nt.T:
			bits = 3
		default:
			return 0, false
		}
		kmer = (kmer << 2) | bits
	}
	return kmer, true
}

// Seed walks cells and sets the bit for every non-degenerate k-mer found,
// at the position it starts. which distinguishes the forward read from
// the reverse-complemented reverse read.
func (ix *Index) Seed(cells []seq.Cell, which int) {
	for pos := 0; pos+ix.k <= len(cells); pos++ {
		kmer, ok := kmerAt(cells, pos, ix.k)
		if !ok {
			continue
		}
		ix.set(ix.bitAddr(kmer, which, pos))
	}
}

// Unseed walks cells exactly the way Seed does and clears the same bits.
// This must mirror Seed's traversal precisely: bulk-clearing the bitset
// would cost O(bitset) instead of O(len(cells)).
func (ix *Index) Unseed(cells []seq.Cell, which int) {
	for pos := 0; pos+ix.k <= len(cells); pos++ {
		kmer, ok := kmerAt(cells, pos, ix.k)
		if !ok {
			continue
		}
		ix.clear(ix.bitAddr(kmer, which, pos))
	}
}

// CandidateOffsets proposes overlap offsets for a forward read of nf bases
// and a reverse-complemented reverse read of nr bases, using k-mers already
// seeded into the index via Seed. An offset is proposed whenever the same
// k-mer occurs at a forward position i and a reverse position j, as
// offset = nf - i + j: an overlap of length o pairs fwd[nf-o+x] with
// revComp[x], so the shared k-mer's windows [i, i+k) and [j, j+k) line up
// exactly when nf - o + j = i, that is o = nf - i + j (the nf-i forward
// bases from i onward plus the j reverse bases before the window).
// Offsets outside [minOverlap, nf+nr]
// are discarded, and duplicate offsets are deduplicated. The returned
// offsets are sorted in descending order, the caller's natural scan order
// (longer overlaps first).
func (ix *Index) CandidateOffsets(fwdCells []seq.Cell, nr, minOverlap int) []int {
	nf := len(fwdCells)
	seen := make(map[uint64]struct{})
	var offsets []int
	var key [8]byte
	for i := 0; i+ix.k <= nf; i++ {
		kmer, ok := kmerAt(fwdCells, i, ix.k)
		if !ok {
			continue
		}
		for j := 0; j+ix.k <= nr; j++ {
			if !ix.test(ix.bitAddr(kmer, Reverse, j)) {
				continue
			}
			offset := nf - i + j
			if offset < minOverlap || offset > nf+nr {
				continue
			}
			binary.LittleEndian.PutUint64(key[:], uint64(offset))
			h := farm.Hash64(key[:])
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			offsets = append(offsets, offset)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))
	return offsets
}
