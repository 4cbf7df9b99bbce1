// Package fastq implements a FASTQ reader/writer over the assembler's own
// seq.Cell/IUPAC representation: each base is decoded to its nt-encoded
// value and paired with its PHRED quality as the record is scanned, rather
// than leaving a second decode pass to the caller.
//
// Grounded on grailbio/bio's own encoding/fastq.Scanner: a line-oriented
// bufio.Scanner, strict "@"/"+" record framing, and a PairScanner composing
// two single-file scanners to walk paired R1/R2 files in lockstep. Adapted
// here because nothing downstream of a scan wants a raw ASCII sequence
// string — fastqsrc and consensus both want seq.Cell — so the ASCII-to-IUPAC
// and ASCII-to-PHRED conversions are folded directly into Scan instead of
// living in a second function the caller must remember to call.
package fastq

import (
	"bufio"
	"errors"
	"io"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two underlying FASTQ files are discordant.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
	// ErrTooLong is returned when a read's sequence exceeds seq.MaxLen bases.
	ErrTooLong = errors.New("read exceeds maximum length")
)

// A Read is a FASTQ read, already decoded into nt-encoded, quality-tagged
// cells: ID, the decoded bases, and line 3 ("unknown", conventionally "+").
type Read struct {
	ID    string
	Cells []seq.Cell
	Unk   string
}

// Trim cuts the read to at most n cells.
func (r *Read) Trim(n int) {
	if n < len(r.Cells) {
		r.Cells = r.Cells[:n]
	}
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read data and
// decoding it straight into seq.Cell. The Scan method returns the next
// read, returning a boolean indicating whether the scan succeeded. Scanners
// are not threadsafe.
//
// Scanner performs some validation: it requires ID lines to begin with "@"
// and that line 3 begins with "+", and rejects a sequence line longer than
// seq.MaxLen (ErrTooLong), but does not perform further validation (e.g.
// seq/qual being of equal length).
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
	offset byte
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// ID causes the Read.ID field to be filled.
	ID Field = 1 << iota
	// Cells causes the Read.Cells field to be filled.
	Cells
	// Unk causes the Read.Unk field to be filled.
	Unk
	// All equals ID|Cells|Unk.
	All = ID | Cells | Unk
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader, decoding quality characters against the given ASCII
// offset (33 for Sanger/modern Illumina, 64 for the Illumina 1.3-1.7
// convention). Fields is a bitset of the fields to read.
func NewScanner(r io.Reader, fields Field, offset byte) *Scanner {
	return &Scanner{b: bufio.NewScanner(r), fields: fields, offset: offset}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it never
// returns true again. Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	id := f.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&ID != 0 {
		read.ID = string(id)
	}
	if !f.scan() {
		return false
	}
	seqLine := f.b.Bytes()
	if len(seqLine) > seq.MaxLen {
		f.err = ErrTooLong
		return false
	}
	seqCopy := append([]byte(nil), seqLine...)
	if !f.scan() {
		return false
	}
	unk := f.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if f.fields&Unk != 0 {
		read.Unk = string(unk)
	}
	if !f.scan() {
		return false
	}
	if f.fields&Cells != 0 {
		read.Cells = decode(seqCopy, f.b.Bytes(), f.offset)
	}
	return true
}

// decode pairs each sequence byte with its PHRED quality, clamped to
// [0, 63]; a base with no quality character gets quality 0.
func decode(s, q []byte, offset byte) []seq.Cell {
	cells := make([]seq.Cell, len(s))
	for i, b := range s {
		cells[i] = seq.Cell{Nt: nt.FromByte(b), Qual: qualAt(q, i, offset)}
	}
	return cells
}

func qualAt(q []byte, i int, offset byte) byte {
	if i >= len(q) {
		return 0
	}
	raw := int(q[i]) - int(offset)
	switch {
	case raw < 0:
		return 0
	case raw > 63:
		return 63
	default:
		return byte(raw)
	}
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ streams.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided R1 and
// R2 readers, both decoded against the same quality offset.
func NewPairScanner(r1, r2 io.Reader, fields Field, offset byte) *PairScanner {
	return &PairScanner{
		r1: NewScanner(r1, fields, offset),
		r2: NewScanner(r2, fields, offset),
	}
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it never
// returns true again. Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked after Scan
// returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
