package fastq

import (
	"io"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

var newline = []byte{'\n'}

// Writer is a FASTQ file writer. It re-derives the ASCII sequence and
// quality lines from a Read's decoded cells, the mirror image of Scanner's
// decode: nothing in this repo keeps an ASCII sequence string around
// between scanning and writing.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new FASTQ writer that writes reads to the
// underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format, offsetting quality by 33
// (Sanger/modern Illumina ASCII). An error is returned if the write
// failed.
func (w *Writer) Write(r *Read) error {
	w.writeln(r.ID)
	w.writeln(string(encodeSeq(r.Cells)))
	w.writeln(r.Unk)
	w.writeln(string(encodeQual(r.Cells)))
	return w.err
}

func encodeSeq(cells []seq.Cell) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = nt.Byte(c.Nt)
	}
	return out
}

func encodeQual(cells []seq.Cell) []byte {
	out := make([]byte, len(cells))
	for i, c := range cells {
		q := c.Qual
		if q > 93 {
			q = 93
		}
		out[i] = q + 33
	}
	return out
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
