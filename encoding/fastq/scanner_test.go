package fastq

import (
	"bytes"
	"testing"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

const fq = `@read1
ACGTN
+
IIII!
@read2
TTTTT
+
#####
`

func stringScanner(s string) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)), All, 33)
}

func scanErr(s string) error {
	scan := stringScanner(s)
	var r Read
	for scan.Scan(&r) {
	}
	return scan.Err()
}

func TestScanDecodesCellsDirectly(t *testing.T) {
	s := stringScanner(fq)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	if got, want := r.ID, "@read1"; got != want {
		t.Errorf("ID: got %q, want %q", got, want)
	}
	if got, want := r.Unk, "+"; got != want {
		t.Errorf("Unk: got %q, want %q", got, want)
	}
	want := []seq.Cell{
		{Nt: nt.A, Qual: 40},
		{Nt: nt.C, Qual: 40},
		{Nt: nt.G, Qual: 40},
		{Nt: nt.T, Qual: 40},
		{Nt: 0, Qual: 0},
	}
	if len(r.Cells) != len(want) {
		t.Fatalf("Cells: got %d cells, want %d", len(r.Cells), len(want))
	}
	for i := range want {
		if r.Cells[i] != want[i] {
			t.Errorf("Cells[%d]: got %+v, want %+v", i, r.Cells[i], want[i])
		}
	}

	var n int
	for s.Scan(&r) {
		n++
	}
	if got, want := n, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestScanDecodesLowQualityChar(t *testing.T) {
	s := stringScanner(fq)
	var r Read
	s.Scan(&r) // read1
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	for i, c := range r.Cells {
		if c.Qual != 2 {
			t.Errorf("Cells[%d].Qual: got %d, want 2", i, c.Qual)
		}
	}
}

func TestBadFASTQ(t *testing.T) {
	if got, want := scanErr("12312#"), ErrInvalid; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := scanErr("@1234\n123"), ErrShort; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScanRejectsOverlongSequence(t *testing.T) {
	long := bytes.Repeat([]byte{'A'}, seq.MaxLen+1)
	qual := bytes.Repeat([]byte{'I'}, seq.MaxLen+1)
	var buf bytes.Buffer
	buf.WriteString("@toolong\n")
	buf.Write(long)
	buf.WriteString("\n+\n")
	buf.Write(qual)
	buf.WriteString("\n")

	if got, want := scanErr(buf.String()), ErrTooLong; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWriterRoundTripsDecodedCells(t *testing.T) {
	s := stringScanner(fq)
	var b bytes.Buffer
	w := NewWriter(&b)
	var r Read
	for s.Scan(&r) {
		if err := w.Write(&r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), fq; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
