package resultio

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-tools/pandaseq/nt"
	"github.com/bio-tools/pandaseq/seq"
)

func result(id, s string) *seq.Result {
	cells := make([]seq.Cell, len(s))
	for i := 0; i < len(s); i++ {
		cells[i] = seq.Cell{Nt: nt.FromByte(s[i]), Qual: 40}
	}
	return &seq.Result{ID: id, Cells: cells}
}

func read(id, s string) *seq.Read {
	cells := make([]seq.Cell, len(s))
	for i := 0; i < len(s); i++ {
		cells[i] = seq.Cell{Nt: nt.FromByte(s[i]), Qual: 40}
	}
	return &seq.Read{ID: id, Cells: cells}
}

func TestResultWriterWritesFASTA(t *testing.T) {
	var buf bytes.Buffer
	w := NewResultWriter(&buf)
	require.NoError(t, w.Write(result("r1", "ACGT")))
	assert.Equal(t, ">r1\nACGT\n", buf.String())
}

func TestGzipResultWriterProducesValidGzip(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipResultWriter(&buf)
	require.NoError(t, w.Write(result("r1", "ACGT")))
	require.NoError(t, w.Close())

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, ">r1\nACGT\n", string(data))
}

func TestFastqResultWriterEncodesQuality(t *testing.T) {
	var buf bytes.Buffer
	w := NewFastqResultWriter(&buf)
	r := result("r1", "ACGT")
	r.Cells[0].Qual = 0
	r.Cells[1].Qual = 40
	require.NoError(t, w.Write(r))
	assert.Equal(t, "@r1\nACGT\n+\n!III\n", buf.String())
}

func TestRejectWriterRecordsCode(t *testing.T) {
	var buf bytes.Buffer
	w := NewRejectWriter(&buf)
	require.NoError(t, w.Write(read("r1", "ACGT"), read("r1", "TTTT"), seq.CodeNoAlignment))
	assert.Equal(t, ">r1 NOALGN\nACGT\nTTTT\n", buf.String())
}
