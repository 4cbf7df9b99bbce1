// Package fastqsrc adapts a pair of FASTQ streams into the assemble.Source
// contract: the out-of-scope "decompressing FASTQ record reader" the
// orchestrator pulls read pairs from.
//
// Grounded on readFASTQ in grailbio/bio/cmd/bio-fusion/main.go: open both
// files through grailbio/base/file (so s3:// inputs work transparently via
// the blank-imported s3file provider), wrap each in
// grailbio/base/compress.NewReaderPath for auto-decompression, and scan
// with encoding/fastq's PairScanner.
package fastqsrc

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"

	"github.com/bio-tools/pandaseq/encoding/fastq"
	"github.com/bio-tools/pandaseq/seq"
)

// QualOffset is the ASCII offset applied to quality characters: 33 for
// modern Illumina/Sanger FASTQ, 64 for the older Illumina 1.3-1.7
// convention (panda's "-6" flag).
type QualOffset byte

const (
	QualOffset33 QualOffset = 33
	QualOffset64 QualOffset = 64
)

// IDPolicy governs how strictly the forward/reverse read IDs must agree.
// Instruments commonly emit "<id>/1" and "<id>/2", or "<id> 1:N:..." and
// "<id> 2:N:...": Tolerant strips a trailing "/1"/"/2" or " 1"/" 2" mate
// marker before comparing; Strict requires the raw ID strings to match.
type IDPolicy int

const (
	IDPolicyStrict IDPolicy = iota
	IDPolicyTolerant
)

// Source reads paired FASTQ records from two streams and decodes them into
// seq.Read pairs. A mate-ID mismatch is reported as an error that IsBadID
// recognizes, so a caller can count the pair as seq.CodeBadID and keep
// reading instead of treating it as an I/O failure.
type Source struct {
	ctx        context.Context
	scanner    *fastq.PairScanner
	closers    []file.File
	qualOffset QualOffset
	idPolicy   IDPolicy
}

// Open opens r1Path and r2Path (local paths or any scheme
// grailbio/base/file supports, such as s3://), auto-decompressing based on
// file extension, and returns a Source ready to stream read pairs.
func Open(ctx context.Context, r1Path, r2Path string, qualOffset QualOffset, idPolicy IDPolicy) (*Source, error) {
	in1, err := file.Open(ctx, r1Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", r1Path)
	}
	in2, err := file.Open(ctx, r2Path)
	if err != nil {
		in1.Close(ctx) // nolint: errcheck
		return nil, errors.Wrapf(err, "open %s", r2Path)
	}

	var r1, r2 io.Reader = in1.Reader(ctx), in2.Reader(ctx)
	if u := compress.NewReaderPath(r1, in1.Name()); u != nil {
		r1 = u
	}
	if u := compress.NewReaderPath(r2, in2.Name()); u != nil {
		r2 = u
	}

	return &Source{
		ctx:        ctx,
		scanner:    fastq.NewPairScanner(r1, r2, fastq.ID|fastq.Cells, byte(qualOffset)),
		closers:    []file.File{in1, in2},
		qualOffset: qualOffset,
		idPolicy:   idPolicy,
	}, nil
}

// Next implements assemble.Source. Sequences exceeding seq.MaxLen are
// rejected at the scanner (fastq.ErrTooLong) before they could ever reach
// kmerindex.Seed's fixed-size bit addressing.
func (s *Source) Next() (forward, reverse *seq.Read, ok bool, err error) {
	var r1, r2 fastq.Read
	if !s.scanner.Scan(&r1, &r2) {
		return nil, nil, false, s.scanner.Err()
	}

	id1, id2 := normalizeID(r1.ID, s.idPolicy), normalizeID(r2.ID, s.idPolicy)
	if id1 != id2 {
		return nil, nil, true, errBadID
	}

	return &seq.Read{ID: id1, Cells: r1.Cells}, &seq.Read{ID: id2, Cells: r2.Cells}, true, nil
}

// errBadID is a sentinel distinguishing a mate-ID mismatch from a genuine
// I/O error. assemble.Source's contract treats any non-nil error as fatal,
// so a caller that wants to count BADID as a per-pair classification and
// keep reading (see cmd/pandaseq's reader goroutine) must check for this
// sentinel specifically via IsBadID before giving up on the stream.
var errBadID = errors.New("forward/reverse read IDs do not match")

// IsBadID reports whether err is the mate-ID mismatch sentinel Next can
// return.
func IsBadID(err error) bool {
	return errors.Cause(err) == errBadID
}

// Close releases the underlying files.
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(s.ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func normalizeID(id string, policy IDPolicy) string {
	if len(id) > 0 && id[0] == '@' {
		id = id[1:]
	}
	if policy == IDPolicyStrict {
		return id
	}
	if i := strings.IndexByte(id, ' '); i >= 0 {
		return id[:i]
	}
	if i := strings.LastIndexByte(id, '/'); i >= 0 && i == len(id)-2 {
		return id[:i]
	}
	return id
}

