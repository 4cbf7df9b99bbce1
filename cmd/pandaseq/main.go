// Command pandaseq assembles paired-end FASTQ reads into consensus
// sequences: the CLI wrapper, worker-pool fan-out, and output plumbing
// that sit outside the assembler core.
//
// Grounded on grailbio/bio/cmd/bio-fusion/main.go's flag setup, grail.Init/
// vcontext.Background bootstrap, and reqCh/resCh worker-pool pattern,
// adapted from fusion detection to pair assembly: each worker owns its own
// Assembler (cloned from a template via assemble.CopyConfig) and its own
// k-mer index, so no per-pair state is shared across goroutines.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	_ "github.com/grailbio/base/file/s3file" // registers the s3:// scheme
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/bio-tools/pandaseq/assemble"
	"github.com/bio-tools/pandaseq/fastqsrc"
	"github.com/bio-tools/pandaseq/modules"
	"github.com/bio-tools/pandaseq/pandapb"
	"github.com/bio-tools/pandaseq/resultio"
	"github.com/bio-tools/pandaseq/seq"
)

type cliFlags struct {
	r1Path, r2Path   string
	outputPath       string
	fastqOutput      bool
	rejectsPath      string
	threshold        float64
	minOverlap       int
	errorEstimation  float64
	qualOffset       int
	tolerantIDs      bool
	disallowDegens   bool
	forwardPrimer    string
	reversePrimer    string
	forwardTrim      int
	reverseTrim      int
	minLength        int
	maxLength        int
	maxNFraction     float64
	workers          int
}

// resultWriter is satisfied by both resultio.ResultWriter (FASTA) and
// resultio.FastqResultWriter (FASTQ), so run can pick the output format at
// startup without branching on every write.
type resultWriter interface {
	Write(result *seq.Result) error
}

func usage() {
	fmt.Fprintln(os.Stderr, `
pandaseq assembles overlapping paired-end FASTQ reads into a single
consensus sequence per pair, optionally trimming amplification primers.

Usage:
  pandaseq -r1 forward.fastq.gz -r2 reverse.fastq.gz -o assembled.fa

Required flags:
  -r1, -r2    paths (or s3:// URLs) to the forward and reverse FASTQ files

See -help for the full flag list.
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.Usage = usage
	flag.StringVar(&f.r1Path, "r1", "", "forward-read FASTQ file")
	flag.StringVar(&f.r2Path, "r2", "", "reverse-read FASTQ file")
	flag.StringVar(&f.outputPath, "o", "", "assembled-sequence output file; default stdout")
	flag.BoolVar(&f.fastqOutput, "F", false, "write assembled sequences as FASTQ (with recalibrated quality) instead of FASTA")
	flag.StringVar(&f.rejectsPath, "u", "", "unaligned-pairs output file; rejects are discarded if unset")
	flag.Float64Var(&f.threshold, "t", assemble.DefaultThreshold, "minimum overall quality to accept a pair")
	flag.IntVar(&f.minOverlap, "o-min", assemble.DefaultMinOverlap, "minimum accepted overlap length")
	flag.Float64Var(&f.errorEstimation, "C", assemble.DefaultErrorEstimation, "assumed per-base error rate")
	flag.IntVar(&f.qualOffset, "6", int(fastqsrc.QualOffset33), "quality ASCII offset: 33 (default) or 64")
	flag.BoolVar(&f.tolerantIDs, "B", false, "tolerate mate-ID suffixes like /1, /2 instead of requiring exact match")
	flag.BoolVar(&f.disallowDegens, "N", false, "reject pairs whose consensus contains a degenerate base")
	flag.StringVar(&f.forwardPrimer, "p", "", "forward primer IUPAC sequence to locate and clip")
	flag.StringVar(&f.reversePrimer, "q", "", "reverse primer IUPAC sequence to locate and clip")
	flag.IntVar(&f.forwardTrim, "trim-front", 0, "fixed number of bases to trim from the front, if -p is unset")
	flag.IntVar(&f.reverseTrim, "trim-back", 0, "fixed number of bases to trim from the back, if -q is unset")
	flag.IntVar(&f.minLength, "l", 0, "reject assembled sequences shorter than this many bases")
	flag.IntVar(&f.maxLength, "L", 0, "reject assembled sequences longer than this many bases (0 = no limit)")
	flag.Float64Var(&f.maxNFraction, "n", 1.0, "reject assembled sequences with more than this fraction of N bases")
	flag.IntVar(&f.workers, "T", runtime.NumCPU(), "number of assembler workers to run in parallel")
	flag.Parse()

	if f.r1Path == "" || f.r2Path == "" {
		usage()
	}
	return f
}

func buildTemplate(f cliFlags) *assemble.Assembler {
	template := assemble.New(nil)
	template.SetThreshold(f.threshold)
	template.SetMinimumOverlap(f.minOverlap)
	template.SetErrorEstimation(f.errorEstimation)
	template.SetDisallowDegenerates(f.disallowDegens)

	if f.forwardPrimer != "" {
		template.SetForwardPrimer([]byte(f.forwardPrimer))
	} else if f.forwardTrim > 0 {
		template.SetForwardTrim(f.forwardTrim)
	}
	if f.reversePrimer != "" {
		template.SetReversePrimer([]byte(f.reversePrimer))
	} else if f.reverseTrim > 0 {
		template.SetReverseTrim(f.reverseTrim)
	}

	if f.minLength > 0 {
		template.AppendModule(modules.MinLength{N: f.minLength})
	}
	if f.maxLength > 0 {
		template.AppendModule(modules.MaxLength{N: f.maxLength})
	}
	if f.maxNFraction < 1.0 {
		template.AppendModule(modules.NFraction{Max: f.maxNFraction})
	}
	return template
}

func run(f cliFlags) error {
	ctx := vcontext.Background()

	var resultSink io.Writer = os.Stdout
	if f.outputPath != "" {
		w, err := file.Create(ctx, f.outputPath)
		if err != nil {
			return errors.E(err, "create output file")
		}
		defer w.Close(ctx) // nolint: errcheck
		resultSink = w.Writer(ctx)
	}
	var out resultWriter
	if f.fastqOutput {
		out = resultio.NewFastqResultWriter(resultSink)
	} else {
		out = resultio.NewResultWriter(resultSink)
	}

	var rejects *resultio.RejectWriter
	if f.rejectsPath != "" {
		w, err := file.Create(ctx, f.rejectsPath)
		if err != nil {
			return errors.E(err, "create rejects file")
		}
		defer w.Close(ctx) // nolint: errcheck
		rejects = resultio.NewRejectWriter(w.Writer(ctx))
	}

	qualOffset := fastqsrc.QualOffset(f.qualOffset)
	idPolicy := fastqsrc.IDPolicyStrict
	if f.tolerantIDs {
		idPolicy = fastqsrc.IDPolicyTolerant
	}
	source, err := fastqsrc.Open(ctx, f.r1Path, f.r2Path, qualOffset, idPolicy)
	if err != nil {
		return errors.E(err, "open input")
	}
	defer source.Close() // nolint: errcheck

	template := buildTemplate(f)

	workers := f.workers
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		result           *seq.Result
		code             seq.Code
		forward, reverse *seq.Read
	}
	pairCh := make(chan [2]*seq.Read, 1024)
	outCh := make(chan outcome, 1024)

	var readErr error
	var badID int64
	go func() {
		defer close(pairCh)
		for {
			fwd, rev, ok, nextErr := source.Next()
			if nextErr != nil {
				if fastqsrc.IsBadID(nextErr) {
					badID++
					log.Debug.Printf("rejected pair: %s", seq.CodeBadID)
					continue
				}
				readErr = nextErr
				return
			}
			if !ok {
				return
			}
			pairCh <- [2]*seq.Read{fwd, rev}
		}
	}()

	var workersWG sync.WaitGroup
	assemblers := make([]*assemble.Assembler, workers)
	for i := 0; i < workers; i++ {
		a := assemble.New(nil)
		assemble.CopyConfig(a, template)
		assemblers[i] = a

		workersWG.Add(1)
		go func(a *assemble.Assembler) {
			defer workersWG.Done()
			for pair := range pairCh {
				result, code := a.Process(pair[0], pair[1])
				outCh <- outcome{result: result, code: code, forward: pair[0], reverse: pair[1]}
			}
		}(a)
	}
	go func() {
		workersWG.Wait()
		close(outCh)
	}()

	var writerErr error
	for o := range outCh {
		switch {
		case o.code == seq.CodeOK:
			if err := out.Write(o.result); err != nil && writerErr == nil {
				writerErr = err
			}
		case rejects != nil:
			if err := rejects.Write(o.forward, o.reverse, o.code); err != nil && writerErr == nil {
				writerErr = err
			}
		default:
			log.Debug.Printf("rejected pair %s: %s", o.forward.ID, o.code)
		}
	}
	if writerErr != nil {
		return writerErr
	}
	if readErr != nil {
		return errors.E(readErr, "read input")
	}

	merged := &pandapb.Summary{}
	for _, a := range assemblers {
		s := pandapb.FromCounters(a.Counters())
		merged.Merge(s)
	}
	merged.BadId = &badID
	log.Printf("pandaseq: %d pairs, %d assembled, %d low-quality, %d no-alignment, %d bad-id",
		merged.GetTotal()+merged.GetBadId(), merged.GetOk(), merged.GetLowQuality(), merged.GetNoAlignment(), merged.GetBadId())
	return nil
}

func main() {
	f := parseFlags()
	cleanup := grail.Init()
	defer cleanup()

	if err := run(f); err != nil {
		log.Fatalf("pandaseq: %v", err)
	}
}
