// Package assemble implements the assembler orchestrator (C8): the
// per-pair state machine that drives every other package (seed, score,
// consensus, primer, modules) and owns the shared, reference-counted
// configuration a worker pool clones across goroutines.
//
// Grounded on the refcounted, mutex-guarded configuration object in
// grailbio/bio/fusion/gene_db.go (shared read-only state cloned across
// worker goroutines) and the per-record classification loop in
// cmd/bio-fusion/main.go's worker function, generalized from a fixed
// single-pass pipeline to the spec's configurable module chain.
package assemble

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/bio-tools/pandaseq/consensus"
	"github.com/bio-tools/pandaseq/kmerindex"
	"github.com/bio-tools/pandaseq/modules"
	"github.com/bio-tools/pandaseq/overlap"
	"github.com/bio-tools/pandaseq/primer"
	"github.com/bio-tools/pandaseq/seq"
)

// DefaultK is the k-mer length C3's seed index is built with.
const DefaultK = 8

// DefaultErrorEstimation is the assembler's default error-rate parameter q.
const DefaultErrorEstimation = 0.36

// DefaultThreshold is the default minimum overall quality for acceptance.
const DefaultThreshold = 0.6

// DefaultMinOverlap is the default minimum accepted overlap length.
const DefaultMinOverlap = 1

// Source produces successive read pairs. It is the out-of-scope
// "decompressing FASTQ record reader" contract: callers supply an
// adapter (see package fastqsrc) over their actual input.
type Source interface {
	// Next returns the next pair, or ok=false once the source is
	// exhausted.
	Next() (forward, reverse *seq.Read, ok bool, err error)
}

// Counters holds the per-pair outcome tallies the orchestrator maintains.
// All fields are read under the same mutex that guards configuration, to
// match the source's single combined lock.
type Counters struct {
	Count            int64
	OK               int64
	BadID            int64
	NoForwardPrimer  int64
	NoReversePrimer  int64
	LowQuality       int64
	Degenerate       int64
	NoAlignment      int64
	ModuleRejections map[seq.Code]int64
}

// Assembler is the per-pair state machine: READ -> SEED -> SCORE ->
// CONSENSUS -> PRIMER -> MODULES -> OK. Next pulls pairs from the
// Assembler's own Source; a worker pool instead runs several Assemblers,
// each configured from a common template via CopyConfig, and hands them
// pairs read from one shared source through Process.
type Assembler struct {
	source Source
	index  *kmerindex.Index
	chain  *modules.Chain

	mu                   sync.Mutex
	refcnt               int
	forwardPrimer        primer.Config
	reversePrimer        primer.Config
	minOverlap           int
	logThreshold         float64
	q                    float64
	pMatchBase           float64
	pMismatchBase        float64
	disallowDegenerates  bool
	counters             Counters
}

// New creates an assembler reading from source, with every configurable
// field at its documented default.
func New(source Source) *Assembler {
	a := &Assembler{
		source:     source,
		index:      kmerindex.New(DefaultK),
		chain:      modules.NewChain(),
		refcnt:     1,
		minOverlap: DefaultMinOverlap,
		counters: Counters{
			ModuleRejections: make(map[seq.Code]int64),
		},
	}
	a.SetErrorEstimation(DefaultErrorEstimation)
	a.SetThreshold(DefaultThreshold)
	return a
}

// Ref increments the reference count and returns the assembler, mirroring
// the source's shared-ownership handle.
func (a *Assembler) Ref() *Assembler {
	a.mu.Lock()
	a.refcnt++
	a.mu.Unlock()
	return a
}

// Unref decrements the reference count, reporting whether this was the
// last reference.
func (a *Assembler) Unref() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refcnt--
	return a.refcnt == 0
}

// AppendModule adds a filter module to the end of the chain.
func (a *Assembler) AppendModule(m modules.Module) {
	a.chain.Append(m)
}

// SetMinimumOverlap sets the minimum accepted overlap length. Out-of-range
// values (overlap <= 1 or overlap >= seq.MaxLen) are silently dropped, to
// match the source's bounds-checked setter.
func (a *Assembler) SetMinimumOverlap(overlap int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if overlap > 1 && overlap < seq.MaxLen {
		a.minOverlap = overlap
	}
}

// MinimumOverlap returns the currently configured minimum overlap.
func (a *Assembler) MinimumOverlap() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.minOverlap
}

// SetThreshold sets the minimum overall quality for acceptance, stored as
// its log for numeric stability. Out-of-range values (threshold outside
// (0,1)) are silently dropped.
func (a *Assembler) SetThreshold(threshold float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if threshold > 0 && threshold < 1 {
		a.logThreshold = logOf(threshold)
	}
}

// Threshold returns exp(logThreshold); repeated round-trips through
// SetThreshold/Threshold are not guaranteed bit-identical.
func (a *Assembler) Threshold() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return expOf(a.logThreshold)
}

// SetErrorEstimation sets q and its two derived log-probabilities, mirroring
// panda_assembler_set_error_estimation. q and its derivatives are assembler
// configuration state only: the overlap scorer's per-position contribution
// is exactly C1's p_match(qa,qb)/p_mismatch(qa,qb), not these values, so
// they never double up against the per-quality table. Out of range values
// (q outside (0,1)) are silently dropped.
func (a *Assembler) SetErrorEstimation(q float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if q > 0 && q < 1 {
		a.q = q
		a.pMatchBase = logOf(0.25 * (1 - q) * (1 - q))
		a.pMismatchBase = logOf((3*q - 2*q*q) / 18)
	}
}

// ErrorEstimation returns the configured q.
func (a *Assembler) ErrorEstimation() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.q
}

// SetDisallowDegenerates toggles whether a degenerate consensus base
// classifies the pair as "degenerate".
func (a *Assembler) SetDisallowDegenerates(disallow bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disallowDegenerates = disallow
}

// SetForwardPrimer configures the forward-end IUPAC primer pattern,
// clearing any forward trim (mutual exclusion).
func (a *Assembler) SetForwardPrimer(codes []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forwardPrimer = primer.Config{Sequence: decodeIUPAC(codes)}
}

// SetReversePrimer configures the reverse-end IUPAC primer pattern,
// clearing any reverse trim (mutual exclusion).
func (a *Assembler) SetReversePrimer(codes []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reversePrimer = primer.Config{Sequence: decodeIUPAC(codes)}
}

// SetForwardTrim configures a fixed forward-end trim count, clearing any
// forward primer (mutual exclusion).
func (a *Assembler) SetForwardTrim(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forwardPrimer = primer.Config{Trim: n}
}

// SetReverseTrim configures a fixed reverse-end trim count, clearing any
// reverse primer (mutual exclusion).
func (a *Assembler) SetReverseTrim(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reversePrimer = primer.Config{Trim: n}
}

// Counters returns a snapshot of the current counter values.
func (a *Assembler) Counters() Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := a.counters
	snapshot.ModuleRejections = make(map[seq.Code]int64, len(a.counters.ModuleRejections))
	for k, v := range a.counters.ModuleRejections {
		snapshot.ModuleRejections[k] = v
	}
	return snapshot
}

// CopyConfig copies src's configuration into dst and makes dst use src's
// module chain (the same *modules.Chain, not a copy), for a worker pool
// spinning up several Assemblers against a single template.
// Counters and the k-mer index are not copied: each Assembler owns its
// own pair-local scratch state.
func CopyConfig(dst, src *Assembler) {
	src.mu.Lock()
	forwardPrimer := src.forwardPrimer
	reversePrimer := src.reversePrimer
	minOverlap := src.minOverlap
	logThreshold := src.logThreshold
	q := src.q
	pMatchBase := src.pMatchBase
	pMismatchBase := src.pMismatchBase
	disallow := src.disallowDegenerates
	chainModules := src.chain
	src.mu.Unlock()

	dst.mu.Lock()
	dst.forwardPrimer = forwardPrimer
	dst.reversePrimer = reversePrimer
	dst.minOverlap = minOverlap
	dst.logThreshold = logThreshold
	dst.q = q
	dst.pMatchBase = pMatchBase
	dst.pMismatchBase = pMismatchBase
	dst.disallowDegenerates = disallow
	dst.mu.Unlock()

	dst.chain = chainModules
}

// Next runs the state machine once: READ, then Process for the pair just
// read. It returns the assembled result and seq.CodeOK on success; on a
// terminal classification it returns a nil result, the classifying code,
// and the original forward/reverse reads (so a caller can route them to a
// rejects sink). ok is false once the source is exhausted (not a
// classification).
func (a *Assembler) Next() (result *seq.Result, code seq.Code, forward, reverse *seq.Read, ok bool, err error) {
	forward, reverse, ok, err = a.source.Next()
	if err != nil {
		return nil, "", nil, nil, false, errors.Wrap(err, "read next pair")
	}
	if !ok {
		return nil, "", nil, nil, false, nil
	}
	result, code = a.Process(forward, reverse)
	return result, code, forward, reverse, true, nil
}

// Process runs SEED/SCORE/CONSENSUS/PRIMER/MODULES against an
// already-read pair, without touching a.source. Process must not run
// concurrently with another Process or Next call on the same Assembler:
// the counters are mutex-guarded, but the k-mer index is unguarded
// per-pair scratch state. A worker pool that
// wants pair-level parallelism should give each goroutine its own
// Assembler (cloned from a template via CopyConfig), with a single
// producer goroutine reading pairs from the shared source and handing
// them out over a channel, matching the reqCh/processRequests split in
// cmd/bio-fusion/main.go.
func (a *Assembler) Process(forward, reverse *seq.Read) (result *seq.Result, code seq.Code) {
	a.mu.Lock()
	a.counters.Count++
	a.mu.Unlock()

	if accept, rejCode := a.chain.Precheck(forward, reverse); !accept {
		a.countRejection(rejCode)
		return nil, rejCode
	}

	revComp := reverseComplement(reverse)

	a.index.Seed(forward.Cells, kmerindex.Forward)
	a.index.Seed(revComp, kmerindex.Reverse)
	offsets := a.index.CandidateOffsets(forward.Cells, len(revComp), a.MinimumOverlap())
	a.index.Unseed(forward.Cells, kmerindex.Forward)
	a.index.Unseed(revComp, kmerindex.Reverse)

	a.mu.Lock()
	params := overlap.Params{
		MinOverlap: a.minOverlap,
	}
	logThreshold := a.logThreshold
	disallowDegenerates := a.disallowDegenerates
	a.mu.Unlock()

	best, found := overlap.Best(forward.Cells, revComp, offsets, params)
	if !found {
		a.countRejection(seq.CodeNoAlignment)
		return nil, seq.CodeNoAlignment
	}
	if !overlap.PassesThreshold(best, logThreshold) {
		a.countRejection(seq.CodeLowQuality)
		return nil, seq.CodeLowQuality
	}

	assembled := consensus.Build(forward.ID, forward, reverse, revComp, best.Offset, best.RawLogProb)
	if disallowDegenerates && assembled.Degenerates > 0 {
		a.countRejection(seq.CodeDegenerate)
		return nil, seq.CodeDegenerate
	}

	a.mu.Lock()
	fp, rp := a.forwardPrimer, a.reversePrimer
	a.mu.Unlock()
	if primerOK, primerCode := primer.Apply(assembled, fp, rp); !primerOK {
		a.countRejection(primerCode)
		return nil, primerCode
	}

	if accept, rejCode := a.chain.Check(assembled); !accept {
		a.countRejection(rejCode)
		return nil, rejCode
	}

	a.mu.Lock()
	a.counters.OK++
	a.mu.Unlock()
	return assembled, seq.CodeOK
}

func (a *Assembler) countRejection(code seq.Code) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch code {
	case seq.CodeBadID:
		a.counters.BadID++
	case seq.CodeNoForwardPrimer:
		a.counters.NoForwardPrimer++
	case seq.CodeNoReversePrimer:
		a.counters.NoReversePrimer++
	case seq.CodeLowQuality:
		a.counters.LowQuality++
	case seq.CodeDegenerate:
		a.counters.Degenerate++
	case seq.CodeNoAlignment:
		a.counters.NoAlignment++
	default:
		a.counters.ModuleRejections[code]++
	}
}
