// Package qualtable precomputes, once per process, the log-probability of
// observing a base pair given an underlying true base, for every possible
// pair of PHRED quality scores. It is the C1 component of the assembler: a
// fixed table derived from the PHRED error model, independent of any
// particular assembler's configuration.
//
// Grounded on the quality-combination arithmetic in
// grailbio/bio/pileup/snp/qual.go (qualSumTable), generalized from a single
// "agreement" table into separate match/mismatch/no-information tables as
// required by the overlap scorer.
package qualtable

import "math"

// MaxQual is one past the largest PHRED quality score the assembler
// accepts; scores are clamped into [0, MaxQual-1] at input.
const MaxQual = 64

// errProb[q] is the PHRED error model P(error) = 10^(-q/10).
var errProb [MaxQual]float64

// matchLog[qa][qb] is log P(observed bases agree | true base), mismatchLog
// is log P(observed bases disagree | true base), and nLog is the
// log-probability contributed when one of the two observations is an
// unresolved ('N') base: with no base-call information at all, the
// contribution is simply the log of the uniform prior over the 4 bases,
// regardless of the other read's quality.
var (
	matchLog    [MaxQual][MaxQual]float64
	mismatchLog [MaxQual][MaxQual]float64
	nLog        float64
)

// combineAgree[qa][qb] and combineDisagree[qWinner][qLoser] are recalibrated
// PHRED qualities for the consensus base, used by package consensus.
var (
	combineAgree    [MaxQual][MaxQual]byte
	combineDisagree [MaxQual][MaxQual]byte
)

func init() {
	for q := range errProb {
		errProb[q] = math.Pow(10, -float64(q)/10)
	}
	nLog = math.Log(0.25)
	for qa := 0; qa < MaxQual; qa++ {
		ea := errProb[qa]
		for qb := 0; qb < MaxQual; qb++ {
			eb := errProb[qb]
			// Two independently-erring base calls: they agree either because
			// both are correct, or because both happen to err to the same one
			// of the three wrong bases.
			pMatch := (1-ea)*(1-eb) + ea*eb/3
			if pMatch <= 0 {
				pMatch = math.SmallestNonzeroFloat64
			}
			if pMatch > 1 {
				pMatch = 1
			}
			matchLog[qa][qb] = math.Log(pMatch)
			pMismatch := 1 - pMatch
			if pMismatch <= 0 {
				pMismatch = math.SmallestNonzeroFloat64
			}
			mismatchLog[qa][qb] = math.Log(pMismatch)

			// Posterior error probability given both calls agree.
			errProduct := ea * eb
			newErr := errProduct / ((1-ea)*(1-eb) + errProduct)
			combineAgree[qa][qb] = phredOf(newErr)

			// Posterior probability that the higher-quality call (qa here
			// playing the role of "winner") is the correct one, given the
			// two calls disagree.
			pWinnerRight := (1 - ea) * eb
			pLoserRight := (1 - eb) * ea
			denom := pWinnerRight + pLoserRight
			var pWrong float64
			if denom <= 0 {
				pWrong = 0.5
			} else {
				pWrong = pLoserRight / denom
			}
			combineDisagree[qa][qb] = phredOf(pWrong)
		}
	}
}

// phredOf converts an error probability back to a clamped PHRED score.
func phredOf(errP float64) byte {
	if errP <= 0 {
		return MaxQual - 1
	}
	q := -10 * math.Log10(errP)
	if q < 0 {
		q = 0
	}
	if q >= MaxQual {
		q = MaxQual - 1
	}
	return byte(q + 0.5)
}

func clamp(q byte) byte {
	if q >= MaxQual {
		return MaxQual - 1
	}
	return q
}

// LogPMatch returns log P(bases agree | true base) for the given pair of
// observed PHRED qualities.
func LogPMatch(qa, qb byte) float64 { return matchLog[clamp(qa)][clamp(qb)] }

// LogPMismatch returns log P(bases disagree | true base) for the given
// pair of observed PHRED qualities.
func LogPMismatch(qa, qb byte) float64 { return mismatchLog[clamp(qa)][clamp(qb)] }

// LogPRandom is the log-probability of a uniformly random base match,
// used both to normalize overlap scores by length and as the contribution
// of a position where either read reports an unresolved ('N') base.
func LogPRandom() float64 { return nLog }

// CombineAgree returns the recalibrated PHRED quality for a consensus base
// where both reads agree, combining the two independent error estimates.
func CombineAgree(qa, qb byte) byte { return combineAgree[clamp(qa)][clamp(qb)] }

// CombineDisagree returns the recalibrated PHRED quality for a consensus
// base chosen from a disagreement, where qWinner is the quality of the
// selected (higher-quality) base and qLoser is the quality of the rejected
// one.
func CombineDisagree(qWinner, qLoser byte) byte { return combineDisagree[clamp(qWinner)][clamp(qLoser)] }
