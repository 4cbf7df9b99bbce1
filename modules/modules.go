// Package modules implements the filter-module pipeline (C7): an ordered
// chain of accept/reject predicates run against an assembled result after
// alignment, consensus, and primer trimming succeed.
//
// Grounded on the pluggable detector/processor interface style used by
// grailbio/bio's duplicate-marking pipeline (an ordered chain of
// independently testable predicates, each returning a reason on
// rejection), adapted from per-read duplicate detection to per-result
// quality filters.
package modules

import "github.com/bio-tools/pandaseq/seq"

// Module is one filter stage. Check inspects the fully assembled, trimmed
// result and either accepts it or rejects it under code.
type Module interface {
	Check(result *seq.Result) (accept bool, code seq.Code)
}

// Precheck is implemented by modules that can reject a pair before
// alignment is attempted, from the raw forward/reverse reads alone.
type Precheck interface {
	PrecheckReads(forward, reverse *seq.Read) (accept bool, code seq.Code)
}

// Chain runs an ordered sequence of modules, stopping at the first
// rejection.
type Chain struct {
	modules []Module
}

// NewChain builds a chain that runs modules in order.
func NewChain(modules ...Module) *Chain {
	return &Chain{modules: modules}
}

// Append adds a module to the end of the chain.
func (c *Chain) Append(m Module) {
	c.modules = append(c.modules, m)
}

// Precheck runs every module implementing Precheck, in chain order,
// stopping at the first rejection.
func (c *Chain) Precheck(forward, reverse *seq.Read) (accept bool, code seq.Code) {
	for _, m := range c.modules {
		if p, ok := m.(Precheck); ok {
			if accept, code := p.PrecheckReads(forward, reverse); !accept {
				return false, code
			}
		}
	}
	return true, ""
}

// Check runs every module in chain order, stopping at the first rejection.
func (c *Chain) Check(result *seq.Result) (accept bool, code seq.Code) {
	for _, m := range c.modules {
		if accept, code := m.Check(result); !accept {
			return false, code
		}
	}
	return true, ""
}

// CodeMinLength is returned by MinLength on rejection.
const CodeMinLength seq.Code = "SHORT"

// MinLength rejects results shorter than N bases.
type MinLength struct {
	N int
}

// Check implements Module.
func (m MinLength) Check(result *seq.Result) (bool, seq.Code) {
	if result.Len() < m.N {
		return false, CodeMinLength
	}
	return true, ""
}

// CodeMaxLength is returned by MaxLength on rejection.
const CodeMaxLength seq.Code = "LONG"

// MaxLength rejects results longer than N bases.
type MaxLength struct {
	N int
}

// Check implements Module.
func (m MaxLength) Check(result *seq.Result) (bool, seq.Code) {
	if result.Len() > m.N {
		return false, CodeMaxLength
	}
	return true, ""
}

// CodeNFraction is returned by NFraction on rejection.
const CodeNFraction seq.Code = "NFRAC"

// NFraction rejects results whose fraction of unresolved ('N') bases
// exceeds Max.
type NFraction struct {
	Max float64
}

// Check implements Module.
func (m NFraction) Check(result *seq.Result) (bool, seq.Code) {
	if result.Len() == 0 {
		return true, ""
	}
	n := 0
	for _, c := range result.Cells {
		if c.Nt == 0 {
			n++
		}
	}
	if float64(n)/float64(result.Len()) > m.Max {
		return false, CodeNFraction
	}
	return true, ""
}
