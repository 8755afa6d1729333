// Package analysis implements the aggregation pipeline: entry resolution,
// function and symbol catalogs, a bounded disassembly walk, decompilation
// under a timeout, and the assembly of everything into one report document.
package analysis

import (
	"time"

	"github.com/charmbracelet/log"

	"neoghidra/internal/engine"
)

const (
	// DefaultMaxInstructions bounds the disassembly window.
	DefaultMaxInstructions = 100
	// DefaultDecompileTimeout bounds one decompilation request.
	DefaultDecompileTimeout = 30 * time.Second
)

// Analyzer aggregates one program's analysis results. It holds no state
// between runs beyond its configuration; all records are derived fresh from
// the engine on each Run.
type Analyzer struct {
	prog            engine.Program
	log             *log.Logger
	maxInstructions int
	timeout         time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxInstructions bounds the disassembly walk.
func WithMaxInstructions(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxInstructions = n
		}
	}
}

// WithDecompileTimeout bounds each decompilation request.
func WithDecompileTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger routes pipeline diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// New builds an Analyzer over the given engine capability object.
func New(prog engine.Program, opts ...Option) *Analyzer {
	a := &Analyzer{
		prog:            prog,
		log:             log.Default(),
		maxInstructions: DefaultMaxInstructions,
		timeout:         DefaultDecompileTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EntryPoint resolves the analysis seed address: the first externally
// exported entry point, falling back to the image minimum. It never fails.
func (a *Analyzer) EntryPoint() engine.Address {
	if eps := a.prog.EntryPoints(); len(eps) > 0 {
		return eps[0]
	}
	return a.prog.MinAddress()
}
