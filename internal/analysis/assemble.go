package analysis

import (
	"context"
	"fmt"
	"runtime/debug"

	"neoghidra/internal/report"
)

// unknownProgram is the sentinel name used when the program handle itself is
// unusable during failure reporting.
const unknownProgram = "unknown"

// Run executes the full aggregation in fixed order: resolve entry, find the
// containing function, decompile it, enumerate functions and symbols, and
// disassemble from the entry. Any fault not already absorbed by a stage
// aborts the remaining steps and yields a *report.Failure instead; the
// result is always exactly one of the two top-level shapes.
func (a *Analyzer) Run(ctx context.Context) report.Document {
	doc, err := a.run(ctx)
	if err != nil {
		return a.failure(err)
	}
	return doc
}

func (a *Analyzer) run(ctx context.Context) (doc *report.Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("panic during aggregation: %v\n%s", r, debug.Stack())
		}
	}()

	entry := a.EntryPoint()
	a.log.Debug("resolved entry point", "address", entry)

	entryFn, err := a.prog.Functions().Containing(entry)
	if err != nil {
		return nil, fmt.Errorf("find entry function: %w", err)
	}

	entryDecompiled := a.Decompile(ctx, entryFn)

	functions, err := a.Functions()
	if err != nil {
		return nil, err
	}

	symbols, err := a.Symbols()
	if err != nil {
		return nil, err
	}

	disassembly, err := a.Disassembly(entry, a.maxInstructions)
	if err != nil {
		return nil, err
	}

	a.log.Debug("aggregation complete",
		"functions", len(functions),
		"symbols", len(symbols),
		"instructions", len(disassembly))

	return &report.Analysis{
		ProgramName:   a.prog.Name(),
		EntryPoint:    entry.String(),
		EntryFunction: entryDecompiled,
		Functions:     functions,
		Symbols:       symbols,
		Disassembly:   disassembly,
		ImageBase:     a.prog.ImageBase().String(),
		Language:      a.prog.LanguageID(),
	}, nil
}

func (a *Analyzer) failure(cause error) *report.Failure {
	a.log.Error("aggregation failed", "err", cause)
	return &report.Failure{
		Error:       true,
		Message:     cause.Error(),
		Traceback:   string(debug.Stack()),
		ProgramName: a.programName(),
	}
}

// programName is best-effort: a panicking program handle must not mask the
// original failure.
func (a *Analyzer) programName() (name string) {
	defer func() {
		if recover() != nil {
			name = unknownProgram
		}
	}()
	if a.prog == nil {
		return unknownProgram
	}
	return a.prog.Name()
}
