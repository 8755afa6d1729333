package analysis

import (
	"context"

	"neoghidra/internal/engine"
	"neoghidra/internal/report"
)

// Decompile invokes the engine's decompiler for fn under the configured
// timeout. A nil function returns nil without issuing a call. Timeout,
// cancellation, backend failure, and empty output all degrade silently to
// nil; a partial or garbled result is never reported.
func (a *Analyzer) Decompile(ctx context.Context, fn *engine.Function) *report.DecompiledFunction {
	if fn == nil {
		return nil
	}

	dctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.prog.Decompiler().Decompile(dctx, *fn, a.timeout)
	if err != nil {
		a.log.Debug("decompilation failed", "function", fn.Name, "err", err)
		return nil
	}
	if !res.Completed || res.Source == "" {
		a.log.Debug("decompilation incomplete", "function", fn.Name)
		return nil
	}

	return &report.DecompiledFunction{
		Name:       fn.Name,
		EntryPoint: fn.Entry.String(),
		Code:       res.Source,
		Signature:  fn.Signature,
		Body:       fn.Body.String(),
	}
}
