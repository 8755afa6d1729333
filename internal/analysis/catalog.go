package analysis

import (
	"fmt"

	"neoghidra/internal/report"
)

// Functions enumerates every defined function in the engine's layout order.
// No filtering is applied.
func (a *Analyzer) Functions() ([]report.FunctionRecord, error) {
	fns, err := a.prog.Functions().All()
	if err != nil {
		return nil, fmt.Errorf("enumerate functions: %w", err)
	}

	records := make([]report.FunctionRecord, 0, len(fns))
	for _, fn := range fns {
		records = append(records, report.FunctionRecord{
			Name:       fn.Name,
			EntryPoint: fn.Entry.String(),
			Signature:  fn.Signature,
			BodyRange:  fn.Body.String(),
		})
	}
	return records, nil
}

// Symbols enumerates every symbol in engine iteration order, excluding
// externals. No re-sorting is imposed.
func (a *Analyzer) Symbols() ([]report.SymbolRecord, error) {
	syms, err := a.prog.Symbols().All()
	if err != nil {
		return nil, fmt.Errorf("enumerate symbols: %w", err)
	}

	records := make([]report.SymbolRecord, 0, len(syms))
	for _, sym := range syms {
		if sym.External {
			continue
		}
		records = append(records, report.SymbolRecord{
			Name:    sym.Name,
			Address: sym.Addr.String(),
			Type:    sym.Kind,
			Source:  string(sym.Source),
		})
	}
	return records, nil
}
