package analysis

import (
	"fmt"

	"neoghidra/internal/engine"
	"neoghidra/internal/report"
)

// Mutator applies the two write operations against the engine's live
// analysis state. Every fault, including panics out of the backend, is
// converted into a failed MutationResult; nothing escapes the boundary.
type Mutator struct {
	prog engine.Program
}

// NewMutator builds a Mutator over the given engine capability object.
func NewMutator(prog engine.Program) *Mutator {
	return &Mutator{prog: prog}
}

// RenameSymbol renames the first symbol bound at the given address text,
// attributing the new name to user-defined provenance.
func (m *Mutator) RenameSymbol(addressText, newName string) (res report.MutationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Sprint(r))
		}
	}()

	addr, err := m.prog.Addresses().Parse(addressText)
	if err != nil {
		return failed(err.Error())
	}

	syms, err := m.prog.Symbols().At(addr)
	if err != nil {
		return failed(err.Error())
	}
	if len(syms) == 0 {
		return failed("No symbol found at address")
	}

	if err := m.prog.Symbols().Rename(syms[0], newName, engine.SourceUserDefined); err != nil {
		return failed(err.Error())
	}
	return succeeded(fmt.Sprintf("Renamed to %s", newName))
}

// SetDataType assigns a type to existing data at the given address text.
// The type text is only parsed once data is known to exist there; assigning
// over undefined bytes or code is refused.
func (m *Mutator) SetDataType(addressText, typeText string) (res report.MutationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Sprint(r))
		}
	}()

	addr, err := m.prog.Addresses().Parse(addressText)
	if err != nil {
		return failed(err.Error())
	}

	listing := m.prog.Listing()
	has, err := listing.HasDataAt(addr)
	if err != nil {
		return failed(err.Error())
	}
	if !has {
		return failed("No data at address")
	}

	dt, err := m.prog.Types().Parse(typeText)
	if err != nil {
		return failed(err.Error())
	}

	if err := listing.CreateData(addr, dt); err != nil {
		return failed(err.Error())
	}
	return succeeded(fmt.Sprintf("Set type to %s", typeText))
}

func failed(msg string) report.MutationResult {
	return report.MutationResult{Success: false, Message: msg}
}

func succeeded(msg string) report.MutationResult {
	return report.MutationResult{Success: true, Message: msg}
}
