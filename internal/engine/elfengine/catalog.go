package elfengine

import (
	"debug/elf"
	"sort"
	"strings"

	"github.com/ianlancetaylor/demangle"

	"neoghidra/internal/elfx"
	"neoghidra/internal/engine"
)

// buildCatalogs derives the function and symbol views from the raw ELF
// symbol tables. Functions are keyed by entry address; the symbol list keeps
// table iteration order (.symtab first, then .dynsym) with duplicates
// collapsed.
func (e *Engine) buildCatalogs() {
	seenFunc := make(map[uint64]bool)
	seenSym := make(map[string]bool)

	for _, s := range e.img.Syms {
		if s.Name == "" {
			continue
		}

		key := s.Name + "@" + engine.Addr(s.Addr).String()
		if !seenSym[key] {
			seenSym[key] = true
			e.syms = append(e.syms, engine.Symbol{
				Name:     s.Name,
				Addr:     engine.Addr(s.Addr),
				Kind:     symbolKind(s),
				Source:   symbolSource(e.img, s),
				External: s.Undefined,
			})
		}

		if s.Kind != elf.STT_FUNC || s.Undefined || s.Addr == 0 || seenFunc[s.Addr] {
			continue
		}
		seenFunc[s.Addr] = true

		size := s.Size
		if size == 0 {
			size = 1
		}
		e.funcs = append(e.funcs, engine.Function{
			Name:      s.Name,
			Entry:     engine.Addr(s.Addr),
			Signature: signature(s.Name),
			Body:      engine.Range(engine.Addr(s.Addr), size),
		})
	}

	// The layout order the image presents functions in.
	sort.Slice(e.funcs, func(i, j int) bool {
		return e.funcs[i].Entry.Before(e.funcs[j].Entry)
	})
}

func symbolKind(s elfx.Sym) string {
	switch s.Kind {
	case elf.STT_FUNC:
		return "Function"
	default:
		return "Label"
	}
}

func symbolSource(img *elfx.Image, s elfx.Sym) engine.SourceType {
	if s.Undefined || img.InPLT(s.Addr) {
		return engine.SourceImported
	}
	return engine.SourceAnalysis
}

func signature(name string) string {
	dem := demangle.Filter(name, demangle.NoClones)
	if strings.Contains(dem, "(") {
		return dem
	}
	return "undefined " + dem + "()"
}

type functionManager Engine

func (fm *functionManager) All() ([]engine.Function, error) {
	out := make([]engine.Function, len(fm.funcs))
	copy(out, fm.funcs)
	return out, nil
}

func (fm *functionManager) Containing(addr engine.Address) (*engine.Function, error) {
	for i := range fm.funcs {
		if fm.funcs[i].Body.Contains(addr) {
			fn := fm.funcs[i]
			return &fn, nil
		}
	}
	return nil, nil
}

type symbolTable Engine

func (st *symbolTable) All() ([]engine.Symbol, error) {
	out := make([]engine.Symbol, len(st.syms))
	copy(out, st.syms)
	return out, nil
}

func (st *symbolTable) At(addr engine.Address) ([]engine.Symbol, error) {
	var out []engine.Symbol
	for _, s := range st.syms {
		if s.Addr == addr && !s.External {
			out = append(out, s)
		}
	}
	return out, nil
}

// Rename updates the live symbol catalog and, when the symbol names a
// function entry, the function catalog with it.
func (st *symbolTable) Rename(sym engine.Symbol, newName string, source engine.SourceType) error {
	for i := range st.syms {
		if st.syms[i].Addr == sym.Addr && st.syms[i].Name == sym.Name {
			st.syms[i].Name = newName
			st.syms[i].Source = source
			break
		}
	}
	for i := range st.funcs {
		if st.funcs[i].Entry == sym.Addr && st.funcs[i].Name == sym.Name {
			st.funcs[i].Name = newName
			st.funcs[i].Signature = signature(newName)
		}
	}
	return nil
}
