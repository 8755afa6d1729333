package analysis

import (
	"context"
	"errors"
	"testing"

	"neoghidra/internal/engine"
	"neoghidra/internal/engine/enginetest"
	"neoghidra/internal/report"
)

// testProgram builds the canonical scenario: one 10-byte function at 0x1000
// that is also the entry point, with a small instruction stream behind it.
func testProgram() *enginetest.Program {
	return &enginetest.Program{
		ProgramName: "target.so",
		Base:        engine.Addr(0x1000),
		Min:         engine.Addr(0x1000),
		Entries:     []engine.Address{engine.Addr(0x1000)},
		Funcs: []engine.Function{
			{
				Name:      "main",
				Entry:     engine.Addr(0x1000),
				Signature: "undefined main()",
				Body:      engine.Range(engine.Addr(0x1000), 10),
			},
		},
		Syms: []engine.Symbol{
			{Name: "main", Addr: engine.Addr(0x1000), Kind: "Function", Source: engine.SourceAnalysis},
			{Name: "data_blob", Addr: engine.Addr(0x4000), Kind: "Label", Source: engine.SourceAnalysis},
			{Name: "printf", Addr: engine.Addr(0x0), Kind: "Function", Source: engine.SourceImported, External: true},
		},
		Insts: map[uint64]engine.Instruction{
			0x1000: {Addr: engine.Addr(0x1000), Mnemonic: "sub", Operands: "sp, sp, #0x10", Bytes: []byte{0xff, 0x43, 0x00, 0xd1}},
			0x1004: {Addr: engine.Addr(0x1004), Mnemonic: "nop", Bytes: []byte{0x1f, 0x20, 0x03, 0xd5}},
			0x1008: {Addr: engine.Addr(0x1008), Mnemonic: "ret", Bytes: []byte{0xc0, 0x03, 0x5f, 0xd6}},
		},
		Comments: map[uint64]string{
			0x1004: "padding",
		},
	}
}

func TestEntryPointResolution(t *testing.T) {
	tests := []struct {
		name    string
		entries []engine.Address
		min     engine.Address
		want    string
	}{
		{"first external entry wins", []engine.Address{engine.Addr(0x1000), engine.Addr(0x2000)}, engine.Addr(0x400), "0x1000"},
		{"no entries falls back to min address", nil, engine.Addr(0x400), "0x400"},
		{"empty image degrades to zero", nil, engine.Addr(0), "0x0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &enginetest.Program{Entries: tt.entries, Min: tt.min}
			got := New(p).EntryPoint()
			if got.String() != tt.want {
				t.Errorf("EntryPoint() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFunctionsNoDuplicates(t *testing.T) {
	p := testProgram()
	p.Funcs = append(p.Funcs, engine.Function{
		Name:      "helper",
		Entry:     engine.Addr(0x2000),
		Signature: "undefined helper()",
		Body:      engine.Range(engine.Addr(0x2000), 4),
	})

	records, err := New(p).Functions()
	if err != nil {
		t.Fatalf("Functions() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.EntryPoint] {
			t.Errorf("duplicate entry point %s", r.EntryPoint)
		}
		seen[r.EntryPoint] = true
		if r.Name == "" || r.Signature == "" || r.BodyRange == "" {
			t.Errorf("partial record: %+v", r)
		}
	}
}

func TestSymbolsExcludeExternal(t *testing.T) {
	records, err := New(testProgram()).Symbols()
	if err != nil {
		t.Fatalf("Symbols() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.Name == "printf" {
			t.Error("external symbol leaked into catalog")
		}
	}
}

func TestRunEndToEnd(t *testing.T) {
	p := testProgram()
	p.DecompileFunc = enginetest.ScriptedDecompiler("int main(void)\n{\n  return 0;\n}\n")

	doc := New(p).Run(context.Background())
	a, ok := doc.(*report.Analysis)
	if !ok {
		t.Fatalf("Run() returned %T, want *report.Analysis", doc)
	}

	if a.ProgramName != "target.so" {
		t.Errorf("program_name = %q", a.ProgramName)
	}
	if a.EntryPoint != "0x1000" {
		t.Errorf("entry_point = %q, want 0x1000", a.EntryPoint)
	}
	if a.EntryFunction == nil {
		t.Fatal("entry_function absent, want present")
	}
	if a.EntryFunction.Name != "main" || a.EntryFunction.Code == "" {
		t.Errorf("entry_function = %+v", a.EntryFunction)
	}
	if len(a.Functions) != 1 || a.Functions[0].EntryPoint != "0x1000" {
		t.Errorf("functions = %+v", a.Functions)
	}
	if len(a.Disassembly) != 3 || a.Disassembly[0].Address != "0x1000" {
		t.Errorf("disassembly = %+v", a.Disassembly)
	}
	if a.ImageBase != "0x1000" || a.Language == "" {
		t.Errorf("metadata = %q %q", a.ImageBase, a.Language)
	}
}

func TestRunEntryOutsideAnyFunction(t *testing.T) {
	p := testProgram()
	p.Entries = []engine.Address{engine.Addr(0x9000)}

	doc := New(p).Run(context.Background())
	a, ok := doc.(*report.Analysis)
	if !ok {
		t.Fatalf("Run() returned %T, want *report.Analysis", doc)
	}
	if a.EntryFunction != nil {
		t.Error("entry_function present, want absent for non-code entry")
	}
	if a.EntryPoint != "0x9000" {
		t.Errorf("entry_point = %q", a.EntryPoint)
	}
}

func TestRunEngineFaultYieldsErrorReport(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*enginetest.Program)
	}{
		{"symbol enumeration fault", func(p *enginetest.Program) {
			p.SymErr = errors.New("symbol table corrupted")
		}},
		{"function enumeration fault", func(p *enginetest.Program) {
			p.FuncErr = errors.New("function manager unavailable")
		}},
		{"listing fault", func(p *enginetest.Program) {
			p.InstErr = errors.New("listing read failed")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProgram()
			tt.mutate(p)

			doc := New(p).Run(context.Background())
			f, ok := doc.(*report.Failure)
			if !ok {
				t.Fatalf("Run() returned %T, want *report.Failure", doc)
			}
			if !f.Error {
				t.Error("error flag not set")
			}
			if f.Message == "" {
				t.Error("empty failure message")
			}
			if f.Traceback == "" {
				t.Error("empty traceback")
			}
			if f.ProgramName != "target.so" {
				t.Errorf("program_name = %q", f.ProgramName)
			}
		})
	}
}
