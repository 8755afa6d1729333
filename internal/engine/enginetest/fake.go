// Package enginetest provides a configurable in-memory engine backend for
// exercising the aggregation pipeline without a real analysis database.
package enginetest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"neoghidra/internal/engine"
)

// Program is a scriptable engine.Program. Zero value is a valid empty
// program; populate fields and error hooks as the test requires.
type Program struct {
	ProgramName string
	Base        engine.Address
	Min         engine.Address
	Language    string
	Entries     []engine.Address

	Funcs    []engine.Function
	Syms     []engine.Symbol
	Insts    map[uint64]engine.Instruction
	Comments map[uint64]string
	Data     map[uint64]bool

	// Fault injection. A non-nil error fails the corresponding engine
	// access.
	FuncErr error
	SymErr  error
	InstErr error

	// DecompileFunc overrides the decompiler; nil means every request
	// reports not-completed.
	DecompileFunc func(ctx context.Context, fn engine.Function, timeout time.Duration) (engine.DecompileResult, error)

	// TypeParseCalls counts TypeParser.Parse invocations.
	TypeParseCalls int
	// CreatedData records CreateData assignments by address offset.
	CreatedData map[uint64]engine.DataType
}

// ScriptedDecompiler returns a DecompileFunc that completes immediately
// with the given source text.
func ScriptedDecompiler(source string) func(context.Context, engine.Function, time.Duration) (engine.DecompileResult, error) {
	return func(ctx context.Context, fn engine.Function, timeout time.Duration) (engine.DecompileResult, error) {
		return engine.DecompileResult{Completed: true, Source: source}, nil
	}
}

// StalledDecompiler returns a DecompileFunc that never produces output and
// observes cancellation like a backend honoring its timeout.
func StalledDecompiler() func(context.Context, engine.Function, time.Duration) (engine.DecompileResult, error) {
	return func(ctx context.Context, fn engine.Function, timeout time.Duration) (engine.DecompileResult, error) {
		<-ctx.Done()
		return engine.DecompileResult{Completed: false}, ctx.Err()
	}
}

func (p *Program) Name() string {
	if p.ProgramName == "" {
		return "fake"
	}
	return p.ProgramName
}

func (p *Program) ImageBase() engine.Address  { return p.Base }
func (p *Program) MinAddress() engine.Address { return p.Min }

func (p *Program) LanguageID() string {
	if p.Language == "" {
		return "AARCH64:LE:64:default"
	}
	return p.Language
}

func (p *Program) EntryPoints() []engine.Address { return p.Entries }

func (p *Program) Functions() engine.FunctionManager { return (*fakeFuncs)(p) }
func (p *Program) Symbols() engine.SymbolTable       { return (*fakeSyms)(p) }
func (p *Program) Listing() engine.Listing           { return (*fakeListing)(p) }
func (p *Program) Decompiler() engine.Decompiler     { return (*fakeDecompiler)(p) }
func (p *Program) Addresses() engine.AddressFactory  { return fakeAddresses{} }
func (p *Program) Types() engine.TypeParser          { return (*fakeTypes)(p) }

type fakeFuncs Program

func (f *fakeFuncs) All() ([]engine.Function, error) {
	if f.FuncErr != nil {
		return nil, f.FuncErr
	}
	return append([]engine.Function(nil), f.Funcs...), nil
}

func (f *fakeFuncs) Containing(addr engine.Address) (*engine.Function, error) {
	if f.FuncErr != nil {
		return nil, f.FuncErr
	}
	for i := range f.Funcs {
		if f.Funcs[i].Body.Contains(addr) {
			fn := f.Funcs[i]
			return &fn, nil
		}
	}
	return nil, nil
}

type fakeSyms Program

func (s *fakeSyms) All() ([]engine.Symbol, error) {
	if s.SymErr != nil {
		return nil, s.SymErr
	}
	return append([]engine.Symbol(nil), s.Syms...), nil
}

func (s *fakeSyms) At(addr engine.Address) ([]engine.Symbol, error) {
	if s.SymErr != nil {
		return nil, s.SymErr
	}
	var out []engine.Symbol
	for _, sym := range s.Syms {
		if sym.Addr == addr {
			out = append(out, sym)
		}
	}
	return out, nil
}

func (s *fakeSyms) Rename(sym engine.Symbol, newName string, source engine.SourceType) error {
	for i := range s.Syms {
		if s.Syms[i].Addr == sym.Addr && s.Syms[i].Name == sym.Name {
			s.Syms[i].Name = newName
			s.Syms[i].Source = source
			return nil
		}
	}
	return nil
}

type fakeListing Program

func (l *fakeListing) InstructionAt(addr engine.Address) (*engine.Instruction, error) {
	if l.InstErr != nil {
		return nil, l.InstErr
	}
	in, ok := l.Insts[addr.Offset]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (l *fakeListing) CommentAt(addr engine.Address, kind engine.CommentKind) (string, error) {
	if kind != engine.EOLComment {
		return "", nil
	}
	return l.Comments[addr.Offset], nil
}

func (l *fakeListing) HasDataAt(addr engine.Address) (bool, error) {
	return l.Data[addr.Offset], nil
}

func (l *fakeListing) CreateData(addr engine.Address, dt engine.DataType) error {
	if l.CreatedData == nil {
		l.CreatedData = make(map[uint64]engine.DataType)
	}
	l.CreatedData[addr.Offset] = dt
	return nil
}

type fakeDecompiler Program

func (d *fakeDecompiler) Decompile(ctx context.Context, fn engine.Function, timeout time.Duration) (engine.DecompileResult, error) {
	if d.DecompileFunc != nil {
		return d.DecompileFunc(ctx, fn, timeout)
	}
	return engine.DecompileResult{Completed: false}, nil
}

type fakeAddresses struct{}

func (fakeAddresses) Parse(text string) (engine.Address, error) {
	t := strings.TrimPrefix(strings.TrimSpace(text), "0x")
	off, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return engine.Address{}, &engine.AddressParseError{Text: text}
	}
	return engine.Addr(off), nil
}

type fakeTypes Program

func (t *fakeTypes) Parse(text string) (engine.DataType, error) {
	t.TypeParseCalls++
	switch strings.TrimSpace(text) {
	case "int":
		return engine.DataType{Name: "int", Size: 4}, nil
	case "byte":
		return engine.DataType{Name: "byte", Size: 1}, nil
	case "char *":
		return engine.DataType{Name: "char *", Size: 8}, nil
	default:
		return engine.DataType{}, &engine.TypeParseError{Text: text, Reason: "unknown type"}
	}
}
