// Package elfengine implements the engine capability surface on top of a
// memory-mapped ELF image. Analysis state written by mutations (renames,
// data-type assignments) lives in in-process overlays and does not outlive
// the invocation.
package elfengine

import (
	"context"
	"debug/elf"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"neoghidra/internal/disasm"
	"neoghidra/internal/elfx"
	"neoghidra/internal/engine"
)

// Engine is one opened, analyzed ELF image.
type Engine struct {
	img  *elfx.Image
	name string
	arch disasm.Arch
	lang string

	funcs []engine.Function
	syms  []engine.Symbol

	comments  map[uint64]string
	dataTypes map[uint64]engine.DataType
}

// Open maps the binary at path and builds the function and symbol catalogs.
func Open(path string) (*Engine, error) {
	img, err := elfx.Open(path)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		img:       img,
		name:      filepath.Base(path),
		lang:      languageID(img.File),
		comments:  make(map[uint64]string),
		dataTypes: make(map[uint64]engine.DataType),
	}

	switch img.File.Machine {
	case elf.EM_AARCH64:
		e.arch = disasm.ARM64
	case elf.EM_X86_64:
		e.arch = disasm.X86_64
	default:
		img.Close()
		return nil, fmt.Errorf("unsupported machine: %s", img.File.Machine)
	}

	e.buildCatalogs()
	return e, nil
}

// Close releases the underlying image mapping.
func (e *Engine) Close() error { return e.img.Close() }

func (e *Engine) Name() string { return e.name }

func (e *Engine) ImageBase() engine.Address {
	return engine.Addr(e.img.MinVaddr())
}

func (e *Engine) MinAddress() engine.Address {
	return engine.Addr(e.img.MinVaddr())
}

func (e *Engine) LanguageID() string { return e.lang }

func (e *Engine) EntryPoints() []engine.Address {
	if entry := e.img.Entry(); entry != 0 {
		return []engine.Address{engine.Addr(entry)}
	}
	return nil
}

func (e *Engine) Functions() engine.FunctionManager { return (*functionManager)(e) }
func (e *Engine) Symbols() engine.SymbolTable       { return (*symbolTable)(e) }
func (e *Engine) Listing() engine.Listing           { return (*listing)(e) }
func (e *Engine) Addresses() engine.AddressFactory  { return addressFactory{} }
func (e *Engine) Types() engine.TypeParser          { return typeParser{} }

// Decompiler returns the backend decompiler service. The ELF backend carries
// none, so every request reports not-completed and the report degrades to an
// absent entry_function.
func (e *Engine) Decompiler() engine.Decompiler { return noDecompiler{} }

type noDecompiler struct{}

func (noDecompiler) Decompile(ctx context.Context, fn engine.Function, timeout time.Duration) (engine.DecompileResult, error) {
	return engine.DecompileResult{Completed: false}, nil
}

type addressFactory struct{}

// Parse accepts hex address text with or without a 0x prefix.
func (addressFactory) Parse(text string) (engine.Address, error) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return engine.Address{}, &engine.AddressParseError{Text: text}
	}
	off, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return engine.Address{}, &engine.AddressParseError{Text: text}
	}
	return engine.Addr(off), nil
}

func languageID(f *elf.File) string {
	var arch string
	switch f.Machine {
	case elf.EM_AARCH64:
		arch = "AARCH64"
	case elf.EM_X86_64:
		arch = "x86"
	default:
		arch = strings.TrimPrefix(f.Machine.String(), "EM_")
	}

	endian := "LE"
	if f.ByteOrder.String() == "BigEndian" {
		endian = "BE"
	}

	bits := 32
	if f.Class == elf.ELFCLASS64 {
		bits = 64
	}

	return fmt.Sprintf("%s:%s:%d:default", arch, endian, bits)
}
