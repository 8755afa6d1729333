// Package disasm decodes single instructions for the architectures the
// native ELF engine supports. It is a thin front-end over golang.org/x/arch;
// walking and bounding live in the analysis pipeline.
package disasm

import (
	"errors"
	"strings"

	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

// Arch selects the decoder.
type Arch int

const (
	ARM64 Arch = iota
	X86_64
)

// ErrUndecodable marks bytes that do not form a valid instruction. Callers
// treat it as a decode gap, not a fault.
var ErrUndecodable = errors.New("no instruction at address")

// Inst is one decoded instruction.
type Inst struct {
	VA       uint64
	Mnemonic string // lowercase mnemonic
	Operands string // operand text, "" for operand-less instructions
	Bytes    []byte // raw encoding, Len() bytes
}

// Len returns the encoded byte length.
func (in Inst) Len() int { return len(in.Bytes) }

// Decode decodes the instruction at the start of data. data may extend past
// the instruction; only the decoded prefix is retained in Bytes.
func Decode(arch Arch, data []byte, va uint64) (Inst, error) {
	switch arch {
	case ARM64:
		return decodeARM64(data, va)
	case X86_64:
		return decodeX86(data, va)
	default:
		return Inst{}, errors.New("unsupported architecture")
	}
}

func decodeARM64(data []byte, va uint64) (Inst, error) {
	if len(data) < 4 {
		return Inst{}, ErrUndecodable
	}
	inst, err := arm64asm.Decode(data[:4])
	if err != nil {
		return Inst{}, ErrUndecodable
	}
	mnemonic, operands := splitText(strings.ToLower(inst.String()))
	return Inst{
		VA:       va,
		Mnemonic: mnemonic,
		Operands: operands,
		Bytes:    append([]byte(nil), data[:4]...),
	}, nil
}

func decodeX86(data []byte, va uint64) (Inst, error) {
	inst, err := x86asm.Decode(data, 64)
	if err != nil || inst.Len <= 0 {
		return Inst{}, ErrUndecodable
	}
	mnemonic, operands := splitText(strings.ToLower(x86asm.IntelSyntax(inst, va, nil)))
	return Inst{
		VA:       va,
		Mnemonic: mnemonic,
		Operands: operands,
		Bytes:    append([]byte(nil), data[:inst.Len]...),
	}, nil
}

func splitText(text string) (mnemonic, operands string) {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) > 1 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return parts[0], ""
}
