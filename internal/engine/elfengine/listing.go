package elfengine

import (
	"errors"

	"neoghidra/internal/disasm"
	"neoghidra/internal/engine"
)

// Decode windows never need more than the longest x86 instruction.
const maxInstLen = 15

type listing Engine

func (l *listing) InstructionAt(addr engine.Address) (*engine.Instruction, error) {
	if !l.img.InText(addr.Offset) {
		return nil, nil
	}
	data, ok := l.img.SliceVAUpTo(addr.Offset, maxInstLen)
	if !ok || len(data) == 0 {
		return nil, nil
	}
	inst, err := disasm.Decode(l.arch, data, addr.Offset)
	if err != nil {
		if errors.Is(err, disasm.ErrUndecodable) {
			return nil, nil
		}
		return nil, err
	}
	return &engine.Instruction{
		Addr:     addr,
		Mnemonic: inst.Mnemonic,
		Operands: inst.Operands,
		Bytes:    inst.Bytes,
	}, nil
}

func (l *listing) CommentAt(addr engine.Address, kind engine.CommentKind) (string, error) {
	if kind != engine.EOLComment {
		return "", nil
	}
	return l.comments[addr.Offset], nil
}

// HasDataAt reports defined data: any mapped non-code location.
func (l *listing) HasDataAt(addr engine.Address) (bool, error) {
	if l.img.InText(addr.Offset) {
		return false, nil
	}
	return l.img.InWritableData(addr.Offset) || l.img.InReadOnlyData(addr.Offset), nil
}

func (l *listing) CreateData(addr engine.Address, dt engine.DataType) error {
	l.dataTypes[addr.Offset] = dt
	return nil
}
