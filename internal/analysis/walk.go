package analysis

import (
	"fmt"
	"strings"

	"neoghidra/internal/engine"
	"neoghidra/internal/report"
)

// Disassembly walks the listing from start, decoding one instruction at a
// time and advancing the cursor by exactly the decoded length, until max
// records have been produced or no instruction exists at the cursor. A
// decode gap terminates the walk silently; only engine access failures are
// returned as errors.
func (a *Analyzer) Disassembly(start engine.Address, max int) ([]report.InstructionRecord, error) {
	listing := a.prog.Listing()

	out := make([]report.InstructionRecord, 0, max)
	cur := start
	for len(out) < max {
		in, err := listing.InstructionAt(cur)
		if err != nil {
			return nil, fmt.Errorf("read instruction at %s: %w", cur, err)
		}
		if in == nil {
			break
		}

		comment, err := listing.CommentAt(cur, engine.EOLComment)
		if err != nil {
			return nil, fmt.Errorf("read comment at %s: %w", cur, err)
		}

		out = append(out, report.InstructionRecord{
			Address:  in.Addr.String(),
			Mnemonic: in.Mnemonic,
			Operands: in.Operands,
			Bytes:    hexBytes(in.Bytes),
			Comment:  comment,
		})
		cur = cur.Add(in.Length())
	}
	return out, nil
}

// hexBytes renders raw bytes as space-joined two-digit lowercase hex pairs,
// each value kept in the unsigned 0-255 range.
func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v&0xff)
	}
	return strings.Join(parts, " ")
}
