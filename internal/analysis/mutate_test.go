package analysis

import (
	"testing"

	"neoghidra/internal/engine"
	"neoghidra/internal/engine/enginetest"
)

func mutationProgram() *enginetest.Program {
	return &enginetest.Program{
		Syms: []engine.Symbol{
			{Name: "primary", Addr: engine.Addr(0x2000), Kind: "Label", Source: engine.SourceAnalysis},
			{Name: "alias", Addr: engine.Addr(0x2000), Kind: "Label", Source: engine.SourceAnalysis},
			{Name: "other", Addr: engine.Addr(0x3000), Kind: "Label", Source: engine.SourceAnalysis},
		},
		Data: map[uint64]bool{0x4000: true},
	}
}

func TestRenameSymbol(t *testing.T) {
	tests := []struct {
		name        string
		address     string
		newName     string
		wantSuccess bool
		wantMessage string
	}{
		{"renames first symbol at address", "0x2000", "renamed_fn", true, "Renamed to renamed_fn"},
		{"no symbol at address", "0x9999", "renamed_fn", false, "No symbol found at address"},
		{"malformed address text", "not-an-address", "renamed_fn", false, `invalid address: "not-an-address"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mutationProgram()
			res := NewMutator(p).RenameSymbol(tt.address, tt.newName)
			if res.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v (%s)", res.Success, tt.wantSuccess, res.Message)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", res.Message, tt.wantMessage)
			}
		})
	}
}

func TestRenameAppliesToFirstOnly(t *testing.T) {
	p := mutationProgram()
	res := NewMutator(p).RenameSymbol("0x2000", "renamed_fn")
	if !res.Success {
		t.Fatalf("rename failed: %s", res.Message)
	}

	if p.Syms[0].Name != "renamed_fn" {
		t.Errorf("first symbol = %q, want renamed_fn", p.Syms[0].Name)
	}
	if p.Syms[0].Source != engine.SourceUserDefined {
		t.Errorf("provenance = %q, want USER_DEFINED", p.Syms[0].Source)
	}
	if p.Syms[1].Name != "alias" {
		t.Errorf("second symbol = %q, must be untouched", p.Syms[1].Name)
	}
}

func TestRenameFailureLeavesTableUnchanged(t *testing.T) {
	p := mutationProgram()
	NewMutator(p).RenameSymbol("0x9999", "renamed_fn")

	for _, want := range []string{"primary", "alias", "other"} {
		found := false
		for _, s := range p.Syms {
			if s.Name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("symbol %q missing after failed rename", want)
		}
	}
}

func TestSetDataType(t *testing.T) {
	tests := []struct {
		name        string
		address     string
		typeText    string
		wantSuccess bool
		wantMessage string
	}{
		{"assigns type to existing data", "0x4000", "int", true, "Set type to int"},
		{"no data at address", "0x5000", "int", false, "No data at address"},
		{"unknown type syntax", "0x4000", "gizmo_t", false, `invalid type "gizmo_t": unknown type`},
		{"malformed address text", "xyzzy", "int", false, `invalid address: "xyzzy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mutationProgram()
			res := NewMutator(p).SetDataType(tt.address, tt.typeText)
			if res.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v (%s)", res.Success, tt.wantSuccess, res.Message)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", res.Message, tt.wantMessage)
			}
		})
	}
}

func TestSetDataTypeSkipsParseWithoutData(t *testing.T) {
	p := mutationProgram()
	res := NewMutator(p).SetDataType("0x5000", "int")
	if res.Success {
		t.Fatal("set-type succeeded over undefined bytes")
	}
	if p.TypeParseCalls != 0 {
		t.Errorf("type parser invoked %d times, want 0", p.TypeParseCalls)
	}
	if len(p.CreatedData) != 0 {
		t.Errorf("data created despite failure: %+v", p.CreatedData)
	}
}

func TestSetDataTypeAppliesAssignment(t *testing.T) {
	p := mutationProgram()
	res := NewMutator(p).SetDataType("0x4000", "int")
	if !res.Success {
		t.Fatalf("set-type failed: %s", res.Message)
	}
	dt, ok := p.CreatedData[0x4000]
	if !ok {
		t.Fatal("no data assignment recorded")
	}
	if dt.Name != "int" || dt.Size != 4 {
		t.Errorf("assigned type = %+v", dt)
	}
}
