package report

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sampleAnalysis() *Analysis {
	return &Analysis{
		ProgramName: "target.so",
		EntryPoint:  "0x1000",
		EntryFunction: &DecompiledFunction{
			Name:       "main",
			EntryPoint: "0x1000",
			Code:       "int main(void)\n{\n  return 0;\n}\n",
			Signature:  "int main(void)",
			Body:       "[0x1000, 0x1009]",
		},
		Functions: []FunctionRecord{
			{Name: "main", EntryPoint: "0x1000", Signature: "int main(void)", BodyRange: "[0x1000, 0x1009]"},
		},
		Symbols: []SymbolRecord{
			{Name: "main", Address: "0x1000", Type: "Function", Source: "ANALYSIS"},
		},
		Disassembly: []InstructionRecord{
			{Address: "0x1000", Mnemonic: "nop", Operands: "", Bytes: "1f 20 03 d5", Comment: ""},
		},
		ImageBase: "0x1000",
		Language:  "AARCH64:LE:64:default",
	}
}

func TestWriteExtractRoundTrip(t *testing.T) {
	want := sampleAnalysis()

	var buf bytes.Buffer
	// The engine is free to emit unrelated noise around the document.
	buf.WriteString("INFO  REPORT Analysis succeeded\n")
	if err := Write(&buf, want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	buf.WriteString("INFO  Shutting down\n")

	raw, err := Extract(&buf)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	got, ok := doc.(*Analysis)
	if !ok {
		t.Fatalf("Parse() returned %T, want *Analysis", doc)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestParseDiscriminatesOnErrorFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &Failure{
		Error:       true,
		Message:     "symbol table corrupted",
		Traceback:   "goroutine 1 [running]:\n...",
		ProgramName: "target.so",
	}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	raw, err := Extract(&buf)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	f, ok := doc.(*Failure)
	if !ok {
		t.Fatalf("Parse() returned %T, want *Failure", doc)
	}
	if !f.Error || f.Message != "symbol table corrupted" {
		t.Errorf("failure = %+v", f)
	}
}

func TestExtractIgnoresSurroundingText(t *testing.T) {
	stream := strings.Join([]string{
		"openjdk warning: something",
		"__NEOGHIDRA_JSON_START__",
		`{"success": true, "message": "Renamed to x"}`,
		"__NEOGHIDRA_JSON_END__",
		"trailing garbage",
	}, "\n")

	raw, err := Extract(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if !strings.Contains(string(raw), `"success": true`) {
		t.Errorf("extracted %q", raw)
	}
}

func TestExtractNoDocument(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{"empty stream", ""},
		{"no markers at all", "just some log output\nmore output\n"},
		{"unterminated document", "__NEOGHIDRA_JSON_START__\n{\"error\": true}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(strings.NewReader(tt.stream))
			if !errors.Is(err, ErrNoDocument) {
				t.Errorf("Extract() error = %v, want ErrNoDocument", err)
			}
		})
	}
}

func TestWriteMarkersFrameDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &MutationResult{Success: false, Message: "No data at address"}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != StartMarker {
		t.Errorf("first line = %q, want start marker", lines[0])
	}
	if lines[len(lines)-1] != EndMarker {
		t.Errorf("last line = %q, want end marker", lines[len(lines)-1])
	}
}
