// Package report defines the JSON documents emitted over the text channel
// and the marker framing around them. Field names are part of the wire
// contract and must stay stable.
package report

// FunctionRecord describes one defined function.
type FunctionRecord struct {
	Name       string `json:"name"`
	EntryPoint string `json:"entry_point"`
	Signature  string `json:"signature"`
	BodyRange  string `json:"body_range"`
}

// SymbolRecord describes one non-external symbol.
type SymbolRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
	Source  string `json:"source"`
}

// InstructionRecord describes one decoded instruction. Bytes holds two-digit
// lowercase hex pairs joined by spaces; Comment is "" when no end-of-line
// comment is set, never omitted.
type InstructionRecord struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic"`
	Operands string `json:"operands"`
	Bytes    string `json:"bytes"`
	Comment  string `json:"comment"`
}

// DecompiledFunction is the fully decompiled entry function. It is present
// in an Analysis only when decompilation ran to completion within its
// timeout; partial output is never reported.
type DecompiledFunction struct {
	Name       string `json:"name"`
	EntryPoint string `json:"entry_point"`
	Code       string `json:"code"`
	Signature  string `json:"signature"`
	Body       string `json:"body"`
}

// Analysis is the successful top-level report. Every field is populated;
// there is no partial Analysis.
type Analysis struct {
	ProgramName   string              `json:"program_name"`
	EntryPoint    string              `json:"entry_point"`
	EntryFunction *DecompiledFunction `json:"entry_function"`
	Functions     []FunctionRecord    `json:"functions"`
	Symbols       []SymbolRecord      `json:"symbols"`
	Disassembly   []InstructionRecord `json:"disassembly"`
	ImageBase     string              `json:"image_base"`
	Language      string              `json:"language"`
}

// Failure is the alternate top-level shape produced when aggregation hits an
// unrecoverable fault. Consumers discriminate on the error flag alone.
type Failure struct {
	Error       bool   `json:"error"`
	Message     string `json:"message"`
	Traceback   string `json:"traceback"`
	ProgramName string `json:"program_name"`
}

// MutationResult is the outcome of a rename or set-type operation.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Document is any top-level shape that may appear between the markers.
type Document interface{ document() }

func (*Analysis) document()       {}
func (*Failure) document()        {}
func (*MutationResult) document() {}
