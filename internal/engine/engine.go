// Package engine defines the capability surface the aggregation pipeline
// consumes from a program-analysis backend. The backend is assumed to be
// pre-populated and fully analyzed; implementations only answer queries and
// apply the two narrow mutations (rename, data-type assignment).
package engine

import (
	"context"
	"time"
)

// SourceType classifies how a symbol's name was established.
type SourceType string

const (
	SourceAnalysis    SourceType = "ANALYSIS"
	SourceImported    SourceType = "IMPORTED"
	SourceUserDefined SourceType = "USER_DEFINED"
)

// CommentKind selects a comment class in the listing.
type CommentKind int

const (
	// EOLComment is the end-of-line comment class, the only kind the
	// report pipeline reads.
	EOLComment CommentKind = iota
)

// Function is a defined function as the backend models it.
type Function struct {
	Name      string
	Entry     Address
	Signature string
	Body      AddressRange
}

// Symbol is a named reference to an address.
type Symbol struct {
	Name     string
	Addr     Address
	Kind     string
	Source   SourceType
	External bool
}

// Instruction is one decoded instruction from the listing.
type Instruction struct {
	Addr     Address
	Mnemonic string
	Operands string
	Bytes    []byte
}

// Length returns the decoded byte length; the walk cursor advances by
// exactly this amount.
func (in *Instruction) Length() int { return len(in.Bytes) }

// DataType is a parsed type descriptor. Backends may interpret Size as 0 for
// types whose size they determine themselves.
type DataType struct {
	Name string
	Size int
}

// DecompileResult is the outcome of one decompilation attempt. Completed is
// false on timeout, cancellation, or any backend-side failure; Source is only
// meaningful when Completed is true.
type DecompileResult struct {
	Completed bool
	Source    string
}

// FunctionManager enumerates defined functions.
type FunctionManager interface {
	// All returns every defined function in the backend's natural layout
	// order.
	All() ([]Function, error)
	// Containing returns the function whose body contains addr, or nil if
	// the address falls outside every function. nil is a normal outcome,
	// not an error.
	Containing(addr Address) (*Function, error)
}

// SymbolTable enumerates and mutates symbols.
type SymbolTable interface {
	// All returns every symbol, including externals, in the backend's
	// iteration order.
	All() ([]Symbol, error)
	// At returns the symbols bound at addr, primary symbol first.
	At(addr Address) ([]Symbol, error)
	// Rename changes sym's name and provenance in the live analysis state.
	Rename(sym Symbol, newName string, source SourceType) error
}

// Listing reads code units and writes data assignments.
type Listing interface {
	// InstructionAt returns the instruction starting at addr, or nil if
	// the address holds no decoded instruction (gap, data, image end).
	InstructionAt(addr Address) (*Instruction, error)
	// CommentAt returns the comment of the given kind at addr, or "" when
	// none is set.
	CommentAt(addr Address, kind CommentKind) (string, error)
	// HasDataAt reports whether defined data exists at addr.
	HasDataAt(addr Address) (bool, error)
	// CreateData assigns dt to the existing data at addr.
	CreateData(addr Address, dt DataType) error
}

// Decompiler reconstructs source-like text for one function. Implementations
// must observe ctx and return a not-completed result on expiry rather than
// leaving the service in a state that corrupts later calls.
type Decompiler interface {
	Decompile(ctx context.Context, fn Function, timeout time.Duration) (DecompileResult, error)
}

// AddressFactory parses text-form addresses.
type AddressFactory interface {
	// Parse converts text to an address, returning *AddressParseError on
	// malformed input.
	Parse(text string) (Address, error)
}

// TypeParser parses text-form type names.
type TypeParser interface {
	// Parse converts text to a type descriptor, returning *TypeParseError
	// on unknown or malformed syntax.
	Parse(text string) (DataType, error)
}

// Program is the capability object handed to the aggregator at construction
// time. One Program represents one analyzed image.
type Program interface {
	Name() string
	ImageBase() Address
	MinAddress() Address
	LanguageID() string

	// EntryPoints returns the externally exported entry points in backend
	// order; empty when the image declares none.
	EntryPoints() []Address

	Functions() FunctionManager
	Symbols() SymbolTable
	Listing() Listing
	Decompiler() Decompiler
	Addresses() AddressFactory
	Types() TypeParser
}
