package engine

import "fmt"

// Address is an opaque location inside the analyzed image. The pipeline only
// ever compares, offsets, and serializes addresses; it never interprets the
// underlying offset beyond that.
type Address struct {
	Offset uint64
}

// Addr is a convenience constructor.
func Addr(off uint64) Address { return Address{Offset: off} }

// String renders the canonical wire form used throughout the report schema.
func (a Address) String() string { return fmt.Sprintf("0x%x", a.Offset) }

// Add returns the address advanced by n bytes.
func (a Address) Add(n int) Address { return Address{Offset: a.Offset + uint64(n)} }

// Before reports whether a precedes b in the address space.
func (a Address) Before(b Address) bool { return a.Offset < b.Offset }

// AddressRange is a contiguous [Min, Max] span, Max inclusive.
type AddressRange struct {
	Min Address
	Max Address
}

// Range builds the inclusive span covering size bytes starting at min.
func Range(min Address, size uint64) AddressRange {
	if size == 0 {
		return AddressRange{Min: min, Max: min}
	}
	return AddressRange{Min: min, Max: min.Add(int(size - 1))}
}

// Contains reports whether a lies inside the span.
func (r AddressRange) Contains(a Address) bool {
	return !a.Before(r.Min) && !r.Max.Before(a)
}

// String renders the span the way function bodies appear in the report.
func (r AddressRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}
