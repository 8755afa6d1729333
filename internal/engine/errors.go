package engine

import "fmt"

// AddressParseError reports malformed address text.
type AddressParseError struct {
	Text string
}

func (e *AddressParseError) Error() string {
	return fmt.Sprintf("invalid address: %q", e.Text)
}

// TypeParseError reports unknown or malformed type syntax.
type TypeParseError struct {
	Text   string
	Reason string
}

func (e *TypeParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid type %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("invalid type: %q", e.Text)
}
