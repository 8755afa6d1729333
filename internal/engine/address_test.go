package engine

import "testing"

func TestAddressString(t *testing.T) {
	tests := []struct {
		off  uint64
		want string
	}{
		{0, "0x0"},
		{0x1000, "0x1000"},
		{0xdeadbeef, "0xdeadbeef"},
	}
	for _, tt := range tests {
		if got := Addr(tt.off).String(); got != tt.want {
			t.Errorf("Addr(%#x).String() = %q, want %q", tt.off, got, tt.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Range(Addr(0x1000), 10)

	if r.String() != "[0x1000, 0x1009]" {
		t.Errorf("Range string = %q", r.String())
	}

	tests := []struct {
		addr uint64
		want bool
	}{
		{0x0fff, false},
		{0x1000, true},
		{0x1005, true},
		{0x1009, true},
		{0x100a, false},
	}
	for _, tt := range tests {
		if got := r.Contains(Addr(tt.addr)); got != tt.want {
			t.Errorf("Contains(%#x) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestZeroSizeRange(t *testing.T) {
	r := Range(Addr(0x2000), 0)
	if !r.Contains(Addr(0x2000)) {
		t.Error("zero-size range must still contain its base address")
	}
	if r.Contains(Addr(0x2001)) {
		t.Error("zero-size range must not extend past its base")
	}
}
