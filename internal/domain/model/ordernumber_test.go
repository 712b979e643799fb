package model

import (
	"strings"
	"testing"
)

func TestNewOrderNumberFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		number := NewOrderNumber()
		if !strings.HasPrefix(number, "ORD-") {
			t.Fatalf("expected ORD- prefix, got %q", number)
		}
		if len(number) != len("ORD-")+8 {
			t.Fatalf("unexpected length for %q", number)
		}
		if !ValidOrderNumber(number) {
			t.Fatalf("generated number %q did not validate", number)
		}
	}
}

func TestNewOrderNumberUniqueEnough(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		number := NewOrderNumber()
		if _, dup := seen[number]; dup {
			t.Fatalf("duplicate order number %q after %d draws", number, i)
		}
		seen[number] = struct{}{}
	}
}

func TestValidOrderNumber(t *testing.T) {
	cases := []struct {
		number string
		valid  bool
	}{
		{"ORD-12345678", true},
		{"ORD-ABCDEFGH", true},
		{"ORD-A1B2C3D4", true},
		{"ord-12345678", false},
		{"ORD-1234567", false},
		{"ORD-123456789", false},
		{"ORD-abcdefgh", false},
		{"ORD-1234567!", false},
		{"12345678", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidOrderNumber(tc.number); got != tc.valid {
			t.Fatalf("ValidOrderNumber(%q) = %v, want %v", tc.number, got, tc.valid)
		}
	}
}
