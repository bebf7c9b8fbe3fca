package codemap

import (
	"errors"
	"strings"
	"testing"
)

func TestConversionMap_Codes(t *testing.T) {
	// 'A'=65, 'z'=122, ' '=32
	m := NewConversionMap("Az ")

	tests := []struct {
		pos  int
		code string
	}{
		{1, "65"},
		{2, "22"},
		{3, "32"},
	}
	for _, tt := range tests {
		code, ok := m.Code(tt.pos)
		if !ok || code != tt.code {
			t.Errorf("Code(%d) = (%q, %v), want %q", tt.pos, code, ok, tt.code)
		}
		pos, ok := m.Position(tt.code)
		if !ok || pos != tt.pos {
			t.Errorf("Position(%q) = (%d, %v), want %d", tt.code, pos, ok, tt.pos)
		}
	}

	if _, ok := m.Code(0); ok {
		t.Error("Code(0) should be absent")
	}
	if _, ok := m.Code(4); ok {
		t.Error("Code(4) should be absent")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	if !m.Injective() || m.Validate() != nil {
		t.Error("map without collisions should be injective")
	}
}

func TestConversionMap_Collisions(t *testing.T) {
	// bytes 5, 105 and 205 all reduce to code 05
	m := NewConversionMap(string([]byte{5, 'x', 105, 205, 7}))

	if m.Injective() {
		t.Fatal("Injective() = true, want false")
	}

	cs := m.Collisions()
	if len(cs) != 1 {
		t.Fatalf("len(Collisions()) = %d, want 1", len(cs))
	}
	if cs[0].Code != "05" || len(cs[0].Positions) != 3 {
		t.Errorf("Collisions()[0] = %+v", cs[0])
	}

	if err := m.Validate(); !errors.Is(err, ErrCollision) {
		t.Errorf("Validate() error = %v, want ErrCollision", err)
	}

	// reverse direction keeps the last claimant
	if pos, _ := m.Position("05"); pos != 4 {
		t.Errorf("Position(05) = %d, want 4", pos)
	}
}

func TestNewSignatureMap_Rejects(t *testing.T) {
	tests := []struct {
		name string
		pool string
		err  error
	}{
		{"empty", "", ErrSignatureEmpty},
		{"too long", "0123456789a", ErrSignatureTooLong},
		{"duplicate", "1123", ErrSignatureDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSignatureMap(tt.pool); !errors.Is(err, tt.err) {
				t.Errorf("NewSignatureMap(%q) error = %v, want %v", tt.pool, err, tt.err)
			}
		})
	}
}

func TestSignatureMap_ApplyRevert(t *testing.T) {
	m, err := NewSignatureMap("7310598246")
	if err != nil {
		t.Fatalf("NewSignatureMap() error = %v", err)
	}
	if !m.Bijective() {
		t.Fatal("digit permutation should be bijective")
	}

	if got := m.Apply("0123456789"); got != "7310598246" {
		t.Errorf("Apply(0123456789) = %q", got)
	}

	in := "000918273645500"
	applied := m.Apply(in)
	if applied == in {
		t.Error("Apply() should change the text")
	}
	if got := m.Revert(applied); got != in {
		t.Errorf("Revert(Apply(%q)) = %q", in, got)
	}
}

func TestSignatureMap_PassThrough(t *testing.T) {
	m, err := NewSignatureMap("10")
	if err != nil {
		t.Fatalf("NewSignatureMap() error = %v", err)
	}
	if got := m.Apply("0129"); got != "1029" {
		t.Errorf("Apply(0129) = %q, want 1029", got)
	}
	if !m.Bijective() {
		t.Error(`"10" is a permutation of 0..1`)
	}

	partial, _ := NewSignatureMap("ab")
	if partial.Bijective() {
		t.Error("non-digit pool should not be bijective")
	}
	if got := partial.Apply(strings.Repeat("01", 2)); got != "abab" {
		t.Errorf("Apply() = %q, want abab", got)
	}
}
