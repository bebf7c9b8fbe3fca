package textcodec

import (
	"testing"

	"github.com/anonputraid/zetcipher/pkg/codemap"
	"github.com/anonputraid/zetcipher/pkg/permutation"
)

func alphabetTable(t *testing.T, index string) *codemap.ConversionMap {
	t.Helper()
	perm, err := permutation.Decode(Alphabet, index)
	if err != nil {
		t.Fatalf("permutation.Decode() error = %v", err)
	}
	m := codemap.NewConversionMap(perm)
	if err := m.Validate(); err != nil {
		t.Fatalf("alphabet table should be injective: %v", err)
	}
	return m
}

func TestAlphabet(t *testing.T) {
	if len(Alphabet) != 65 {
		t.Fatalf("len(Alphabet) = %d, want 65", len(Alphabet))
	}
	seen := make(map[rune]bool)
	for _, r := range Alphabet {
		if seen[r] {
			t.Fatalf("Alphabet repeats %q", r)
		}
		seen[r] = true
	}
}

func TestEncodeChar(t *testing.T) {
	m := codemap.NewConversionMap(Alphabet)

	tests := []struct {
		ch   byte
		code string
		ok   bool
	}{
		{'A', "65", true},
		{'z', "22", true},
		{'0', "48", true},
		{'/', "47", true},
		{' ', "32", true},
		{'!', "", false},
		{'_', "", false},
	}
	for _, tt := range tests {
		code, ok := EncodeChar(m, tt.ch)
		if ok != tt.ok || code != tt.code {
			t.Errorf("EncodeChar(%q) = (%q, %v), want (%q, %v)", tt.ch, code, ok, tt.code, tt.ok)
		}
	}
}

func TestEncode(t *testing.T) {
	m := codemap.NewConversionMap(Alphabet)

	tests := []struct {
		text string
		want string
	}{
		{"AB", "6566"},
		{"a!b", "9798"},
		{"", Empty},
		{"!!!", Empty},
	}
	for _, tt := range tests {
		if got := Encode(m, tt.text); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"hello",
		"Order-42 shipped",
		"user/1700000000/alice/",
		Alphabet,
	}

	for _, index := range []string{"1", "987654321987654321", "1234567890123456789012345678901234567890"} {
		m := alphabetTable(t, index)
		for _, text := range texts {
			enc := Encode(m, text)
			if len(enc) != 2*len(text) {
				t.Errorf("len(Encode(%q)) = %d, want %d", text, len(enc), 2*len(text))
			}
			got, ok := Decode(m, enc)
			if !ok || got != text {
				t.Errorf("Decode(Encode(%q)) = (%q, %v)", text, got, ok)
			}
		}
	}
}

func TestDecode_FailsClosed(t *testing.T) {
	m := codemap.NewConversionMap(Alphabet)

	tests := []struct {
		name   string
		digits string
	}{
		{"empty", ""},
		{"odd length", "656"},
		{"unknown pair", "6523"},
		{"unknown first pair", "2465"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Decode(m, tt.digits); ok {
				t.Errorf("Decode(%q) = %q, want failure", tt.digits, got)
			}
		})
	}
}

func TestScan(t *testing.T) {
	textCases := map[string]bool{
		"hello":       true,
		"Hello World": true,
		"a-b-c 123":   true,
		"":            false,
		"a/b":         false,
		"tab\t":       false,
		"ünï":         false,
	}
	for in, want := range textCases {
		if got := ScanText(in); got != want {
			t.Errorf("ScanText(%q) = %v, want %v", in, got, want)
		}
	}

	tokenCases := map[string]bool{
		"0123456789": true,
		"":           false,
		"12 3":       false,
		"12a":        false,
	}
	for in, want := range tokenCases {
		if got := ScanToken(in); got != want {
			t.Errorf("ScanToken(%q) = %v, want %v", in, got, want)
		}
	}
}
