package permutation

import (
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/anonputraid/zetcipher/pkg/decimal"
)

func TestDecode_KnownVectors(t *testing.T) {
	tests := []struct {
		pool  string
		index string
		want  string
	}{
		{"ABCDE", "1", "ABCDE"},
		{"ABCDE", "2", "ABCED"},
		{"ABCDE", "7", "ACBDE"},
		{"ABCDE", "25", "BACDE"},
		{"ABCDE", "120", "EDCBA"},
		{"ABCDE", "000120", "EDCBA"},
		{"X", "1", "X"},
		{"1234567890", "3628800", "0987654321"},
	}

	for _, tt := range tests {
		got, err := Decode(tt.pool, tt.index)
		if err != nil {
			t.Fatalf("Decode(%q, %q) error = %v", tt.pool, tt.index, err)
		}
		if got != tt.want {
			t.Errorf("Decode(%q, %q) = %q, want %q", tt.pool, tt.index, got, tt.want)
		}
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		pool  string
		index string
		err   error
	}{
		{"zero index", "ABCDE", "0", ErrOutOfRange},
		{"past L!", "ABCDE", "121", ErrOutOfRange},
		{"huge", "ABC", "99999999999999999999999", ErrOutOfRange},
		{"not digits", "ABCDE", "12a", ErrInvalidIndex},
		{"empty index", "ABCDE", "", ErrInvalidIndex},
		{"empty pool", "", "1", ErrEmptyPool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.pool, tt.index)
			if !errors.Is(err, tt.err) {
				t.Errorf("Decode(%q, %q) error = %v, want %v", tt.pool, tt.index, err, tt.err)
			}
		})
	}
}

func TestDecode_Bijection(t *testing.T) {
	pool := "ABCDE"
	seen := make(map[string]bool)
	var all []string

	for i := 1; i <= 120; i++ {
		perm, err := Decode(pool, strconv.Itoa(i))
		if err != nil {
			t.Fatalf("Decode(%d) error = %v", i, err)
		}
		if seen[perm] {
			t.Fatalf("Decode(%d) = %q repeats an earlier permutation", i, perm)
		}
		seen[perm] = true
		all = append(all, perm)
	}

	if !sort.StringsAreSorted(all) {
		t.Error("permutations should come out in lexicographic order for a sorted pool")
	}
}

func TestRank_InvertsDecode(t *testing.T) {
	pool := "q7Z-/ a"
	total := Count(len(pool))

	for _, idx := range []string{"1", "2", "77", "2500", "5039", total} {
		perm, err := Decode(pool, idx)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", idx, err)
		}
		got, err := Rank(pool, perm)
		if err != nil {
			t.Fatalf("Rank(%q) error = %v", perm, err)
		}
		if got != idx {
			t.Errorf("Rank(Decode(%s)) = %s", idx, got)
		}
	}
}

func TestRank_LargePool(t *testing.T) {
	pool := make([]byte, 256)
	for i := range pool {
		pool[i] = byte(i)
	}

	idx := decimal.Factorial(65)
	perm, err := Decode(string(pool), idx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(perm) != 256 {
		t.Fatalf("len(perm) = %d, want 256", len(perm))
	}

	got, err := Rank(string(pool), perm)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got != idx {
		t.Errorf("Rank() = %s, want %s", got, idx)
	}
}

func TestRank_Rejects(t *testing.T) {
	if _, err := Rank("ABC", "ABD"); !errors.Is(err, ErrNotInPool) {
		t.Errorf("Rank with foreign symbol error = %v, want ErrNotInPool", err)
	}
	if _, err := Rank("ABC", "AB"); !errors.Is(err, ErrNotInPool) {
		t.Errorf("Rank with short perm error = %v, want ErrNotInPool", err)
	}
	if _, err := Rank("", ""); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Rank on empty pool error = %v, want ErrEmptyPool", err)
	}
}
