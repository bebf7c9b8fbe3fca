// Package permutation maps permutation indices to orderings of a symbol pool
// using the factorial number system (Lehmer code).
//
// For a pool of length L, index 1 selects the pool in its own order and
// index L! selects it fully reversed; every index in between selects a
// distinct ordering. Indices are decimal digit strings of any length.
package permutation

import (
	"errors"
	"strconv"

	"github.com/anonputraid/zetcipher/pkg/decimal"
)

// Errors returned by Decode and Rank.
var (
	ErrInvalidIndex = errors.New("permutation: index is not a decimal number")
	ErrOutOfRange   = errors.New("permutation: index outside [1, L!]")
	ErrEmptyPool    = errors.New("permutation: empty pool")
	ErrNotInPool    = errors.New("permutation: symbol sequence is not a permutation of the pool")
)

// Count returns the number of orderings of a pool of the given length.
func Count(length int) string {
	return decimal.Factorial(length)
}

// Decode returns the ordering of pool selected by the 1-based index.
//
// Position i of the result is chosen by dividing the zero-based index by
// (remaining-1)! and taking the quotient as an offset into the symbols not
// yet used.
func Decode(pool, index string) (string, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	if !decimal.IsDigits(index) {
		return "", ErrInvalidIndex
	}

	facts := decimal.Factorials(len(pool))
	if decimal.Compare(index, decimal.One) < 0 || decimal.Compare(index, facts[len(pool)]) > 0 {
		return "", ErrOutOfRange
	}

	m, _ := decimal.Subtract(decimal.Trim(index), decimal.One)

	remaining := []byte(pool)
	out := make([]byte, 0, len(pool))
	for i := len(pool); i > 0; i-- {
		var q string
		q, m = decimal.DivMod(m, facts[i-1])

		offset, err := strconv.Atoi(q)
		if err != nil || offset >= len(remaining) {
			return "", ErrOutOfRange
		}

		out = append(out, remaining[offset])
		remaining = append(remaining[:offset], remaining[offset+1:]...)
	}

	return string(out), nil
}

// Rank is the inverse of Decode: it returns the 1-based index that makes
// Decode(pool, perm) return perm.
//
// When the pool repeats a symbol, the leftmost unused occurrence is taken,
// which is the smallest index producing perm.
func Rank(pool, perm string) (string, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	if len(perm) != len(pool) {
		return "", ErrNotInPool
	}

	facts := decimal.Factorials(len(pool))
	remaining := []byte(pool)
	index := decimal.Zero

	for k := 0; k < len(perm); k++ {
		offset := -1
		for j, sym := range remaining {
			if sym == perm[k] {
				offset = j
				break
			}
		}
		if offset < 0 {
			return "", ErrNotInPool
		}

		i := len(pool) - k
		index = decimal.Trim(decimal.Add(index, decimal.Multiply(strconv.Itoa(offset), facts[i-1])))
		remaining = append(remaining[:offset], remaining[offset+1:]...)
	}

	return decimal.Trim(decimal.Add(index, decimal.One)), nil
}
