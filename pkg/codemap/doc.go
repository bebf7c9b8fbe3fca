// Package codemap builds the two bijection families derived from a permuted
// symbol pool.
//
// A ConversionMap pairs each 1-based position with a two-digit code taken
// from the symbol's byte value modulo 100. Two symbols that differ by
// exactly 100 share a code, so the reverse direction can lose positions;
// construction records every such collision instead of silently
// overwriting.
//
// A SignatureMap pairs each 0-based position with the symbol at that
// position and is applied as a translate table over digit text: the digit
// d becomes the symbol at position d. Pools therefore hold at most ten
// distinct symbols.
package codemap
