// Package decimal provides arbitrary-precision arithmetic on non-negative
// integers written as decimal digit strings.
//
// Every value is a plain string of ASCII digits with no sign and no size
// limit. Operations:
//
//   - Add: digit-wise addition with carry, width of the wider operand kept
//   - Subtract: borrow subtraction that keeps the minuend's leading zeros
//   - Compare: numeric ordering (length first, then digits)
//   - Multiply, Factorial, Factorials: grade-school long multiplication
//   - DivMod: long division with remainder for unbounded dividends
//
// Leading zeros are significant to callers that pack fixed-width digit pairs
// into a number, so only Subtract, Multiply and DivMod normalise them, and
// Subtract restores the ones the minuend carried.
//
// All functions are pure and safe for concurrent use.
package decimal
