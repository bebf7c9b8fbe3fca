package decimal

import (
	"strconv"
	"strings"
)

// Canonical small values.
const (
	Zero = "0"
	One  = "1"
)

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Trim strips leading zeros. Zero values come back as "0".
func Trim(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return Zero
	}
	return t
}

// Add returns a+b.
//
// The result is never shorter than the wider operand, so leading zeros of
// the wider operand survive unless a carry reaches them.
func Add(a, b string) string {
	n := max(len(a), len(b)) + 1
	out := make([]byte, n)
	k := n - 1

	i, j := len(a)-1, len(b)-1
	carry := 0
	for i >= 0 || j >= 0 || carry > 0 {
		sum := carry
		if i >= 0 {
			sum += int(a[i] - '0')
			i--
		}
		if j >= 0 {
			sum += int(b[j] - '0')
			j--
		}
		out[k] = byte('0' + sum%10)
		carry = sum / 10
		k--
	}

	if k == n-1 {
		return Zero
	}
	return string(out[k+1:])
}

// Subtract returns a-b, or false when b is greater than a.
//
// Leading zeros carried by a are put back in front of the numeric result,
// so a zero-padded minuend keeps its width. An all-zero minuend counts its
// last zero as the value itself: Subtract("00", "0") is "00", not "000".
func Subtract(a, b string) (string, bool) {
	x, y := Trim(a), Trim(b)
	if Compare(x, y) < 0 {
		return "", false
	}

	zeros := max(len(a)-len(x), 0)

	out := make([]byte, len(x))
	borrow := 0
	for i, j := len(x)-1, len(y)-1; i >= 0; i, j = i-1, j-1 {
		d := int(x[i]-'0') - borrow
		if j >= 0 {
			d -= int(y[j] - '0')
		}
		if d < 0 {
			d += 10
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = byte('0' + d)
	}

	return strings.Repeat("0", zeros) + Trim(string(out)), true
}

// Compare returns -1, 0 or +1 depending on whether a is numerically less
// than, equal to, or greater than b.
func Compare(a, b string) int {
	x, y := Trim(a), Trim(b)
	switch {
	case len(x) > len(y):
		return 1
	case len(x) < len(y):
		return -1
	}
	return strings.Compare(x, y)
}

// Multiply returns a*b.
func Multiply(a, b string) string {
	x, y := Trim(a), Trim(b)
	if x == Zero || y == Zero {
		return Zero
	}

	res := make([]int, len(x)+len(y))
	for i := len(x) - 1; i >= 0; i-- {
		dx := int(x[i] - '0')
		carry := 0
		for j := len(y) - 1; j >= 0; j-- {
			p := dx*int(y[j]-'0') + res[i+j+1] + carry
			res[i+j+1] = p % 10
			carry = p / 10
		}
		res[i] += carry
	}

	out := make([]byte, len(res))
	for i, d := range res {
		out[i] = byte('0' + d)
	}
	return Trim(string(out))
}

// Factorial returns n!. Factorial(0) is "1".
func Factorial(n int) string {
	result := One
	for i := 2; i <= n; i++ {
		result = Multiply(result, strconv.Itoa(i))
	}
	return result
}

// Factorials returns the table 0!, 1!, ..., n!.
func Factorials(n int) []string {
	if n < 0 {
		return nil
	}
	table := make([]string, n+1)
	table[0] = One
	for i := 1; i <= n; i++ {
		table[i] = Multiply(table[i-1], strconv.Itoa(i))
	}
	return table
}

// DivMod returns the quotient and remainder of dividend / divisor.
//
// A zero divisor, or a dividend smaller than the divisor, yields
// ("0", dividend) unchanged.
func DivMod(dividend, divisor string) (quotient, remainder string) {
	d := Trim(divisor)
	if d == Zero || Compare(dividend, d) < 0 {
		return Zero, dividend
	}

	q := make([]byte, 0, len(dividend))
	cur := ""
	for i := 0; i < len(dividend); i++ {
		cur = Trim(cur + dividend[i:i+1])
		digit := byte('0')
		for Compare(cur, d) >= 0 {
			cur, _ = Subtract(cur, d)
			digit++
		}
		q = append(q, digit)
	}

	return Trim(string(q)), Trim(cur)
}
