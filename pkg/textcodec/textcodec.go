// Package textcodec turns alphabet text into digit pairs through a
// conversion table and back.
package textcodec

import (
	"regexp"
	"strings"
)

// Alphabet is the fixed 65-symbol text alphabet. Positions are 1-based.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz1234567890- /"

// Empty is the encoding of a text with no encodable characters.
const Empty = "00"

var (
	textPattern  = regexp.MustCompile(`^[a-zA-Z0-9 -]+$`)
	tokenPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Table is the position <-> code mapping the codec reads.
// *codemap.ConversionMap satisfies it.
type Table interface {
	Code(pos int) (string, bool)
	Position(code string) (int, bool)
}

// EncodeChar returns the code of ch. Characters outside the alphabet, or
// whose position the table does not cover, are reported as absent.
func EncodeChar(t Table, ch byte) (string, bool) {
	i := strings.IndexByte(Alphabet, ch)
	if i < 0 {
		return "", false
	}
	return t.Code(i + 1)
}

// Encode concatenates the codes of every character of text, dropping the
// ones EncodeChar reports absent. It returns Empty when nothing encodes.
func Encode(t Table, text string) string {
	var sb strings.Builder
	sb.Grow(2 * len(text))
	for i := 0; i < len(text); i++ {
		if code, ok := EncodeChar(t, text[i]); ok {
			sb.WriteString(code)
		}
	}
	if sb.Len() == 0 {
		return Empty
	}
	return sb.String()
}

// Decode reverses Encode. It fails on empty or odd-length input, or when
// any pair is unknown to the table.
func Decode(t Table, digits string) (string, bool) {
	if digits == "" || len(digits)%2 != 0 {
		return "", false
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		pos, ok := t.Position(digits[i : i+2])
		if !ok || pos < 1 || pos > len(Alphabet) {
			return "", false
		}
		out = append(out, Alphabet[pos-1])
	}
	return string(out), true
}

// ScanText reports whether s is non-empty and made only of ASCII letters,
// digits, space and hyphen.
func ScanText(s string) bool {
	return textPattern.MatchString(s)
}

// ScanToken reports whether s is a non-empty run of decimal digits.
func ScanToken(s string) bool {
	return tokenPattern.MatchString(s)
}
