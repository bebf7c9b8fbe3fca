package resource

import (
	"strconv"
	"strings"

	"github.com/anonputraid/zetcipher/internal/core/domain"
)

// DecodePool turns "65.66.67" into the pool "ABC".
func DecodePool(s string) (string, error) {
	if s == "" {
		return "", domain.ErrResourceInvalid.WithDetails("empty pool")
	}
	parts := strings.Split(s, ".")
	out := make([]byte, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return "", domain.ErrResourceInvalid.WithDetailsf("pool entry %d (%q) is not a byte value", i, p)
		}
		out[i] = byte(v)
	}
	return string(out), nil
}

// EncodePool is the inverse of DecodePool.
func EncodePool(pool string) string {
	var sb strings.Builder
	sb.Grow(len(pool) * 4)
	for i := 0; i < len(pool); i++ {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(int(pool[i])))
	}
	return sb.String()
}
