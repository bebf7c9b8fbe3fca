package codemap

import (
	"errors"
	"fmt"
)

// ErrCollision is returned by ConversionMap.Validate when two positions
// share a code.
var ErrCollision = errors.New("codemap: code collision")

// Collision records a code claimed by more than one position. Positions
// are in pool order; the last one wins in the reverse direction.
type Collision struct {
	Code      string
	Positions []int
}

// ConversionMap is a position <-> two-digit code mapping.
type ConversionMap struct {
	codes      []string
	positions  map[string]int
	collisions []Collision
}

// NewConversionMap builds the map for a permuted pool. Position i+1 maps to
// the code of permuted[i].
func NewConversionMap(permuted string) *ConversionMap {
	m := &ConversionMap{
		codes:     make([]string, len(permuted)),
		positions: make(map[string]int, len(permuted)),
	}

	claimed := make(map[string][]int)
	for i := 0; i < len(permuted); i++ {
		code := fmt.Sprintf("%02d", int(permuted[i])%100)
		m.codes[i] = code
		m.positions[code] = i + 1
		claimed[code] = append(claimed[code], i+1)
	}

	for _, code := range m.codes {
		if ps := claimed[code]; len(ps) > 1 {
			m.collisions = append(m.collisions, Collision{Code: code, Positions: ps})
			delete(claimed, code)
		}
	}

	return m
}

// Code returns the code for a 1-based position.
func (m *ConversionMap) Code(pos int) (string, bool) {
	if pos < 1 || pos > len(m.codes) {
		return "", false
	}
	return m.codes[pos-1], true
}

// Position returns the 1-based position for a code.
func (m *ConversionMap) Position(code string) (int, bool) {
	p, ok := m.positions[code]
	return p, ok
}

// Len returns the number of positions.
func (m *ConversionMap) Len() int {
	return len(m.codes)
}

// Injective reports whether every position has its own code.
func (m *ConversionMap) Injective() bool {
	return len(m.collisions) == 0
}

// Collisions returns the codes shared by more than one position.
func (m *ConversionMap) Collisions() []Collision {
	out := make([]Collision, len(m.collisions))
	copy(out, m.collisions)
	return out
}

// Validate returns an error wrapping ErrCollision when the map is not
// injective.
func (m *ConversionMap) Validate() error {
	if len(m.collisions) == 0 {
		return nil
	}
	c := m.collisions[0]
	return fmt.Errorf("%w: code %s shared by positions %v (%d codes affected)",
		ErrCollision, c.Code, c.Positions, len(m.collisions))
}
