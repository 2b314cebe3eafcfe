// Package group assigns numeric feature columns to semantic groups.
//
// Classification is evaluated in a fixed priority order per column so that
// the assignment is non-overlapping:
//
//  1. Constant: at most one distinct value (missing counts as a value)
//  2. Binary: every non-missing value is exactly 0 or 1
//  3. SmallCardinalityInteger: integer-valued with at most Limit distinct values
//  4. Count: integer-valued with a non-negative minimum
//  5. Bounded: minimum >= 0 and maximum <= 1
//  6. Continuous: everything else
//
// Non-finite values are treated as missing.
package group

import (
	"fmt"
	"strings"
)

// Group is the closed classification tag of a numeric column.
type Group uint8

const (
	// Constant is the degenerate group of zero-variance columns. It is always coded 0.
	Constant Group = iota
	Binary
	SmallCardinalityInteger
	Count
	Bounded
	Continuous
)

// All lists every group in priority order.
var All = []Group{Constant, Binary, SmallCardinalityInteger, Count, Bounded, Continuous}

// String returns the string representation of the group.
func (g Group) String() string {
	switch g {
	case Constant:
		return "constant"
	case Binary:
		return "binary"
	case SmallCardinalityInteger:
		return "small_cardinality_integer"
	case Count:
		return "count"
	case Bounded:
		return "bounded"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	return g <= Continuous
}

// Parse returns the group with the given string representation.
func Parse(s string) (Group, error) {
	for _, g := range All {
		if strings.EqualFold(s, g.String()) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Group) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, g)
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
