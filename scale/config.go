package scale

import (
	"fmt"
	"strings"
)

// Strategy selects the transform used for the continuous group.
type Strategy uint8

const (
	// StrategyYeoJohnson applies a maximum-likelihood Yeo-Johnson power
	// transform followed by standardization.
	StrategyYeoJohnson Strategy = iota
	// StrategyRobust centers on the median and scales by the interquartile range.
	StrategyRobust
)

func (s Strategy) String() string {
	switch s {
	case StrategyYeoJohnson:
		return "yeo-johnson"
	case StrategyRobust:
		return "robust"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy parses a strategy name as produced by String.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "yeo-johnson":
		return StrategyYeoJohnson, nil
	case "robust":
		return StrategyRobust, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// BinaryMode selects how binary columns are handled.
type BinaryMode uint8

const (
	// BinaryPassthrough leaves 0/1 values unchanged; the quantizer bins them.
	BinaryPassthrough BinaryMode = iota
	// BinaryExtremes maps values to -127 / +127 with a 0.5 threshold (0.5 maps to +127).
	BinaryExtremes
)

func (m BinaryMode) String() string {
	switch m {
	case BinaryPassthrough:
		return "passthrough"
	case BinaryExtremes:
		return "extremes"
	default:
		return fmt.Sprintf("BinaryMode(%d)", uint8(m))
	}
}

// ParseBinaryMode parses a binary mode name as produced by String.
func ParseBinaryMode(s string) (BinaryMode, error) {
	switch strings.ToLower(s) {
	case "passthrough":
		return BinaryPassthrough, nil
	case "extremes":
		return BinaryExtremes, nil
	}
	return 0, fmt.Errorf("%w: binary mode %q", ErrUnknownStrategy, s)
}

// Config controls which payload Fit chooses for the configurable groups.
type Config struct {
	Strategy   Strategy
	BinaryMode BinaryMode
}

// DefaultConfig uses Yeo-Johnson for continuous columns and passes binary columns through.
var DefaultConfig = Config{
	Strategy:   StrategyYeoJohnson,
	BinaryMode: BinaryPassthrough,
}

// Validate reports an error for unknown enum values.
func (c Config) Validate() error {
	if c.Strategy > StrategyRobust {
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, c.Strategy)
	}
	if c.BinaryMode > BinaryExtremes {
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, c.BinaryMode)
	}
	return nil
}
