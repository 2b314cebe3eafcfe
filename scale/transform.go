package scale

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/persistence"
)

// Kind identifies the payload of a ColumnTransform. The value is persisted.
type Kind uint8

const (
	KindConstant Kind = iota + 1
	KindPassthrough
	KindBinaryThreshold
	KindCodeMap
	KindLogStandard
	KindQuantileNormal
	KindYeoJohnson
	KindRobust
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindPassthrough:
		return "passthrough"
	case KindBinaryThreshold:
		return "binary-threshold"
	case KindCodeMap:
		return "code-map"
	case KindLogStandard:
		return "log-standard"
	case KindQuantileNormal:
		return "quantile-normal"
	case KindYeoJohnson:
		return "yeo-johnson"
	case KindRobust:
		return "robust"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Params is the fitted payload of a ColumnTransform.
// The set of implementations is closed; see the Kind constants.
type Params interface {
	// Kind returns the payload tag.
	Kind() Kind

	// Apply maps one imputed value to its scaled value.
	Apply(x float64) float64

	encode(w *persistence.Writer)
}

// ColumnTransform is the frozen per-column transform: impute, then apply the payload.
// It is immutable after construction and safe for concurrent use.
type ColumnTransform struct {
	Name    string
	Group   group.Group
	Imputer Imputer
	Params  Params
}

// Fit fits the imputer and the group payload for one column.
// values are the raw coerced column values; missing entries are NaN or infinite.
func Fit(name string, g group.Group, values []float64, cfg Config) (*ColumnTransform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("column %q: %w", name, ErrEmptyColumn)
	}

	imputer := FitImputer(values)
	imputed := imputer.Transform(values)

	params, err := fitParams(g, imputed, cfg)
	if err != nil {
		return nil, fmt.Errorf("column %q (%s): %w", name, g, err)
	}

	return &ColumnTransform{
		Name:    name,
		Group:   g,
		Imputer: imputer,
		Params:  params,
	}, nil
}

func fitParams(g group.Group, x []float64, cfg Config) (Params, error) {
	switch g {
	case group.Constant:
		return Constant{}, nil
	case group.Binary:
		if cfg.BinaryMode == BinaryExtremes {
			return BinaryThreshold{Threshold: DefaultBinaryThreshold}, nil
		}
		return Passthrough{}, nil
	case group.SmallCardinalityInteger:
		return FitCodeMap(x)
	case group.Count:
		return FitLogStandard(x)
	case group.Bounded:
		return FitQuantileNormal(x)
	case group.Continuous:
		if cfg.Strategy == StrategyRobust {
			return FitRobust(x)
		}
		return FitYeoJohnson(x)
	default:
		return nil, fmt.Errorf("%w: %d", group.ErrUnknownGroup, g)
	}
}

// Transform imputes values with the frozen median and applies the payload.
// It never refits and returns a new slice.
func (ct *ColumnTransform) Transform(values []float64) []float64 {
	out := ct.Imputer.Transform(values)
	for i, v := range out {
		out[i] = ct.Params.Apply(v)
	}
	return out
}

// Direct reports whether the output is already a final code.
func (ct *ColumnTransform) Direct() bool {
	switch ct.Params.Kind() {
	case KindConstant, KindCodeMap, KindBinaryThreshold:
		return true
	default:
		return false
	}
}

// isConstant reports whether x holds a single distinct value.
func isConstant(x []float64) bool {
	return floats.Min(x) == floats.Max(x)
}
