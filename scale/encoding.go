package scale

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/persistence"
)

// kindsByGroup lists the payloads each group may carry.
var kindsByGroup = map[group.Group][]Kind{
	group.Constant:                {KindConstant},
	group.Binary:                  {KindPassthrough, KindBinaryThreshold},
	group.SmallCardinalityInteger: {KindCodeMap},
	group.Count:                   {KindLogStandard},
	group.Bounded:                 {KindQuantileNormal},
	group.Continuous:              {KindYeoJohnson, KindRobust},
}

// Encode writes the transform to w.
func (ct *ColumnTransform) Encode(w *persistence.Writer) {
	w.WriteString(ct.Name)
	w.WriteUint8(uint8(ct.Group))
	w.WriteFloat64(ct.Imputer.Median)
	w.WriteUint8(uint8(ct.Params.Kind()))
	ct.Params.encode(w)
}

// Decode reads a transform written by Encode and validates its parameters.
func Decode(r *persistence.Reader) (*ColumnTransform, error) {
	name := r.ReadString()
	g := group.Group(r.ReadUint8())
	median := r.ReadFloat64()
	kind := Kind(r.ReadUint8())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: column %q: invalid group %d", ErrCorruptState, name, g)
	}
	if !slices.Contains(kindsByGroup[g], kind) {
		return nil, fmt.Errorf("%w: column %q: %s payload for %s group", ErrCorruptState, name, kind, g)
	}
	if !finite(median) {
		return nil, fmt.Errorf("%w: column %q: non-finite median", ErrCorruptState, name)
	}

	params, err := decodeParams(kind, r)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}

	return &ColumnTransform{
		Name:    name,
		Group:   g,
		Imputer: Imputer{Median: median},
		Params:  params,
	}, nil
}

func decodeParams(kind Kind, r *persistence.Reader) (Params, error) {
	var (
		p  Params
		ok bool
	)
	switch kind {
	case KindConstant:
		p, ok = Constant{}, true
	case KindPassthrough:
		p, ok = Passthrough{}, true
	case KindBinaryThreshold:
		b := BinaryThreshold{Threshold: r.ReadFloat64()}
		p, ok = b, finite(b.Threshold)
	case KindCodeMap:
		m := &CodeMap{Values: r.ReadFloat64Slice(), Codes: r.ReadFloat64Slice()}
		p, ok = m, len(m.Values) > 0 && len(m.Values) == len(m.Codes) && strictlyIncreasing(m.Values)
	case KindLogStandard:
		s := &LogStandard{Mean: r.ReadFloat64(), Std: r.ReadFloat64()}
		p, ok = s, finite(s.Mean) && finite(s.Std) && s.Std > 0
	case KindQuantileNormal:
		q, refs := r.ReadFloat64Slice(), r.ReadFloat64Slice()
		ok = len(q) > 0 && len(q) == len(refs) && slices.IsSorted(q) && slices.IsSorted(refs)
		if ok {
			p = NewQuantileNormal(q, refs)
		}
	case KindYeoJohnson:
		yj := &YeoJohnson{Lambda: r.ReadFloat64(), Mean: r.ReadFloat64(), Std: r.ReadFloat64()}
		p, ok = yj, finite(yj.Lambda) && finite(yj.Mean) && finite(yj.Std) && yj.Std > 0
	case KindRobust:
		rb := &Robust{Center: r.ReadFloat64(), Scale: r.ReadFloat64()}
		p, ok = rb, finite(rb.Center) && finite(rb.Scale) && rb.Scale != 0
	default:
		return nil, fmt.Errorf("%w: unknown payload %s", ErrCorruptState, kind)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid %s parameters", ErrCorruptState, kind)
	}
	return p, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func strictlyIncreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}
	return true
}
