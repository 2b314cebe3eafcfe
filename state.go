package featquant

import (
	"bytes"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/featquant/persistence"
	"github.com/hupe1980/featquant/quantization"
	"github.com/hupe1980/featquant/scale"
)

// fittedState is everything Fit learns. It is immutable once published.
type fittedState struct {
	bins                  int
	scale                 scale.Config
	smallCardinalityLimit int

	featureCols []string
	numRows     int
	fittedAt    time.Time

	transforms []*scale.ColumnTransform // parallel to featureCols
	quantizer  *quantization.KBinsQuantizer

	reloaded bool
}

// MarshalBinary encodes the state payload.
// Format (little-endian):
//
//	[bins:u32][strategy:u8][binaryMode:u8][smallCardinalityLimit:u32]
//	[featureCols:string slice][numRows:u64][fittedAt:unix nanos u64]
//	[numTransforms:u32] transforms...
//	[quantizer:bytes]
func (st *fittedState) MarshalBinary() ([]byte, error) {
	qb, err := st.quantizer.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := persistence.NewWriter(&buf)
	w.WriteUint32(uint32(st.bins))
	w.WriteUint8(uint8(st.scale.Strategy))
	w.WriteUint8(uint8(st.scale.BinaryMode))
	w.WriteUint32(uint32(st.smallCardinalityLimit))
	w.WriteStringSlice(st.featureCols)
	w.WriteUint64(uint64(st.numRows))
	w.WriteUint64(uint64(st.fittedAt.UnixNano()))
	w.WriteUint32(uint32(len(st.transforms)))
	for _, ct := range st.transforms {
		ct.Encode(w)
	}
	w.WriteBytes(qb)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a payload written by MarshalBinary and checks
// that transforms and quantizer agree with the feature columns.
func (st *fittedState) UnmarshalBinary(data []byte) error {
	r := persistence.NewReader(bytes.NewReader(data))
	bins := int(r.ReadUint32())
	cfg := scale.Config{
		Strategy:   scale.Strategy(r.ReadUint8()),
		BinaryMode: scale.BinaryMode(r.ReadUint8()),
	}
	limit := int(r.ReadUint32())
	featureCols := r.ReadStringSlice()
	numRows := r.ReadUint64()
	fittedAt := int64(r.ReadUint64())
	n := int(r.ReadUint32())
	if err := r.Err(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	if n != len(featureCols) {
		return fmt.Errorf("%w: %d transforms for %d feature columns", ErrCorrupted, n, len(featureCols))
	}

	transforms := make([]*scale.ColumnTransform, n)
	for i := range transforms {
		ct, err := scale.Decode(r)
		if err != nil {
			return err
		}
		if ct.Name != featureCols[i] {
			return fmt.Errorf("%w: transform %d is for %q, expected %q", ErrCorrupted, i, ct.Name, featureCols[i])
		}
		transforms[i] = ct
	}

	qb := r.ReadBytes()
	if err := r.Err(); err != nil {
		return err
	}
	q := &quantization.KBinsQuantizer{}
	if err := q.UnmarshalBinary(qb); err != nil {
		return err
	}
	if q.Bins() != bins || q.Dims() != n {
		return fmt.Errorf("%w: quantizer has %d bins over %d columns, state has %d bins over %d columns",
			ErrCorrupted, q.Bins(), q.Dims(), bins, n)
	}
	for j, ct := range transforms {
		if q.Direct(j) != ct.Direct() {
			return fmt.Errorf("%w: column %q: quantizer and transform disagree on direct coding", ErrCorrupted, ct.Name)
		}
	}

	*st = fittedState{
		bins:                  bins,
		scale:                 cfg,
		smallCardinalityLimit: limit,
		featureCols:           featureCols,
		numRows:               int(numRows),
		fittedAt:              time.Unix(0, fittedAt).UTC(),
		transforms:            transforms,
		quantizer:             q,
	}
	return nil
}

func (st *fittedState) sameSchema(cols []string) bool {
	return slices.Equal(st.featureCols, cols)
}
