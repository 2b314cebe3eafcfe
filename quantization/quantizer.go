package quantization

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/featquant/internal/stats"
	"github.com/hupe1980/featquant/persistence"
	"github.com/hupe1980/featquant/table"
)

const (
	// DefaultBins is the default number of quantile bins.
	DefaultBins = 256
	// MinBins is the smallest supported bin count.
	MinBins = 2
	// MaxBins is the largest supported bin count.
	MaxBins = 256
)

var (
	// ErrEmptyMatrix is returned when training or encoding an empty matrix.
	ErrEmptyMatrix = errors.New("empty matrix")
	// ErrNotFitted is returned when encoding with an untrained quantizer.
	ErrNotFitted = errors.New("quantizer not fitted")
	// ErrNonNumeric is returned when the matrix contains NaN.
	ErrNonNumeric = errors.New("non-numeric value")
	// ErrDimensionMismatch is returned when the column count differs from training.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidBins is returned for a bin count outside [MinBins, MaxBins].
	ErrInvalidBins = errors.New("invalid bin count")
	// ErrCorrupted is returned when unmarshalling malformed quantizer state.
	ErrCorrupted = errors.New("corrupted quantizer state")
)

// Quantizer defines the interface for column quantization methods.
type Quantizer interface {
	// Train learns the quantization grid from x. direct marks columns that
	// already hold codes.
	Train(x mat.Matrix, direct []bool) error

	// Encode returns column-major codes for x.
	Encode(x mat.Matrix) ([][]int8, error)

	// Bins returns the number of bins per column.
	Bins() int
}

// KBinsQuantizer implements quantile binning with a fixed symmetric centering.
// After Train it is read-only and safe for concurrent Encode calls.
type KBinsQuantizer struct {
	bins   int
	direct []bool
	edges  [][]float64 // per column bins+1 edges, nil for direct columns
}

var _ Quantizer = (*KBinsQuantizer)(nil)

// NewKBinsQuantizer creates an untrained quantizer with the given bin count.
func NewKBinsQuantizer(bins int) (*KBinsQuantizer, error) {
	if bins < MinBins || bins > MaxBins {
		return nil, fmt.Errorf("%w: %d (must be %d..%d)", ErrInvalidBins, bins, MinBins, MaxBins)
	}
	return &KBinsQuantizer{bins: bins}, nil
}

// Bins returns the number of bins per column.
func (q *KBinsQuantizer) Bins() int { return q.bins }

// Offset returns the constant subtracted from bin indices: bins/2 - 1.
func (q *KBinsQuantizer) Offset() int { return q.bins/2 - 1 }

// Trained reports whether Train has completed.
func (q *KBinsQuantizer) Trained() bool { return q.direct != nil }

// Dims returns the number of columns the quantizer was trained on.
func (q *KBinsQuantizer) Dims() int { return len(q.direct) }

// Direct reports whether column j is passed through instead of binned.
func (q *KBinsQuantizer) Direct(j int) bool { return q.direct[j] }

// Edges returns the bin edges of column j, or nil for a direct column.
func (q *KBinsQuantizer) Edges(j int) []float64 { return q.edges[j] }

// Train computes bins+1 quantile edges per non-direct column using the
// averaged inverted CDF. Repeated edges are kept.
func (q *KBinsQuantizer) Train(x mat.Matrix, direct []bool) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return ErrEmptyMatrix
	}
	if len(direct) != cols {
		return fmt.Errorf("%w: %d direct flags for %d columns", ErrDimensionMismatch, len(direct), cols)
	}

	edges := make([][]float64, cols)
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, x)
		if err := checkNumeric(col, j); err != nil {
			return err
		}
		if direct[j] {
			continue
		}
		sorted := stats.Sorted(col)
		e := make([]float64, q.bins+1)
		for k := range e {
			e[k] = stats.AveragedInvertedCDF(sorted, k, q.bins)
		}
		edges[j] = e
	}

	q.direct = append([]bool(nil), direct...)
	q.edges = edges
	return nil
}

// Encode maps every value of x to its code. The result holds one slice per column.
func (q *KBinsQuantizer) Encode(x mat.Matrix) ([][]int8, error) {
	if !q.Trained() {
		return nil, ErrNotFitted
	}
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMatrix
	}
	if cols != q.Dims() {
		return nil, fmt.Errorf("%w: got %d columns, trained on %d", ErrDimensionMismatch, cols, q.Dims())
	}

	out := make([][]int8, cols)
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, x)
		codes, err := q.EncodeColumn(j, col)
		if err != nil {
			return nil, err
		}
		out[j] = codes
	}
	return out, nil
}

// EncodeColumn maps the values of column j to codes.
func (q *KBinsQuantizer) EncodeColumn(j int, values []float64) ([]int8, error) {
	if !q.Trained() {
		return nil, ErrNotFitted
	}
	if j < 0 || j >= q.Dims() {
		return nil, fmt.Errorf("%w: column %d of %d", ErrDimensionMismatch, j, q.Dims())
	}
	if err := checkNumeric(values, j); err != nil {
		return nil, err
	}

	codes := make([]int8, len(values))
	if q.direct[j] {
		for i, v := range values {
			codes[i] = clampCode(math.Round(v))
		}
		return codes, nil
	}

	inner := q.edges[j][1:q.bins]
	offset := q.Offset()
	for i, v := range values {
		idx := stats.SearchRight(inner, v) // 0..bins-1
		codes[i] = clampCode(float64(idx - offset))
	}
	return codes, nil
}

func clampCode(v float64) int8 {
	return int8(math.Max(-table.MaxCode, math.Min(table.MaxCode, v)))
}

func checkNumeric(values []float64, j int) error {
	for i, v := range values {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN at row %d, column %d", ErrNonNumeric, i, j)
		}
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian): [bins:uint32][cols:uint32] then per column
// [direct:uint8][edges:float64 slice].
func (q *KBinsQuantizer) MarshalBinary() ([]byte, error) {
	if !q.Trained() {
		return nil, ErrNotFitted
	}
	var buf bytes.Buffer
	w := persistence.NewWriter(&buf)
	w.WriteUint32(uint32(q.bins))
	w.WriteUint32(uint32(len(q.direct)))
	for j, d := range q.direct {
		w.WriteBool(d)
		w.WriteFloat64Slice(q.edges[j])
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (q *KBinsQuantizer) UnmarshalBinary(data []byte) error {
	r := persistence.NewReader(bytes.NewReader(data))
	bins := int(r.ReadUint32())
	cols := int(r.ReadUint32())
	if err := r.Err(); err != nil {
		return err
	}
	if bins < MinBins || bins > MaxBins {
		return fmt.Errorf("%w: bins %d", ErrCorrupted, bins)
	}
	if cols == 0 || cols > len(data) {
		return fmt.Errorf("%w: %d columns", ErrCorrupted, cols)
	}

	direct := make([]bool, cols)
	edges := make([][]float64, cols)
	for j := range cols {
		direct[j] = r.ReadBool()
		edges[j] = r.ReadFloat64Slice()
		if err := r.Err(); err != nil {
			return err
		}
		if !direct[j] && len(edges[j]) != bins+1 {
			return fmt.Errorf("%w: column %d has %d edges, want %d", ErrCorrupted, j, len(edges[j]), bins+1)
		}
	}

	q.bins = bins
	q.direct = direct
	q.edges = edges
	return nil
}
