// Package quantization maps scaled feature columns to signed 8-bit codes.
//
// KBinsQuantizer learns quantile bin edges per column from the training matrix
// and assigns every value its ordinal bin, re-centred so that the code range
// is symmetric around zero:
//
//	q, _ := quantization.NewKBinsQuantizer(256)
//	_ = q.Train(scaled, direct) // scaled is a *mat.Dense, one column per feature
//	codes, _ := q.Encode(scaled)
//
// # Centering
//
// With b bins the bin index i in [0, b-1] becomes the code i - (b/2 - 1),
// clamped to [-127, 127]. For the default 256 bins this maps bin 0 to -127,
// bin 254 to 127, and saturates bin 255 to 127. The offset is a function of
// the bin count only, so training and inference always agree.
//
// # Direct columns
//
// Columns whose scaled output is already a code (constant columns, code maps,
// binary extremes) are marked direct at training time. They are rounded and
// clamped instead of binned.
//
// # Out-of-range values
//
// Values beyond the training range fall into the first or last bin. NaN is
// rejected.
package quantization
