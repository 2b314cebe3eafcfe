// Package scale fits and applies the per-column transforms that bring each
// column group onto a comparable, roughly symmetric scale before quantization.
//
// Every column gets a ColumnTransform: a frozen median Imputer plus exactly one
// parameter payload chosen by its group.
//
//	Constant                 Constant (always 0)
//	Binary                   Passthrough, or BinaryThreshold in extremes mode
//	SmallCardinalityInteger  CodeMap
//	Count                    LogStandard
//	Bounded                  QuantileNormal
//	Continuous               YeoJohnson, or Robust
//
// Constant, CodeMap and BinaryThreshold emit final codes directly; the
// quantizer passes their output through instead of binning it.
package scale
