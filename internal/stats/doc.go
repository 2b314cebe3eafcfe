// Package stats implements the order statistics the scaling and quantization
// stages depend on, with numpy-compatible definitions.
//
// gonum's stat.Quantile offers the Empirical and LinInterp estimators, neither
// of which matches the linear (Hyndman-Fan type 7) or averaged inverted CDF
// (type 2) definitions that the fitted statistics are specified against, so
// those two estimators live here. Everything else defers to gonum.
package stats
