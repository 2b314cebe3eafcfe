// Package table provides the in-memory tabular model consumed and produced by
// the pipeline.
//
// A Table is an ordered set of named columns sharing a row index. Columns are
// either numeric (float or integer kind, missing values stored as NaN) or
// string columns. The reserved columns "key" and "input" identify records and
// are never treated as features.
//
//	t, err := table.New(
//	    table.String("input", []string{"CCO", "c1ccccc1"}),
//	    table.Int("rings", []int64{0, 1}),
//	    table.Float("logp", []float64{-0.3, 1.7}),
//	)
//
// Codes is the integer output table produced by a fitted pipeline.
package table
