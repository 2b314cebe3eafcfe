// Package featquant normalizes numeric feature tables and quantizes them to
// signed 8-bit codes.
//
// A Pipeline assigns every numeric column of a training table to a group,
// fits one transform per column and learns quantile bin edges. Inference
// replays exactly that fitted state, so codes stay comparable across rows,
// batches and process restarts.
//
// # Quick Start
//
//	ctx := context.Background()
//	train, _ := table.New(
//	    table.Int("a", []int64{0, 1, 0, 1}),
//	    table.Float("c", []float64{-0.3, 1.2, 0.4, -1.1}),
//	)
//
//	p, _ := featquant.New()
//	codes, _ := p.Fit(ctx, train)         // codes of the training table
//	codes, _ = p.Transform(ctx, batch)     // codes of new rows
//	x, _ := p.TransformScaled(ctx, batch) // scaled values, no quantization
//
// # Groups
//
// Columns are classified once, at fit time, over the raw values in this
// priority order:
//
//	Constant                  at most one distinct value       -> code 0
//	Binary                    values in {0, 1}                 -> passthrough or -127/+127
//	SmallCardinalityInteger   integers, <= 10 distinct values  -> evenly spaced codes
//	Count                     non-negative integers            -> log1p + standardization
//	Bounded                   values in [0, 1]                 -> quantile to normal
//	Continuous                everything else                  -> Yeo-Johnson or robust scaling
//
// Missing values (NaN, infinities, unparseable strings) are ignored by
// classification except that they count as one distinct value for Constant.
// A column with a single value left after imputation is Constant. Missing
// values are imputed with the training median before every transform.
//
// # Codes
//
// Scaled values are binned into 256 quantile bins by default. Bin indices are
// shifted by bins/2-1 and clamped, so every code lies in [-127, 127] for any
// input, including values far outside the training range.
//
// # Persistence
//
// Save writes two artifacts under a prefix of any blobstore.BlobStore:
//
//	<prefix>/pipeline.bin    compressed, checksummed fitted state
//	<prefix>/metadata.json   feature_cols, fit date/time, num_rows, groups, ...
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("models/"))
//	_ = p.Save(ctx, store, "model-42")
//	p2, _ := featquant.Load(ctx, store, "model-42")
//
// A loaded pipeline produces bit-identical codes to the pipeline that was saved.
//
// # Errors
//
// All errors match one of ErrInvalidInput, ErrSchemaMismatch, ErrNotFitted,
// ErrAlreadyFitted, ErrNotFound, ErrConfiguration or ErrCorrupted with
// errors.Is.
package featquant
