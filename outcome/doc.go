// Package outcome carries partial-failure results through multi-stage
// pipelines.
//
// A seed collection enters as an all-success Aggregator. Each stage consumes
// one Aggregator and returns a new one whose failures are the stage's own new
// failures followed by everything inherited from earlier stages:
//
//	letters := outcome.FromSlice([]string{"a", "b"})
//	brands := outcome.TransformAsyncMany(ctx, letters, g, fetchBrandURLs)
//	pages := outcome.Explode(brands, []int{0, 1, 2})
//	products := outcome.TransformAsyncMany(ctx, pages, g, fetchProducts)
//
// Synchronous combinators (Transform, TransformMany, Flatten, Explode) never
// suspend. TransformAsync routes every unit of remote work through a
// governor.Governor and keeps results in input order. In both, a panicking
// function becomes a TASK_ABORTED failure for its element only.
//
// Values that must not cross a suspension point, such as parsed documents
// that are not safe for concurrent use, should be reduced to plain data inside
// the function passed to TransformAsync before it returns.
package outcome
