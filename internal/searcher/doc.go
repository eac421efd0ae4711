// Package searcher provides pooled scratch state for window-based neighbor search.
//
// The Searcher struct owns all reusable resources needed to collect the
// neighbors of one point:
//   - A bounded max-heap of the best candidates seen so far
//   - A visited set de-duplicating candidates across orderings
//
// Searchers are pooled and reused across points by each worker.
package searcher
