// Package trackgo provides the feature-track construction and query
// engine of a multi-view 3D reconstruction pipeline.
//
// Trackgo consolidates pairwise feature correspondences (computed between
// pairs of images by an external matcher) into multi-view tracks, each
// representing one hypothesized scene point, and serves structured queries
// over the resulting collection.
//
// # Quick Start
//
//	builder := trackgo.NewTracksBuilder()
//	if err := builder.Build(matches); err != nil {
//	    // unknown describer tag or degenerate view pair
//	}
//	_ = builder.Filter(trackgo.MinViewCountDefault) // drop short/conflicting tracks
//	tracks, _ := builder.ExportTracks()             // terminal: discard the builder
//
// # Querying
//
// The exported collection and its derived indexes are frozen; any number
// of goroutines may query them concurrently without synchronization:
//
//	pv := track.ComputePerView(tracks)
//	ids := track.CommonTracks([]core.ViewID{0, 1, 2}, pv)
//	sub := track.TracksInViewsFast([]core.ViewID{0, 1, 2}, tracks, pv)
//
// For workloads that intersect many view subsets against one collection,
// track.ComputeBitmapIndex offers a roaring-bitmap index with the same
// query contract.
//
// # Filtering Policy
//
// A class is dropped when one view contributed more than one observation
// (internal conflict: the class cannot be a single scene point) or when it
// spans fewer than the requested number of distinct views. Conflicting
// classes are removed in their entirety, never repaired; the removal is
// observable only through track counts.
//
// # Key Properties
//
//   - Near-linear construction: O(M) interning + O(M·α(M)) unions
//   - Ordered-merge multi-view intersection, linear in bucket sizes
//   - Reference and index-accelerated visibility queries return
//     identical results for any input
//   - Exported tracks never contain duplicate view entries
package trackgo
