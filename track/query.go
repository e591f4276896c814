package track

import (
	"fmt"
	"slices"

	"github.com/hupe1980/trackgo/core"
	"github.com/hupe1980/trackgo/match"
)

// CommonTracks returns the ascending ids of tracks visible in every given
// view, using ordered-merge intersection over the sorted index buckets.
// Cost is linear in the sum of the touched bucket sizes.
//
// Any view absent from the index short-circuits the whole query to an
// empty result, never a partial intersection. An empty view set yields an
// empty result.
func CommonTracks(views []core.ViewID, pv PerView) []core.TrackID {
	if len(views) == 0 {
		return nil
	}

	first, ok := pv[views[0]]
	if !ok {
		return nil
	}
	acc := slices.Clone(first)
	for _, view := range views[1:] {
		bucket, ok := pv[view]
		if !ok {
			return nil
		}
		acc = intersectSorted(acc, bucket)
		if len(acc) == 0 {
			return nil
		}
	}
	return acc
}

// intersectSorted merges two ascending id lists, keeping common elements.
// The result reuses a's backing array.
func intersectSorted(a, b []core.TrackID) []core.TrackID {
	out := a[:0]
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// TracksInViews returns the tracks visible in every given view, by brute
// force over the whole collection with early exit on the first missing
// view. Each output track holds only the requested views' entries, not
// the full original view set.
//
// This is the reference form; TracksInViewsFast must return identical
// content for any input.
func TracksInViews(views []core.ViewID, c Collection) Collection {
	out := make(Collection)
	if len(views) == 0 {
		return out
	}

	for id, t := range c {
		sub := materialize(t, views)
		if sub != nil {
			out[id] = *sub
		}
	}
	return out
}

// TracksInViewsFast is the index-accelerated form of TracksInViews: it
// intersects the per-view buckets first and materializes entries only for
// the surviving ids. It returns identical content to TracksInViews for
// any valid collection/index pair.
func TracksInViewsFast(views []core.ViewID, c Collection, pv PerView) Collection {
	out := make(Collection)
	if len(views) == 0 {
		return out
	}

	for _, id := range CommonTracks(views, pv) {
		t, ok := c[id]
		if !ok {
			continue
		}
		if sub := materialize(t, views); sub != nil {
			out[id] = *sub
		}
	}
	return out
}

// materialize builds the restriction of t to the given views, or nil if
// any view is missing from the track.
func materialize(t Track, views []core.ViewID) *Track {
	sub := Track{
		Describer:      t.Describer,
		FeaturePerView: make(map[core.ViewID]core.FeatureIndex, len(views)),
	}
	for _, view := range views {
		feat, ok := t.FeaturePerView[view]
		if !ok {
			return nil
		}
		sub.FeaturePerView[view] = feat
	}
	return &sub
}

// TracksForView returns the ascending ids of tracks visible in one view
// by linear scan. Repeated queries should use ComputePerView instead.
func TracksForView(c Collection, view core.ViewID) []core.TrackID {
	var ids []core.TrackID
	for id, t := range c {
		if t.HasView(view) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ViewsReferenced returns the sorted set of views appearing anywhere in
// the collection.
func ViewsReferenced(c Collection) []core.ViewID {
	seen := make(map[core.ViewID]struct{})
	for _, t := range c {
		for view := range t.FeaturePerView {
			seen[view] = struct{}{}
		}
	}
	views := make([]core.ViewID, 0, len(seen))
	for view := range seen {
		views = append(views, view)
	}
	slices.Sort(views)
	return views
}

// FeatureID is the (describer, feature index) of one observation, as
// consumed by downstream stages that sample per-view data.
type FeatureID struct {
	Describer core.DescriberType
	Feature   core.FeatureIndex
}

// FeatureIDsInView returns, for each requested track id present in the
// collection and visible in the given view, the feature observed there.
// Results follow the order of trackIDs; missing ids are silently skipped.
func FeatureIDsInView(c Collection, trackIDs []core.TrackID, view core.ViewID) []FeatureID {
	var out []FeatureID
	for _, id := range trackIDs {
		t, ok := c[id]
		if !ok {
			continue
		}
		feat, ok := t.FeaturePerView[view]
		if !ok {
			continue
		}
		out = append(out, FeatureID{Describer: t.Describer, Feature: feat})
	}
	return out
}

// ToIndexedMatches converts two-view tracks back into indexed matches,
// one per requested id, pairing the lower view's feature with the higher
// view's. Every requested id must name a track of exactly two views.
func ToIndexedMatches(c Collection, trackIDs []core.TrackID) ([]match.IndexedMatch, error) {
	out := make([]match.IndexedMatch, 0, len(trackIDs))
	for _, id := range trackIDs {
		t, ok := c[id]
		if !ok {
			return nil, fmt.Errorf("track %d: not in collection", id)
		}
		if t.Len() != 2 {
			return nil, fmt.Errorf("track %d: expected two views, got %d", id, t.Len())
		}

		views := make([]core.ViewID, 0, 2)
		for view := range t.FeaturePerView {
			views = append(views, view)
		}
		slices.Sort(views)

		out = append(out, match.IndexedMatch{
			I: t.FeaturePerView[views[0]],
			J: t.FeaturePerView[views[1]],
		})
	}
	return out, nil
}
