// Package track defines the durable outputs of track construction and the
// read-only query engine over them.
//
// A Track is a maximal set of observations transitively connected through
// pairwise matches, hypothesized to depict one physical scene point. The
// Collection and the derived PerView index are frozen once produced: no
// function in this package mutates them, and any number of goroutines may
// query them concurrently without synchronization.
package track

import (
	"github.com/hupe1980/trackgo/core"
)

// Track is one candidate scene point observed from several viewpoints.
//
// All member observations share one describer type; this is guaranteed by
// construction because matches only ever connect same-describer features.
// Each view appears at most once — classes violating that are dropped
// during filtering and never exported.
type Track struct {
	// Describer is the feature family shared by every member observation.
	Describer core.DescriberType
	// FeaturePerView maps each view to the feature index observed there.
	FeaturePerView map[core.ViewID]core.FeatureIndex
}

// Len returns the track length: the number of distinct views.
func (t Track) Len() int {
	return len(t.FeaturePerView)
}

// HasView reports whether the track is visible in the given view.
func (t Track) HasView(view core.ViewID) bool {
	_, ok := t.FeaturePerView[view]
	return ok
}

// Collection maps dense track ids to tracks. Ids are assigned sequentially
// from zero at export; they carry no relation to input order. A Collection
// is immutable once exported.
type Collection map[core.TrackID]Track

// PerView maps each view to the ascending, duplicate-free list of track
// ids visible in it. It is always derived wholesale from a Collection via
// ComputePerView and never updated incrementally.
type PerView map[core.ViewID][]core.TrackID
