package track

import (
	"runtime"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/trackgo/core"
)

// ComputePerView builds the view -> sorted track-id index for a
// collection. The append pass is sequential; the per-view sort runs in
// parallel because buckets are mutually independent. Recomputing on an
// unchanged collection yields an identical index.
func ComputePerView(c Collection) PerView {
	pv := make(PerView)
	for id, t := range c {
		for view := range t.FeaturePerView {
			pv[view] = append(pv[view], id)
		}
	}

	// Sort in parallel, but collect results outside the map: concurrent
	// writes to distinct map keys still race on the map itself.
	views := make([]core.ViewID, 0, len(pv))
	for view := range pv {
		views = append(views, view)
	}
	buckets := make([][]core.TrackID, len(views))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, view := range views {
		bucket := pv[view]
		g.Go(func() error {
			slices.Sort(bucket)
			buckets[i] = slices.Compact(bucket)
			return nil
		})
	}
	// Workers never return errors; Wait is the barrier.
	_ = g.Wait()

	for i, view := range views {
		pv[view] = buckets[i]
	}
	return pv
}

// Views returns the sorted set of views present in the index.
func (pv PerView) Views() []core.ViewID {
	views := make([]core.ViewID, 0, len(pv))
	for view := range pv {
		views = append(views, view)
	}
	slices.Sort(views)
	return views
}

// BitmapIndex is a roaring-bitmap variant of PerView for workloads that
// intersect many view subsets against the same collection. It answers the
// same queries as PerView and must agree with it on every input.
type BitmapIndex struct {
	views map[core.ViewID]*roaring.Bitmap
}

// ComputeBitmapIndex builds a BitmapIndex from a collection.
func ComputeBitmapIndex(c Collection) *BitmapIndex {
	bi := &BitmapIndex{
		views: make(map[core.ViewID]*roaring.Bitmap),
	}
	for id, t := range c {
		for view := range t.FeaturePerView {
			rb, ok := bi.views[view]
			if !ok {
				rb = roaring.New()
				bi.views[view] = rb
			}
			rb.Add(uint32(id))
		}
	}
	return bi
}

// CommonTracks returns the ascending ids of tracks visible in every given
// view. A view absent from the index short-circuits to an empty result.
// An empty view set yields an empty result.
func (bi *BitmapIndex) CommonTracks(views []core.ViewID) []core.TrackID {
	if len(views) == 0 {
		return nil
	}

	first, ok := bi.views[views[0]]
	if !ok {
		return nil
	}
	acc := first.Clone()
	for _, view := range views[1:] {
		rb, ok := bi.views[view]
		if !ok {
			return nil
		}
		acc.And(rb)
		if acc.IsEmpty() {
			return nil
		}
	}

	ids := make([]core.TrackID, 0, acc.GetCardinality())
	it := acc.Iterator()
	for it.HasNext() {
		ids = append(ids, core.TrackID(it.Next()))
	}
	return ids
}

// Views returns the sorted set of views present in the index.
func (bi *BitmapIndex) Views() []core.ViewID {
	views := make([]core.ViewID, 0, len(bi.views))
	for view := range bi.views {
		views = append(views, view)
	}
	slices.Sort(views)
	return views
}
