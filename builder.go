package trackgo

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/trackgo/core"
	"github.com/hupe1980/trackgo/internal/obsindex"
	"github.com/hupe1980/trackgo/internal/unionfind"
	"github.com/hupe1980/trackgo/match"
	"github.com/hupe1980/trackgo/track"
)

// MinViewCountDefault is the default filter threshold: a track must be
// visible in at least two views to constrain a scene point.
const MinViewCountDefault = 2

type builderState uint8

const (
	stateEmpty builderState = iota
	stateBuilt
	stateExported
)

// TracksBuilder fuses pairwise feature correspondences into multi-view
// tracks.
//
// It implements the track-construction algorithm of Moulon and Monasse,
// "Unordered feature tracking made fast and easy" (CVMP 2012): every
// observation becomes a node of a disjoint set, every match unions its
// two endpoints, and the surviving equivalence classes are the tracks.
//
// The life cycle is Build, optionally Filter one or more times, then
// ExportTracks once. Each step is all-or-nothing; calling them out of
// order fails fast. A builder exclusively owns its graph: it must not be
// shared across goroutines during Build or Filter.
//
// Usage:
//
//	builder := trackgo.NewTracksBuilder()
//	if err := builder.Build(matches); err != nil { ... }
//	if err := builder.Filter(trackgo.MinViewCountDefault); err != nil { ... }
//	tracks, err := builder.ExportTracks()
type TracksBuilder struct {
	opts  options
	state builderState

	ds  *unionfind.DisjointSet
	obs *obsindex.Index
}

// NewTracksBuilder creates a builder ready for one Build call.
func NewTracksBuilder(optFns ...Option) *TracksBuilder {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &TracksBuilder{
		opts: opts,
	}
}

// Build consumes the pairwise matches and constructs the observation
// graph. It runs two passes: the first interns every endpoint of every
// match into a dense node id, the second unions the endpoints of every
// match. Unions need both ids resolved, so the passes cannot be fused.
//
// Empty input is valid and yields zero tracks. Malformed input (unknown
// describer tags, degenerate view pairs) fails the whole build. A second
// Build on the same instance returns ErrAlreadyBuilt.
func (b *TracksBuilder) Build(matches match.PairwiseMatches) error {
	if b.state != stateEmpty {
		err := ErrAlreadyBuilt
		if b.state == stateExported {
			err = ErrAlreadyExported
		}
		b.opts.logger.LogBuild(0, 0, err)
		return err
	}

	if err := validate(matches); err != nil {
		b.opts.logger.LogBuild(0, matches.Count(), err)
		return err
	}

	total := matches.Count()
	b.obs = obsindex.New(2 * total)

	// Map iteration order is randomized; walk pairs and describers in
	// sorted order so node and track ids are stable across runs.
	pairs := sortedPairs(matches)

	// Pass 1: intern every observation referenced by any match.
	for _, pair := range pairs {
		perDesc := matches[pair]
		for _, desc := range sortedDescribers(perDesc) {
			for _, m := range perDesc[desc] {
				b.obs.Intern(core.Observation{View: pair.I, Describer: desc, Feature: m.I})
				b.obs.Intern(core.Observation{View: pair.J, Describer: desc, Feature: m.J})
			}
		}
	}

	// One disjoint-set node per interned observation. Node ids and
	// observation ids share the same dense sequence.
	b.ds = unionfind.New(b.obs.Len())
	for i := 0; i < b.obs.Len(); i++ {
		b.ds.MakeSet()
	}

	// Pass 2: union the endpoints of every match.
	for _, pair := range pairs {
		perDesc := matches[pair]
		for _, desc := range sortedDescribers(perDesc) {
			for _, m := range perDesc[desc] {
				ni, _ := b.obs.Lookup(core.Observation{View: pair.I, Describer: desc, Feature: m.I})
				nj, _ := b.obs.Lookup(core.Observation{View: pair.J, Describer: desc, Feature: m.J})
				b.ds.Union(ni, nj)
			}
		}
	}

	b.state = stateBuilt
	b.opts.logger.LogBuild(b.obs.Len(), total, nil)
	return nil
}

func sortedPairs(matches match.PairwiseMatches) []match.Pair {
	pairs := make([]match.Pair, 0, len(matches))
	for pair := range matches {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b match.Pair) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return pairs
}

func sortedDescribers(perDesc match.MatchesPerDescriber) []core.DescriberType {
	descs := make([]core.DescriberType, 0, len(perDesc))
	for desc := range perDesc {
		descs = append(descs, desc)
	}
	slices.Sort(descs)
	return descs
}

func validate(matches match.PairwiseMatches) error {
	for pair, perDesc := range matches {
		if pair.I == pair.J {
			return &ErrInvalidPair{Pair: pair}
		}
		for desc := range perDesc {
			if !desc.Valid() {
				return &ErrInvalidDescriber{Pair: pair, Describer: desc}
			}
		}
	}
	return nil
}

// Filter removes bad classes from the graph: classes in which one view
// contributed more than one observation (an internally conflicting track,
// dropped in its entirety) and classes visible in fewer than minViewCount
// distinct views. Values of minViewCount below two are clamped to two.
//
// Class evaluation is read-only and runs in parallel; erasure is applied
// serially after every class has been evaluated. Repeated calls with
// non-decreasing thresholds are idempotent.
func (b *TracksBuilder) Filter(minViewCount int) error {
	switch b.state {
	case stateEmpty:
		return ErrNotBuilt
	case stateExported:
		return ErrAlreadyExported
	}

	if minViewCount < MinViewCountDefault {
		minViewCount = MinViewCountDefault
	}

	var classes []core.NodeID
	for root := range b.ds.Classes() {
		classes = append(classes, root)
	}

	workers := b.opts.maxWorkers
	if workers > len(classes) {
		workers = len(classes)
	}

	toErase := make([][]core.NodeID, workers)
	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		lo := w * len(classes) / workers
		hi := (w + 1) * len(classes) / workers
		chunk := classes[lo:hi]
		local := &toErase[w]
		g.Go(func() error {
			views := make(map[core.ViewID]struct{})
			for _, root := range chunk {
				clear(views)
				members := 0
				for node := range b.ds.Members(root) {
					views[b.obs.Observation(node).View] = struct{}{}
					members++
				}
				if len(views) != members || len(views) < minViewCount {
					*local = append(*local, root)
				}
			}
			return nil
		})
	}
	// Workers never return errors; Wait is the barrier before erasure.
	_ = g.Wait()

	removed := 0
	for _, buf := range toErase {
		for _, root := range buf {
			b.ds.EraseClass(root)
			removed++
		}
	}

	b.opts.logger.LogFilter(minViewCount, removed, b.ds.NumClasses())
	return nil
}

// NumTracks returns the number of live classes in the graph: the number
// of tracks an export would currently produce. Zero before Build.
func (b *TracksBuilder) NumTracks() int {
	if b.ds == nil {
		return 0
	}
	return b.ds.NumClasses()
}

// ExportTracks freezes the surviving classes into a track collection,
// assigning dense sequential ids starting at zero in class-iteration
// order. Export is terminal: afterwards the builder refuses further calls
// and should be discarded, together with its graph and interner.
func (b *TracksBuilder) ExportTracks() (track.Collection, error) {
	switch b.state {
	case stateEmpty:
		b.opts.logger.LogExport(0, ErrNotBuilt)
		return nil, ErrNotBuilt
	case stateExported:
		b.opts.logger.LogExport(0, ErrAlreadyExported)
		return nil, ErrAlreadyExported
	}

	tracks := make(track.Collection, b.ds.NumClasses())
	next := core.TrackID(0)
	for root := range b.ds.Classes() {
		t := track.Track{
			FeaturePerView: make(map[core.ViewID]core.FeatureIndex),
		}
		for node := range b.ds.Members(root) {
			obs := b.obs.Observation(node)
			// All members of one class share a describer type: match
			// edges only ever connect same-describer observations.
			t.Describer = obs.Describer
			t.FeaturePerView[obs.View] = obs.Feature
		}
		tracks[next] = t
		next++
	}

	b.state = stateExported
	b.opts.logger.LogExport(len(tracks), nil)
	return tracks, nil
}

// WriteTo dumps the live classes in a human-readable form, one class per
// block with its length and member observations. Debug aid only; the
// output format is not stable.
func (b *TracksBuilder) WriteTo(w io.Writer) (int64, error) {
	if b.ds == nil {
		return 0, ErrNotBuilt
	}

	var written int64
	idx := 0
	for root := range b.ds.Classes() {
		members := 0
		for range b.ds.Members(root) {
			members++
		}
		n, err := fmt.Fprintf(w, "class %d\n\ttrack length: %d\n", idx, members)
		written += int64(n)
		if err != nil {
			return written, err
		}
		for node := range b.ds.Members(root) {
			obs := b.obs.Observation(node)
			n, err := fmt.Fprintf(w, "\t%d %s %d\n", obs.View, obs.Describer, obs.Feature)
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
		idx++
	}
	return written, nil
}
