package trackgo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trackgo/core"
	"github.com/hupe1980/trackgo/match"
	"github.com/hupe1980/trackgo/track"
)

func pairSIFT(ms ...match.IndexedMatch) match.MatchesPerDescriber {
	return match.MatchesPerDescriber{core.DescriberSIFT: ms}
}

func TestTracksBuilder(t *testing.T) {
	t.Run("Transitivity", func(t *testing.T) {
		// view0/f0 <-> view1/f0 and view1/f0 <-> view2/f0: one track
		// spanning all three views even though view0 and view2 are
		// never matched directly.
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(2))

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		require.Len(t, tracks, 1)

		tr := tracks[0]
		assert.Equal(t, core.DescriberSIFT, tr.Describer)
		assert.Equal(t, map[core.ViewID]core.FeatureIndex{
			0: 0,
			1: 0,
			2: 0,
		}, tr.FeaturePerView)
	})

	t.Run("ConflictRejection", func(t *testing.T) {
		// view0 contributes f0 and f1 to the same merged class; the
		// whole class must vanish regardless of its size.
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 0, J: 2}: pairSIFT(match.IndexedMatch{I: 1, J: 0}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		assert.Equal(t, 1, builder.NumTracks())

		require.NoError(t, builder.Filter(2))
		assert.Equal(t, 0, builder.NumTracks())

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		assert.Empty(t, tracks)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(match.PairwiseMatches{}))
		require.NoError(t, builder.Filter(2))

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		assert.Empty(t, tracks)
	})

	t.Run("MinViewCount", func(t *testing.T) {
		// One track across four views, one across two.
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(
				match.IndexedMatch{I: 0, J: 0},
				match.IndexedMatch{I: 5, J: 5},
			),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 2, J: 3}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(3))

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		require.Len(t, tracks, 1)
		for _, tr := range tracks {
			assert.Equal(t, 4, tr.Len())
		}
	})

	t.Run("FilterIdempotent", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(2))
		before := builder.NumTracks()
		require.NoError(t, builder.Filter(2))
		assert.Equal(t, before, builder.NumTracks())
	})

	t.Run("FilteredTracksSatisfyThreshold", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(
				match.IndexedMatch{I: 0, J: 0},
				match.IndexedMatch{I: 1, J: 1},
				match.IndexedMatch{I: 2, J: 2},
			),
			{I: 1, J: 2}: pairSIFT(
				match.IndexedMatch{I: 0, J: 0},
				match.IndexedMatch{I: 1, J: 4},
			),
			{I: 2, J: 3}: pairSIFT(match.IndexedMatch{I: 0, J: 9}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(2))

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		require.NotEmpty(t, tracks)
		for id, tr := range tracks {
			assert.GreaterOrEqual(t, tr.Len(), 2, "track %d too short", id)
		}
	})

	t.Run("SeparateDescribers", func(t *testing.T) {
		// Identical indices under two describers never merge: the
		// observation identity includes the describer tag.
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: {
				core.DescriberSIFT:  {match.IndexedMatch{I: 0, J: 0}},
				core.DescriberAKAZE: {match.IndexedMatch{I: 0, J: 0}},
			},
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(2))

		tracks, err := builder.ExportTracks()
		require.NoError(t, err)
		require.Len(t, tracks, 2)

		describers := make(map[core.DescriberType]int)
		for _, tr := range tracks {
			describers[tr.Describer]++
			assert.Equal(t, 2, tr.Len())
		}
		assert.Equal(t, map[core.DescriberType]int{
			core.DescriberSIFT:  1,
			core.DescriberAKAZE: 1,
		}, describers)
	})

	t.Run("Deterministic", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(
				match.IndexedMatch{I: 0, J: 0},
				match.IndexedMatch{I: 1, J: 1},
			),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 0, J: 3}: pairSIFT(match.IndexedMatch{I: 1, J: 7}),
		}

		export := func() track.Collection {
			builder := NewTracksBuilder()
			require.NoError(t, builder.Build(matches))
			require.NoError(t, builder.Filter(2))
			tracks, err := builder.ExportTracks()
			require.NoError(t, err)
			return tracks
		}

		assert.Equal(t, export(), export())
	})

	t.Run("ParallelFilter", func(t *testing.T) {
		// Many independent two-view tracks exercise the worker split.
		matches := match.PairwiseMatches{}
		pair := match.Pair{I: 0, J: 1}
		var ms []match.IndexedMatch
		for i := 0; i < 500; i++ {
			ms = append(ms, match.IndexedMatch{I: core.FeatureIndex(i), J: core.FeatureIndex(i)})
		}
		matches[pair] = pairSIFT(ms...)

		builder := NewTracksBuilder(WithMaxWorkers(4))
		require.NoError(t, builder.Build(matches))
		require.NoError(t, builder.Filter(2))
		assert.Equal(t, 500, builder.NumTracks())
	})
}

func TestTracksBuilderStateMachine(t *testing.T) {
	matches := match.PairwiseMatches{
		{I: 0, J: 1}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
	}

	t.Run("FilterBeforeBuild", func(t *testing.T) {
		builder := NewTracksBuilder()
		assert.ErrorIs(t, builder.Filter(2), ErrNotBuilt)
	})

	t.Run("ExportBeforeBuild", func(t *testing.T) {
		builder := NewTracksBuilder()
		_, err := builder.ExportTracks()
		assert.ErrorIs(t, err, ErrNotBuilt)
	})

	t.Run("DoubleBuild", func(t *testing.T) {
		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		assert.ErrorIs(t, builder.Build(matches), ErrAlreadyBuilt)
	})

	t.Run("UseAfterExport", func(t *testing.T) {
		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))
		_, err := builder.ExportTracks()
		require.NoError(t, err)

		_, err = builder.ExportTracks()
		assert.ErrorIs(t, err, ErrAlreadyExported)
		assert.ErrorIs(t, builder.Filter(2), ErrAlreadyExported)
		assert.ErrorIs(t, builder.Build(matches), ErrAlreadyExported)
	})
}

func TestTracksBuilderValidation(t *testing.T) {
	t.Run("InvalidDescriber", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: {
				core.DescriberUnknown: {match.IndexedMatch{I: 0, J: 0}},
			},
		}

		builder := NewTracksBuilder()
		err := builder.Build(matches)
		require.Error(t, err)

		var invalid *ErrInvalidDescriber
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, core.DescriberUnknown, invalid.Describer)

		// The failed build leaves the builder reusable.
		assert.ErrorIs(t, builder.Filter(2), ErrNotBuilt)
	})

	t.Run("DegeneratePair", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 3, J: 3}: pairSIFT(match.IndexedMatch{I: 0, J: 1}),
		}

		builder := NewTracksBuilder()
		err := builder.Build(matches)
		require.Error(t, err)

		var invalid *ErrInvalidPair
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, match.Pair{I: 3, J: 3}, invalid.Pair)
	})
}

func TestTracksBuilderWriteTo(t *testing.T) {
	t.Run("NotBuilt", func(t *testing.T) {
		builder := NewTracksBuilder()
		var sb strings.Builder
		_, err := builder.WriteTo(&sb)
		assert.ErrorIs(t, err, ErrNotBuilt)
	})

	t.Run("Dump", func(t *testing.T) {
		matches := match.PairwiseMatches{
			{I: 0, J: 1}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
			{I: 1, J: 2}: pairSIFT(match.IndexedMatch{I: 0, J: 0}),
		}

		builder := NewTracksBuilder()
		require.NoError(t, builder.Build(matches))

		var sb strings.Builder
		n, err := builder.WriteTo(&sb)
		require.NoError(t, err)
		assert.Equal(t, int64(sb.Len()), n)
		assert.Contains(t, sb.String(), "class 0")
		assert.Contains(t, sb.String(), "track length: 3")
	})
}
