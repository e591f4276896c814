// Package match defines the pairwise-correspondence input contract for
// track construction.
//
// Matches are produced by an external feature-matching component and
// supplied wholesale to the builder. The builder never mutates them.
package match

import (
	"fmt"

	"github.com/hupe1980/trackgo/core"
)

// IndexedMatch is one correspondence between a feature in view I and a
// feature in view J of a Pair.
type IndexedMatch struct {
	I core.FeatureIndex
	J core.FeatureIndex
}

// String returns a compact representation of the match.
func (m IndexedMatch) String() string {
	return fmt.Sprintf("(%d,%d)", m.I, m.J)
}

// MatchesPerDescriber groups the matches of one view pair by describer
// type. Matches under one describer connect features detected by that
// describer in both views.
type MatchesPerDescriber map[core.DescriberType][]IndexedMatch

// Count returns the total number of matches across all describer types.
func (m MatchesPerDescriber) Count() int {
	n := 0
	for _, matches := range m {
		n += len(matches)
	}
	return n
}

// Pair is an ordered view-id pair. By convention I < J; callers must
// canonicalize keys before supplying them. Duplicate or unordered keys
// are undefined behavior and are not repaired here.
type Pair struct {
	I core.ViewID
	J core.ViewID
}

// String returns a compact representation of the pair.
func (p Pair) String() string {
	return fmt.Sprintf("[%d,%d]", p.I, p.J)
}

// PairwiseMatches maps every matched view pair to its per-describer
// matches. It is the complete input of one build: supplied once,
// immutable, externally owned.
type PairwiseMatches map[Pair]MatchesPerDescriber

// Count returns the total number of matched pairs in the input.
func (pm PairwiseMatches) Count() int {
	n := 0
	for _, perDesc := range pm {
		n += perDesc.Count()
	}
	return n
}
