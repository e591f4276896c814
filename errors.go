package trackgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/trackgo/core"
	"github.com/hupe1980/trackgo/match"
)

var (
	// ErrAlreadyBuilt is returned when Build is called more than once on
	// the same builder. A builder consumes exactly one match input.
	ErrAlreadyBuilt = errors.New("builder already built")

	// ErrNotBuilt is returned when Filter or ExportTracks is called
	// before Build.
	ErrNotBuilt = errors.New("builder not built")

	// ErrAlreadyExported is returned when the builder is used after
	// ExportTracks. Export is terminal; the instance should be discarded.
	ErrAlreadyExported = errors.New("builder already exported")
)

// ErrInvalidDescriber indicates a match block keyed by an unknown or
// uninitialized describer tag. Detected during interning; the whole build
// fails and no partial graph is kept.
type ErrInvalidDescriber struct {
	Pair      match.Pair
	Describer core.DescriberType
}

func (e *ErrInvalidDescriber) Error() string {
	return fmt.Sprintf("pair %s: invalid describer type %s", e.Pair, e.Describer)
}

// ErrInvalidPair indicates a degenerate view pair (a view matched against
// itself). Detected during interning; the whole build fails.
type ErrInvalidPair struct {
	Pair match.Pair
}

func (e *ErrInvalidPair) Error() string {
	return fmt.Sprintf("pair %s: view matched against itself", e.Pair)
}
