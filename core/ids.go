package core

import "fmt"

// ViewID identifies one input image.
type ViewID uint32

// FeatureIndex identifies a detected feature within a single view and
// describer type. Indices are local to the view, not global.
type FeatureIndex uint32

// TrackID is the dense, stable identifier of an exported track.
// Assigned sequentially from zero at export time.
type TrackID uint32

// NodeID is a dense, internal identifier for one observation node during
// track construction. It is strictly 32-bit, allowing for max 4 Billion
// observations per build. Used for all hot-path structures (parent/rank
// arrays, sibling lists, bitmaps).
type NodeID uint32

// MaxNodeID is the maximum possible value for a NodeID.
const MaxNodeID = ^NodeID(0)

// DescriberType is the closed set of feature describer families.
type DescriberType uint8

const (
	// DescriberUnknown is the zero value; it never appears in valid input.
	DescriberUnknown DescriberType = iota
	// DescriberSIFT is the standard SIFT describer.
	DescriberSIFT
	// DescriberSIFTFloat is SIFT with float descriptors.
	DescriberSIFTFloat
	// DescriberAKAZE is the standard AKAZE describer.
	DescriberAKAZE
	// DescriberAKAZELiop is AKAZE with the LIOP descriptor.
	DescriberAKAZELiop
	// DescriberAKAZEMldb is AKAZE with the M-LDB descriptor.
	DescriberAKAZEMldb
	// DescriberCCTag3 is the 3-crown CCTag marker describer.
	DescriberCCTag3
	// DescriberCCTag4 is the 4-crown CCTag marker describer.
	DescriberCCTag4

	describerSentinel
)

var describerNames = map[DescriberType]string{
	DescriberUnknown:   "unknown",
	DescriberSIFT:      "sift",
	DescriberSIFTFloat: "sift_float",
	DescriberAKAZE:     "akaze",
	DescriberAKAZELiop: "akaze_liop",
	DescriberAKAZEMldb: "akaze_mldb",
	DescriberCCTag3:    "cctag3",
	DescriberCCTag4:    "cctag4",
}

// String returns the canonical lowercase name of the describer type.
func (d DescriberType) String() string {
	if name, ok := describerNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DescriberType(%d)", uint8(d))
}

// Valid reports whether d is a known, non-zero describer type.
func (d DescriberType) Valid() bool {
	return d > DescriberUnknown && d < describerSentinel
}

// ParseDescriberType resolves a canonical name to its DescriberType.
func ParseDescriberType(name string) (DescriberType, error) {
	for d, n := range describerNames {
		if n == name && d != DescriberUnknown {
			return d, nil
		}
	}
	return DescriberUnknown, fmt.Errorf("unknown describer type: %q", name)
}

// Observation is the identity of one feature occurrence in one view.
// It exists only as a node reference during construction; exported tracks
// store the same information as (view -> feature) entries.
type Observation struct {
	View      ViewID
	Describer DescriberType
	Feature   FeatureIndex
}

// Less orders observations by view, then describer, then feature index.
func (o Observation) Less(other Observation) bool {
	if o.View != other.View {
		return o.View < other.View
	}
	if o.Describer != other.Describer {
		return o.Describer < other.Describer
	}
	return o.Feature < other.Feature
}

// String returns a compact representation of the observation.
func (o Observation) String() string {
	return fmt.Sprintf("Obs(%d:%s:%d)", o.View, o.Describer, o.Feature)
}
