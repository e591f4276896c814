package track

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// LengthHistogram returns the number of tracks per distinct track length
// (view count).
func LengthHistogram(c Collection) map[int]int {
	hist := make(map[int]int)
	for _, t := range c {
		hist[t.Len()]++
	}
	return hist
}

// LengthStats summarizes the track-length distribution of a collection.
type LengthStats struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
}

// Stats computes length statistics over a collection. A nil or empty
// collection yields the zero LengthStats.
func Stats(c Collection) LengthStats {
	if len(c) == 0 {
		return LengthStats{}
	}

	lengths := make([]float64, 0, len(c))
	for _, t := range c {
		lengths = append(lengths, float64(t.Len()))
	}
	slices.Sort(lengths)

	return LengthStats{
		Count:  len(c),
		Min:    int(lengths[0]),
		Max:    int(lengths[len(lengths)-1]),
		Mean:   stat.Mean(lengths, nil),
		StdDev: stat.StdDev(lengths, nil),
		Median: stat.Quantile(0.5, stat.Empirical, lengths, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, lengths, nil),
	}
}
