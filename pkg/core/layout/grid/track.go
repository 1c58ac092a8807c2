package grid

import (
	"fmt"
	"math"
)

// TrackKind identifies how a track is sized.
type TrackKind int

const (
	TrackFixed TrackKind = iota
	TrackFraction
	TrackAuto
	TrackMinContent
	TrackMaxContent
	TrackMinMax
)

// Track is one column or row size. Value holds the pixel size of fixed tracks
// and the weight of fraction tracks. Min and Max bound minmax tracks.
type Track struct {
	Kind  TrackKind
	Value float64
	Min   float64
	Max   float64
}

// Px returns a fixed track.
func Px(v float64) Track { return Track{Kind: TrackFixed, Value: v} }

// Fr returns a fraction track.
func Fr(v float64) Track { return Track{Kind: TrackFraction, Value: v} }

// Auto returns an auto track.
func Auto() Track { return Track{Kind: TrackAuto} }

// MinMax returns a track bounded by min and max. Use math.Inf(1) for an
// unbounded maximum.
func MinMax(lo, hi float64) Track { return Track{Kind: TrackMinMax, Min: lo, Max: hi} }

func (t Track) String() string {
	switch t.Kind {
	case TrackFixed:
		return fmt.Sprintf("%gpx", t.Value)
	case TrackFraction:
		return fmt.Sprintf("%gfr", t.Value)
	case TrackMinContent:
		return "min-content"
	case TrackMaxContent:
		return "max-content"
	case TrackMinMax:
		hi := "auto"
		if !math.IsInf(t.Max, 1) {
			hi = fmt.Sprintf("%gpx", t.Max)
		}
		return fmt.Sprintf("minmax(%gpx, %s)", t.Min, hi)
	}
	return "auto"
}

// resolveTracks returns the pixel size of each track given the available
// extent and the gap between tracks.
func resolveTracks(tracks []Track, available, gap float64, stretchAuto bool) []float64 {
	if len(tracks) == 0 {
		return nil
	}
	var fixed, frTotal float64
	var autoCount int
	for _, t := range tracks {
		switch t.Kind {
		case TrackFixed:
			fixed += t.Value
		case TrackFraction:
			frTotal += t.Value
		case TrackMinMax:
			fixed += t.Min
		default:
			autoCount++
		}
	}
	remaining := max(available-gap*float64(len(tracks)-1)-fixed, 0)

	var frUnit, autoUnit float64
	if frTotal > 0 {
		frUnit = remaining / frTotal
	} else if stretchAuto && autoCount > 0 {
		autoUnit = remaining / float64(autoCount)
	}

	sizes := make([]float64, len(tracks))
	for i, t := range tracks {
		switch t.Kind {
		case TrackFixed:
			sizes[i] = t.Value
		case TrackFraction:
			sizes[i] = t.Value * frUnit
		case TrackMinMax:
			sizes[i] = min(max(autoUnit, t.Min), t.Max)
		default:
			sizes[i] = autoUnit
		}
	}
	return sizes
}

// positions returns the start offset of each track.
func positions(sizes []float64, gap, start float64) []float64 {
	out := make([]float64, len(sizes))
	cur := start
	for i, s := range sizes {
		out[i] = cur
		cur += s + gap
	}
	return out
}
