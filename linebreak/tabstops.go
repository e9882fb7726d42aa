package linebreak

import "math"

// TabStops resolves the width a tab character advances to.
//
// Explicit stops must be sorted ascending. Past the last explicit stop, tabs
// advance to the next multiple of the default pitch. A TabStops value is
// shared by pointer between every tab primitive of a paragraph and must not
// be modified once breaking starts.
type TabStops struct {
	stops []float64
	pitch float64
}

// NewTabStops creates a resolver from sorted explicit stops (may be empty)
// and a default tab pitch.
func NewTabStops(stops []float64, defaultWidth float64) *TabStops {
	return &TabStops{stops: stops, pitch: defaultWidth}
}

// Width returns the accumulated line width after a tab placed at widthSoFar.
// It is the first explicit stop strictly greater than widthSoFar, otherwise
// the next multiple of the pitch. A non-positive pitch leaves the width
// unchanged.
func (t *TabStops) Width(widthSoFar float64) float64 {
	for _, stop := range t.stops {
		if stop > widthSoFar {
			return stop
		}
	}
	if t.pitch <= 0 {
		return widthSoFar
	}
	return math.Floor(widthSoFar/t.pitch+1) * t.pitch
}

// Stops returns the explicit stops.
func (t *TabStops) Stops() []float64 { return t.stops }

// Pitch returns the default tab width.
func (t *TabStops) Pitch() float64 { return t.pitch }
