package linebreak

import (
	"fmt"
	"log/slog"
	"strings"
)

// Strategy selects the breaking algorithm.
type Strategy uint8

const (
	// Greedy fills each line as far as it goes.
	Greedy Strategy = iota
	// Optimal balances lines over the whole paragraph.
	Optimal
)

func (s Strategy) String() string {
	switch s {
	case Greedy:
		return "greedy"
	case Optimal:
		return "optimal"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// ParseStrategy parses "greedy" or "optimal" (case-insensitive). "simple"
// and "balanced" are accepted as aliases.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greedy", "simple":
		return Greedy, nil
	case "optimal", "optimizing", "balanced":
		return Optimal, nil
	default:
		return Greedy, fmt.Errorf("unknown line break strategy %q", s)
	}
}

// Params configures one ComputeBreaks call.
type Params struct {
	// FirstWidth is the budget of the first FirstWidthLineCount lines.
	FirstWidth          float64
	FirstWidthLineCount int
	// RestWidth is the budget of every later line.
	RestWidth float64
	// TabStops are explicit stops, sorted ascending. May be empty.
	TabStops []float64
	// DefaultTabWidth is the tab pitch used past the last explicit stop.
	DefaultTabWidth float64
	Strategy        Strategy
}

// LineWidth returns the width policy described by p.
func (p Params) LineWidth() LineWidth {
	return LineWidth{First: p.FirstWidth, FirstLineCount: p.FirstWidthLineCount, Rest: p.RestWidth}
}

// Result holds the chosen breaks as parallel slices, one entry per line.
type Result struct {
	// Offsets are the character offsets each line ends at. They are
	// strictly increasing and the last one equals the text length.
	Offsets []int
	// Widths are the printed widths of the lines, trailing glue excluded.
	Widths []float64
	// HasTab reports whether a line contains a tab.
	HasTab []bool

	// primitive index of every break, for Demerits
	points []int
}

// Len returns the number of lines.
func (r *Result) Len() int { return len(r.Offsets) }

// Reset empties r while keeping its backing arrays.
func (r *Result) Reset() {
	r.Offsets = r.Offsets[:0]
	r.Widths = r.Widths[:0]
	r.HasTab = r.HasTab[:0]
	r.points = r.points[:0]
}

func (r *Result) fill(prims []Primitive, bps []breakpoint) {
	r.Reset()
	for _, bp := range bps {
		r.Offsets = append(r.Offsets, prims[bp.index].Location)
		r.Widths = append(r.Widths, bp.width)
		r.HasTab = append(r.HasTab, bp.hasTab)
		r.points = append(r.points, bp.index)
	}
}

// ComputeBreaks breaks a paragraph into lines.
//
// advances holds one width per character of text and opportunities the
// ascending offsets where a line may start. The call is pure: the same input
// always yields the same Result. Malformed input (short advances, unsorted
// opportunities or stops) is not detected.
func ComputeBreaks(text []rune, advances []float64, opportunities []int, p Params) Result {
	var r Result
	ComputeBreaksInto(&r, text, advances, opportunities, p)
	return r
}

// ComputeBreaksInto is ComputeBreaks writing into dst. dst is overwritten
// completely; only its storage is reused.
func ComputeBreaksInto(dst *Result, text []rune, advances []float64, opportunities []int, p Params) {
	var e engine
	e.compute(dst, text, advances, opportunities, p)
}

// BreakPrimitives runs a strategy directly over a primitive sequence. prims
// must end with a mandatory Penalty, as BuildPrimitives guarantees.
func BreakPrimitives(prims []Primitive, lw LineWidth, s Strategy) Result {
	var (
		r Result
		e engine
	)
	e.run(&r, prims, lw, s)
	return r
}

// engine owns the scratch buffers of a computation. The zero value is ready
// to use; a Builder keeps one to avoid reallocating per paragraph.
type engine struct {
	prims  []Primitive
	points []breakpoint
}

func (e *engine) compute(dst *Result, text []rune, advances []float64, opportunities []int, p Params) {
	tabs := NewTabStops(p.TabStops, p.DefaultTabWidth)
	e.prims = appendPrimitives(e.prims[:0], text, advances, opportunities, tabs)
	e.run(dst, e.prims, p.LineWidth(), p.Strategy)
}

func (e *engine) run(dst *Result, prims []Primitive, lw LineWidth, s Strategy) {
	e.points = e.points[:0]
	switch s {
	case Optimal:
		e.points = breakOptimal(prims, lw, e.points)
	default:
		e.points = breakGreedy(prims, lw, e.points)
	}
	dst.fill(prims, e.points)

	Logger().Debug("linebreak: computed breaks",
		slog.String("strategy", s.String()),
		slog.Int("primitives", len(prims)),
		slog.Int("lines", dst.Len()))
}

// release drops scratch buffers grown past limit.
func (e *engine) release(limit int) {
	if cap(e.prims) > limit {
		e.prims = nil
	}
	if cap(e.points) > limit {
		e.points = nil
	}
}
