package linebreak

// breakpoint is one chosen break: the primitive index it sits on, the
// printed width of the line it ends and whether that line holds a tab.
type breakpoint struct {
	index  int
	width  float64
	hasTab bool
}

// advance adds p to a running line width. printed tracks the width up to
// the last box so trailing glue is excluded.
func advance(p *Primitive, width, printed float64) (float64, float64) {
	switch p.Kind {
	case Box:
		width += p.Width
		printed = width
	case Glue:
		width += p.Width
	case Variable:
		width = p.Tabs.Width(width)
	}
	return width, printed
}

// lineMetrics measures the span [start, end) of prims. Tabs are resolved
// from the start of the span, so the result depends on where the line
// begins and cannot be precomputed per primitive.
func lineMetrics(prims []Primitive, start, end int) (width, printed float64, hasTab bool) {
	for i := start; i < end; i++ {
		p := &prims[i]
		width, printed = advance(p, width, printed)
		if p.Kind == Variable {
			hasTab = true
		}
	}
	return width, printed, hasTab
}

// badness is the squared width deficit of a line plus the penalty of the
// primitive it breaks at. The last line of a paragraph is never penalised
// for being short.
func badness(maxWidth, printed float64, final bool, penalty float64) float64 {
	deviation := maxWidth - printed
	if final {
		deviation = 0
	}
	return deviation*deviation + penalty
}

// Demerits returns the total demerits of r over prims: the sum of every
// line's badness, exactly as the optimal strategy scores candidates. r must
// have been produced from prims (by [BreakPrimitives] or [ComputeBreaks]
// with the same inputs).
func Demerits(prims []Primitive, lw LineWidth, r Result) float64 {
	var total float64
	start := 0
	for line, idx := range r.points {
		_, printed, _ := lineMetrics(prims, start, idx)
		total += badness(lw.At(line), printed, idx+1 == len(prims), prims[idx].Penalty)
		start = idx
	}
	return total
}
