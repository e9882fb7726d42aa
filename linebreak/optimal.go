package linebreak

import (
	"log/slog"
	"math"
)

// node is the best known way to end a line at a primitive.
type node struct {
	prev     int // predecessor break, -1 for the paragraph start
	lines    int // number of lines up to and including this break
	demerits float64
	width    float64
	hasTab   bool
}

// optimizer holds the dynamic program state. opt is indexed by primitive;
// active lists the breaks that can still start a feasible line.
type optimizer struct {
	prims  []Primitive
	lw     LineWidth
	opt    []node
	active []int
}

// breakOptimal minimises the total demerits over the paragraph. Only
// Penalty primitives are considered as breaks; Wordbreaks are used by the
// desperate fallback alone.
func breakOptimal(prims []Primitive, lw LineWidth, out []breakpoint) []breakpoint {
	n := len(prims)
	if n == 0 {
		return out
	}
	o := &optimizer{
		prims:  prims,
		lw:     lw,
		opt:    make([]node, n),
		active: make([]int, 0, 16),
	}
	o.opt[0] = node{prev: -1}
	o.opt[n-1].prev = -1
	o.active = append(o.active, 0)

	lastBreak := 0
	for i := 0; i < n; i++ {
		p := &prims[i]
		if p.Kind != Penalty || p.Forbidden() {
			continue
		}
		best, found := o.relax(i)
		if p.Mandatory() {
			o.active = o.active[:0]
		}
		if found {
			o.opt[i] = best
			o.active = append(o.active, i)
			lastBreak = i
		}
		if len(o.active) == 0 {
			next, ok := o.desperate(lastBreak)
			if !ok {
				break
			}
			o.active = append(o.active, next)
			lastBreak = next
			// resume the scan right after the forced break
			i = next
		}
	}

	if n == 1 {
		// empty paragraph: a single empty line
		return append(out, breakpoint{index: 0})
	}

	idx := n - 1
	count := o.opt[idx].lines
	start := len(out)
	for k := 0; k < count; k++ {
		out = append(out, breakpoint{})
	}
	for o.opt[idx].prev != -1 {
		count--
		out[start+count] = breakpoint{index: idx, width: o.opt[idx].width, hasTab: o.opt[idx].hasTab}
		idx = o.opt[idx].prev
	}
	return out
}

// relax scores every active break as the start of a line ending at i and
// returns the cheapest. Active breaks whose line to i is already too wide
// are evicted: widths only grow with i, so they can never fit again.
func (o *optimizer) relax(i int) (node, bool) {
	var (
		best  node
		found bool
	)
	final := i+1 == len(o.prims)
	penalty := o.prims[i].Penalty

	kept := o.active[:0]
	for _, pos := range o.active {
		if pos == i {
			kept = append(kept, pos)
			continue
		}
		lines := o.opt[pos].lines
		maxWidth := o.lw.At(lines)
		_, printed, hasTab := lineMetrics(o.prims, pos, i)
		if printed > maxWidth {
			continue
		}
		kept = append(kept, pos)
		demerits := badness(maxWidth, printed, final, penalty) + o.opt[pos].demerits
		if !found || demerits < best.demerits {
			best = node{
				prev:     pos,
				lines:    lines + 1,
				demerits: demerits,
				width:    printed,
				hasTab:   hasTab,
			}
			found = true
		}
	}
	o.active = kept
	return best, found
}

// desperate forces a break after start when no feasible line exists. It
// takes the furthest Penalty or Wordbreak that still fits, or the first one
// past an overflowing token when none fits, and never skips a mandatory
// break. The chosen node is recorded in opt.
func (o *optimizer) desperate(start int) (int, bool) {
	lines := o.opt[start].lines
	maxWidth := o.lw.At(lines)

	var (
		width, printed float64
		found          bool
		index          int
		breakWidth     float64
		firstTab       = math.MaxInt
	)
	for i := start; i < len(o.prims); i++ {
		p := &o.prims[i]
		width, printed = advance(p, width, printed)
		if p.Kind == Variable {
			firstTab = min(firstTab, i)
		}
		if printed > maxWidth && found {
			break
		}
		if i > start && (p.Kind == Wordbreak || p.Kind == Penalty && !p.Forbidden()) {
			found = true
			index = i
			breakWidth = printed
			if p.Mandatory() {
				break
			}
		}
	}
	if !found {
		return 0, false
	}

	final := index+1 == len(o.prims)
	o.opt[index] = node{
		prev:     start,
		lines:    lines + 1,
		demerits: o.opt[start].demerits + badness(maxWidth, breakWidth, final, o.prims[index].Penalty),
		width:    breakWidth,
		hasTab:   firstTab < index,
	}
	Logger().Debug("linebreak: desperate break",
		slog.Int("from", start),
		slog.Int("at", index),
		slog.Int("location", o.prims[index].Location),
		slog.Float64("width", breakWidth),
		slog.Float64("budget", maxWidth))
	return index, true
}
