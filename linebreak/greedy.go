package linebreak

import "math"

// breakGreedy fits as many primitives as possible on each line. When a line
// overflows it breaks at the furthest whitespace or penalty break that fit,
// falling back to the furthest in-word break, and keeps scanning when there
// is neither so that at least one token lands on every line.
func breakGreedy(prims []Primitive, lw LineWidth, out []breakpoint) []breakpoint {
	var (
		lineNum               int
		width, printed        float64
		breakFound, goodFound bool
		breakIndex, goodIndex int
		breakWidth, goodWidth float64
		firstTab              = math.MaxInt
	)
	maxWidth := lw.At(lineNum)

	emit := func(index int, w float64) {
		out = append(out, breakpoint{index: index, width: w, hasTab: firstTab < index})
		lineNum++
		maxWidth = lw.At(lineNum)
		firstTab = math.MaxInt
		width, printed = 0, 0
		breakFound, goodFound = false, false
		breakIndex, goodIndex = index, index
		breakWidth, goodWidth = 0, 0
	}

	for i := 0; i < len(prims); i++ {
		p := &prims[i]

		width, printed = advance(p, width, printed)
		if p.Kind == Variable {
			firstTab = min(firstTab, i)
		}

		if printed > maxWidth && (breakFound || goodFound) {
			// resume right after the chosen break; the loop increment
			// moves past it
			if goodFound {
				i = goodIndex
				emit(goodIndex, goodWidth)
			} else {
				i = breakIndex
				emit(breakIndex, breakWidth)
			}
			continue
		}

		switch {
		case p.Kind == Penalty && !p.Forbidden():
			if p.Mandatory() {
				emit(i, printed)
				continue
			}
			if i > breakIndex && (printed <= maxWidth || !breakFound) {
				breakFound = true
				breakIndex = i
				breakWidth = printed
			}
			if i > goodIndex && printed <= maxWidth {
				goodFound = true
				goodIndex = i
				goodWidth = printed
			}
		case p.Kind == Wordbreak:
			if i > breakIndex && (printed <= maxWidth || !breakFound) {
				breakFound = true
				breakIndex = i
				breakWidth = printed
			}
		}
	}

	if goodFound {
		out = append(out, breakpoint{index: goodIndex, width: goodWidth, hasTab: firstTab < goodIndex})
	} else if breakFound {
		out = append(out, breakpoint{index: breakIndex, width: breakWidth, hasTab: firstTab < breakIndex})
	}
	return out
}
