package shape

import (
	"unicode"

	"golang.org/x/text/width"

	"github.com/ByLCY/parabreak/linebreak"
)

var _ linebreak.Measurer = Mono{}

// Mono measures text on a fixed grid. Wide and fullwidth characters take
// two cells, combining marks and control characters none.
type Mono struct {
	Cell float64
}

// NewMono returns a measurer whose cell is 0.6 em at size, the usual
// advance of monospaced Latin fonts.
func NewMono(size float64) Mono { return Mono{Cell: 0.6 * size} }

// Cells returns the number of grid cells r occupies.
func Cells(r rune) int {
	switch {
	case r == '\t':
		// resolved by the tab stops
		return 0
	case unicode.IsControl(r), unicode.Is(unicode.Mn, r), r == '\u200b':
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// Measure implements linebreak.Measurer.
func (m Mono) Measure(text []rune, _ bool, advances []float64) float64 {
	var total float64
	for i, r := range text {
		advances[i] = float64(Cells(r)) * m.Cell
		total += advances[i]
	}
	return total
}
