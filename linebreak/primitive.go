package linebreak

import "fmt"

// PenaltyInfinity is the penalty of a forbidden break. Its negation marks a
// mandatory break. It is finite so demerits arithmetic never produces NaN.
const PenaltyInfinity = 1e7

const (
	charTab     = '\t'
	charNewline = '\n'
	charSpace   = ' '
	charZWSP    = '\u200B'
)

// Kind is the type of a [Primitive].
type Kind uint8

const (
	// Box is a non-breakable character with a width.
	Box Kind = iota
	// Glue is a space or zero-width space. It has a width but is not
	// counted in the printed width when it trails a line.
	Glue
	// Penalty is a candidate break with a cost. Width is normally zero.
	Penalty
	// Variable is a tab whose width depends on the width accumulated
	// before it on the line.
	Variable
	// Wordbreak is an in-word fallback break, only taken when no
	// whitespace or penalty break fits.
	Wordbreak
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Box:
		return "Box"
	case Glue:
		return "Glue"
	case Penalty:
		return "Penalty"
	case Variable:
		return "Variable"
	case Wordbreak:
		return "Wordbreak"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Primitive is one layout token of a paragraph, ordered by Location.
type Primitive struct {
	Kind Kind
	// Location is the character offset the primitive belongs to. A break
	// at a primitive ends the line before this character.
	Location int
	// Width is used by Box, Glue and Penalty.
	Width float64
	// Penalty is used by Penalty and Wordbreak.
	Penalty float64
	// Tabs resolves Variable widths.
	Tabs *TabStops
}

// Mandatory reports whether p is a forced break.
func (p Primitive) Mandatory() bool {
	return p.Kind == Penalty && p.Penalty <= -PenaltyInfinity
}

// Forbidden reports whether p is a penalty that must never be taken.
func (p Primitive) Forbidden() bool {
	return p.Kind == Penalty && p.Penalty >= PenaltyInfinity
}

func (p Primitive) String() string {
	switch p.Kind {
	case Box, Glue:
		return fmt.Sprintf("%v@%d[w=%.6g]", p.Kind, p.Location, p.Width)
	case Penalty, Wordbreak:
		return fmt.Sprintf("%v@%d[p=%.6g]", p.Kind, p.Location, p.Penalty)
	default:
		return fmt.Sprintf("%v@%d", p.Kind, p.Location)
	}
}

// BuildPrimitives converts a paragraph into primitives.
//
// widths holds one advance per character of text. breaks holds ascending
// character offsets where a line may start. Spaces and zero-width spaces
// become Glue, tabs become Variable primitives sharing tabs, and newlines
// produce nothing (paragraphs are split at newlines upstream). Every other
// character becomes a Box preceded by a Penalty when a break opportunity
// lands on it, or by a Wordbreak otherwise; both are skipped for zero-width
// characters. The sequence always ends with a mandatory Penalty at
// len(text).
//
// Input lengths are not validated.
func BuildPrimitives(text []rune, widths []float64, breaks []int, tabs *TabStops) []Primitive {
	return appendPrimitives(make([]Primitive, 0, 2*len(text)+1), text, widths, breaks, tabs)
}

func appendPrimitives(prims []Primitive, text []rune, widths []float64, breaks []int, tabs *TabStops) []Primitive {
	next := 0
	for i, c := range text {
		switch c {
		case charSpace, charZWSP:
			prims = append(prims, Primitive{Kind: Glue, Location: i, Width: widths[i]})
		case charTab:
			prims = append(prims, Primitive{Kind: Variable, Location: i, Tabs: tabs})
		case charNewline:
		default:
			for next < len(breaks) && breaks[next] < i {
				next++
			}
			if widths[i] != 0 {
				kind := Wordbreak
				if next < len(breaks) && breaks[next] == i {
					kind = Penalty
				}
				prims = append(prims, Primitive{Kind: kind, Location: i})
			}
			prims = append(prims, Primitive{Kind: Box, Location: i, Width: widths[i]})
		}
	}
	return append(prims, Primitive{Kind: Penalty, Location: len(text), Penalty: -PenaltyInfinity})
}
