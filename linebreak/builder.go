package linebreak

import (
	"errors"
	"fmt"
)

// ErrRunOutOfRange is returned when a run does not lie inside the text set
// on a Builder.
var ErrRunOutOfRange = errors.New("linebreak: run out of range")

// maxRetainedSize is the largest buffer a Builder keeps across Finish.
const maxRetainedSize = 32678

// Segmenter reports where lines may start in a paragraph. Offsets are
// ascending and exclude 0.
type Segmenter interface {
	LineBreaks(text []rune) []int
}

// Measurer writes the advance of every character of a run into advances
// (len(advances) == len(text)) and returns the total advance.
type Measurer interface {
	Measure(text []rune, rtl bool, advances []float64) float64
}

// SegmenterFunc adapts a function to a Segmenter.
type SegmenterFunc func(text []rune) []int

// LineBreaks calls f.
func (f SegmenterFunc) LineBreaks(text []rune) []int { return f(text) }

// WhitespaceSegmenter allows a break before the first character following
// a run of spaces, tabs or zero-width spaces. It is the Builder default.
type WhitespaceSegmenter struct{}

// LineBreaks implements Segmenter.
func (WhitespaceSegmenter) LineBreaks(text []rune) []int {
	var out []int
	for i := 1; i < len(text); i++ {
		if isBreakingSpace(text[i-1]) && !isBreakingSpace(text[i]) {
			out = append(out, i)
		}
	}
	return out
}

func isBreakingSpace(r rune) bool {
	return r == charSpace || r == charTab || r == charZWSP
}

// Builder accumulates one paragraph at a time: its text, the advance of
// every character and then the breaks. Buffers are reused between
// paragraphs. A Builder is not safe for concurrent use.
type Builder struct {
	text   []rune
	widths []float64
	seg    Segmenter
	eng    engine
}

// NewBuilder returns a Builder asking seg for break opportunities. A nil seg
// selects WhitespaceSegmenter.
func NewBuilder(seg Segmenter) *Builder {
	b := &Builder{}
	b.SetSegmenter(seg)
	return b
}

// SetSegmenter replaces the break opportunity source.
func (b *Builder) SetSegmenter(seg Segmenter) {
	if seg == nil {
		seg = WhitespaceSegmenter{}
	}
	b.seg = seg
}

// SetText starts a new paragraph. The text is copied and every width is
// reset to zero.
func (b *Builder) SetText(text []rune) {
	b.text = append(b.text[:0], text...)
	if cap(b.widths) < len(text) {
		b.widths = make([]float64, len(text))
	} else {
		b.widths = b.widths[:len(text)]
		clear(b.widths)
	}
}

// Text returns the current paragraph text. It is valid until the next
// SetText.
func (b *Builder) Text() []rune { return b.text }

// Widths returns the per-character advances. Callers may write to it
// directly.
func (b *Builder) Widths() []float64 { return b.widths }

func (b *Builder) checkRun(start, end int) error {
	if start < 0 || end < start || end > len(b.text) {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrRunOutOfRange, start, end, len(b.text))
	}
	return nil
}

// AddStyleRun measures text[start:end] with m and stores the advances. It
// returns the total advance of the run.
func (b *Builder) AddStyleRun(start, end int, m Measurer, rtl bool) (float64, error) {
	if err := b.checkRun(start, end); err != nil {
		return 0, err
	}
	return m.Measure(b.text[start:end], rtl, b.widths[start:end]), nil
}

// AddMeasuredRun copies caller-computed advances for text[start:end].
func (b *Builder) AddMeasuredRun(start, end int, widths []float64) error {
	if err := b.checkRun(start, end); err != nil {
		return err
	}
	if len(widths) < end-start {
		return fmt.Errorf("%w: %d widths for %d characters", ErrRunOutOfRange, len(widths), end-start)
	}
	copy(b.widths[start:end], widths)
	return nil
}

// AddReplacementRun makes text[start:end] behave as one object of the given
// width, such as an inline image. The whole width sits on the first
// character.
func (b *Builder) AddReplacementRun(start, end int, width float64) error {
	if err := b.checkRun(start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	b.widths[start] = width
	clear(b.widths[start+1 : end])
	return nil
}

// ComputeBreaks breaks the current paragraph.
func (b *Builder) ComputeBreaks(p Params) Result {
	var r Result
	b.ComputeBreaksInto(&r, p)
	return r
}

// ComputeBreaksInto breaks the current paragraph into dst.
func (b *Builder) ComputeBreaksInto(dst *Result, p Params) {
	opportunities := b.seg.LineBreaks(b.text)
	b.eng.compute(dst, b.text, b.widths, opportunities, p)
}

// Finish ends the paragraph. Buffers grown for an unusually long paragraph
// are released.
func (b *Builder) Finish() {
	if cap(b.text) > maxRetainedSize || cap(b.widths) > maxRetainedSize {
		b.text = nil
		b.widths = nil
	}
	b.eng.release(maxRetainedSize)
}
