// Package segment provides line break opportunities for the linebreak
// package, backed by the go-text Unicode segmenter.
package segment

import (
	"github.com/go-text/typesetting/segmenter"

	"github.com/ByLCY/parabreak/linebreak"
)

var (
	_ linebreak.Segmenter = (*Lines)(nil)
	_ linebreak.Segmenter = (*Graphemes)(nil)
)

// Lines reports UAX #14 line break opportunities: a line may start at the
// first character of every line segment but the first.
//
// A Lines value reuses the segmenter state and is not safe for concurrent
// use.
type Lines struct {
	seg segmenter.Segmenter
	out []int
}

// NewLines returns a UAX #14 break provider.
func NewLines() *Lines { return &Lines{} }

// LineBreaks implements linebreak.Segmenter. The returned slice is reused
// by the next call.
func (l *Lines) LineBreaks(text []rune) []int {
	l.out = l.out[:0]
	if len(text) == 0 {
		return l.out
	}
	l.seg.Init(text)
	it := l.seg.LineIterator()
	for it.Next() {
		line := it.Line()
		if end := line.Offset + len(line.Text); end < len(text) {
			l.out = append(l.out, end)
		}
	}
	return l.out
}

// MandatoryBreaks returns the offsets following a hard line break inside
// text (a line separator, paragraph separator or vertical tab, for
// instance). Offsets equal to len(text) are omitted.
func (l *Lines) MandatoryBreaks(text []rune) []int {
	var out []int
	if len(text) == 0 {
		return out
	}
	l.seg.Init(text)
	it := l.seg.LineIterator()
	for it.Next() {
		line := it.Line()
		if end := line.Offset + len(line.Text); line.IsMandatoryBreak && end < len(text) {
			out = append(out, end)
		}
	}
	return out
}

// Graphemes allows a break before every grapheme cluster. Used for
// "wrap: anywhere", where lines may end inside words without
// splitting a cluster.
type Graphemes struct {
	seg segmenter.Segmenter
	out []int
}

// NewGraphemes returns a grapheme boundary break provider.
func NewGraphemes() *Graphemes { return &Graphemes{} }

// LineBreaks implements linebreak.Segmenter. The returned slice is reused
// by the next call.
func (g *Graphemes) LineBreaks(text []rune) []int {
	g.out = g.out[:0]
	if len(text) == 0 {
		return g.out
	}
	g.seg.Init(text)
	it := g.seg.GraphemeIterator()
	for it.Next() {
		if off := it.Grapheme().Offset; off > 0 {
			g.out = append(g.out, off)
		}
	}
	return g.out
}

// None never allows a break. Lines only end at the paragraph end.
type None struct{}

// LineBreaks implements linebreak.Segmenter.
func (None) LineBreaks([]rune) []int { return nil }
