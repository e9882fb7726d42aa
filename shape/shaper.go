package shape

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	gtlanguage "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"

	"github.com/ByLCY/parabreak/linebreak"
)

// ErrEmptyFontData is returned when a shaper is created from no bytes.
var ErrEmptyFontData = errors.New("shape: empty font data")

var _ linebreak.Measurer = (*Shaper)(nil)

// Shaper measures text with HarfBuzz at a fixed size. Sizes and advances
// share one unit, whatever the caller uses.
//
// A Shaper holds shaping buffers and is not safe for concurrent use.
type Shaper struct {
	face *font.Face
	size float64
	lang gtlanguage.Language
	hb   shaping.HarfbuzzShaper
}

// NewShaper parses a TrueType/OpenType font and returns a shaper for size.
func NewShaper(data []byte, size float64) (*Shaper, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("shape: parse font: %w", err)
	}
	return newShaper(face.Font, size), nil
}

// NewDefaultShaper returns a shaper using the Go Regular font.
func NewDefaultShaper(size float64) (*Shaper, error) {
	return NewShaper(goregular.TTF, size)
}

func newShaper(f *font.Font, size float64) *Shaper {
	return &Shaper{
		face: font.NewFace(f),
		size: size,
		lang: gtlanguage.NewLanguage("en"),
	}
}

// Size returns the font size.
func (s *Shaper) Size() float64 { return s.size }

// SetLanguage sets the BCP 47 language used for shaping.
func (s *Shaper) SetLanguage(tag string) error {
	t, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("shape: language %q: %w", tag, err)
	}
	s.lang = gtlanguage.NewLanguage(t.String())
	return nil
}

// Measure implements linebreak.Measurer. The advance of a glyph cluster is
// attributed to its first character; the other characters of the cluster
// get zero.
func (s *Shaper) Measure(text []rune, rtl bool, advances []float64) float64 {
	clear(advances)
	if len(text) == 0 {
		return 0
	}
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	out := s.hb.Shape(shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: dir,
		Face:      s.face,
		Size:      floatToFixed(s.size),
		Script:    detectScript(text),
		Language:  s.lang,
	})

	var total float64
	for _, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		if i := g.TextIndex(); i >= 0 && i < len(advances) {
			advances[i] += adv
		}
		total += adv
	}
	return total
}

// detectScript returns the script of the first non-space character.
func detectScript(text []rune) gtlanguage.Script {
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return gtlanguage.LookupScript(r)
	}
	return gtlanguage.Latin
}

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
