package shape

import (
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"

	"github.com/ByLCY/parabreak/fonts"
	"github.com/ByLCY/parabreak/layout"
)

var (
	_ layout.Typesetter     = (*GoText)(nil)
	_ layout.LanguageSetter = (*GoText)(nil)
	_ layout.Typesetter     = MonoTypesetter{}
)

// metricsPPEM is the size vertical metrics are read at before scaling.
const metricsPPEM = 100

// GoText is a layout.Typesetter shaping with go-text/typesetting. Font
// files are resolved through fonts.Load relative to the base directory and
// parsed once.
type GoText struct {
	baseDir string

	mu    sync.Mutex
	cache map[string]*parsedFont
	lang  string
}

type parsedFont struct {
	shaping *font.Font
	metrics *opentype.Font
}

// NewGoText returns a typesetter resolving font paths against baseDir.
func NewGoText(baseDir string) *GoText {
	return &GoText{baseDir: baseDir, cache: map[string]*parsedFont{}}
}

// SetLanguage implements layout.LanguageSetter.
func (g *GoText) SetLanguage(tag string) error {
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("shape: language %q: %w", tag, err)
	}
	g.mu.Lock()
	g.lang = tag
	g.mu.Unlock()
	return nil
}

// Face implements layout.Typesetter.
func (g *GoText) Face(res layout.FontResource, size float64) (layout.Face, error) {
	pf, err := g.load(res)
	if err != nil {
		return nil, err
	}
	s := newShaper(pf.shaping, size)
	g.mu.Lock()
	lang := g.lang
	g.mu.Unlock()
	if lang != "" {
		if err := s.SetLanguage(lang); err != nil {
			return nil, err
		}
	}
	m, err := verticalMetrics(pf.metrics, size)
	if err != nil {
		return nil, fmt.Errorf("shape: metrics of %s: %w", res.Name, err)
	}
	return &shapedFace{Shaper: s, metrics: m}, nil
}

func (g *GoText) load(res layout.FontResource) (*parsedFont, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if pf, ok := g.cache[res.Src]; ok {
		return pf, nil
	}
	data, err := fonts.Load(res.Src, g.baseDir)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	s, err := NewShaper(data, 1)
	if err != nil {
		return nil, err
	}
	mf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("shape: parse font %s: %w", res.Name, err)
	}
	pf := &parsedFont{shaping: s.face.Font, metrics: mf}
	g.cache[res.Src] = pf
	return pf, nil
}

func verticalMetrics(f *opentype.Font, size float64) (layout.FontMetrics, error) {
	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, fixed.I(metricsPPEM), xfont.HintingNone)
	if err != nil {
		return layout.FontMetrics{}, err
	}
	scale := size / metricsPPEM
	ascent := fixedToFloat(m.Ascent) * scale
	descent := fixedToFloat(m.Descent) * scale
	gap := fixedToFloat(m.Height)*scale - ascent - descent
	return layout.FontMetrics{Ascent: ascent, Descent: descent, LineGap: max(gap, 0)}, nil
}

type shapedFace struct {
	*Shaper
	metrics layout.FontMetrics
}

func (f *shapedFace) Metrics() layout.FontMetrics { return f.metrics }

// MonoTypesetter lays every font out on a fixed grid, ignoring the font
// data. Useful for plain-text previews and deterministic tests.
type MonoTypesetter struct{}

// Face implements layout.Typesetter.
func (MonoTypesetter) Face(_ layout.FontResource, size float64) (layout.Face, error) {
	return monoFace{Mono: NewMono(size), size: size}, nil
}

type monoFace struct {
	Mono
	size float64
}

func (f monoFace) Metrics() layout.FontMetrics {
	return layout.FontMetrics{Ascent: 0.8 * f.size, Descent: 0.2 * f.size}
}
