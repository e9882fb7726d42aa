package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ByLCY/parabreak/dsl"
	"github.com/ByLCY/parabreak/layout"
	"github.com/ByLCY/parabreak/linebreak"
)

var body = layout.FontResource{Name: "Body", Src: "builtin:goregular", IsBuiltin: true}

func TestFaceMeasure(t *testing.T) {
	r := NewRenderer("")
	face, err := r.Face(body, 12*layout.PtToMm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := []rune("ab c\td")
	adv := make([]float64, len(text))
	total := face.Measure(text, false, adv)
	sum := 0.0
	for i, w := range adv {
		if text[i] == '\t' {
			if w != 0 {
				t.Fatalf("tab advance must be 0, got %g", w)
			}
			continue
		}
		if w <= 0 {
			t.Fatalf("advance of %q must be positive, got %g", text[i], w)
		}
		sum += w
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Fatalf("total %g != sum of advances %g", total, sum)
	}
	// 12pt 的字符宽度应在毫米量级
	if total > 20 {
		t.Fatalf("advances look like pt, not mm: %g", total)
	}

	m := face.Metrics()
	if m.Ascent <= 0 || m.Height() <= 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestFaceFallback(t *testing.T) {
	r := NewRenderer(t.TempDir())
	missing := layout.FontResource{Name: "Missing", Src: "missing.ttf"}
	face, err := r.Face(missing, 4)
	if err != nil {
		t.Fatalf("missing font should fall back, got %v", err)
	}
	adv := make([]float64, 1)
	if face.Measure([]rune{'x'}, false, adv) <= 0 {
		t.Fatalf("fallback face must measure text")
	}
}

func TestInjectedFont(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"custom": {Bytes: gomono.TTF}}})
	if _, err := r.Face(layout.FontResource{Name: "C", Src: "builtin:custom"}, 4); err != nil {
		t.Fatalf("injected font not used: %v", err)
	}
}

func TestSplitTabs(t *testing.T) {
	tabs := linebreak.NewTabStops([]float64{10}, 8)
	width := func(s string) float64 { return float64(len(s)) }

	segs := splitTabs("abc\tde\tf", tabs, width)
	want := []tabSegment{{0, "abc"}, {10, "de"}, {16, "f"}}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestParseFontStyle(t *testing.T) {
	tests := []struct {
		in   string
		want canvas.FontStyle
	}{
		{"", canvas.FontRegular},
		{"bold", canvas.FontBold},
		{"SemiBold", canvas.FontSemiBold},
		{"bold italic", canvas.FontBold | canvas.FontItalic},
		{"light", canvas.FontLight},
		{"oblique", canvas.FontRegular | canvas.FontItalic},
	}
	for _, tt := range tests {
		if got := parseFontStyle(tt.in); got != tt.want {
			t.Errorf("parseFontStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	doc, err := dsl.ParseString(`doc R v1 {
  meta { title: "Render"; author: "parabreak" }
  resources { font Body { src: "builtin:goregular" } }
  page A6 margin 10mm {
    paragraph Body { size: 10pt; stops: [20mm]; "Name\tValue" }
    paragraph Body { algorithm: greedy; "The quick brown fox jumps over the lazy dog. The quick brown fox jumps over the lazy dog." }
  }
}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := NewRendererWithOptions(Options{Guides: true})
	res, err := layout.Build(doc, layout.BuildOptions{Typesetter: r})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if n := len(res.Pages[0].Paragraphs[1].Lines); n < 2 {
		t.Fatalf("expected the long paragraph to wrap, got %d lines", n)
	}
	for _, box := range res.Pages[0].Paragraphs {
		for i, ln := range box.Lines {
			if ln.Width > ln.Budget+1e-9 {
				t.Fatalf("line %d overflows: %+v", i, ln)
			}
		}
	}

	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil result must fail")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("result without pages must fail")
	}
}
