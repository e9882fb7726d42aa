package shape

import (
	"errors"
	"math"
	"testing"

	"github.com/ByLCY/parabreak/fonts"
	"github.com/ByLCY/parabreak/layout"
	"github.com/ByLCY/parabreak/linebreak"
)

func TestNewShaperEmpty(t *testing.T) {
	if _, err := NewShaper(nil, 12); !errors.Is(err, ErrEmptyFontData) {
		t.Fatalf("err = %v, want ErrEmptyFontData", err)
	}
}

func TestShaperMeasure(t *testing.T) {
	s, err := NewDefaultShaper(12)
	if err != nil {
		t.Fatalf("NewDefaultShaper: %v", err)
	}
	text := []rune("ab cd")
	adv := make([]float64, len(text))
	total := s.Measure(text, false, adv)

	var sum float64
	for i, a := range adv {
		if a <= 0 {
			t.Errorf("advance[%d] = %v, want > 0", i, a)
		}
		sum += a
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Fatalf("sum of advances %v != total %v", sum, total)
	}

	// advances scale with the size
	s2, _ := NewDefaultShaper(24)
	adv2 := make([]float64, len(text))
	total2 := s2.Measure(text, false, adv2)
	if math.Abs(total2-2*total) > 0.1 {
		t.Fatalf("total at 24 = %v, want about %v", total2, 2*total)
	}
}

func TestShaperMeasureEmpty(t *testing.T) {
	s, _ := NewDefaultShaper(12)
	if got := s.Measure(nil, false, nil); got != 0 {
		t.Fatalf("Measure(nil) = %v", got)
	}
}

func TestShaperSetLanguage(t *testing.T) {
	s, _ := NewDefaultShaper(12)
	if err := s.SetLanguage("de-CH"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if err := s.SetLanguage("not a tag!"); err == nil {
		t.Fatalf("SetLanguage should reject malformed tags")
	}
}

func TestShaperFeedsBuilder(t *testing.T) {
	s, _ := NewDefaultShaper(10)
	b := linebreak.NewBuilder(nil)
	b.SetText([]rune("the quick brown fox jumps over the lazy dog"))
	total, err := b.AddStyleRun(0, len(b.Text()), s, false)
	if err != nil {
		t.Fatalf("AddStyleRun: %v", err)
	}
	width := total / 3
	r := b.ComputeBreaks(linebreak.Params{FirstWidth: width, RestWidth: width, Strategy: linebreak.Optimal})
	if r.Len() < 3 {
		t.Fatalf("lines = %d, want at least 3", r.Len())
	}
	for i, w := range r.Widths {
		if w > width+1e-9 {
			t.Errorf("line %d width %v over %v", i, w, width)
		}
	}
}

func TestMonoCells(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'中', 2},
		{'Ａ', 2},
		{'\t', 0},
		{'\u0301', 0},
		{'\u200b', 0},
	}
	for _, tt := range tests {
		if got := Cells(tt.r); got != tt.want {
			t.Errorf("Cells(%U) = %d, want %d", tt.r, got, tt.want)
		}
	}

	m := NewMono(10)
	adv := make([]float64, 3)
	if total := m.Measure([]rune("a中b"), false, adv); math.Abs(total-24) > 1e-9 {
		t.Fatalf("total = %v, want 24 (%v)", total, adv)
	}
}

func TestGoTextFace(t *testing.T) {
	ts := NewGoText("")
	face, err := ts.Face(layout.FontResource{Name: "Body", Src: "builtin:goregular"}, 10)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	m := face.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 || m.Ascent <= m.Descent {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if m.Height() > 15 {
		t.Fatalf("metrics height %v too large for size 10", m.Height())
	}

	if _, err := ts.Face(layout.FontResource{Name: "X", Src: "builtin:nope"}, 10); !errors.Is(err, fonts.ErrUnknownBuiltin) {
		t.Fatalf("err = %v, want ErrUnknownBuiltin", err)
	}
}

func TestGoTextLanguage(t *testing.T) {
	ts := NewGoText("")
	if err := ts.SetLanguage("fr"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if _, err := ts.Face(layout.FontResource{Src: "builtin:gomono"}, 8); err != nil {
		t.Fatalf("Face after SetLanguage: %v", err)
	}
}

func TestMonoTypesetter(t *testing.T) {
	face, err := MonoTypesetter{}.Face(layout.FontResource{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	adv := make([]float64, 2)
	if got := face.Measure([]rune("ab"), false, adv); math.Abs(got-6) > 1e-9 {
		t.Fatalf("Measure = %v, want 6", got)
	}
	if m := face.Metrics(); math.Abs(m.Height()-5) > 1e-9 {
		t.Fatalf("Height = %v, want 5", m.Height())
	}
}
