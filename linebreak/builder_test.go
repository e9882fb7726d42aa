package linebreak

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fixedMeasurer gives every character the same advance.
type fixedMeasurer float64

func (m fixedMeasurer) Measure(text []rune, rtl bool, advances []float64) float64 {
	var total float64
	for i := range text {
		advances[i] = float64(m)
		total += float64(m)
	}
	return total
}

func TestBuilderStyleRuns(t *testing.T) {
	b := NewBuilder(nil)
	b.SetText([]rune("ab cd ef"))
	total, err := b.AddStyleRun(0, 3, fixedMeasurer(10), false)
	if err != nil {
		t.Fatalf("AddStyleRun: %v", err)
	}
	if total != 30 {
		t.Fatalf("run total = %v, want 30", total)
	}
	if err := b.AddMeasuredRun(3, 8, []float64{10, 10, 10, 10, 10}); err != nil {
		t.Fatalf("AddMeasuredRun: %v", err)
	}
	r := b.ComputeBreaks(Params{FirstWidth: 25, FirstWidthLineCount: 1, RestWidth: 25, Strategy: Optimal})
	if want := []int{3, 6, 8}; !reflect.DeepEqual(r.Offsets, want) {
		t.Fatalf("offsets = %v, want %v", r.Offsets, want)
	}
}

func TestBuilderReplacementRun(t *testing.T) {
	b := NewBuilder(nil)
	b.SetText([]rune("a [img] b"))
	if _, err := b.AddStyleRun(0, len(b.Text()), fixedMeasurer(10), false); err != nil {
		t.Fatalf("AddStyleRun: %v", err)
	}
	if err := b.AddReplacementRun(2, 7, 35); err != nil {
		t.Fatalf("AddReplacementRun: %v", err)
	}
	want := []float64{10, 10, 35, 0, 0, 0, 0, 10, 10}
	if got := b.Widths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("widths = %v, want %v", got, want)
	}
	r := b.ComputeBreaks(Params{FirstWidth: 1000, RestWidth: 1000})
	if r.Len() != 1 || r.Widths[0] != 75 {
		t.Fatalf("got %v %v, want one line of width 75", r.Offsets, r.Widths)
	}
}

func TestBuilderRunOutOfRange(t *testing.T) {
	b := NewBuilder(nil)
	b.SetText([]rune("abc"))
	if _, err := b.AddStyleRun(2, 5, fixedMeasurer(1), false); !errors.Is(err, ErrRunOutOfRange) {
		t.Errorf("AddStyleRun past end: err = %v", err)
	}
	if err := b.AddMeasuredRun(-1, 2, []float64{1, 1, 1}); !errors.Is(err, ErrRunOutOfRange) {
		t.Errorf("AddMeasuredRun negative start: err = %v", err)
	}
	if err := b.AddMeasuredRun(0, 3, []float64{1}); !errors.Is(err, ErrRunOutOfRange) {
		t.Errorf("AddMeasuredRun short widths: err = %v", err)
	}
	if err := b.AddReplacementRun(2, 1, 5); !errors.Is(err, ErrRunOutOfRange) {
		t.Errorf("AddReplacementRun reversed: err = %v", err)
	}
}

func TestBuilderSetTextResetsWidths(t *testing.T) {
	b := NewBuilder(nil)
	b.SetText([]rune("abcd"))
	b.AddStyleRun(0, 4, fixedMeasurer(7), false)
	b.SetText([]rune("xy"))
	if got := b.Widths(); !reflect.DeepEqual(got, []float64{0, 0}) {
		t.Fatalf("widths after SetText = %v, want zeros", got)
	}
}

func TestBuilderFinishReleasesLargeBuffers(t *testing.T) {
	b := NewBuilder(nil)
	b.SetText([]rune(strings.Repeat("a ", maxRetainedSize)))
	b.AddStyleRun(0, len(b.Text()), fixedMeasurer(1), false)
	b.ComputeBreaks(Params{FirstWidth: 100, RestWidth: 100})
	b.Finish()
	if b.text != nil || b.widths != nil || b.eng.prims != nil {
		t.Fatalf("large buffers retained after Finish")
	}

	b.SetText([]rune("small"))
	b.Finish()
	if b.text == nil {
		t.Fatalf("small buffer released")
	}
}

func TestBuilderSegmenter(t *testing.T) {
	calls := 0
	seg := SegmenterFunc(func(text []rune) []int {
		calls++
		return []int{2}
	})
	b := NewBuilder(seg)
	b.SetText([]rune("abcd"))
	b.AddStyleRun(0, 4, fixedMeasurer(10), false)
	r := b.ComputeBreaks(Params{FirstWidth: 30, RestWidth: 30})
	if calls != 1 {
		t.Fatalf("segmenter called %d times, want 1", calls)
	}
	if want := []int{2, 4}; !reflect.DeepEqual(r.Offsets, want) {
		t.Fatalf("offsets = %v, want %v", r.Offsets, want)
	}
}

func TestWhitespaceSegmenter(t *testing.T) {
	got := WhitespaceSegmenter{}.LineBreaks([]rune("ab  cd\tef "))
	if want := []int{4, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("LineBreaks = %v, want %v", got, want)
	}
}
