package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位到 mm 的转换。
func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		ref  float64
		want float64
	}{
		{"1in", 0, 25.4},
		{"2.54cm", 0, 25.4},
		{"12pt", 0, 12 * PtToMm},
		{"15mm", 0, 15},
		{"15", 0, 15},
		{"50%", 120, 60},
		{" 3MM ", 0, 3},
	}
	for _, tt := range tests {
		l, err := ParseLength(tt.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 失败: %v", tt.in, err)
		}
		if got := l.ToMM(tt.ref); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%q 转 mm 期望 %g，实际 %g", tt.in, tt.want, got)
		}
	}
	for _, bad := range []string{"", "abc", "-3mm", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Errorf("ParseLength(%q) 应报错", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	fontSize := 12 * PtToMm
	tests := []struct {
		in   string
		want float64
	}{
		{"1.2x", fontSize * 1.2},
		{"1.5", fontSize * 1.5},
		{"18pt", 18 * PtToMm},
		{"6mm", 6},
	}
	for _, tt := range tests {
		spec, err := ParseLineHeight(tt.in)
		if err != nil {
			t.Fatalf("ParseLineHeight(%q) 失败: %v", tt.in, err)
		}
		if got := spec.Resolve(fontSize); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%q 解析错误: got=%g want=%g", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLineHeight("0x"); err == nil {
		t.Fatalf("0x 应报错")
	}
}
