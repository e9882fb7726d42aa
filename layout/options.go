package layout

import "github.com/ByLCY/parabreak/linebreak"

// BuildOptions 配置布局阶段所需的依赖，例如排版后端与断行机会来源。
type BuildOptions struct {
	Typesetter Typesetter
	// Segmenter 为 wrap: normal 提供断行机会；为空时使用 UAX #14（segment.Lines）。
	Segmenter linebreak.Segmenter
	// Strategy 非空时覆盖文档中各段落的 algorithm 设置。
	Strategy *linebreak.Strategy
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Paragraphs bool // 在 ParagraphBox.Debug 中输出断行统计
}

// Typesetter 负责把字体资源与字号（mm）解析成可测量的字体面。
type Typesetter interface {
	Face(font FontResource, size float64) (Face, error)
}

// Face 给出逐字符的前进宽度（mm）与字体度量。
type Face interface {
	linebreak.Measurer
	Metrics() FontMetrics
}

// FontMetrics 为字体的纵向度量，单位 mm。
type FontMetrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
	LineGap float64 `json:"lineGap"`
}

// Height 返回 ascent + descent。
func (m FontMetrics) Height() float64 { return m.Ascent + m.Descent }

// LanguageSetter 由支持按语言整形的 Typesetter 实现，Build 会传入文档 lang。
type LanguageSetter interface {
	SetLanguage(tag string) error
}
