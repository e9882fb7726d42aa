package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/parabreak/fonts"
	"github.com/ByLCY/parabreak/layout"
	"github.com/ByLCY/parabreak/linebreak"
	"github.com/ByLCY/parabreak/renderer"
)

const guideStrokeWidth = 0.1

// Renderer draws layout results via github.com/tdewolff/canvas. It also
// measures text for the layout stage, so lines are broken with the same
// advances they are drawn with.
type Renderer struct {
	baseDir string
	guides  bool

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via builtin:<name>, shadowing the bundled ones
	// Guides draws every line's width budget as a thin box.
	Guides bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		guides:       opts.Guides,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在使用处回退到内置字体
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		for _, box := range page.Paragraphs {
			fontRes := resolveFontResource(box.Font, result.Fonts)
			if err := r.drawParagraph(ctx, box, fontRes); err != nil {
				return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
			}
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// Face 实现 layout.Typesetter 接口。size 为毫米（mm），字体系统使用 pt，在此换算。
func (r *Renderer) Face(font layout.FontResource, size float64) (layout.Face, error) {
	face, err := r.fontFace(font, toPt(size), layout.Color{})
	if err != nil {
		return nil, err
	}
	return newTextFace(face), nil
}

// textFace 逐字符测量前进宽度（mm），并缓存单字符结果。
type textFace struct {
	face   *canvas.FontFace
	widths map[rune]float64
}

func newTextFace(face *canvas.FontFace) *textFace {
	return &textFace{face: face, widths: map[rune]float64{}}
}

func (f *textFace) advance(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}
	var w float64
	switch r {
	case '\t', '\n', '\r':
	default:
		w = f.face.TextWidth(string(r))
	}
	f.widths[r] = w
	return w
}

// Measure 实现 linebreak.Measurer，不做双向文本重排。
func (f *textFace) Measure(text []rune, _ bool, advances []float64) float64 {
	total := 0.0
	for i, r := range text {
		advances[i] = f.advance(r)
		total += advances[i]
	}
	return total
}

func (f *textFace) width(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.advance(r)
	}
	return total
}

// Metrics 实现 layout.Face。
func (f *textFace) Metrics() layout.FontMetrics {
	m := f.face.Metrics()
	return layout.FontMetrics{Ascent: m.Ascent, Descent: m.Descent, LineGap: m.LineGap}
}

func (r *Renderer) drawParagraph(ctx *canvas.Context, box layout.ParagraphBox, fontRes layout.FontResource) error {
	// ParagraphBox 的坐标/字号均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(fontRes, toPt(box.FontSize), box.Color)
	if err != nil {
		return err
	}
	measure := newTextFace(face)
	var tabs *linebreak.TabStops

	for _, line := range box.Lines {
		if r.guides {
			r.drawGuide(ctx, line)
		}
		baseline := line.Y + line.Baseline
		if !line.HasTab {
			ctx.DrawText(line.X, baseline, canvas.NewTextLine(face, line.Content, canvas.Left))
			continue
		}
		if tabs == nil {
			tabs = linebreak.NewTabStops(box.TabStops, box.TabWidth)
		}
		for _, seg := range splitTabs(line.Content, tabs, measure.width) {
			if seg.text == "" {
				continue
			}
			ctx.DrawText(line.X+seg.x, baseline, canvas.NewTextLine(face, seg.text, canvas.Left))
		}
	}
	return nil
}

// drawGuide 以细线框出行的宽度预算，超出预算的行用红色标出。
func (r *Renderer) drawGuide(ctx *canvas.Context, line layout.TextLine) {
	stroke := canvas.Hex("#9ec5fe")
	if line.Width > line.Budget {
		stroke = canvas.Hex("#e35d6a")
	}
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(stroke)
	ctx.SetStrokeWidth(guideStrokeWidth)
	ctx.DrawPath(line.X, line.Y, canvas.Rectangle(line.Budget, line.Height))
}

type tabSegment struct {
	x    float64
	text string
}

// splitTabs 按制表符切分一行，并用与断行相同的制表位规则计算每段起点。
func splitTabs(content string, tabs *linebreak.TabStops, width func(string) float64) []tabSegment {
	parts := strings.Split(content, "\t")
	out := make([]tabSegment, 0, len(parts))
	x := 0.0
	for i, part := range parts {
		if i > 0 {
			x = tabs.Width(x)
		}
		out = append(out, tabSegment{x: x, text: part})
		x += width(part)
	}
	return out
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if fonts.IsBuiltin(font.Src) {
		name := strings.TrimPrefix(strings.TrimPrefix(font.Src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
	}
	data, err := fonts.Load(font.Src, r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("字体 %s: %w", font.Name, err)
	}
	return data, nil
}

// fallback 在调用方已持有 fontMu 时使用。
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, _ := fonts.Builtin(fonts.DefaultName)
	family := canvas.NewFontFamily("parabreak-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts["Body"]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{}
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
