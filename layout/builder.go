package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/parabreak/dsl"
	"github.com/ByLCY/parabreak/fonts"
	"github.com/ByLCY/parabreak/linebreak"
)

const (
	blockSpacing  = 3.0
	defaultMargin = 20.0
	defaultFont   = "Body"
)

// Build 根据 DSL AST 逐段断行并分页，生成可直接渲染的布局结果。
func Build(doc *dsl.Document, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}

	fontSet := collectFonts(doc)
	meta := collectMeta(doc)
	if meta.Lang != "" {
		if ls, ok := opts.Typesetter.(LanguageSetter); ok {
			if err := ls.SetLanguage(meta.Lang); err != nil {
				return nil, fmt.Errorf("设置文档语言失败: %w", err)
			}
		}
	}

	br := newBreaker(opts)
	var pages []Page
	for _, section := range doc.Sections {
		if section.Page == nil {
			continue
		}
		out, err := buildPages(section.Page, fontSet, br, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, out...)
	}
	if len(pages) == 0 {
		return nil, ErrNoPage
	}

	return &Result{
		Pages: pages,
		Fonts: fontSet,
		Meta:  meta,
	}, nil
}

func buildPages(section *dsl.PageSection, fontSet map[string]FontResource, br *breaker, opts BuildOptions) ([]Page, error) {
	width, height, err := resolvePageSize(section.Spec)
	if err != nil {
		return nil, err
	}
	margin, err := resolveMargin(section.Spec.Params)
	if err != nil {
		return nil, err
	}
	collector := newPageCollector(width, height, margin)
	ctx := &flowContext{
		collector: collector,
		cursorY:   collector.contentTop(),
	}

	for _, p := range section.Paragraphs {
		st, err := resolveParagraphStyle(p, fontSet, collector.contentWidth(), opts)
		if err != nil {
			return nil, fmt.Errorf("段落 %s (%s): %w", p.Font, p.Pos, err)
		}
		face, err := opts.Typesetter.Face(st.font, st.size)
		if err != nil {
			return nil, fmt.Errorf("段落 %s (%s): 加载字体失败: %w", p.Font, p.Pos, err)
		}
		lines, dbg, err := br.breakParagraph(p.Text(), &st, face)
		if err != nil {
			return nil, fmt.Errorf("段落 %s (%s): %w", p.Font, p.Pos, err)
		}
		linebreak.Logger().Debug("layout: paragraph",
			slog.String("font", st.font.Name),
			slog.String("strategy", st.strategy.String()),
			slog.Int("lines", len(lines)))
		ctx.placeParagraph(&st, lines, dbg)
	}
	return collector.pages, nil
}

// pageCollector 累积同一页面模板下的所有页。
type pageCollector struct {
	width  float64
	height float64
	margin Margin
	pages  []Page
}

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	pc := &pageCollector{width: width, height: height, margin: margin}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *Page {
	pc.pages = append(pc.pages, Page{Width: pc.width, Height: pc.height, Margin: pc.margin})
	return pc.curr()
}

func (pc *pageCollector) curr() *Page { return &pc.pages[len(pc.pages)-1] }

func (pc *pageCollector) contentTop() float64 { return pc.margin.Top }

func (pc *pageCollector) contentBottom() float64 { return pc.height - pc.margin.Bottom }

func (pc *pageCollector) contentWidth() float64 {
	return pc.width - pc.margin.Left - pc.margin.Right
}

type flowContext struct {
	collector *pageCollector
	cursorY   float64
}

// placeParagraph 逐行放置段落，空间不足时换页并把剩余行放入新 box（Continued）。
func (ctx *flowContext) placeParagraph(st *paragraphStyle, lines []TextLine, dbg *ParagraphDebug) {
	pc := ctx.collector
	box := st.newBox(pc.margin.Left, ctx.cursorY)
	box.Debug = dbg
	flush := func() {
		if len(box.Lines) > 0 {
			page := pc.curr()
			page.Paragraphs = append(page.Paragraphs, box)
		}
	}
	for _, line := range lines {
		// 页顶的行即使超高也直接放置，避免死循环
		if ctx.cursorY+line.Height > pc.contentBottom() && ctx.cursorY > pc.contentTop() {
			flush()
			pc.newPage()
			ctx.cursorY = pc.contentTop()
			box = st.newBox(pc.margin.Left, ctx.cursorY)
			box.Continued = true
		}
		line.X += box.X
		line.Y = ctx.cursorY
		box.Lines = append(box.Lines, line)
		box.Height += line.Height
		ctx.cursorY += line.Height
	}
	flush()
	ctx.cursorY += st.spaceAfter
}

func collectFonts(doc *dsl.Document) map[string]FontResource {
	out := map[string]FontResource{}
	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, decl := range section.Resources.Fonts {
			settings := decl.Settings()
			src := settings["src"].Text()
			out[decl.Name] = FontResource{
				Name:      decl.Name,
				Src:       src,
				Style:     settings["style"].Text(),
				IsBuiltin: src == "" || fonts.IsBuiltin(src),
			}
		}
	}
	if len(out) == 0 {
		out[defaultFont] = FontResource{
			Name:      defaultFont,
			Src:       "builtin:" + fonts.DefaultName,
			IsBuiltin: true,
		}
	}
	return out
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "parabreak",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for key, val := range section.Meta.Settings() {
			switch key {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "lang":
				meta.Lang = val.Text()
			case "keywords":
				if val.Array != nil {
					meta.Keywords = val.Array.Texts()
				} else {
					meta.Keywords = []string{val.Text()}
				}
			}
		}
	}
	return meta
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}

	width := base[0]
	height := base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

// resolveMargin 解析 `margin v1 [v2 [v3 [v4]]]`，语义同 CSS。
func resolveMargin(params []*dsl.Lexeme) (Margin, error) {
	margin := Margin{Top: defaultMargin, Right: defaultMargin, Bottom: defaultMargin, Left: defaultMargin}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			if params[j].Type != "Number" {
				break
			}
			l, err := ParseLength(params[j].Value)
			if err != nil {
				return Margin{}, fmt.Errorf("页边距 %q: %w", params[j].Value, err)
			}
			vals = append(vals, l.ToMM(0))
		}
		switch len(vals) {
		case 0:
			return Margin{}, fmt.Errorf("margin 缺少数值")
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		default:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin, nil
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	parse := func(s string) (int, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		return int(v), err
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	r, err1 := parse(hex[0:2])
	g, err2 := parse(hex[2:4])
	b, err3 := parse(hex[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return Color{R: r, G: g, B: b}, nil
}
