package layout

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/parabreak/dsl"
	"github.com/ByLCY/parabreak/linebreak"
	"github.com/ByLCY/parabreak/segment"
)

const (
	defaultFontSizePt = 11.0
	defaultLineFactor = 1.4
	// 默认制表宽度为 4 个空格
	defaultTabSpaces = 4
	nowrapWidth      = math.MaxFloat32
)

// 换行模式
const (
	wrapNormal   = "normal"
	wrapAnywhere = "anywhere"
	wrapNone     = "nowrap"
)

// paragraphStyle 是段落设置解析后的结果，长度单位均为 mm。
type paragraphStyle struct {
	font       FontResource
	size       float64
	lineHeight float64
	color      Color
	strategy   linebreak.Strategy
	wrap       string
	width      float64
	firstWidth float64
	firstLines int
	indent     float64
	tabWidth   float64
	stops      []float64
	spaceAfter float64
}

func (st *paragraphStyle) newBox(x, y float64) ParagraphBox {
	return ParagraphBox{
		X:          x,
		Y:          y,
		Width:      st.width,
		Font:       st.font.Name,
		FontSize:   st.size,
		LineHeight: st.lineHeight,
		Color:      st.color,
		Strategy:   st.strategy.String(),
		TabStops:   st.stops,
		TabWidth:   st.tabWidth,
	}
}

func resolveParagraphStyle(p *dsl.Paragraph, fontSet map[string]FontResource, contentWidth float64, opts BuildOptions) (paragraphStyle, error) {
	res, ok := fontSet[p.Font]
	if !ok {
		return paragraphStyle{}, &UnknownFontError{Name: p.Font}
	}
	st := paragraphStyle{
		font:       res,
		size:       defaultFontSizePt * PtToMm,
		strategy:   linebreak.Optimal,
		wrap:       wrapNormal,
		width:      contentWidth,
		firstWidth: -1,
		spaceAfter: blockSpacing,
	}
	lineHeight := LineHeightSpec{Kind: LineHeightFactor, Factor: defaultLineFactor}

	settings := p.Settings()
	// 字号先于其他长度解析，行高倍数依赖它
	if v, ok := settings["size"]; ok {
		l, err := ParseLength(v.Text())
		if err != nil {
			return st, fmt.Errorf("size: %w", err)
		}
		if l.Unit == UnitNone {
			l.Unit = UnitPT
		}
		if st.size = l.ToMM(0); st.size <= 0 {
			return st, fmt.Errorf("字号必须为正: %s", v.Text())
		}
	}

	for key, v := range settings {
		var err error
		switch key {
		case "size":
		case "line-height":
			lineHeight, err = ParseLineHeight(v.Text())
		case "color":
			st.color, err = parseColor(v.Text())
		case "algorithm":
			st.strategy, err = linebreak.ParseStrategy(v.Text())
		case "wrap":
			switch w := strings.ToLower(v.Text()); w {
			case wrapNormal, wrapAnywhere, wrapNone:
				st.wrap = w
			default:
				err = fmt.Errorf("未知的换行模式 %q", v.Text())
			}
		case "width":
			st.width, err = lengthSetting(v, contentWidth)
		case "first-width":
			st.firstWidth, err = lengthSetting(v, contentWidth)
		case "first-lines":
			st.firstLines, err = strconv.Atoi(v.Text())
			if err == nil && st.firstLines < 0 {
				err = fmt.Errorf("行数不能为负: %d", st.firstLines)
			}
		case "indent":
			st.indent, err = lengthSetting(v, contentWidth)
		case "tab":
			st.tabWidth, err = lengthSetting(v, contentWidth)
		case "stops":
			st.stops, err = parseStops(v, contentWidth)
		case "space-after":
			st.spaceAfter, err = lengthSetting(v, 0)
		default:
			err = fmt.Errorf("未知的段落属性")
		}
		if err != nil {
			return st, fmt.Errorf("%s: %w", key, err)
		}
	}

	if opts.Strategy != nil {
		st.strategy = *opts.Strategy
	}
	if st.firstWidth < 0 {
		st.firstWidth = st.width
	}
	st.lineHeight = lineHeight.Resolve(st.size)
	return st, nil
}

func lengthSetting(v *dsl.Value, reference float64) (float64, error) {
	l, err := ParseLength(v.Text())
	if err != nil {
		return 0, err
	}
	return l.ToMM(reference), nil
}

// parseStops 解析 stops 数组并升序排列；单个数值也视为一个制表位。
func parseStops(v *dsl.Value, reference float64) ([]float64, error) {
	values := []*dsl.Value{v}
	if v.Array != nil {
		values = v.Array.Values
	}
	out := make([]float64, 0, len(values))
	for _, item := range values {
		mm, err := lengthSetting(item, reference)
		if err != nil {
			return nil, err
		}
		out = append(out, mm)
	}
	slices.Sort(out)
	return out, nil
}

// breaker 在多个段落之间复用断行缓冲区。
type breaker struct {
	b        *linebreak.Builder
	res      linebreak.Result
	hard     *segment.Lines
	normal   linebreak.Segmenter
	anywhere linebreak.Segmenter
	debug    bool
}

func newBreaker(opts BuildOptions) *breaker {
	normal := opts.Segmenter
	if normal == nil {
		normal = segment.NewLines()
	}
	return &breaker{
		b:        linebreak.NewBuilder(normal),
		hard:     segment.NewLines(),
		normal:   normal,
		anywhere: segment.NewGraphemes(),
		debug:    opts.Debug.Paragraphs,
	}
}

func (br *breaker) segmenter(wrap string) linebreak.Segmenter {
	switch wrap {
	case wrapAnywhere:
		return br.anywhere
	case wrapNone:
		return segment.None{}
	default:
		return br.normal
	}
}

// breakParagraph 按强制换行把正文拆成若干片段，逐片段测量并断行。
// 返回的行坐标相对段落 box，Y 由分页阶段填写。
func (br *breaker) breakParagraph(text string, st *paragraphStyle, face Face) ([]TextLine, *ParagraphDebug, error) {
	runes := []rune(text)
	if st.tabWidth <= 0 {
		st.tabWidth = defaultTabWidth(face, st.size)
	}
	metrics := face.Metrics()
	baseline := (st.lineHeight-metrics.Height())/2 + metrics.Ascent

	var dbg *ParagraphDebug
	if br.debug {
		dbg = &ParagraphDebug{}
	}
	br.b.SetSegmenter(br.segmenter(st.wrap))
	defer br.b.Finish()

	var lines []TextLine
	start := 0
	pieceEnds := append(br.hard.MandatoryBreaks(runes), len(runes))
	for n, end := range pieceEnds {
		piece := runes[start:trimHardBreak(runes, start, end)]
		params := st.params(n == 0)

		br.b.SetText(piece)
		if _, err := br.b.AddStyleRun(0, len(piece), face, false); err != nil {
			return nil, nil, fmt.Errorf("测量文本失败: %w", err)
		}
		br.b.ComputeBreaksInto(&br.res, params)
		if dbg != nil {
			br.collectDebug(dbg, start, st.wrap, params)
		}

		lw := params.LineWidth()
		lineStart := 0
		for i, off := range br.res.Offsets {
			x := 0.0
			budget := lw.At(i)
			if n == 0 && i == 0 {
				x = st.indent
			}
			if st.wrap == wrapNone {
				budget = st.width
			}
			lines = append(lines, TextLine{
				Content:  strings.TrimRight(string(piece[lineStart:off]), " \u200b"),
				Start:    start + lineStart,
				End:      start + off,
				X:        x,
				Width:    br.res.Widths[i],
				Budget:   budget,
				Height:   st.lineHeight,
				Baseline: baseline,
				HasTab:   br.res.HasTab[i],
			})
			if dbg != nil && br.res.Widths[i] > budget {
				dbg.Overflows++
			}
			lineStart = off
		}
		start = end
	}
	return lines, dbg, nil
}

func (br *breaker) collectDebug(dbg *ParagraphDebug, base int, wrap string, p linebreak.Params) {
	text := br.b.Text()
	opportunities := br.segmenter(wrap).LineBreaks(text)
	for _, o := range opportunities {
		dbg.Opportunities = append(dbg.Opportunities, base+o)
	}
	tabs := linebreak.NewTabStops(p.TabStops, p.DefaultTabWidth)
	prims := linebreak.BuildPrimitives(text, br.b.Widths(), opportunities, tabs)
	dbg.Primitives += len(prims)
	dbg.Demerits += linebreak.Demerits(prims, p.LineWidth(), br.res)
}

// params 生成一个片段的断行参数；首行宽度与缩进只作用于段落的第一个片段。
func (st *paragraphStyle) params(first bool) linebreak.Params {
	p := linebreak.Params{
		FirstWidth:      st.width,
		RestWidth:       st.width,
		TabStops:        st.stops,
		DefaultTabWidth: st.tabWidth,
		Strategy:        st.strategy,
	}
	if st.wrap == wrapNone {
		p.FirstWidth, p.RestWidth = nowrapWidth, nowrapWidth
		p.Strategy = linebreak.Greedy
		return p
	}
	if first {
		p.FirstWidth = st.firstWidth - st.indent
		p.FirstWidthLineCount = max(st.firstLines, 1)
	}
	return p
}

func defaultTabWidth(face Face, size float64) float64 {
	var adv [1]float64
	if w := face.Measure([]rune{' '}, false, adv[:]); w > 0 {
		return defaultTabSpaces * w
	}
	return 2 * size
}

// trimHardBreak 去掉片段末尾的强制换行字符（含 CRLF）。
func trimHardBreak(text []rune, start, end int) int {
	for end > start && isHardBreak(text[end-1]) {
		end--
	}
	return end
}

func isHardBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
