package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。
// 所有长度单位均为毫米（mm），坐标以页面左上角为原点。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages []Page                  `json:"pages"`
	Fonts map[string]FontResource `json:"fonts"`
	Meta  DocumentMeta            `json:"meta"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	Style     string `json:"style,omitempty"` // 例如 bold、italic，由渲染器解释
	IsBuiltin bool   `json:"isBuiltin"`       // 是否为内建字体
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Page 记录页面尺寸、边距与排好的段落。
type Page struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Margin     Margin         `json:"margin"`
	Paragraphs []ParagraphBox `json:"paragraphs"`
}

// ParagraphBox 是段落落在某一页上的部分；跨页段落会拆成多个 box，
// 后续部分的 Continued 为 true。
type ParagraphBox struct {
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Font       string          `json:"font"`
	FontSize   float64         `json:"fontSize"`
	LineHeight float64         `json:"lineHeight"`
	Color      Color           `json:"color"`
	Strategy   string          `json:"strategy"`
	TabStops   []float64       `json:"tabStops,omitempty"`
	TabWidth   float64         `json:"tabWidth"`
	Continued  bool            `json:"continued,omitempty"`
	Lines      []TextLine      `json:"lines"`
	Debug      *ParagraphDebug `json:"debug,omitempty"`
}

// TextLine 表示排版后的一行文本。X/Y 为行左上角的页面坐标，
// Start/End 是该行在段落正文中的字符（rune）偏移。
type TextLine struct {
	Content string  `json:"content"`
	Start   int     `json:"start"`
	End     int     `json:"end"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Budget  float64 `json:"budget"`
	Height  float64 `json:"height"`
	// Baseline 为基线相对行顶部的偏移。
	Baseline float64 `json:"baseline"`
	HasTab   bool    `json:"hasTab,omitempty"`
}

// ParagraphDebug 仅在 DebugOptions.Paragraphs 打开时填充。
type ParagraphDebug struct {
	Primitives    int     `json:"primitives"`
	Demerits      float64 `json:"demerits"`
	Opportunities []int   `json:"opportunities"`
	Overflows     int     `json:"overflows"`
}

// DocumentMeta 保存 PDF 元信息以及文档语言。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
	Lang     string   `json:"lang,omitempty"`
}
