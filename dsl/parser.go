package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames       = invertSymbols(dslLexer.Symbols())
	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a paragraph document.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is a top-level section: meta, resources or page.
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection holds document metadata (title, author, lang, ...).
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ResourcesSection declares the fonts paragraphs refer to.
type ResourcesSection struct {
	Fonts []*FontDecl `parser:"'resources' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// FontDecl is `font Name { src: "..." }`.
type FontDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'font' @Ident"`
	Entries []*Assignment  `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PageSection is a page template followed by the paragraphs flowed
// through it. Overflowing paragraphs continue on new pages of the same
// template.
type PageSection struct {
	Spec       PageSpec     `parser:"'page' @@"`
	Paragraphs []*Paragraph `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PageSpec stores header tokens (eg: size, orientation, margin).
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Paragraph is `paragraph Font { key: value ... "text" ... }`. Several
// text literals are joined with newlines, each starting a new line.
type Paragraph struct {
	Pos   lexer.Position   `parser:"" json:"-"`
	Font  string           `parser:"'paragraph' @Ident"`
	Items []*ParagraphItem `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ParagraphItem is a setting or a text literal.
type ParagraphItem struct {
	Assignment *Assignment    `parser:"  @@"`
	Text       *StringLiteral `parser:"| @String"`
}

// Settings returns the paragraph's assignments by key. Later assignments
// win.
func (p *Paragraph) Settings() map[string]*Value {
	return collect(assignmentsOf(p.Items))
}

// Text returns the joined text literals.
func (p *Paragraph) Text() string {
	var parts []string
	for _, it := range p.Items {
		if it.Text != nil {
			parts = append(parts, string(*it.Text))
		}
	}
	return strings.Join(parts, "\n")
}

func assignmentsOf(items []*ParagraphItem) []*Assignment {
	out := make([]*Assignment, 0, len(items))
	for _, it := range items {
		if it.Assignment != nil {
			out = append(out, it.Assignment)
		}
	}
	return out
}

// Settings returns the font declaration's assignments by key.
func (f *FontDecl) Settings() map[string]*Value { return collect(f.Entries) }

// Settings returns the metadata assignments by key.
func (m *MetaSection) Settings() map[string]*Value { return collect(m.Entries) }

func collect(entries []*Assignment) map[string]*Value {
	out := make(map[string]*Value, len(entries))
	for _, a := range entries {
		out[strings.ToLower(a.Key)] = a.Value
	}
	return out
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents a setting value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as written, strings unquoted. Arrays are joined
// with commas.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	case v.Array != nil:
		return strings.Join(v.Array.Texts(), ",")
	default:
		return ""
	}
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Texts returns the Text of every element.
func (a *ArrayValue) Texts() []string {
	out := make([]string, 0, len(a.Values))
	for _, v := range a.Values {
		out = append(out, v.Text())
	}
	return out
}

// Lexeme captures a single lexical token (used by page headers).
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable so Lexeme can act as a grammar atom.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if shouldStopArg(tok) {
		return participle.NextMatch
	}

	lexeme, err := newLexeme(*lex.Next())
	if err != nil {
		return err
	}
	*l = lexeme
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func shouldStopArg(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, rbraceTokenType, lbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	default:
		return false
	}
}

func newLexeme(tok lexer.Token) (Lexeme, error) {
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringTokenType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, err
		}
		val = unquoted
	}

	return Lexeme{
		Type:  name,
		Value: val,
		Raw:   tok.Value,
		Pos:   tok.Pos,
	}, nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	symbols := dslLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
