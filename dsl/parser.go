package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][,:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sheetParser = participle.MustBuild[Sheet](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "Newline", "LineComment", "BlockComment", "HashComment"),
		participle.Unquote("String"),
	)
)

// Sheet is the root AST node of a stylesheet file.
type Sheet struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'stylesheet' @Ident"`
	Version string         `parser:"@Ident"`
	Entries []*Entry       `parser:"'{' @@* '}'"`
}

// Entry is one top-level declaration inside a stylesheet.
type Entry struct {
	Style    *StyleBlock `parser:"  @@"`
	Headings *Headings   `parser:"| @@"`
}

// StyleBlock overrides properties of one line role.
type StyleBlock struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Role  string         `parser:"'style' @Ident"`
	Props []*Property    `parser:"'{' ( @@ ';'? )* '}'"`
}

// Headings lists extra section titles recognized as headings.
type Headings struct {
	Titles []string `parser:"'headings' '[' ( @String ','? )* ']'"`
}

// Property uses colon syntax (key: value).
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value represents a property value.
type Value struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Color  *string `parser:"| @Color"`
	Ident  *string `parser:"| @Ident"`
}

// Text returns the raw textual form of the value.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Parse reads a stylesheet from r.
func Parse(r io.Reader) (*Sheet, error) {
	sheet, err := sheetParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("解析样式表失败: %w", err)
	}
	return sheet, nil
}

// ParseString parses a stylesheet held in memory.
func ParseString(src string) (*Sheet, error) {
	return Parse(strings.NewReader(src))
}

// Styles returns all style blocks in declaration order.
func (s *Sheet) Styles() []*StyleBlock {
	var out []*StyleBlock
	for _, e := range s.Entries {
		if e.Style != nil {
			out = append(out, e.Style)
		}
	}
	return out
}

// HeadingTitles returns all extra heading titles in declaration order.
func (s *Sheet) HeadingTitles() []string {
	var out []string
	for _, e := range s.Entries {
		if e.Headings != nil {
			out = append(out, e.Headings.Titles...)
		}
	}
	return out
}
