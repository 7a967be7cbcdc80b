package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/cvpress/dsl"
)

const sampleSheet = `
// resume stylesheet
stylesheet resume v1 {
  style heading {
    font: bold
    size: 16pt
    color: #1F3A93
    space-before: 12pt; space-after: 4pt
  }

  /* draw separators as thin rules */
  style separator { rule: true rule-color: #999 rule-width: 0.5pt }

  style body { line-height: 1.3x prose-space-after: 6pt }

  headings [
    "Skills & Tools",
    "Experience"
  ]
}
`

func TestParseSheet(t *testing.T) {
	sheet, err := dsl.Parse(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if sheet.Name != "resume" || sheet.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", sheet.Name, sheet.Version)
	}
	styles := sheet.Styles()
	if len(styles) != 3 {
		t.Fatalf("expected 3 style blocks, got %d", len(styles))
	}
	heading := styles[0]
	if heading.Role != "heading" {
		t.Fatalf("first style should be heading, got %q", heading.Role)
	}
	want := map[string]string{
		"font":         "bold",
		"size":         "16pt",
		"color":        "#1F3A93",
		"space-before": "12pt",
		"space-after":  "4pt",
	}
	if len(heading.Props) != len(want) {
		t.Fatalf("expected %d heading props, got %d", len(want), len(heading.Props))
	}
	for _, p := range heading.Props {
		if want[p.Key] != p.Value.Text() {
			t.Fatalf("prop %s = %q, want %q", p.Key, p.Value.Text(), want[p.Key])
		}
	}

	sep := styles[1]
	if sep.Props[0].Key != "rule" || sep.Props[0].Value.Text() != "true" {
		t.Fatalf("unexpected separator rule prop: %+v", sep.Props[0])
	}
	if sep.Props[1].Value.Color == nil || *sep.Props[1].Value.Color != "#999" {
		t.Fatalf("rule-color should lex as a color")
	}

	titles := sheet.HeadingTitles()
	if len(titles) != 2 || titles[0] != "Skills & Tools" || titles[1] != "Experience" {
		t.Fatalf("unexpected headings: %#v", titles)
	}
}

func TestParseEmptySheet(t *testing.T) {
	sheet, err := dsl.ParseString(`stylesheet empty v1 {}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(sheet.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(sheet.Entries))
	}
}

func TestParseSheetSyntaxError(t *testing.T) {
	cases := []string{
		`stylesheet broken v1 { style heading { font bold } }`,
		`stylesheet broken v1 { style heading { size: 12pt }`,
		`style heading { size: 12pt }`,
	}
	for _, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected syntax error for %q", src)
		}
	}
}
