package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/cvpress/metrics"
)

const eps = 1e-9

func buildText(t *testing.T, text string, opts BuildOptions) *Result {
	t.Helper()
	if opts.Measurer == nil {
		opts.Measurer = builtinMetrics(t)
	}
	res, err := BuildText(text, opts)
	if err != nil {
		t.Fatalf("BuildText error: %v", err)
	}
	return res
}

func allTexts(res *Result) []DrawText {
	var out []DrawText
	for _, p := range res.Pages {
		out = append(out, p.Texts...)
	}
	return out
}

// assertWithinMargins 检查所有绘制指令都在页边距之内，且同页 Y 严格递减。
func assertWithinMargins(t *testing.T, res *Result) {
	t.Helper()
	for pi, page := range res.Pages {
		prev := math.Inf(1)
		for _, dt := range page.Texts {
			if dt.Y < page.Margin.Bottom {
				t.Fatalf("page %d: %q drawn below bottom margin at y=%g", pi, dt.Text, dt.Y)
			}
			if dt.Y > page.Height-page.Margin.Top+eps {
				t.Fatalf("page %d: %q drawn above top margin at y=%g", pi, dt.Text, dt.Y)
			}
			if dt.X != page.Margin.Left {
				t.Fatalf("page %d: unexpected x=%g", pi, dt.X)
			}
			if dt.Y >= prev {
				t.Fatalf("page %d: y not strictly decreasing (%g after %g)", pi, dt.Y, prev)
			}
			prev = dt.Y
		}
	}
}

func TestParseRaw(t *testing.T) {
	raw := ParseRaw("John Smith\r\n\r\nEducation\n  BS Computer Science  \n \t \n\n\nProjects\n")
	if len(raw) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %#v", len(raw), raw)
	}
	if raw[1][1] != "  BS Computer Science  " {
		t.Fatalf("lines must be kept untrimmed, got %q", raw[1][1])
	}
	if raw.Lines() != 4 {
		t.Fatalf("expected 4 lines, got %d", raw.Lines())
	}
	if len(ParseRaw("")) != 0 || len(ParseRaw("\n \n")) != 0 {
		t.Fatalf("blank input should yield no paragraphs")
	}
}

func TestScenarioNameAndHeading(t *testing.T) {
	res := buildText(t, "John Smith\n\nEducation\nBS Computer Science", BuildOptions{})
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	texts := res.Pages[0].Texts
	if len(texts) != 3 {
		t.Fatalf("expected 3 draw commands, got %d", len(texts))
	}
	wantRoles := []LineRole{RoleName, RoleHeading, RoleBody}
	for i, role := range wantRoles {
		if texts[i].Role != role {
			t.Fatalf("line %d role = %s, want %s", i, texts[i].Role, role)
		}
	}
	if texts[0].Font != metrics.FontBold || texts[0].SizePt != 14 {
		t.Fatalf("name should be bold 14pt, got %s %g", texts[0].Font, texts[0].SizePt)
	}

	// name: 顶部不加前置间距；之后 14*1.2+5，再加段落间距 20；标题前置 15。
	top := PageHeightPt - PageMarginPt
	wantY := []float64{
		top,
		top - (16.8 + 5) - ParagraphGapPt - 15,
		top - (16.8 + 5) - ParagraphGapPt - 15 - (16.8 + 5),
	}
	for i, y := range wantY {
		if math.Abs(texts[i].Y-y) > 1e-6 {
			t.Fatalf("line %d y = %g, want %g", i, texts[i].Y, y)
		}
	}
	if res.Stats.Paragraphs != 2 || res.Stats.Lines != 3 || res.Stats.PageBreaks != 0 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
}

func TestScenarioSeparatorDrawsNothing(t *testing.T) {
	sep := strings.Repeat("-", 200)
	with := buildText(t, "John Smith\n"+sep+"\nEducation", BuildOptions{})
	without := buildText(t, "John Smith\nEducation", BuildOptions{})

	texts := allTexts(with)
	if len(texts) != 2 {
		t.Fatalf("separator must not record draw commands, got %d texts", len(texts))
	}
	for _, dt := range texts {
		if strings.Contains(dt.Text, "---") {
			t.Fatalf("separator text drawn: %q", dt.Text)
		}
	}
	if len(with.Pages[0].Rules) != 0 {
		t.Fatalf("no rule expected by default")
	}
	gap := allTexts(without)[1].Y - texts[1].Y
	if math.Abs(gap-DefaultStyles()[RoleSeparator].SpacingAfterPt) > 1e-6 {
		t.Fatalf("separator should advance the cursor by its spacing, got %g", gap)
	}
}

func TestSeparatorRuleOption(t *testing.T) {
	styles := DefaultStyles()
	sepStyle := styles[RoleSeparator]
	sepStyle.Rule = true
	styles[RoleSeparator] = sepStyle

	res := buildText(t, "John Smith\n"+strings.Repeat("-", 40)+"\nEducation", BuildOptions{Styles: styles})
	rules := res.Pages[0].Rules
	if len(rules) != 1 {
		t.Fatalf("expected one rule, got %d", len(rules))
	}
	r := rules[0]
	if r.X1 != PageMarginPt || r.X2 != PageWidthPt-PageMarginPt {
		t.Fatalf("rule should span the content width, got %g..%g", r.X1, r.X2)
	}
	texts := res.Pages[0].Texts
	if !(r.Y < texts[0].Y && r.Y > texts[1].Y) {
		t.Fatalf("rule y=%g should sit between %g and %g", r.Y, texts[0].Y, texts[1].Y)
	}
	if r.Color != Gray(0.5) {
		t.Fatalf("unexpected rule color %+v", r.Color)
	}
}

func TestScenarioPageOverflow(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "Paragraph %d describes a project delivered end to end with measurable results.\n\n", i)
	}
	raw := ParseRaw(b.String())
	res, err := Build(raw, BuildOptions{Measurer: builtinMetrics(t)})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("expected multiple pages, got %d", len(res.Pages))
	}
	if res.Stats.PageBreaks != len(res.Pages)-1 {
		t.Fatalf("page breaks %d inconsistent with %d pages", res.Stats.PageBreaks, len(res.Pages))
	}
	if res.Stats.Paragraphs != len(raw) {
		t.Fatalf("paragraphs processed %d != input %d", res.Stats.Paragraphs, len(raw))
	}
	if got := len(allTexts(res)); got != res.Stats.DrawCommands || got < 60 {
		t.Fatalf("draw commands mismatch: texts=%d stats=%d", got, res.Stats.DrawCommands)
	}
	assertWithinMargins(t, res)
	for _, p := range res.Pages {
		if len(p.Texts) == 0 {
			t.Fatalf("no page should be left empty")
		}
	}
}

func TestPageBreakWhenCumulativeHeightExceedsPage(t *testing.T) {
	// 单段内 60 个列表项：累计行高 60*(13.2+2) 远超 742pt 的内容高度。
	var lines []string
	for i := 0; i < 60; i++ {
		lines = append(lines, fmt.Sprintf("• item %d", i))
	}
	res := buildText(t, strings.Join(lines, "\n"), BuildOptions{Measurer: stubMeasurer{}})
	if len(res.Pages) < 2 {
		t.Fatalf("expected overflow to a second page, got %d", len(res.Pages))
	}
	assertWithinMargins(t, res)
	// 新页第一行从内容区顶部开始，不叠加前置间距。
	if got := res.Pages[1].Texts[0].Y; got != PageHeightPt-PageMarginPt {
		t.Fatalf("second page should start at the top, got %g", got)
	}
}

func TestLongParagraphWrapsAcrossPages(t *testing.T) {
	word := "lorem "
	text := "Jane Doe\n\n" + strings.Repeat(word, 3000)
	res := buildText(t, text, BuildOptions{})
	if len(res.Pages) < 2 {
		t.Fatalf("expected wrapped prose to span pages, got %d", len(res.Pages))
	}
	assertWithinMargins(t, res)
	for _, dt := range allTexts(res) {
		if dt.Role == RoleBody && runeLen(dt.Text) == 0 {
			t.Fatalf("empty wrapped line drawn")
		}
	}
}

func TestProseSpacing(t *testing.T) {
	long := strings.Repeat("word ", 30) // > 100 runes
	short := "short line"
	res := buildText(t, "Jane Doe\n"+long+"\n"+short+"\n"+short, BuildOptions{Measurer: stubMeasurer{}})
	texts := res.Pages[0].Texts
	// stub 下每字符 6pt，长行约 900pt，会折成两行。
	n := len(texts)
	step := texts[n-2].Y - texts[n-1].Y
	if math.Abs(step-(12*1.2+2)) > 1e-6 {
		t.Fatalf("short body lines should be 16.4pt apart, got %g", step)
	}
	// 长段落的第一行与第二行之间使用 prose 间距。
	step = texts[1].Y - texts[2].Y
	if math.Abs(step-(12*1.2+4)) > 1e-6 {
		t.Fatalf("prose lines should be 18.4pt apart, got %g", step)
	}
}

func TestFirstLineAlwaysStyledAsName(t *testing.T) {
	res := buildText(t, "Education\nBS Computer Science", BuildOptions{})
	first := res.Pages[0].Texts[0]
	if first.Role != RoleName || first.Font != metrics.FontBold {
		t.Fatalf("first line should use name styling, got %s/%s", first.Role, first.Font)
	}
}

func TestEmptyInputYieldsSingleEmptyPage(t *testing.T) {
	for _, raw := range []RawDocumentText{nil, {}, {{"   "}}} {
		res, err := Build(raw, BuildOptions{Measurer: stubMeasurer{}})
		if err != nil {
			t.Fatalf("Build error: %v", err)
		}
		if len(res.Pages) != 1 || len(res.Pages[0].Texts) != 0 {
			t.Fatalf("expected one empty page, got %#v", res.Pages)
		}
		if res.Stats.Paragraphs != len(raw) {
			t.Fatalf("paragraph count %d != %d", res.Stats.Paragraphs, len(raw))
		}
	}
}

func TestBuildFailsOnMissingFont(t *testing.T) {
	res, err := BuildText("John Smith", BuildOptions{Measurer: metrics.NewRegistry()})
	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if res != nil {
		t.Fatalf("no partial result on failure")
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	if _, err := BuildText("x", BuildOptions{}); err == nil {
		t.Fatalf("expected error without measurer")
	}
}

func TestBuildRejectsInvalidStyles(t *testing.T) {
	styles := DefaultStyles()
	delete(styles, RoleBullet)
	if _, err := BuildText("x", BuildOptions{Measurer: stubMeasurer{}, Styles: styles}); err == nil {
		t.Fatalf("expected error for incomplete style table")
	}
}

func TestBuildLogsPageBreaks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var lines []string
	for i := 0; i < 80; i++ {
		lines = append(lines, "body line")
	}
	res := buildText(t, strings.Join(lines, "\n"), BuildOptions{Measurer: stubMeasurer{}, Logger: zap.New(core)})
	breaks := logs.FilterMessage("layout: page break").Len()
	if breaks == 0 || breaks != res.Stats.PageBreaks {
		t.Fatalf("expected %d page break logs, got %d", res.Stats.PageBreaks, breaks)
	}
}

func TestFallback(t *testing.T) {
	res := Fallback("Simple Resume for Jane", DocumentMeta{Title: "Jane"})
	if len(res.Pages) != 1 || len(res.Pages[0].Texts) != 1 {
		t.Fatalf("fallback must be a single one-line page")
	}
	dt := res.Pages[0].Texts[0]
	if dt.Text != "Simple Resume for Jane" || dt.SizePt != 20 || dt.Y != 700 || dt.X != 50 {
		t.Fatalf("unexpected fallback draw: %+v", dt)
	}
	if res.Meta.Title != "Jane" {
		t.Fatalf("meta not kept")
	}
}
