package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ParseRaw 将文本按空行切分为段落，段内按换行切分为行。
// 仅含空白的行视为段落分隔，不会出现在结果中。
func ParseRaw(text string) RawDocumentText {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		raw RawDocumentText
		cur Paragraph
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				raw = append(raw, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		raw = append(raw, cur)
	}
	return raw
}

// ClassifyDocument 逐行分类。“全文第一行”跨段落追踪，空白行被跳过。
func ClassifyDocument(raw RawDocumentText, c *Classifier) [][]ClassifiedLine {
	if c == nil {
		c = defaultClassifier
	}
	out := make([][]ClassifiedLine, len(raw))
	first := true
	for i, para := range raw {
		lines := make([]ClassifiedLine, 0, len(para))
		for _, rawLine := range para {
			text := strings.TrimSpace(rawLine)
			if text == "" {
				continue
			}
			lines = append(lines, ClassifiedLine{
				Text:         text,
				Role:         c.Classify(text, first),
				FirstOverall: first,
			})
			first = false
		}
		out[i] = lines
	}
	return out
}

// Build 是排版引擎的唯一入口：分类、排版并返回全部页面。
// 空输入得到一个空白页；任何错误都会使整个结果作废。
func Build(raw RawDocumentText, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量 Measurer")
	}
	styles := opts.styles()
	if err := styles.Validate(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	log := opts.logger()

	collector := newPageCollector(PageWidthPt, PageHeightPt, defaultMargin())
	engine := newFlowEngine(collector, styles, opts.Measurer, log)
	engine.start()

	lines := 0
	for _, para := range ClassifyDocument(raw, opts.classifier()) {
		for _, line := range para {
			if err := engine.flowLine(line); err != nil {
				return nil, err
			}
			lines++
		}
		engine.endParagraph()
	}

	stats := engine.stats
	stats.Lines = lines
	pages := collector.pages()
	log.Debug("layout: document built",
		zap.Int("paragraphs", stats.Paragraphs),
		zap.Int("lines", stats.Lines),
		zap.Int("pages", len(pages)),
	)
	return &Result{Pages: pages, Meta: opts.Meta, Stats: stats}, nil
}

// BuildText 先按 ParseRaw 切分再排版。
func BuildText(text string, opts BuildOptions) (*Result, error) {
	return Build(ParseRaw(text), opts)
}

// Fallback 生成只含一行标题的简易文档，用于排版失败时兜底。
func Fallback(title string, meta DocumentMeta) *Result {
	collector := newPageCollector(PageWidthPt, PageHeightPt, defaultMargin())
	page := collector.NewPage()
	collector.DrawText(page, DrawText{
		X:      PageMarginPt,
		Y:      700,
		Text:   title,
		Font:   DefaultStyles()[RoleBody].Font,
		SizePt: 20,
		Role:   RoleBody,
	})
	return &Result{Pages: collector.pages(), Meta: meta, Stats: Stats{DrawCommands: 1}}
}
