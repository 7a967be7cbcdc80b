package layout

import (
	"math"

	"go.uber.org/zap"
)

// PageSink 接收绘制指令。实现只做记录，不校验几何位置：位置合法性由 flowEngine 保证。
type PageSink interface {
	NewPage() int
	DrawText(page int, cmd DrawText)
	DrawRule(page int, rule Rule)
}

// pageCollector 是 PageSink 的记录实现，按顺序保存每页的指令。
type pageCollector struct {
	width  float64
	height float64
	margin Margin
	accs   []*Page
}

var _ PageSink = (*pageCollector)(nil)

func newPageCollector(width, height float64, margin Margin) *pageCollector {
	return &pageCollector{width: width, height: height, margin: margin}
}

func (pc *pageCollector) NewPage() int {
	pc.accs = append(pc.accs, &Page{
		Width:  pc.width,
		Height: pc.height,
		Margin: pc.margin,
		Texts:  []DrawText{},
	})
	return len(pc.accs) - 1
}

func (pc *pageCollector) DrawText(page int, cmd DrawText) {
	pc.accs[page].Texts = append(pc.accs[page].Texts, cmd)
}

func (pc *pageCollector) DrawRule(page int, rule Rule) {
	pc.accs[page].Rules = append(pc.accs[page].Rules, rule)
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = *acc
	}
	return out
}

// flowEngine 维护纵向游标，逐行折行、绘制，并在空间不足时换页。
// 游标只向下移动，换页时重置到内容区顶部。
type flowEngine struct {
	sink    PageSink
	styles  StyleTable
	measure Measurer
	log     *zap.Logger

	pageWidth  float64
	pageHeight float64
	margin     Margin

	cursor PageCursor
	stats  Stats
}

func newFlowEngine(sink PageSink, styles StyleTable, m Measurer, log *zap.Logger) *flowEngine {
	return &flowEngine{
		sink:       sink,
		styles:     styles,
		measure:    m,
		log:        log,
		pageWidth:  PageWidthPt,
		pageHeight: PageHeightPt,
		margin:     defaultMargin(),
	}
}

// start 创建第一页。
func (e *flowEngine) start() {
	e.cursor = PageCursor{PageIndex: e.sink.NewPage(), YPt: e.contentTop()}
}

func (e *flowEngine) contentTop() float64 { return e.pageHeight - e.margin.Top }

func (e *flowEngine) contentBottom() float64 { return e.margin.Bottom }

func (e *flowEngine) contentWidth() float64 {
	return e.pageWidth - e.margin.Left - e.margin.Right
}

func (e *flowEngine) atTop() bool { return e.cursor.YPt >= e.contentTop() }

// ensureSpace 在绘制前检查剩余空间，不足则换页。
func (e *flowEngine) ensureSpace(height float64) {
	if e.cursor.YPt-height >= e.contentBottom() {
		return
	}
	e.pageBreak()
}

func (e *flowEngine) pageBreak() {
	e.cursor = PageCursor{PageIndex: e.sink.NewPage(), YPt: e.contentTop()}
	e.stats.PageBreaks++
	e.log.Debug("layout: page break", zap.Int("page", e.cursor.PageIndex))
}

// advance 下移游标 gap，最低停在下边距处（已低于下边距时保持不动）。
// 空白本身不触发换页，由下一次绘制决定，避免文档以空白页结尾。
func (e *flowEngine) advance(gap float64) {
	if gap <= 0 {
		return
	}
	floor := math.Min(e.cursor.YPt, e.contentBottom())
	e.cursor.YPt = math.Max(e.cursor.YPt-gap, floor)
}

func (e *flowEngine) flowLine(line ClassifiedLine) error {
	style := e.styles.resolve(line)

	if line.Role == RoleSeparator {
		e.flowSeparator(style)
		return nil
	}

	if !e.atTop() {
		e.advance(style.SpacingBeforePt)
	}
	wrapped, err := Wrap(line.Text, style.Font, style.SizePt, e.contentWidth(), e.measure)
	if err != nil {
		return err
	}
	role := line.Role
	if line.FirstOverall {
		role = RoleName
	}
	lineHeight := style.LineHeight()
	after := style.spacingAfter(line.Role, line.Text)
	for _, wl := range wrapped {
		e.ensureSpace(lineHeight)
		e.sink.DrawText(e.cursor.PageIndex, DrawText{
			X:      e.margin.Left,
			Y:      e.cursor.YPt,
			Text:   wl.Text,
			Font:   style.Font,
			SizePt: style.SizePt,
			Color:  style.Color,
			Role:   role,
		})
		e.stats.DrawCommands++
		e.cursor.YPt -= lineHeight + after
	}
	return nil
}

// flowSeparator 只占用纵向空间；样式开启 Rule 时在间隙中部画一条细线。
func (e *flowEngine) flowSeparator(style StyleRule) {
	if !e.atTop() {
		e.advance(style.SpacingBeforePt)
	}
	if style.Rule && e.cursor.YPt > e.contentBottom() {
		y := math.Max(e.cursor.YPt-style.SpacingAfterPt/2, e.contentBottom())
		e.sink.DrawRule(e.cursor.PageIndex, Rule{
			X1:      e.margin.Left,
			X2:      e.pageWidth - e.margin.Right,
			Y:       y,
			WidthPt: style.RuleWidthPt,
			Color:   style.RuleColor,
		})
		e.stats.DrawCommands++
	}
	e.advance(style.SpacingAfterPt)
}

func (e *flowEngine) endParagraph() {
	e.stats.Paragraphs++
	e.advance(ParagraphGapPt)
}
