package layout

import "github.com/ByLCY/cvpress/metrics"

// 该文件定义排版输入、布局结果与绘制指令，供排版计算、渲染与调试 JSON 共用。
// 坐标一律为 PDF 坐标：单位 pt，原点位于页面左下角，文本 Y 为基线位置。

// Paragraph 是一段原始文本行（未 trim）。
type Paragraph []string

// RawDocumentText 为按空行切分后的段落序列，构造后不可修改。
type RawDocumentText []Paragraph

// Lines 返回全部行数。
func (r RawDocumentText) Lines() int {
	n := 0
	for _, p := range r {
		n += len(p)
	}
	return n
}

// ClassifiedLine 是分类后的单行文本。
type ClassifiedLine struct {
	Text         string   `json:"text"`
	Role         LineRole `json:"role"`
	FirstOverall bool     `json:"firstOverall"`
}

// WrappedLine 是折行后能够放入宽度预算的一行。
type WrappedLine struct {
	Text    string  `json:"text"`
	WidthPt float64 `json:"width"`
}

// PageCursor 是排版游标，仅由 flowEngine 持有。
type PageCursor struct {
	PageIndex int     `json:"pageIndex"`
	YPt       float64 `json:"y"`
}

// Result 即 RenderedPages：排版后的全部页面。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
	Stats Stats        `json:"stats"`
}

// Stats 汇总一次排版的计数，用于校验不丢段落等不变式。
type Stats struct {
	Paragraphs   int `json:"paragraphs"`
	Lines        int `json:"lines"`
	DrawCommands int `json:"drawCommands"`
	PageBreaks   int `json:"pageBreaks"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Gray 返回灰度值 level（0 为黑，1 为白）对应的颜色。
func Gray(level float64) Color {
	v := int(level*255 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return Color{R: v, G: v, B: v}
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Page 记录页面尺寸、边距与按顺序追加的绘制指令。
type Page struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin Margin     `json:"margin"`
	Texts  []DrawText `json:"texts"`
	Rules  []Rule     `json:"rules,omitempty"`
}

// DrawText 表示一条文本绘制指令。
type DrawText struct {
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Text   string          `json:"text"`
	Font   metrics.FontRef `json:"font"`
	SizePt float64         `json:"size"`
	Color  Color           `json:"color"`
	Role   LineRole        `json:"role"`
}

// Rule 表示一条水平分隔线。
type Rule struct {
	X1      float64 `json:"x1"`
	X2      float64 `json:"x2"`
	Y       float64 `json:"y"`
	WidthPt float64 `json:"width"`
	Color   Color   `json:"color"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
