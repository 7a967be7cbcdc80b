package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/cvpress/metrics"
)

// 页面常量：A4，四边 50pt。
const (
	PageWidthPt    = 595.0
	PageHeightPt   = 842.0
	PageMarginPt   = 50.0
	ParagraphGapPt = 20.0
	// 超过该字符数的正文行按段落处理，行后间距更大。
	ProseThreshold = 100
)

// Measurer 测量文本宽度（pt）。*metrics.Registry 实现了该接口。
type Measurer interface {
	Width(text string, font metrics.FontRef, sizePt float64) (float64, error)
}

// BuildOptions 配置排版阶段所需的依赖。零值字段使用默认值。
type BuildOptions struct {
	Measurer   Measurer
	Styles     StyleTable
	Classifier *Classifier
	Meta       DocumentMeta
	Logger     *zap.Logger
}

func (o BuildOptions) styles() StyleTable {
	if o.Styles == nil {
		return DefaultStyles()
	}
	return o.Styles
}

func (o BuildOptions) classifier() *Classifier {
	if o.Classifier == nil {
		return DefaultClassifier()
	}
	return o.Classifier
}

func (o BuildOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func defaultMargin() Margin {
	return Margin{Top: PageMarginPt, Right: PageMarginPt, Bottom: PageMarginPt, Left: PageMarginPt}
}
