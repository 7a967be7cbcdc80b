package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/cvpress/fonts"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/metrics"
	"github.com/ByLCY/cvpress/renderer"
)

const defaultRuleWidthPt = 0.5

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	fontBlobs map[metrics.FontRef][]byte
	log       *zap.Logger

	fontMu sync.Mutex
	family *canvas.FontFamily

	// 同一字体族的字形缓存不是并发安全的，Render 串行执行。
	renderMu sync.Mutex
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Fonts 覆盖内置字体，键为 regular / bold。须与排版时使用的度量来自同一份字体数据。
	Fonts  map[metrics.FontRef][]byte
	Logger *zap.Logger
}

// NewRenderer creates a renderer backed by the embedded fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected font data.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		fontBlobs: map[metrics.FontRef][]byte{},
		log:       opts.Logger,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	for ref, data := range opts.Fonts {
		if len(data) > 0 {
			r.fontBlobs[ref] = data
		}
	}
	return r
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, &layout.RenderError{Op: "render", Err: fmt.Errorf("渲染结果为空")}
	}
	if len(result.Pages) == 0 {
		return nil, &layout.RenderError{Op: "render", Err: fmt.Errorf("缺少可渲染的页面")}
	}
	family, err := r.fontFamily()
	if err != nil {
		return nil, &layout.RenderError{Op: "font", Err: err}
	}
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		// 布局坐标与 PDF 一致：左下角为原点，Y 为基线。
		ctx.SetCoordSystem(canvas.CartesianI)

		drawRules(ctx, page.Rules)
		drawTexts(ctx, family, page.Texts)
		c.RenderTo(writer)
		r.log.Debug("render: page drawn",
			zap.Int("page", i+1),
			zap.Int("texts", len(page.Texts)),
			zap.Int("rules", len(page.Rules)),
		)
	}

	if err := writer.Close(); err != nil {
		return nil, &layout.RenderError{Op: "render", Err: fmt.Errorf("写入 PDF 失败: %w", err)}
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func drawTexts(ctx *canvas.Context, family *canvas.FontFamily, texts []layout.DrawText) {
	for _, dt := range texts {
		face := family.Face(dt.SizePt, colorFromLayout(dt.Color), fontStyle(dt.Font), canvas.FontNormal)
		line := canvas.NewTextLine(face, dt.Text, canvas.Left)
		ctx.DrawText(toMm(dt.X), toMm(dt.Y), line)
	}
}

// drawRules 绘制水平分隔线
func drawRules(ctx *canvas.Context, rules []layout.Rule) {
	for _, rl := range rules {
		w := rl.WidthPt
		if w <= 0 {
			w = defaultRuleWidthPt
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(colorFromLayout(rl.Color))
		ctx.SetStrokeWidth(toMm(w))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(rl.X2-rl.X1), 0)
		ctx.DrawPath(toMm(rl.X1), toMm(rl.Y), p)
	}
}

// fontFamily 懒加载常规与粗体两种字重，之后复用。
func (r *Renderer) fontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.family != nil {
		return r.family, nil
	}
	family := canvas.NewFontFamily("cvpress")
	for _, ref := range []metrics.FontRef{metrics.FontRegular, metrics.FontBold} {
		data, err := r.fontBytes(ref)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, fontStyle(ref)); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", ref, err)
		}
	}
	r.family = family
	return family, nil
}

func (r *Renderer) fontBytes(ref metrics.FontRef) ([]byte, error) {
	if blob, ok := r.fontBlobs[ref]; ok {
		return blob, nil
	}
	return fonts.Load(string(ref))
}

func fontStyle(ref metrics.FontRef) canvas.FontStyle {
	if ref == metrics.FontBold {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将 pt 转换为 canvas 使用的毫米
func toMm(pt float64) float64 { return pt * layout.PtToMm }
