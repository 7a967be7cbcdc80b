// Package generator 串联简历 PDF 的完整流程：输入校验、清理、排版、渲染，
// 排版或渲染失败时降级为只有一行标题的简易文档。
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/cvpress/binding"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/metrics"
	"github.com/ByLCY/cvpress/renderer"
	"github.com/ByLCY/cvpress/sanitize"
)

const (
	DefaultMaxInputBytes = 64 << 10
	DefaultFallbackTitle = "Simple Resume for ${name}"
	defaultCandidate     = "Candidate"
)

// Config 控制一次生成的输入限制、样式与元信息。
type Config struct {
	MaxInputBytes int
	// FallbackTitle 是降级文档的标题模板，${path} 从调用方数据中取值，缺省时 ${name} 取首行文本。
	FallbackTitle string
	Styles        layout.StyleTable
	Classifier    *layout.Classifier
	// Meta.Title 同样支持 ${path} 模板。
	Meta         layout.DocumentMeta
	SkipSanitize bool
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		MaxInputBytes: DefaultMaxInputBytes,
		FallbackTitle: DefaultFallbackTitle,
		Styles:        layout.DefaultStyles(),
		Classifier:    layout.DefaultClassifier(),
		Meta: layout.DocumentMeta{
			Title:   "Resume - ${name}",
			Creator: "cvpress",
		},
	}
}

// Output 是一次生成的结果。
type Output struct {
	PDF      []byte
	Pages    int
	Fallback bool
	Result   *layout.Result
	Sanitize sanitize.Report
}

// Generator 可被多个 goroutine 共享。
type Generator struct {
	reg      *metrics.Registry
	renderer renderer.Renderer
	log      *zap.Logger
	cfg      Config
	cleaner  *sanitize.Sanitizer
}

// New 创建 Generator。reg 应在启动时加载完毕，之后只读。
func New(reg *metrics.Registry, r renderer.Renderer, log *zap.Logger, cfg Config) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = DefaultMaxInputBytes
	}
	if cfg.FallbackTitle == "" {
		cfg.FallbackTitle = DefaultFallbackTitle
	}
	opts := sanitize.Options{KeepMarkdown: cfg.SkipSanitize}
	if reg.Len() > 0 {
		opts.Supports = reg.Supports
	}
	return &Generator{
		reg:      reg,
		renderer: r,
		log:      log,
		cfg:      cfg,
		cleaner:  sanitize.New(opts),
	}
}

// Generate 把原始简历文本渲染为 PDF。
// 输入错误直接返回；排版与渲染错误记录日志后降级为简易文档（Output.Fallback 为 true）。
func (g *Generator) Generate(ctx context.Context, text string, data map[string]any) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.renderer == nil {
		return nil, fmt.Errorf("generator: renderer 不能为空")
	}
	if err := g.validate(text); err != nil {
		g.log.Warn("generate: input rejected", zap.Error(err), zap.Int("bytes", len(text)))
		return nil, err
	}

	start := time.Now()
	g.log.Info("generate: start",
		zap.Int("bytes", len(text)),
		zap.String("preview", Preview(text)),
	)

	cleaned, report := g.cleaner.Clean(text)
	if report != (sanitize.Report{}) {
		g.log.Debug("generate: sanitized input",
			zap.Int("lines_dropped", report.LinesDropped),
			zap.Int("runes_replaced", report.RunesReplaced),
			zap.Int("runes_removed", report.RunesRemoved),
		)
	}
	if strings.TrimSpace(cleaned) == "" {
		return nil, &layout.InputError{Err: layout.ErrEmptyInput}
	}

	data = withName(data, cleaned)
	meta := g.cfg.Meta
	meta.Title = binding.InterpolateWith(meta.Title, data, func(string) string { return defaultCandidate })
	if meta.Author == "" {
		if name, ok := data["name"].(string); ok {
			meta.Author = name
		}
	}

	res, err := layout.Build(layout.ParseRaw(cleaned), layout.BuildOptions{
		Measurer:   g.reg,
		Styles:     g.cfg.Styles,
		Classifier: g.cfg.Classifier,
		Meta:       meta,
		Logger:     g.log,
	})
	if err != nil {
		var re *layout.RenderError
		if !errors.As(err, &re) {
			return nil, fmt.Errorf("generator: 排版失败: %w", err)
		}
		return g.fallback(ctx, err, data, meta, report)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfBytes, err := g.renderer.Render(res)
	if err != nil {
		return g.fallback(ctx, err, data, meta, report)
	}

	g.log.Info("generate: done",
		zap.Int("pages", len(res.Pages)),
		zap.Int("paragraphs", res.Stats.Paragraphs),
		zap.Int("lines", res.Stats.Lines),
		zap.Int("draw_commands", res.Stats.DrawCommands),
		zap.Int("page_breaks", res.Stats.PageBreaks),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Output{
		PDF:      pdfBytes,
		Pages:    len(res.Pages),
		Result:   res,
		Sanitize: report,
	}, nil
}

func (g *Generator) validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return &layout.InputError{Err: layout.ErrEmptyInput}
	}
	if len(text) > g.cfg.MaxInputBytes {
		return &layout.InputError{Err: fmt.Errorf("%w: %d > %d bytes", layout.ErrInputTooLarge, len(text), g.cfg.MaxInputBytes)}
	}
	return nil
}

func (g *Generator) fallback(ctx context.Context, cause error, data map[string]any, meta layout.DocumentMeta, report sanitize.Report) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title := g.fallbackTitle(data)
	g.log.Warn("generate: falling back to simple document",
		zap.Error(cause),
		zap.String("title", title),
	)
	res := layout.Fallback(title, meta)
	pdfBytes, err := g.renderer.Render(res)
	if err != nil {
		return nil, fmt.Errorf("generator: 降级渲染失败: %w", multierr.Combine(cause, err))
	}
	return &Output{
		PDF:      pdfBytes,
		Pages:    len(res.Pages),
		Fallback: true,
		Result:   res,
		Sanitize: report,
	}, nil
}

// fallbackTitle 填充标题模板，并与正文一样过一遍字形过滤，调用方数据里的字体缺字不会画成方框。
func (g *Generator) fallbackTitle(data map[string]any) string {
	raw := binding.InterpolateWith(g.cfg.FallbackTitle, data, func(string) string { return defaultCandidate })
	cleaned, _ := g.cleaner.Clean(raw)
	if title := strings.Join(strings.Fields(cleaned), " "); title != "" {
		return title
	}
	return defaultCandidate
}

// withName 返回 data 的浅拷贝，缺少 name 时取清理后文本的首个非空行。
func withName(data map[string]any, text string) map[string]any {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if name, ok := out["name"].(string); ok && strings.TrimSpace(name) != "" {
		return out
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out["name"] = line
			break
		}
	}
	return out
}
