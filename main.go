package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/cvpress/dsl"
	"github.com/ByLCY/cvpress/generator"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/metrics"
	canvasrenderer "github.com/ByLCY/cvpress/renderer/canvas"
)

type options struct {
	input     string
	output    string
	styles    string
	debug     string
	dataJSON  string
	maxBytes  int
	logLevel  string
	dev       bool
	noCleanup bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "-", "简历文本路径，- 表示标准输入")
	flag.StringVar(&opts.output, "out", "output/resume.pdf", "PDF 输出路径")
	flag.StringVar(&opts.styles, "styles", "", "样式表文件路径")
	flag.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.StringVar(&opts.dataJSON, "data", "", "用于标题模板的 JSON 数据，例如 {\"name\":\"Jane\"}")
	flag.IntVar(&opts.maxBytes, "max-bytes", generator.DefaultMaxInputBytes, "输入文本大小上限（字节）")
	flag.StringVar(&opts.logLevel, "log-level", "info", "日志级别：debug/info/warn/error")
	flag.BoolVar(&opts.dev, "dev", false, "使用开发模式日志（彩色控制台输出）")
	flag.BoolVar(&opts.noCleanup, "raw", false, "跳过 markdown 清理，按原文排版")
	flag.Parse()

	logger, err := newLogger(opts.logLevel, opts.dev)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	out, err := run(context.Background(), opts, logger)
	if err != nil {
		var ie *layout.InputError
		if errors.As(err, &ie) {
			logger.Error("输入无效", zap.Error(err))
			os.Exit(2)
		}
		logger.Fatal("生成 PDF 失败", zap.Error(err))
	}
	if out.Fallback {
		fmt.Printf("排版失败，已生成简易 PDF：%s\n", opts.output)
		return
	}
	fmt.Printf("已生成 PDF：%s（%d 页）\n", opts.output, out.Pages)
}

func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// run 串联输入读取、样式加载、生成与输出。
func run(ctx context.Context, opts options, logger *zap.Logger) (*generator.Output, error) {
	text, err := readInput(opts.input, opts.maxBytes)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	cfg := generator.DefaultConfig()
	cfg.MaxInputBytes = opts.maxBytes
	cfg.SkipSanitize = opts.noCleanup
	if opts.styles != "" {
		styles, classifier, err := loadStyles(opts.styles, cfg.Styles, cfg.Classifier)
		if err != nil {
			return nil, err
		}
		cfg.Styles, cfg.Classifier = styles, classifier
	}

	reg, err := metrics.LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("加载字体度量失败: %w", err)
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: logger})
	gen := generator.New(reg, r, logger, cfg)

	out, err := gen.Generate(ctx, text, data)
	if err != nil {
		return nil, err
	}

	if opts.debug != "" {
		if err := writeDebug(out.Result, opts.debug); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out.PDF, 0o644); err != nil {
		return nil, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return out, nil
}

// readInput 读取文件或标准输入，多读一个字节以便生成器识别超限输入。
func readInput(path string, maxBytes int) (string, error) {
	var src io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return "", &layout.InputError{Err: fmt.Errorf("无法打开简历文件 %s: %w", path, err)}
		}
		defer file.Close()
		src = file
	}
	if maxBytes <= 0 {
		maxBytes = generator.DefaultMaxInputBytes
	}
	data, err := io.ReadAll(io.LimitReader(src, int64(maxBytes)+1))
	if err != nil {
		return "", fmt.Errorf("读取简历文本失败: %w", err)
	}
	return string(data), nil
}

func loadStyles(path string, base layout.StyleTable, classifier *layout.Classifier) (layout.StyleTable, *layout.Classifier, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开样式表 %s: %w", path, err)
	}
	defer file.Close()

	sheet, err := dsl.Parse(file)
	if err != nil {
		return nil, nil, fmt.Errorf("解析样式表失败: %w", err)
	}
	styles, c, err := layout.ApplySheet(base, classifier, sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("应用样式表失败: %w", err)
	}
	return styles, c, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
