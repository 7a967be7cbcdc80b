// Package sanitize 在排版前清理 LLM 生成的简历文本：
// 去掉 markdown 标记（### 标题、**加粗**、* 列表），做 NFKC 归一化与控制字符过滤，
// 并把目标字体不支持的字符替换为可绘制的近似字符或直接删除。
//
// 清理后的文本仍保持“空行分段、换行分行”的结构，可直接交给 layout.ParseRaw。
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options 配置清理行为。
type Options struct {
	// Supports 判断字体是否能绘制某个字符；为 nil 时不做字形过滤。
	Supports func(rune) bool
	// Replacement 替换无近似字符可用的不支持字符，默认为空（删除）。
	Replacement string
	// KeepMarkdown 为 true 时跳过 markdown 清理，只做字符级处理。
	KeepMarkdown bool
}

// Report 汇总一次清理的改动，供日志使用。
type Report struct {
	LinesDropped  int `json:"linesDropped"`
	RunesReplaced int `json:"runesReplaced"`
	RunesRemoved  int `json:"runesRemoved"`
}

// Sanitizer 可被多个 goroutine 并发使用。
type Sanitizer struct {
	md   goldmark.Markdown
	opts Options
}

// New 创建 Sanitizer。
func New(opts Options) *Sanitizer {
	return &Sanitizer{md: goldmark.New(), opts: opts}
}

var (
	bulletPattern  = regexp.MustCompile(`^([*+•●▪◦‣►➢])\s+(.*)$`)
	dashPattern    = regexp.MustCompile(`^(-)\s+(.*)$`)
	orderedPattern = regexp.MustCompile(`^(\d{1,9}[.)])\s+(.*)$`)
	// [LinkedIn]: linkedin.com/in/jdoe 在 markdown 中是链接引用定义，不产生文本节点。
	linkRefPattern = regexp.MustCompile(`^\[([^\]]+)\]:\s*(\S.*)$`)
)

// 字体缺字时使用的近似字符。
var fallbacks = map[rune]string{
	'‘': "'", '’': "'", '‚': "'", '‛': "'",
	'“': `"`, '”': `"`, '„': `"`, '‟': `"`,
	'‐': "-", '‑': "-", '‒': "-", '–': "-", '—': "-", '―': "-",
	'●': "•", '▪': "•", '◦': "•", '‣': "•", '►': "•", '➢': "•",
	'✓': "v", '✔': "v",
	'→': "->",
}

const (
	separatorText = "----------------------------------------"
	// 与分类器的分隔线阈值一致，达到该长度的横线行原样保留。
	separatorMinRunes = 20
)

// Clean 返回清理后的文本与改动摘要。
func (s *Sanitizer) Clean(input string) (string, Report) {
	var rep Report
	normalized, _, err := transform.String(transform.Chain(norm.NFKC, runes.Remove(runes.Predicate(isStrayControl))), input)
	if err != nil {
		normalized = input
	}
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")

	lines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, "")
			continue
		}
		cleaned := trimmed
		if !s.opts.KeepMarkdown {
			cleaned = s.cleanMarkdown(trimmed)
		}
		cleaned = strings.TrimSpace(s.filterGlyphs(cleaned, &rep))
		if cleaned == "" {
			rep.LinesDropped++
			continue
		}
		out = append(out, cleaned)
	}
	return strings.Join(out, "\n"), rep
}

func isStrayControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t'
}

// cleanMarkdown 处理单行：列表标记自行保留（避免被 markdown 解析吃掉），其余交给 goldmark 取纯文本。
func (s *Sanitizer) cleanMarkdown(line string) string {
	if isDashRun(line) {
		if utf8.RuneCountInString(line) >= separatorMinRunes {
			return line
		}
		return separatorText
	}
	// *、-、_ 组成的主题分隔线（--- / - - - / * * *）要先于列表标记判断。
	if s.isThematicBreak(line) {
		return separatorText
	}
	if m := linkRefPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]) + ": " + strings.TrimSpace(m[2])
	}
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		return "• " + s.inlineText(m[2])
	}
	if m := dashPattern.FindStringSubmatch(line); m != nil {
		return "- " + s.inlineText(m[2])
	}
	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		return m[1] + " " + s.inlineText(m[2])
	}
	return s.inlineText(line)
}

func (s *Sanitizer) isThematicBreak(line string) bool {
	doc := s.md.Parser().Parse(text.NewReader([]byte(line)))
	first := doc.FirstChild()
	return first != nil && first.Kind() == ast.KindThematicBreak
}

// inlineText 解析一行 markdown 并拼接其中的文本节点。
// 解析结果没有文本时（代码围栏、HTML 块等）保留原行，不丢内容。
func (s *Sanitizer) inlineText(line string) string {
	src := []byte(line)
	doc := s.md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// [label](url) 保留链接地址，简历里的作品集链接不能丢。
			if link, ok := n.(*ast.Link); ok {
				dest := string(link.Destination)
				if dest != "" && !strings.Contains(b.String(), dest) {
					b.WriteString(" (" + dest + ")")
				}
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(resolve(node.Segment.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if out := strings.TrimSpace(b.String()); out != "" {
		return out
	}
	return strings.TrimSpace(line)
}

func resolve(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

func (s *Sanitizer) filterGlyphs(line string, rep *Report) string {
	if s.opts.Supports == nil {
		return line
	}
	var b strings.Builder
	for _, r := range line {
		if unicode.IsSpace(r) || s.opts.Supports(r) {
			b.WriteRune(r)
			continue
		}
		if alt, ok := fallbacks[r]; ok && s.supportsAll(alt) {
			b.WriteString(alt)
			rep.RunesReplaced++
			continue
		}
		if s.opts.Replacement != "" {
			b.WriteString(s.opts.Replacement)
			rep.RunesReplaced++
			continue
		}
		rep.RunesRemoved++
	}
	return b.String()
}

func (s *Sanitizer) supportsAll(v string) bool {
	for _, r := range v {
		if !s.opts.Supports(r) {
			return false
		}
	}
	return true
}

func isDashRun(line string) bool {
	for _, r := range line {
		switch r {
		case '-', '‐', '‒', '–', '—', '―', '─', '━':
		default:
			return false
		}
	}
	return true
}
