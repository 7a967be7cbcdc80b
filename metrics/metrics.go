// Package metrics 提供字形度量：按字体与字号查询每个字符的前进宽度，用于在不实际渲染的情况下测量文本宽度。
//
// 字体表在进程启动时一次性加载，之后只读，可被多个并发的排版任务共享。
package metrics

import (
	"fmt"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontRef 是样式表中引用字体的名称。
type FontRef string

const (
	FontRegular FontRef = "regular"
	FontBold    FontRef = "bold"
)

// ParseFontRef 将样式表中的字体名解析为 FontRef。
func ParseFontRef(value string) (FontRef, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "regular", "normal", "":
		return FontRegular, nil
	case "bold":
		return FontBold, nil
	default:
		return "", fmt.Errorf("未知字体 %q（仅支持 regular|bold）", value)
	}
}

// 预先计算宽度的 Unicode 区间。区间之外的字符按 .notdef 处理。
var tableRanges = [][2]rune{
	{0x0020, 0x007E}, // Basic Latin
	{0x00A0, 0x024F}, // Latin-1 Supplement, Latin Extended-A/B
	{0x0370, 0x03FF}, // Greek
	{0x0400, 0x04FF}, // Cyrillic
	{0x2000, 0x206F}, // General Punctuation
	{0x20A0, 0x20CF}, // Currency Symbols
	{0x2100, 0x215F}, // Letterlike Symbols
	{0x2190, 0x21FF}, // Arrows
	{0x2500, 0x25FF}, // Box Drawing, Block Elements, Geometric Shapes
}

// Metrics 保存单个字体的前进宽度表，单位为 1/1000 em。
type Metrics struct {
	widths map[rune]float64
	notdef float64
}

// Parse 解析 TrueType/OpenType 字体数据并生成宽度表。
func Parse(name string, data []byte) (*Metrics, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("字体 %s 数据为空", name)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	unitsPerEm := f.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("字体 %s 的 unitsPerEm 无效", name)
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm) << 6

	m := &Metrics{widths: make(map[rune]float64, 1024)}

	notdef, err := f.GlyphAdvance(buf, 0, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 的 .notdef 宽度失败: %w", name, err)
	}
	m.notdef = scaleFixed(notdef, unitsPerEm)

	for _, rg := range tableRanges {
		for r := rg[0]; r <= rg[1]; r++ {
			idx, err := f.GlyphIndex(buf, r)
			if err != nil {
				return nil, fmt.Errorf("查询字体 %s 字符 %U 失败: %w", name, r, err)
			}
			if idx == 0 {
				continue
			}
			adv, err := f.GlyphAdvance(buf, idx, ppem, xfont.HintingNone)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s 字符 %U 宽度失败: %w", name, r, err)
			}
			m.widths[r] = scaleFixed(adv, unitsPerEm)
		}
	}
	if len(m.widths) == 0 {
		return nil, fmt.Errorf("字体 %s 不包含任何可用字符", name)
	}
	return m, nil
}

// HasGlyph 报告字体是否为 r 提供了字形。
func (m *Metrics) HasGlyph(r rune) bool {
	_, ok := m.widths[r]
	return ok
}

// Advance 返回 r 的前进宽度（1/1000 em），缺失字形按 .notdef 计。
func (m *Metrics) Advance(r rune) float64 {
	if w, ok := m.widths[r]; ok {
		return w
	}
	return m.notdef
}

// Width 返回 text 在 sizePt 字号下的宽度（pt）。不考虑字距调整。
func (m *Metrics) Width(text string, sizePt float64) float64 {
	total := 0.0
	for _, r := range text {
		total += m.Advance(r)
	}
	return total * sizePt / 1000
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
