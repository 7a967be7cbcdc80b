package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/cvpress/metrics"
)

// Wrap 使用贪心算法将 text 折成宽度不超过 maxWidthPt 的若干行。
// 单个词本身超宽时独占一行原样输出，不在词内断开。
func Wrap(text string, font metrics.FontRef, sizePt, maxWidthPt float64, m Measurer) ([]WrappedLine, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	lines := make([]WrappedLine, 0, 1)
	current := ""
	currentWidth := 0.0
	for _, token := range tokens {
		candidate := token
		if current != "" {
			candidate = current + " " + token
		}
		width, err := m.Width(candidate, font, sizePt)
		if err != nil {
			return nil, &RenderError{Op: "measure", Err: err}
		}
		if width > maxWidthPt && current != "" {
			lines = append(lines, WrappedLine{Text: current, WidthPt: currentWidth})
			current = token
			currentWidth, err = m.Width(token, font, sizePt)
			if err != nil {
				return nil, &RenderError{Op: "measure", Err: err}
			}
			continue
		}
		current = candidate
		currentWidth = width
	}
	if current != "" {
		lines = append(lines, WrappedLine{Text: current, WidthPt: currentWidth})
	}
	return lines, nil
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
