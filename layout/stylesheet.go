package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/cvpress/dsl"
	"github.com/ByLCY/cvpress/metrics"
)

// ApplySheet 在 base 的基础上叠加样式表中的覆盖项，并返回扩展了额外标题的分类器。
// base 与 classifier 本身不会被修改。
func ApplySheet(base StyleTable, classifier *Classifier, sheet *dsl.Sheet) (StyleTable, *Classifier, error) {
	if base == nil {
		base = DefaultStyles()
	}
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	styles := base.Clone()
	if sheet == nil {
		return styles, classifier, nil
	}
	for _, block := range sheet.Styles() {
		role, err := ParseRole(block.Role)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", block.Pos, err)
		}
		rule := styles[role]
		for _, prop := range block.Props {
			if err := applyProperty(&rule, prop.Key, prop.Value.Text()); err != nil {
				return nil, nil, fmt.Errorf("%s: style %s: %w", prop.Pos, role, err)
			}
		}
		styles[role] = rule
	}
	if err := styles.Validate(); err != nil {
		return nil, nil, err
	}
	if titles := sheet.HeadingTitles(); len(titles) > 0 {
		classifier = classifier.WithHeadings(titles...)
	}
	return styles, classifier, nil
}

func applyProperty(rule *StyleRule, key, value string) error {
	switch strings.ToLower(key) {
	case "font":
		ref, err := metrics.ParseFontRef(value)
		if err != nil {
			return err
		}
		rule.Font = ref
	case "size":
		return setLength(&rule.SizePt, value)
	case "color":
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		rule.Color = c
	case "space-before":
		return setLength(&rule.SpacingBeforePt, value)
	case "space-after":
		return setLength(&rule.SpacingAfterPt, value)
	case "prose-space-after":
		return setLength(&rule.ProseSpacingAfterPt, value)
	case "line-height":
		f, err := ParseLineHeight(value, rule.SizePt)
		if err != nil {
			return err
		}
		rule.LineHeightFactor = f
	case "rule":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("rule 需要 true/false: %w", err)
		}
		rule.Rule = b
	case "rule-color":
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		rule.RuleColor = c
	case "rule-width":
		return setLength(&rule.RuleWidthPt, value)
	default:
		return fmt.Errorf("未知属性 %q", key)
	}
	return nil
}

func setLength(dst *float64, value string) error {
	l, err := ParseLength(value)
	if err != nil {
		return err
	}
	*dst = l.ToPT()
	return nil
}

// ParseColor 解析 #RGB / #RRGGBB / #RRGGBBAA（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	case 8:
		v = v[:6]
	default:
		return Color{}, fmt.Errorf("无法解析颜色 %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xFF), G: int(n >> 8 & 0xFF), B: int(n & 0xFF)}, nil
}
