package layout

import (
	"fmt"

	"github.com/ByLCY/cvpress/metrics"
)

const defaultLineHeightFactor = 1.2

// StyleRule 描述某一角色的字体、颜色与前后间距。
type StyleRule struct {
	Font             metrics.FontRef `json:"font"`
	SizePt           float64         `json:"size"`
	Color            Color           `json:"color"`
	SpacingBeforePt  float64         `json:"spacingBefore"`
	SpacingAfterPt   float64         `json:"spacingAfter"`
	LineHeightFactor float64         `json:"lineHeightFactor"`
	// ProseSpacingAfterPt 用于超过 ProseThreshold 的正文行，<=0 时沿用 SpacingAfterPt。
	ProseSpacingAfterPt float64 `json:"proseSpacingAfter,omitempty"`
	// 仅对分隔线有效：是否绘制一条细线。
	Rule        bool    `json:"rule,omitempty"`
	RuleColor   Color   `json:"ruleColor,omitempty"`
	RuleWidthPt float64 `json:"ruleWidth,omitempty"`
}

// LineHeight 返回行高（pt）。
func (s StyleRule) LineHeight() float64 {
	f := s.LineHeightFactor
	if f <= 0 {
		f = defaultLineHeightFactor
	}
	return s.SizePt * f
}

func (s StyleRule) spacingAfter(role LineRole, text string) float64 {
	if role == RoleBody && s.ProseSpacingAfterPt > 0 && runeLen(text) > ProseThreshold {
		return s.ProseSpacingAfterPt
	}
	return s.SpacingAfterPt
}

// StyleTable 为每个角色给出样式；排版期间只读。
type StyleTable map[LineRole]StyleRule

// DefaultStyles 返回默认样式表：姓名与标题加粗 14pt，联系方式灰色 11pt，列表项 11pt，正文 12pt。
func DefaultStyles() StyleTable {
	black := Color{}
	return StyleTable{
		RoleName: {
			Font: metrics.FontBold, SizePt: 14, Color: black,
			SpacingBeforePt: 5, SpacingAfterPt: 5, LineHeightFactor: defaultLineHeightFactor,
		},
		RoleHeading: {
			Font: metrics.FontBold, SizePt: 14, Color: black,
			SpacingBeforePt: 15, SpacingAfterPt: 5, LineHeightFactor: defaultLineHeightFactor,
		},
		RoleContact: {
			Font: metrics.FontRegular, SizePt: 11, Color: Gray(0.3),
			SpacingAfterPt: 1, LineHeightFactor: defaultLineHeightFactor,
		},
		RoleBullet: {
			Font: metrics.FontRegular, SizePt: 11, Color: black,
			SpacingBeforePt: 8, SpacingAfterPt: 2, LineHeightFactor: defaultLineHeightFactor,
		},
		RoleBody: {
			Font: metrics.FontRegular, SizePt: 12, Color: black,
			SpacingAfterPt: 2, ProseSpacingAfterPt: 4, LineHeightFactor: defaultLineHeightFactor,
		},
		RoleSeparator: {
			Font: metrics.FontRegular, SizePt: 12, Color: Gray(0.5),
			SpacingAfterPt: 15, LineHeightFactor: defaultLineHeightFactor,
			RuleColor: Gray(0.5), RuleWidthPt: 0.5,
		},
	}
}

// Clone 返回样式表的副本。
func (t StyleTable) Clone() StyleTable {
	out := make(StyleTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate 确认每个角色都有可用样式。
func (t StyleTable) Validate() error {
	for _, role := range Roles() {
		rule, ok := t[role]
		if !ok {
			return fmt.Errorf("样式表缺少角色 %s", role)
		}
		if rule.SizePt <= 0 {
			return fmt.Errorf("角色 %s 的字号无效: %g", role, rule.SizePt)
		}
		if rule.SpacingBeforePt < 0 || rule.SpacingAfterPt < 0 {
			return fmt.Errorf("角色 %s 的间距不能为负", role)
		}
	}
	return nil
}

func (t StyleTable) resolve(line ClassifiedLine) StyleRule {
	role := line.Role
	if line.FirstOverall && role != RoleSeparator {
		role = RoleName
	}
	if rule, ok := t[role]; ok {
		return rule
	}
	return t[RoleBody]
}
