package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe helpers for stylesheet lengths. The layout engine works in points.

// Unit represents the original unit of a length value as written in a stylesheet.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT converts the length to points. Unit-less values are taken as points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ParseLength parses strings such as "14pt", "5mm", "0.5in" or "12".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseLineHeight parses "1.2x" / "1.2" as a factor of the font size, or an absolute length such as "16pt".
// It returns the factor relative to sizePt.
func ParseLineHeight(value string, sizePt float64) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil {
		if f <= 0 {
			return 0, fmt.Errorf("行高倍数必须为正: %q", value)
		}
		return f, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	if sizePt <= 0 || l.ToPT() <= 0 {
		return 0, fmt.Errorf("无法根据字号 %g 换算行高 %q", sizePt, value)
	}
	return l.ToPT() / sizePt, nil
}
