package metrics

import (
	"fmt"

	"github.com/ByLCY/cvpress/fonts"
)

// Registry 按 FontRef 保存字体度量。
// 所有 Register 调用必须在首次查询之前完成，之后 Registry 只读，可并发使用。
type Registry struct {
	faces map[FontRef]*Metrics
}

// NewRegistry 创建空的 Registry。
func NewRegistry() *Registry {
	return &Registry{faces: map[FontRef]*Metrics{}}
}

// LoadBuiltin 加载 fonts 包内置的全部字体，字体名即 FontRef。
func LoadBuiltin() (*Registry, error) {
	reg := NewRegistry()
	for _, name := range fonts.Names() {
		data, err := fonts.Load(name)
		if err != nil {
			return nil, err
		}
		m, err := Parse(name, data)
		if err != nil {
			return nil, err
		}
		reg.Register(FontRef(name), m)
	}
	return reg, nil
}

// Register 绑定 ref 与度量表，同名覆盖。
func (r *Registry) Register(ref FontRef, m *Metrics) {
	r.faces[ref] = m
}

// Face 返回 ref 对应的度量表。
func (r *Registry) Face(ref FontRef) (*Metrics, error) {
	if r == nil {
		return nil, fmt.Errorf("字体度量未初始化")
	}
	m, ok := r.faces[ref]
	if !ok {
		return nil, fmt.Errorf("字体 %s 未加载", ref)
	}
	return m, nil
}

// Width 测量 text 在指定字体与字号下的宽度（pt）。
func (r *Registry) Width(text string, font FontRef, sizePt float64) (float64, error) {
	m, err := r.Face(font)
	if err != nil {
		return 0, err
	}
	return m.Width(text, sizePt), nil
}

// Supports 报告所有已加载字体是否都包含 ch 的字形。
func (r *Registry) Supports(ch rune) bool {
	if r == nil || len(r.faces) == 0 {
		return false
	}
	for _, m := range r.faces {
		if !m.HasGlyph(ch) {
			return false
		}
	}
	return true
}

// Len 返回已注册的字体数量。
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.faces)
}
