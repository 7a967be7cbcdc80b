package renderer

import "github.com/ByLCY/cvpress/layout"

// Renderer 将排版结果编码为最终文件（目前为 PDF）。
// 实现必须只绘制 Result 中已定位的指令，不得重新排版。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
