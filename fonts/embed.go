package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称，与 metrics.FontRef 的取值一一对应。
const (
	Regular = "regular"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
}

// Load 返回内置字体的 TTF 字节数据，name 可写为 "embed:bold" 或直接 "bold"。
// 返回的切片为只读共享数据，调用方不得修改。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未定义", name)
	}
	return data, nil
}

// Names 列出全部内置字体名称。
func Names() []string {
	return []string{Regular, Bold}
}
