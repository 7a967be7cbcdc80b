package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput 表示输入文本为空或仅包含空白。
	ErrEmptyInput = errors.New("输入文本为空")
	// ErrInputTooLarge 表示输入超出调用方设置的大小限制。
	ErrInputTooLarge = errors.New("输入文本过大")
)

// InputError 在进入排版引擎之前拒绝非法输入。
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "输入无效: " + e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// RenderError 表示排版过程中的致命错误（目前只可能是字体度量失败），整次排版作废。
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("排版失败（%s）: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
