package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDocument 表示传入的文档为空。
	ErrNilDocument = errors.New("layout: 文档为空")
	// ErrNoTypesetter 表示 BuildOptions 缺少排版后端。
	ErrNoTypesetter = errors.New("layout: 缺少排版后端 Typesetter")
	// ErrNoPage 表示文档中没有 page 段落。
	ErrNoPage = errors.New("layout: 文档中缺少 page 段落")
)

// UnknownFontError 表示段落引用了未在 resources 中声明的字体。
type UnknownFontError struct {
	Name string
}

func (e *UnknownFontError) Error() string {
	return fmt.Sprintf("layout: 未声明的字体 %q", e.Name)
}
