package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultName 是未指定字体或字体加载失败时使用的内置字体。
const DefaultName = "goregular"

// ErrUnknownBuiltin 表示 builtin: 引用了不存在的内置字体。
var ErrUnknownBuiltin = errors.New("fonts: unknown builtin font")

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
	"gomonobold":   gomonobold.TTF,
}

// Builtin 返回内置字体的 TTF 数据。
func Builtin(name string) ([]byte, bool) {
	data, ok := builtin[strings.ToLower(name)]
	return data, ok
}

// Names 返回全部内置字体名（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin 判断 src 是否为 builtin:<name> / built-in:<name> 形式。
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:")
}

// Load 读取字体数据。src 可写为 "builtin:goregular"，或相对 baseDir 的文件路径；
// src 为空时返回默认内置字体。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		return builtin[DefaultName], nil
	}
	if IsBuiltin(src) {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		data, ok := Builtin(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s (可用: %s)", ErrUnknownBuiltin, name, strings.Join(Names(), ", "))
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}
