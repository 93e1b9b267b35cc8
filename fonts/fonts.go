// Package fonts resolves font sources to raw TrueType/OpenType bytes.
package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbedPrefix 标记内置字体，例如 "embed:go-bold"。
const EmbedPrefix = "embed:"

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-medium":  gomedium.TTF,
	"go-italic":  goitalic.TTF,
}

// IsEmbedded 判断字体来源是否指向内置字体。
func IsEmbedded(src string) bool {
	return strings.HasPrefix(src, EmbedPrefix)
}

// Builtin 返回全部内置字体名称，按字母排序。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体字节数据。src 可写为 "embed:go-regular" 这样的内置字体，或磁盘上的 .ttf/.otf 路径。
func Load(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体路径为空")
	}
	if IsEmbedded(src) {
		name := strings.TrimPrefix(src, EmbedPrefix)
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("未知的内置字体 %s，可选: %s", name, strings.Join(Builtin(), ", "))
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
