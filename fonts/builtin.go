package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 为内置字体表，主题中以 builtin:<name> 或 embed:<name> 引用。
var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
	"lmroman":    lmroman10regular.TTF,
}

// Default 是回退字体名。
const Default = "go-regular"

// Load 返回内置字体的字节数据，name 可写为 "builtin:go-regular"、"embed:go-regular" 或直接 "go-regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "embed:")
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", key, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回所有内置字体名，按字母排序。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
