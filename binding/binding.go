// Package binding 负责模板文字中的占位符替换，例如 [Fecha_vigencia]。
package binding

import (
	"regexp"
	"strings"

	"github.com/ByLCY/etiqueta/svgdoc"
)

var tokenPattern = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// Values 将占位符名称（不含方括号）映射到替换文本。名称区分大小写。
type Values map[string]string

// Set 为多个名称设置同一个值，用于同一占位符的多种写法。
func (v Values) Set(value string, names ...string) {
	for _, name := range names {
		v[name] = value
	}
}

// Interpolate 将文本中的 [Name] 替换为 values 中的值。
// 名称不存在时保留原占位符。
func Interpolate(text string, values Values) string {
	if len(values) == 0 || !strings.Contains(text, "[") {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := tokenPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if val, ok := values[groups[1]]; ok {
			return val
		}
		return match
	})
}

// Apply 在文档的所有文本节点上执行 Interpolate。
func Apply(doc *svgdoc.Document, values Values) {
	if doc == nil || len(values) == 0 {
		return
	}
	doc.MapText(func(s string) string { return Interpolate(s, values) })
}
