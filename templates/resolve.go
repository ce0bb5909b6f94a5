package templates

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases 以规范化后的名称（小写、无重音）为键。
var aliases = map[string]string{
	"promocion":    "promocion1.svg",
	"normal":       "normal1.svg",
	"liquidacion":  "liquidacion1.svg",
	"oferta":       "oferta1.svg",
	"promocion1":   "promocion1.svg",
	"normal1":      "normal1.svg",
	"liquidacion1": "liquidacion1.svg",
	"oferta1":      "oferta1.svg",
}

// Resolve 将人工输入的模板名（如 "Promoción"、"OFERTA 1"、"normal1.svg"）解析为模板标识。
// 依次尝试：内置别名、允许列表中的精确匹配、去掉扩展名与空白后的匹配、只保留字母数字后的匹配。
func (s *Store) Resolve(name string) (string, bool) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return "", false
	}
	key := normalize(raw)
	if id, ok := aliases[key]; ok {
		return id, true
	}
	for _, id := range s.allowed {
		if normalize(id) == key {
			return id, true
		}
	}
	base := baseName(raw)
	for _, id := range s.allowed {
		if baseName(id) == base {
			return id, true
		}
	}
	loose := alnum(key)
	for _, id := range s.allowed {
		if alnum(baseName(id)) == loose {
			return id, true
		}
	}
	return "", false
}

// normalize 去掉重音、转小写并折叠空白。
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

func baseName(s string) string {
	s = strings.TrimSuffix(s, path.Ext(s))
	return strings.Join(strings.Fields(normalize(s)), "")
}

func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}
