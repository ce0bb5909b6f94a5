package svgdoc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// DefaultFontSize 是找不到字号声明时使用的字号（用户单位）。
const DefaultFontSize = 16.0

// FontSize 返回元素的字号：依次检查自身及祖先的 font-size 属性与 style 声明。
func FontSize(n *html.Node) float64 {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if v, ok := Attr(cur, "font-size"); ok {
			if f := leadingFloat(v); f > 0 {
				return f
			}
		}
		if v, ok := styleValue(cur, "font-size"); ok {
			if f := leadingFloat(v); f > 0 {
				return f
			}
		}
	}
	return DefaultFontSize
}

// IsBold 判断元素（含继承）是否使用粗体。
func IsBold(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		v, ok := Attr(cur, "font-weight")
		if !ok {
			v, ok = styleValue(cur, "font-weight")
		}
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "bold", "bolder", "600", "700", "800", "900":
			return true
		default:
			return false
		}
	}
	return false
}

// RectBox 读取 <rect> 的 x/y/width/height；元素不是有效矩形时返回 false。
func RectBox(n *html.Node) (x, y, w, h float64, ok bool) {
	if n == nil || n.Type != html.ElementNode || n.Data != "rect" {
		return 0, 0, 0, 0, false
	}
	x = leadingFloat(attrOr(n, "x"))
	y = leadingFloat(attrOr(n, "y"))
	w = leadingFloat(attrOr(n, "width"))
	h = leadingFloat(attrOr(n, "height"))
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

func styleValue(n *html.Node, prop string) (string, bool) {
	style, ok := Attr(n, "style")
	if !ok {
		return "", false
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// leadingFloat 解析形如 "12"、"12.5px"、"-3e1" 的前导数字，失败返回 0。
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			end++
			continue
		}
		break
	}
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
		end--
	}
	return 0
}
