package svgdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// TextRun 是 <text> 中的一段文字及其解析后的样式，坐标为用户坐标。
type TextRun struct {
	Text     string
	X, Y     float64
	Anchor   string // start、middle 或 end
	FontSize float64
	Bold     bool
	Fill     string // 原始 fill 值，未声明时为空
	// Follows 为 true 时该段没有自己的 x，应紧接在同一 <text> 的上一段之后。
	Follows bool
	// Transforms 是从 <svg> 往下各祖先（含自身所在的 <text>）的 transform 属性。
	Transforms []string
}

// hiddenContainers 中的文字不会被直接绘制。
var hiddenContainers = map[string]bool{
	"defs":     true,
	"clippath": true,
	"mask":     true,
	"symbol":   true,
	"pattern":  true,
	"marker":   true,
}

// TextRuns 收集全部可见 <text> 的文字段：直接文本节点与每个 <tspan> 各成一段，
// 空白段被忽略。
func (d *Document) TextRuns() []TextRun {
	var runs []TextRun
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "text" || hidden(n) {
			return
		}
		runs = append(runs, textRuns(n)...)
	})
	return runs
}

// RemoveText 删除全部 <text> 元素。
func (d *Document) RemoveText() {
	var texts []*html.Node
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "text" {
			texts = append(texts, n)
		}
	})
	for _, n := range texts {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func textRuns(text *html.Node) []TextRun {
	transforms := transformChain(text)
	x, _ := coord(text, "x")
	y, _ := coord(text, "y")

	var runs []TextRun
	first := true
	var visit func(n *html.Node, el *html.Node, x, y float64, follows bool)
	visit = func(n *html.Node, el *html.Node, x, y float64, follows bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				txt := strings.TrimSpace(strings.Join(strings.Fields(c.Data), " "))
				if txt == "" {
					continue
				}
				runs = append(runs, TextRun{
					Text:       txt,
					X:          x,
					Y:          y,
					Anchor:     anchor(el),
					FontSize:   FontSize(el),
					Bold:       IsBold(el),
					Fill:       fill(el),
					Follows:    follows && !first,
					Transforms: transforms,
				})
				first = false
				follows = true
			case c.Type == html.ElementNode && c.Data == "tspan":
				cx, hasX := coord(c, "x")
				cy, hasY := coord(c, "y")
				if !hasX {
					cx = x
				}
				if !hasY {
					cy = y
				}
				visit(c, c, cx, cy, !hasX)
				if hasY {
					y = cy
				}
				follows = true
			}
		}
	}
	visit(text, text, x, y, false)
	return runs
}

func hidden(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hiddenContainers[strings.ToLower(cur.Data)] {
			return true
		}
		if v, ok := inheritedValue(cur, "display"); ok && strings.TrimSpace(v) == "none" {
			return true
		}
	}
	return false
}

func transformChain(n *html.Node) []string {
	var chain []string
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if v, ok := Attr(cur, "transform"); ok && strings.TrimSpace(v) != "" {
			chain = append(chain, v)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func coord(n *html.Node, key string) (float64, bool) {
	v, ok := Attr(n, key)
	if !ok {
		return 0, false
	}
	// 多值坐标列表只取第一个
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return 0, false
	}
	return leadingFloat(fields[0]), true
}

func anchor(n *html.Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := inheritedValue(cur, "text-anchor"); ok {
			switch v = strings.TrimSpace(v); v {
			case "middle", "end":
				return v
			default:
				return "start"
			}
		}
	}
	return "start"
}

func fill(n *html.Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if v, ok := inheritedValue(cur, "fill"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// inheritedValue 读取元素自身的属性或 style 声明。
func inheritedValue(n *html.Node, key string) (string, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}
	if v, ok := styleValue(n, key); ok {
		return v, true
	}
	return Attr(n, key)
}
