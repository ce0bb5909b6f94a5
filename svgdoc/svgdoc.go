// Package svgdoc 解析、清理并修改 SVG 模板标记。
// 解析基于 golang.org/x/net/html 的外部内容（foreign content）规则，
// 属性名（如 viewBox）与元素名（如 foreignObject）会保持 SVG 的大小写。
package svgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoSVG 表示标记中找不到 <svg> 根元素。
var ErrNoSVG = errors.New("svgdoc: 内容中没有 <svg> 元素")

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// Document 是一份已解析的 SVG，持有 <svg> 根节点。
// 每次 Parse 得到的是独立副本，可以随意修改。
type Document struct {
	root *html.Node
}

// Parse 解析 SVG 标记。标记必须是格式良好的 XML，否则返回 ErrMalformed。
func Parse(markup string) (*Document, error) {
	if err := checkWellFormed(markup); err != nil {
		return nil, err
	}
	tree, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("解析 SVG 失败: %w", err)
	}
	root := findElement(tree, func(n *html.Node) bool { return n.Data == "svg" })
	if root == nil {
		return nil, ErrNoSVG
	}
	return &Document{root: root}, nil
}

// Root 返回 <svg> 节点。
func (d *Document) Root() *html.Node { return d.root }

// ByID 返回 id 等于给定值的第一个元素，找不到时返回 nil。
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return findElement(d.root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// FirstByID 按顺序尝试多个 id，返回第一个存在的元素。
func (d *Document) FirstByID(ids ...string) *html.Node {
	for _, id := range ids {
		if n := d.ByID(id); n != nil {
			return n
		}
	}
	return nil
}

// ViewBox 是 SVG 的用户坐标范围。
type ViewBox struct {
	X, Y, W, H float64
}

// ViewBox 读取 viewBox 属性；缺失或无效时退回 width/height，再退回 1000×1000。
func (d *Document) ViewBox() ViewBox {
	if raw, ok := Attr(d.root, "viewBox"); ok {
		parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
		if len(parts) == 4 {
			var vals [4]float64
			valid := true
			for i, p := range parts {
				v, err := strconv.ParseFloat(p, 64)
				if err != nil {
					valid = false
					break
				}
				vals[i] = v
			}
			if valid && vals[2] > 0 && vals[3] > 0 {
				return ViewBox{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
			}
		}
	}
	w := leadingFloat(attrOr(d.root, "width"))
	h := leadingFloat(attrOr(d.root, "height"))
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 1000
	}
	return ViewBox{W: w, H: h}
}

// String 序列化 <svg> 节点，并补齐 xmlns 与 xmlns:xlink 声明。
func (d *Document) String() (string, error) {
	ensureAttr(d.root, "", "xmlns", svgNamespace)
	ensureAttr(d.root, "xmlns", "xlink", xlinkNamespace)

	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("序列化 SVG 失败: %w", err)
	}
	return buf.String(), nil
}

// MapText 对每个 <tspan> 以及不含 <tspan> 的 <text> 的文本内容应用 fn，
// 仅当 fn 改变了内容时才写回。
func (d *Document) MapText(fn func(string) string) {
	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "tspan":
		case "text":
			if findElement(n, func(c *html.Node) bool { return c != n && c.Data == "tspan" }) != nil {
				return
			}
		default:
			return
		}
		old := TextContent(n)
		if updated := fn(old); updated != old {
			setTextContent(n, updated)
		}
	})
}

// Attr 返回无命名空间属性 key 的值。
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr 设置（或新增）无命名空间属性。
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// TextContent 拼接节点下全部文本。
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

// SetText 写入槽位文本：有 <tspan> 子元素时写入第一个 tspan，否则直接写入元素本身。
// 空白文本等同于 ClearText。el 为 nil 时什么也不做。
func SetText(el *html.Node, txt string) {
	if el == nil {
		return
	}
	if strings.TrimSpace(txt) == "" {
		ClearText(el)
		return
	}
	if ts := findElement(el, func(c *html.Node) bool { return c != el && c.Data == "tspan" }); ts != nil {
		setTextContent(ts, txt)
		return
	}
	setTextContent(el, txt)
}

// ClearText 删除元素的全部子节点。
func ClearText(el *html.Node) {
	if el == nil {
		return
	}
	removeChildren(el)
}

// TextLine 是写入文本元素的一行，坐标为用户坐标。
type TextLine struct {
	Text string
	X, Y float64
}

// SetLines 将 el 改为以 (x, y) 为锚点的居中文本，并以一个 <tspan> 写入每一行。
func SetLines(el *html.Node, x, y float64, lines []TextLine) {
	if el == nil {
		return
	}
	SetAttr(el, "text-anchor", "middle")
	SetAttr(el, "x", formatFloat(x))
	SetAttr(el, "y", formatFloat(y))
	removeChildren(el)
	for _, ln := range lines {
		ts := &html.Node{
			Type:      html.ElementNode,
			Data:      "tspan",
			Namespace: "svg",
			Attr: []html.Attribute{
				{Key: "x", Val: formatFloat(ln.X)},
				{Key: "y", Val: formatFloat(ln.Y)},
			},
		}
		ts.AppendChild(&html.Node{Type: html.TextNode, Data: ln.Text})
		el.AppendChild(ts)
	}
}

func setTextContent(n *html.Node, txt string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: txt})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func ensureAttr(n *html.Node, ns, key, val string) {
	for _, a := range n.Attr {
		if a.Namespace == ns && a.Key == key {
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Namespace: ns, Key: key, Val: val})
}

func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attrOr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
