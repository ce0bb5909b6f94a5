package svgdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// blockedElements 会连同子树一起删除。
var blockedElements = map[string]bool{
	"script":        true,
	"foreignobject": true,
	"iframe":        true,
	"object":        true,
	"embed":         true,
}

var allowedDataImages = []string{
	"data:image/png",
	"data:image/jpeg",
	"data:image/jpg",
	"data:image/webp",
	"data:image/gif",
}

// Sanitize 解析模板并移除不安全内容后重新序列化：
// 脚本及外部内容元素、on* 事件属性、指向 javascript:/http(s): 的链接、
// 非图片的 data: 链接，以及通过 url(...) 引用外部资源的 style 属性。
func Sanitize(markup string) (string, error) {
	doc, err := Parse(markup)
	if err != nil {
		return "", err
	}
	strip(doc.root)
	return doc.String()
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && blockedElements[strings.ToLower(c.Data)] {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
	if n.Type != html.ElementNode {
		return
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if safeAttr(a) {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func safeAttr(a html.Attribute) bool {
	name := strings.ToLower(a.Key)
	value := strings.ToLower(strings.TrimSpace(a.Val))

	if a.Namespace == "" && strings.HasPrefix(name, "on") {
		return false
	}
	if name == "href" {
		if strings.HasPrefix(value, "javascript:") || strings.HasPrefix(value, "http:") || strings.HasPrefix(value, "https:") {
			return false
		}
		if strings.HasPrefix(value, "data:") && !allowedDataImage(value) {
			return false
		}
	}
	if a.Namespace == "" && name == "style" && strings.Contains(value, "url(") {
		if strings.Contains(value, "http") || strings.Contains(value, "javascript") || strings.Contains(value, "data:") {
			return false
		}
	}
	return true
}

func allowedDataImage(value string) bool {
	for _, prefix := range allowedDataImages {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
