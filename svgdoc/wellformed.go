package svgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// ErrMalformed 表示标记不是格式良好的 XML。
var ErrMalformed = errors.New("svgdoc: SVG 不是格式良好的 XML")

// checkWellFormed 逐个词法单元检查标记：标签必须成对且正确嵌套、属性值必须加引号、
// 注释与 CDATA 必须闭合，根元素之外只允许空白。完全没有元素时返回 ErrNoSVG。
func checkWellFormed(markup string) error {
	l := xml.NewLexer(parse.NewInputString(markup))
	var (
		stack []string
		roots int
		inTag bool
		stray bool
	)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			if inTag {
				return fmt.Errorf("%w: 标签未闭合", ErrMalformed)
			}
			if len(stack) > 0 {
				return fmt.Errorf("%w: <%s> 缺少结束标签", ErrMalformed, stack[len(stack)-1])
			}
			if roots == 0 {
				return ErrNoSVG
			}
			return nil
		case xml.StartTagToken:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: 存在多个根元素", ErrMalformed)
				}
				if stray {
					return fmt.Errorf("%w: 根元素之外有文本", ErrMalformed)
				}
			}
			stack = append(stack, string(l.Text()))
			inTag = true
		case xml.StartTagPIToken:
			inTag = true
		case xml.AttributeToken:
			val := l.AttrVal()
			if len(val) < 2 || (val[0] != '"' && val[0] != '\'') || val[len(val)-1] != val[0] {
				return fmt.Errorf("%w: 属性 %s 的值缺少引号", ErrMalformed, l.Text())
			}
		case xml.StartTagCloseToken, xml.StartTagClosePIToken:
			inTag = false
		case xml.StartTagCloseVoidToken:
			inTag = false
			stack = stack[:len(stack)-1]
		case xml.EndTagToken:
			name := string(l.Text())
			if !bytes.HasSuffix(data, []byte(">")) {
				return fmt.Errorf("%w: </%s 未闭合", ErrMalformed, name)
			}
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return fmt.Errorf("%w: 多余或错位的结束标签 </%s>", ErrMalformed, name)
			}
			stack = stack[:len(stack)-1]
		case xml.CommentToken:
			if !bytes.HasSuffix(data, []byte("-->")) {
				return fmt.Errorf("%w: 注释未闭合", ErrMalformed)
			}
		case xml.CDATAToken:
			if !bytes.HasSuffix(data, []byte("]]>")) {
				return fmt.Errorf("%w: CDATA 未闭合", ErrMalformed)
			}
		case xml.TextToken:
			if len(stack) == 0 && len(bytes.TrimSpace(data)) > 0 {
				if roots > 0 {
					return fmt.Errorf("%w: 根元素之外有文本", ErrMalformed)
				}
				stray = true
			}
		}
	}
}
