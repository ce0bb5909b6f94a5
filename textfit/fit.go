// Package textfit 将一段文字折行/截断到固定大小的框内，宽度使用真实字形度量。
package textfit

import (
	"math"
	"strings"
)

// Ellipsis 是截断末行时追加的省略号。
const Ellipsis = "…"

// DefaultLineHeight 是名称槽位使用的行高倍数。
const DefaultLineHeight = 1.10

// Face 提供字体度量：字号与给定字符串的实际渲染宽度（与 Box 同一坐标单位）。
type Face interface {
	Size() float64
	TextWidth(s string) float64
}

// Box 是目标文本框。
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center 返回框的中心点。
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Line 是排好的一行。Offset 是该行基线相对框垂直中心的偏移，单位为字号（em）。
type Line struct {
	Text   string
	Width  float64
	Offset float64
}

// Layout 是 Fit 的结果。
type Layout struct {
	Lines      []Line
	MaxLines   int
	LineHeight float64
	Truncated  bool // 末行被省略号截断
}

// Fit 将 text 按空白分词后贪心折行到 box 中：
//   - 行数上限为 floor(box.Height / (字号 × lineHeight))，至少 1 行；
//   - 追加下一个词会超宽且当前行已有多个词时，该词移到下一行；单个超长词不拆分；
//   - 达到行数上限后丢弃剩余词，末行逐次去掉两个字符并追加省略号，直到宽度不超过 box.Width；
//   - 各行作为整体围绕框的垂直中心居中。
//
// 空文本返回空结果。
func Fit(text string, box Box, face Face, lineHeight float64) Layout {
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}
	out := Layout{LineHeight: lineHeight}

	words := strings.Fields(text)
	if len(words) == 0 || face == nil {
		return out
	}

	maxLines := 1
	if step := face.Size() * lineHeight; step > 0 {
		if n := int(math.Floor(box.Height / step)); n > 1 {
			maxLines = n
		}
	}
	out.MaxLines = maxLines

	var lines []string
	var line []string
	for _, word := range words {
		line = append(line, word)
		if face.TextWidth(strings.Join(line, " ")) > box.Width && len(line) > 1 {
			lines = append(lines, strings.Join(line[:len(line)-1], " "))
			line = []string{word}
			if len(lines) == maxLines {
				break
			}
		}
	}
	if len(lines) < maxLines && len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}

	if len(lines) == maxLines {
		last, cut := truncate(lines[len(lines)-1], box.Width, face)
		lines[len(lines)-1] = last
		out.Truncated = cut
	}

	n := len(lines)
	first := -float64(n-1) * lineHeight / 2
	out.Lines = make([]Line, n)
	for i, s := range lines {
		out.Lines[i] = Line{
			Text:   s,
			Width:  face.TextWidth(s),
			Offset: first + float64(i)*lineHeight,
		}
	}
	return out
}

// truncate 每次去掉末尾两个字符并追加省略号，直到宽度不超过 limit 或只剩一个字符。
func truncate(s string, limit float64, face Face) (string, bool) {
	runes := []rune(s)
	cut := false
	for face.TextWidth(string(runes)) > limit && len(runes) > 1 {
		keep := len(runes) - 2
		if keep < 0 {
			keep = 0
		}
		runes = append(runes[:keep:keep], []rune(Ellipsis)...)
		cut = true
	}
	return string(runes), cut
}
