package canvasrenderer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/colornames"

	"github.com/ByLCY/etiqueta/layout"
	"github.com/ByLCY/etiqueta/svgdoc"
)

// drawRuns 按用户坐标绘制文字段；调用方需持有 fonts.mu。
func (r *Rasterizer) drawRuns(ctx *canvas.Context, runs []svgdoc.TextRun) error {
	var cursor float64
	for i, run := range runs {
		col, visible := parseFill(run.Fill)
		if !visible || run.FontSize <= 0 {
			continue
		}
		family := r.fonts.regular
		if run.Bold {
			family = r.fonts.bold
		}
		// 字号以用户单位给出，换算为 pt 后字面高度恰为 FontSize 个用户单位
		ff := family.Face(run.FontSize*layout.MmToPt, col, canvas.FontRegular, canvas.FontNormal)

		x, align := run.X, canvas.Left
		switch run.Anchor {
		case "middle":
			align = canvas.Center
		case "end":
			align = canvas.Right
		}
		if run.Follows && i > 0 {
			x, align = cursor, canvas.Left
		}
		width := ff.TextWidth(run.Text)
		switch align {
		case canvas.Center:
			cursor = x + width/2
		case canvas.Right:
			cursor = x
		default:
			cursor = x + width
		}

		ctx.Push()
		for _, t := range run.Transforms {
			m, err := parseTransform(t)
			if err != nil {
				ctx.Pop()
				return err
			}
			ctx.ComposeView(m)
		}
		ctx.DrawText(x, run.Y, canvas.NewTextLine(ff, run.Text, align))
		ctx.Pop()
	}
	return nil
}

// parseFill 解析文字颜色；none 与 transparent 返回不可见。
// 未声明、url(...) 引用及无法识别的值按黑色处理。
func parseFill(v string) (color.RGBA, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "":
		return canvas.Black, true
	case v == "none", v == "transparent":
		return canvas.Transparent, false
	case strings.HasPrefix(v, "#"):
		return canvas.Hex(v), true
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		parts := strings.Split(v[4:len(v)-1], ",")
		if len(parts) != 3 {
			return canvas.Black, true
		}
		var rgb [3]uint8
		for i, p := range parts {
			rgb[i] = colorComponent(p)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
	}
	if c, ok := colornames.Map[v]; ok {
		return c, true
	}
	return canvas.Black, true
}

func colorComponent(s string) uint8 {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0
	}
	if pct {
		f = f * 255 / 100
	}
	switch {
	case f < 0:
		return 0
	case f > 255:
		return 255
	}
	return uint8(f + 0.5)
}

// parseTransform 解析 SVG transform 列表（matrix、translate、scale、rotate），
// 从左到右复合；skewX/skewY 被忽略。
func parseTransform(v string) (canvas.Matrix, error) {
	m := canvas.Identity
	rest := strings.TrimSpace(v)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open < 0 || closing < open {
			return m, fmt.Errorf("transform 无效: %q", v)
		}
		fn := strings.ToLower(strings.Trim(rest[:open], " \t\n,"))
		args, err := transformArgs(rest[open+1 : closing])
		if err != nil {
			return m, fmt.Errorf("transform %s: %w", fn, err)
		}
		switch {
		case fn == "matrix" && len(args) == 6:
			m = m.Mul(canvas.Matrix{{args[0], args[2], args[4]}, {args[1], args[3], args[5]}})
		case fn == "translate" && len(args) == 1:
			m = m.Translate(args[0], 0)
		case fn == "translate" && len(args) == 2:
			m = m.Translate(args[0], args[1])
		case fn == "scale" && len(args) == 1:
			m = m.Scale(args[0], args[0])
		case fn == "scale" && len(args) == 2:
			m = m.Scale(args[0], args[1])
		case fn == "rotate" && len(args) == 1:
			m = m.Rotate(args[0])
		case fn == "rotate" && len(args) == 3:
			m = m.RotateAbout(args[0], args[1], args[2])
		case fn == "skewx" || fn == "skewy":
		default:
			return m, fmt.Errorf("transform 无效: %q", v)
		}
		rest = strings.TrimSpace(rest[closing+1:])
	}
	return m, nil
}

func transformArgs(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
