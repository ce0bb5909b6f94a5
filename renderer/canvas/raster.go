package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ByLCY/etiqueta/render"
	"github.com/ByLCY/etiqueta/svgdoc"
)

var _ render.Rasterizer = (*Rasterizer)(nil)

// Rasterizer 栅格化 SVG：图形交给 canvas 的 SVG 解析器，
// 文字则用与 Fonts 度量时相同的字体族绘制。
type Rasterizer struct {
	fonts *Fonts
}

// NewRasterizer creates a canvas-based rasterizer drawing text with fonts.
func NewRasterizer(fonts *Fonts) *Rasterizer { return &Rasterizer{fonts: fonts} }

// Rasterize 将 SVG 栅格化为宽 width 像素的图像，高度按原始比例。
// canvas 内部的 panic 会被转换为错误。
func (r *Rasterizer) Rasterize(markup string, width int) (img image.Image, err error) {
	if width <= 0 {
		return nil, fmt.Errorf("目标宽度无效: %d", width)
	}
	if r.fonts == nil {
		return nil, errors.New("栅格化器缺少字体")
	}
	doc, err := svgdoc.Parse(markup)
	if err != nil {
		return nil, err
	}
	runs := doc.TextRuns()
	doc.RemoveText()
	vb := doc.ViewBox()
	if _, ok := svgdoc.Attr(doc.Root(), "viewBox"); ok {
		// canvas 只接受以空格分隔的 viewBox
		svgdoc.SetAttr(doc.Root(), "viewBox", strings.Join([]string{num(vb.X), num(vb.Y), num(vb.W), num(vb.H)}, " "))
	}
	shapes, err := doc.String()
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			img, err = nil, fmt.Errorf("canvas 栅格化失败: %v", rec)
		}
	}()
	c, err := canvas.ParseSVG(strings.NewReader(shapes))
	if err != nil {
		return nil, fmt.Errorf("解析 SVG 失败: %w", err)
	}
	if c.W <= 0 || c.H <= 0 {
		return nil, fmt.Errorf("SVG 尺寸无效: %gx%g", c.W, c.H)
	}

	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetView(userView(c, vb))

	// 字体族的字形缓存不是并发安全的，绘制与栅格化都在锁内完成
	r.fonts.mu.Lock()
	defer r.fonts.mu.Unlock()
	if err := r.drawRuns(ctx, runs); err != nil {
		return nil, err
	}
	dpmm := float64(width) / c.W
	return rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace), nil
}

// Rotate90 顺时针旋转 90°：源像素 (x, y) 落到 (h-1-y, x)。
func (r *Rasterizer) Rotate90(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	s2d := f64.Aff3{
		0, -1, float64(h + b.Min.Y),
		1, 0, float64(-b.Min.X),
	}
	draw.NearestNeighbor.Transform(dst, s2d, img, b, draw.Src, nil)
	return dst
}

// userView 把用户坐标映射到画布毫米，与 canvas 解析 viewBox 时的换算保持一致。
func userView(c *canvas.Canvas, vb svgdoc.ViewBox) canvas.Matrix {
	sx, sy := c.W/vb.W, c.H/vb.H
	if w, h := vb.W-vb.X, vb.H-vb.Y; w > 0 && h > 0 {
		sx, sy = c.W/w, c.H/h
	}
	return canvas.Identity.Scale(sx, sy).Translate(-vb.X, -vb.Y)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
