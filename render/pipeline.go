// Package render 将商品填入 SVG 模板并栅格化为标签图像，结果按内容指纹缓存。
package render

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ByLCY/etiqueta/binding"
	"github.com/ByLCY/etiqueta/cache"
	"github.com/ByLCY/etiqueta/logging"
	"github.com/ByLCY/etiqueta/product"
	"github.com/ByLCY/etiqueta/svgdoc"
	"github.com/ByLCY/etiqueta/textfit"
)

// ErrRasterize 包装栅格化阶段的失败。
var ErrRasterize = errors.New("render: 栅格化失败")

const (
	// DefaultTargetWidth 是栅格图的目标像素宽度。
	DefaultTargetWidth = 2200
	// DefaultCacheSize 是渲染缓存的默认容量。
	DefaultCacheSize = 250
)

// 模板中约定的槽位 id。
const (
	SlotName     = "nombre_producto"
	SlotBefore   = "precio_antes"
	SlotNow      = "precio_ahora"
	SlotQuota    = "cuota_semanal"
	SlotValidity = "fecha_vigencia"
)

// PrintedAtSlots 是打印时间槽位的候选 id，按顺序取第一个存在的。
var PrintedAtSlots = []string{"Fecha_impresion", "fecha_impresion", "FECHA_IMPRESION"}

// TemplateSource 按模板标识返回已清理的 SVG 文本。
type TemplateSource interface {
	Load(id string) (string, error)
}

// Rasterizer 将 SVG 标记转换为位图。
type Rasterizer interface {
	// Rasterize 以 width 像素宽度栅格化，高度按 viewBox 比例计算。
	Rasterize(markup string, width int) (image.Image, error)
	// Rotate90 顺时针旋转 90°。
	Rotate90(img image.Image) image.Image
}

// FontSource 提供文字度量用的字体。size 与返回 Face 的宽度都使用 SVG 用户单位。
type FontSource interface {
	Face(size float64, bold bool) textfit.Face
}

// Output 是一个商品的渲染结果。
type Output struct {
	Fingerprint Fingerprint
	Normal      image.Image // 原始方向
	Rotated     image.Image // 顺时针旋转 90°
	Markup      string      // 填充后的 SVG
}

// Options 配置渲染管线。
type Options struct {
	TargetWidth int
	LineHeight  float64
	// Now 用于缺省打印时间，为空时使用 time.Now。
	Now func() time.Time
}

// Pipeline 串联模板加载、填充、文字排版、栅格化与缓存。
// 缓存可与其他 goroutine 共享；相同指纹的并发渲染结果相同，后写入者覆盖。
type Pipeline struct {
	templates TemplateSource
	raster    Rasterizer
	fonts     FontSource
	cache     *cache.LRU[Fingerprint, *Output]
	opts      Options
}

// NewPipeline 创建渲染管线。renders 为 nil 时创建默认容量的缓存。
func NewPipeline(templates TemplateSource, raster Rasterizer, fonts FontSource, renders *cache.LRU[Fingerprint, *Output], opts Options) *Pipeline {
	if opts.TargetWidth <= 0 {
		opts.TargetWidth = DefaultTargetWidth
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = textfit.DefaultLineHeight
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if renders == nil {
		renders = cache.New[Fingerprint, *Output](DefaultCacheSize)
	}
	return &Pipeline{
		templates: templates,
		raster:    raster,
		fonts:     fonts,
		cache:     renders,
		opts:      opts,
	}
}

// Cache 返回渲染缓存。
func (p *Pipeline) Cache() *cache.LRU[Fingerprint, *Output] { return p.cache }

// Render 返回商品的渲染结果；命中缓存时返回同一个 *Output。
// 任一步骤失败都不会写入缓存。
func (p *Pipeline) Render(prod *product.Product) (*Output, error) {
	if prod == nil {
		return nil, errors.New("商品为空")
	}
	fp := FingerprintOf(prod)
	if out, ok := p.cache.Get(fp); ok {
		return out, nil
	}

	markup, err := p.Instantiate(prod)
	if err != nil {
		return nil, err
	}
	normal, err := p.raster.Rasterize(markup, p.opts.TargetWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: 模板 %s: %v", ErrRasterize, prod.Template, err)
	}
	out := &Output{
		Fingerprint: fp,
		Normal:      normal,
		Rotated:     p.raster.Rotate90(normal),
		Markup:      markup,
	}
	p.cache.Set(fp, out)
	logging.Logger().Debug("标签已渲染", "template", prod.Template, "name", fp.Name, "width", normal.Bounds().Dx())
	return out, nil
}

// Instantiate 加载模板并填入商品内容，返回可直接栅格化的 SVG 标记。
func (p *Pipeline) Instantiate(prod *product.Product) (string, error) {
	text, err := p.templates.Load(prod.Template)
	if err != nil {
		return "", fmt.Errorf("加载模板 %s 失败: %w", prod.Template, err)
	}
	doc, err := svgdoc.Parse(text)
	if err != nil {
		return "", fmt.Errorf("模板 %s: %w", prod.Template, err)
	}

	if el := doc.ByID(SlotName); el != nil {
		p.fitName(doc, el, strings.ToUpper(strings.TrimSpace(prod.Name)))
	} else {
		logging.Logger().Warn("模板缺少名称槽位", "template", prod.Template, "id", SlotName)
	}

	svgdoc.SetText(doc.ByID(SlotBefore), FormatPrice(prod.Before))
	svgdoc.SetText(doc.ByID(SlotNow), FormatPrice(prod.Now))
	svgdoc.SetText(doc.ByID(SlotQuota), FormatPrice(prod.Quota))

	values := binding.Values{}
	validity := doc.ByID(SlotValidity)
	if prod.UseValidity && !prod.ValidFrom.IsZero() && !prod.ValidTo.IsZero() {
		txt := FormatValidity(prod.ValidFrom, prod.ValidTo)
		svgdoc.SetText(validity, txt)
		values["Fecha_vigencia"] = txt
	} else {
		svgdoc.ClearText(validity)
		values["Fecha_vigencia"] = ""
	}

	printed := strings.TrimSpace(prod.PrintedAt)
	if printed == "" {
		printed = p.opts.Now().Format(product.PrintedAtLayout)
	}
	svgdoc.SetText(doc.FirstByID(PrintedAtSlots...), printed)
	values.Set(printed, PrintedAtSlots...)
	binding.Apply(doc, values)

	return doc.String()
}

// fitName 将名称折行写入名称槽位。
func (p *Pipeline) fitName(doc *svgdoc.Document, el *html.Node, name string) {
	if name == "" {
		svgdoc.ClearText(el)
		return
	}
	box := NameBox(doc)
	size := svgdoc.FontSize(el)
	face := p.fonts.Face(size, svgdoc.IsBold(el))
	fitted := textfit.Fit(name, box, face, p.opts.LineHeight)

	cx, cy := box.Center()
	lines := make([]svgdoc.TextLine, len(fitted.Lines))
	for i, ln := range fitted.Lines {
		lines[i] = svgdoc.TextLine{Text: ln.Text, X: cx, Y: cy + ln.Offset*size}
	}
	svgdoc.SetLines(el, cx, cy, lines)
}

// NameBox 返回名称的排版框：优先使用 #box_nombre_producto 矩形，
// 否则取 viewBox 宽度的 85%（水平居中）、从 18% 高度处开始的 18% 高度带。
func NameBox(doc *svgdoc.Document) textfit.Box {
	if x, y, w, h, ok := svgdoc.RectBox(doc.ByID("box_" + SlotName)); ok {
		return textfit.Box{X: x, Y: y, Width: w, Height: h}
	}
	vb := doc.ViewBox()
	w := vb.W * 0.85
	h := vb.H * 0.18
	return textfit.Box{X: vb.X + (vb.W-w)/2, Y: vb.Y + vb.H*0.18, Width: w, Height: h}
}
