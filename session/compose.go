package session

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/etiqueta/cache"
	"github.com/ByLCY/etiqueta/layout"
	"github.com/ByLCY/etiqueta/logging"
	"github.com/ByLCY/etiqueta/product"
	"github.com/ByLCY/etiqueta/render"
)

// Rendered 关联一个商品与它的渲染结果。
type Rendered struct {
	Product *product.Product
	Output  *render.Output
}

// Composition 是一次排版的结果：分页、纸张以及每个不同商品的渲染图像。
type Composition struct {
	Pages []layout.Page
	Paper layout.Paper

	rendered []Rendered
	outputs  map[render.Fingerprint]*render.Output
	dims     *cache.LRU[dimKey, image.Point]
}

// Compose 渲染所有不同内容的商品并排版全部实例。
// 渲染最多由 Render.Workers 个 goroutine 并行执行；任一渲染失败时返回该错误。
func (s *Session) Compose() (*Composition, error) {
	products := s.Products()

	var distinct []*product.Product
	seen := map[render.Fingerprint]bool{}
	for _, p := range products {
		if p.Qty < 1 {
			continue
		}
		fp := render.FingerprintOf(p)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		distinct = append(distinct, p)
	}

	outputs := make([]*render.Output, len(distinct))
	var g errgroup.Group
	g.SetLimit(s.cfg.Render.Workers)
	for i, p := range distinct {
		g.Go(func() error {
			out, err := s.pipeline.Render(p)
			if err != nil {
				return fmt.Errorf("渲染商品 %q 失败: %w", p.ID, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comp := &Composition{
		Pages:    layout.Pack(layout.Instances(products)),
		Paper:    s.cfg.Paper,
		rendered: make([]Rendered, len(distinct)),
		outputs:  make(map[render.Fingerprint]*render.Output, len(distinct)),
		dims:     s.dims,
	}
	for i, p := range distinct {
		comp.rendered[i] = Rendered{Product: p, Output: outputs[i]}
		comp.outputs[outputs[i].Fingerprint] = outputs[i]
	}
	logging.Logger().Info("排版完成", "products", len(products), "rendered", len(distinct), "pages", len(comp.Pages))
	return comp, nil
}

// Rendered 按商品顺序返回每个不同内容的渲染结果。
func (c *Composition) Rendered() []Rendered {
	return append([]Rendered(nil), c.rendered...)
}

// Output 返回商品对应的渲染结果。
func (c *Composition) Output(p *product.Product) (*render.Output, bool) {
	if p == nil {
		return nil, false
	}
	out, ok := c.outputs[render.FingerprintOf(p)]
	return out, ok
}

// Image 返回放置结果应绘制的图像及其像素尺寸：半页标签使用旋转后的图像，其余使用原始方向。
// 尺寸经由会话的尺寸缓存获取。
func (c *Composition) Image(pl layout.Placement) (image.Image, image.Point, error) {
	p := pl.Instance.Product
	out, ok := c.Output(p)
	if !ok {
		id := ""
		if p != nil {
			id = p.ID
		}
		return nil, image.Point{}, fmt.Errorf("商品 %q 没有渲染结果", id)
	}

	orient, img := Normal, out.Normal
	if pl.Instance.Size() == product.SizeHalf {
		orient, img = Rotated, out.Rotated
	}
	key := dimKey{fp: out.Fingerprint, orient: orient}
	if d, ok := c.dims.Get(key); ok {
		return img, d, nil
	}
	b := img.Bounds()
	d := image.Point{X: b.Dx(), Y: b.Dy()}
	c.dims.Set(key, d)
	return img, d, nil
}
