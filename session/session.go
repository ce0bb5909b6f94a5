// Package session 持有一次编辑会话的状态：商品列表、模板仓库、渲染管线与三个缓存。
package session

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/ByLCY/etiqueta/cache"
	"github.com/ByLCY/etiqueta/config"
	"github.com/ByLCY/etiqueta/logging"
	"github.com/ByLCY/etiqueta/product"
	"github.com/ByLCY/etiqueta/render"
	"github.com/ByLCY/etiqueta/templates"
)

// ErrUnknownProduct 表示按 ID 找不到商品。
var ErrUnknownProduct = errors.New("session: 商品不存在")

// Orientation 区分渲染结果的两个方向。
type Orientation int

const (
	Normal Orientation = iota
	Rotated
)

// dimKey 是尺寸缓存的键：同一指纹的两个方向各占一项。
type dimKey struct {
	fp     render.Fingerprint
	orient Orientation
}

// Session 是组合引擎的根对象。商品列表的修改需由调用方串行进行；
// Compose 期间商品被视为只读。
type Session struct {
	cfg       config.Config
	templates *templates.Store
	pipeline  *render.Pipeline
	renders   *cache.LRU[render.Fingerprint, *render.Output]
	dims      *cache.LRU[dimKey, image.Point]
	now       func() time.Time

	mu       sync.Mutex
	products []*product.Product
}

// Options 注入会话的外部协作者。
type Options struct {
	Templates  *templates.Store
	Rasterizer render.Rasterizer
	Fonts      render.FontSource
	// Now 为空时使用 time.Now。
	Now func() time.Time
}

// New 按配置创建会话。
func New(cfg config.Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	if opts.Templates == nil {
		return nil, errors.New("缺少模板仓库")
	}
	if opts.Rasterizer == nil || opts.Fonts == nil {
		return nil, errors.New("缺少栅格化器或字体")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	renders := cache.New[render.Fingerprint, *render.Output](cfg.Limits.RenderCache)
	s := &Session{
		cfg:       cfg,
		templates: opts.Templates,
		renders:   renders,
		dims:      cache.New[dimKey, image.Point](cfg.Limits.DimensionCache),
		now:       now,
	}
	s.pipeline = render.NewPipeline(opts.Templates, opts.Rasterizer, opts.Fonts, renders, render.Options{
		TargetWidth: cfg.Render.TargetWidth,
		LineHeight:  cfg.Render.LineHeight,
		Now:         now,
	})
	return s, nil
}

// Config 返回会话配置。
func (s *Session) Config() config.Config { return s.cfg }

// Pipeline 返回渲染管线。
func (s *Session) Pipeline() *render.Pipeline { return s.pipeline }

// Products 返回商品列表的副本。
func (s *Session) Products() []*product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*product.Product(nil), s.products...)
}

// ReplaceProducts 整体替换商品列表（例如导入新表格），并清空渲染缓存与尺寸缓存。
// 会话保存的是商品的副本，调用方传入的值不会被修改。
// 任一商品校验失败时列表保持不变。
func (s *Session) ReplaceProducts(ps []*product.Product) error {
	prepared := make([]*product.Product, 0, len(ps))
	var errs []error
	for _, p := range ps {
		cp, err := s.prepare(p, prepared)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		prepared = append(prepared, cp)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.mu.Lock()
	s.products = prepared
	s.mu.Unlock()

	s.renders.Clear()
	s.dims.Clear()
	logging.Logger().Info("商品列表已替换", "count", len(prepared))
	return nil
}

// AddProduct 追加 p 的副本。缓存按内容指纹寻址，无需清空。
func (s *Session) AddProduct(p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p != nil && p.ID != "" && s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("商品 ID %q 重复", p.ID)
	}
	cp, err := s.prepare(p, s.products)
	if err != nil {
		return err
	}
	s.products = append(s.products, cp)
	return nil
}

// UpdateProduct 按 ID 用 p 的副本替换商品，未指定颜色时沿用原颜色。
func (s *Session) UpdateProduct(p *product.Product) error {
	if p == nil {
		return errors.New("商品为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, p.ID)
	}
	in := *p
	if in.ColorIdx == nil {
		in.ColorIdx = s.products[i].ColorIdx
	}
	cp, err := s.prepare(&in, s.products)
	if err != nil {
		return err
	}
	s.products[i] = cp
	return nil
}

// RemoveProduct 按 ID 删除商品，返回是否存在。
func (s *Session) RemoveProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true
}

// Stats 是各缓存当前的条目数。
type Stats struct {
	Templates  int
	Renders    int
	Dimensions int
}

// Stats 返回缓存统计。
func (s *Session) Stats() Stats {
	return Stats{
		Templates:  s.templates.Cached(),
		Renders:    s.renders.Len(),
		Dimensions: s.dims.Len(),
	}
}

// prepare 复制 p，在副本上解析模板别名、补齐缺省值并校验。
func (s *Session) prepare(p *product.Product, existing []*product.Product) (*product.Product, error) {
	if p == nil {
		return nil, errors.New("商品为空")
	}
	cp := *p
	if id, ok := s.templates.Resolve(cp.Template); ok {
		cp.Template = id
	}
	product.Normalize(&cp, s.now(), product.NextColorIdx(existing, len(s.cfg.Palette)))
	if err := product.Validate(&cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *Session) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
