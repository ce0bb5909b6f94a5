package canvasrenderer

import (
	"fmt"
	"os"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/etiqueta/fonts"
	"github.com/ByLCY/etiqueta/layout"
	"github.com/ByLCY/etiqueta/render"
	"github.com/ByLCY/etiqueta/textfit"
)

var _ render.FontSource = (*Fonts)(nil)

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

func (r Resource) load() ([]byte, error) {
	if len(r.Bytes) > 0 {
		return r.Bytes, nil
	}
	if r.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", r.Path, err)
	}
	return data, nil
}

// FontOptions 指定常规与粗体字体，未指定时使用内置 Go 字体。
type FontOptions struct {
	Regular Resource
	Bold    Resource
}

// Fonts 基于 canvas 字体度量实现 render.FontSource。
// 字号按 pt 创建字体面，测得的宽度换算回 pt，与 SVG 用户单位一致。
type Fonts struct {
	mu      sync.Mutex
	regular *canvas.FontFamily
	bold    *canvas.FontFamily
}

// NewFonts 加载字体。
func NewFonts(opts FontOptions) (*Fonts, error) {
	regular, err := loadFamily("etiqueta-regular", opts.Regular, fonts.Regular)
	if err != nil {
		return nil, err
	}
	bold, err := loadFamily("etiqueta-bold", opts.Bold, fonts.Bold)
	if err != nil {
		return nil, err
	}
	return &Fonts{regular: regular, bold: bold}, nil
}

func loadFamily(name string, res Resource, builtin string) (*canvas.FontFamily, error) {
	data, err := res.load()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		if data, err = fonts.Load(builtin); err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return family, nil
}

// Face 返回字号为 size 的字体面。
func (f *Fonts) Face(size float64, bold bool) textfit.Face {
	family := f.regular
	if bold {
		family = f.bold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &face{
		mu:   &f.mu,
		ff:   family.Face(size, canvas.Black, canvas.FontRegular, canvas.FontNormal),
		size: size,
	}
}

type face struct {
	mu   *sync.Mutex
	ff   *canvas.FontFace
	size float64
}

func (f *face) Size() float64 { return f.size }

// TextWidth 返回字符串宽度（pt）。canvas 的 TextWidth 以 mm 为单位。
func (f *face) TextWidth(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ff.TextWidth(s) * layout.MmToPt
}
