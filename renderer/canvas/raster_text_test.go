package canvasrenderer

import (
	"image"
	"os"
	"testing"
	"time"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/etiqueta/product"
	"github.com/ByLCY/etiqueta/render"
	"github.com/ByLCY/etiqueta/templates"
)

// darkPixels 统计矩形 r 内接近黑色的不透明像素。
func darkPixels(img image.Image, r image.Rectangle) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			if ca>>8 > 128 && cr>>8 < 96 && cg>>8 < 96 && cb>>8 < 96 {
				n++
			}
		}
	}
	return n
}

func diffPixels(a, b image.Image, r image.Rectangle) int {
	n := 0
	r = r.Intersect(a.Bounds()).Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				n++
			}
		}
	}
	return n
}

func rasterize(t *testing.T, r *Rasterizer, svg string, width int) image.Image {
	t.Helper()
	img, err := r.Rasterize(svg, width)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return img
}

func TestRasterizeDrawsTextWithEmbeddedFonts(t *testing.T) {
	r := NewRasterizer(newFonts(t))
	blank := `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="60" viewBox="0 0 200 60"><rect width="200" height="60" fill="#ffffff"/></svg>`
	// 系统中不存在的字体族不应影响绘制
	withText := `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="60" viewBox="0 0 200 60"><rect width="200" height="60" fill="#ffffff"/>` +
		`<text x="100" y="45" font-family="Fuente Inexistente" font-size="40" text-anchor="middle" fill="#000">HOLA</text></svg>`

	all := image.Rect(0, 0, 200, 60)
	if n := darkPixels(rasterize(t, r, blank, 200), all); n != 0 {
		t.Fatalf("blank label has %d dark pixels", n)
	}
	if n := darkPixels(rasterize(t, r, withText, 200), all); n < 50 {
		t.Fatalf("text was not drawn, dark pixels=%d", n)
	}
}

func TestRasterizeDrawsTspanContent(t *testing.T) {
	r := NewRasterizer(newFonts(t))
	mk := func(line string) string {
		return `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100"><rect width="200" height="100" fill="white"/>` +
			`<text font-size="30" font-weight="bold" text-anchor="middle"><tspan x="100" y="40">` + line + `</tspan><tspan x="100" y="80">` + line + `</tspan></text></svg>`
	}
	short := rasterize(t, r, mk("A"), 200)
	long := rasterize(t, r, mk("WWWWWW"), 200)
	all := image.Rect(0, 0, 200, 100)
	ds, dl := darkPixels(short, all), darkPixels(long, all)
	if ds == 0 {
		t.Fatalf("tspan text was not drawn")
	}
	if dl <= ds {
		t.Fatalf("longer tspan text should cover more pixels: short=%d long=%d", ds, dl)
	}
	// 第二个 tspan 使用自己的 y
	if darkPixels(short, image.Rect(0, 55, 200, 100)) == 0 {
		t.Fatalf("second tspan line missing")
	}
}

func TestRasterizeSkipsInvisibleText(t *testing.T) {
	r := NewRasterizer(newFonts(t))
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="40" viewBox="0 0 100 40"><rect width="100" height="40" fill="#fff"/>` +
		`<text x="10" y="30" font-size="24" fill="none">OCULTO</text>` +
		`<defs><text id="t" x="10" y="30" font-size="24">DEFS</text></defs></svg>`
	if n := darkPixels(rasterize(t, r, svg, 100), image.Rect(0, 0, 100, 40)); n != 0 {
		t.Fatalf("invisible text drawn: %d dark pixels", n)
	}
}

func TestRasterizeAppliesTransforms(t *testing.T) {
	r := NewRasterizer(newFonts(t))
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 200 100"><rect width="200" height="100" fill="#fff"/>` +
		`<g transform="translate(100, 50)"><text x="0" y="30" font-size="30">X</text></g></svg>`
	img := rasterize(t, r, svg, 200)
	if n := darkPixels(img, image.Rect(0, 0, 100, 100)); n != 0 {
		t.Fatalf("translated text leaked into the left half: %d", n)
	}
	if n := darkPixels(img, image.Rect(100, 50, 200, 100)); n == 0 {
		t.Fatalf("translated text missing from the bottom-right quarter")
	}
}

func TestParseTransform(t *testing.T) {
	m, err := parseTransform("translate(10,20) scale(2)")
	if err != nil {
		t.Fatalf("parseTransform: %v", err)
	}
	p := m.Dot(canvas.Point{X: 1, Y: 1})
	if p.X != 12 || p.Y != 22 {
		t.Fatalf("unexpected point %+v", p)
	}
	if _, err := parseTransform("translate(1,2"); err == nil {
		t.Fatalf("expected error for unterminated transform")
	}
	if _, err := parseTransform("warp(1)"); err == nil {
		t.Fatalf("expected error for unknown function")
	}
}

func TestParseFill(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b uint8
		visible bool
	}{
		{"", 0, 0, 0, true},
		{"#ff0000", 255, 0, 0, true},
		{"#0f0", 0, 255, 0, true},
		{"rgb(0, 0, 255)", 0, 0, 255, true},
		{"White", 255, 255, 255, true},
		{"none", 0, 0, 0, false},
		{"url(#grad)", 0, 0, 0, true},
	}
	for _, tc := range cases {
		c, visible := parseFill(tc.in)
		if visible != tc.visible {
			t.Fatalf("%q: visible=%v", tc.in, visible)
		}
		if visible && (c.R != tc.r || c.G != tc.g || c.B != tc.b) {
			t.Fatalf("%q: got %v", tc.in, c)
		}
	}
}

// 用随仓库提供的模板走完整渲染管线：真实字体度量、真实栅格化。
func TestPipelineRendersShippedTemplate(t *testing.T) {
	fonts := newFonts(t)
	store := templates.NewStore(os.DirFS("../../assets/templates"), templates.Options{})
	p := render.NewPipeline(store, NewRasterizer(fonts), fonts, nil, render.Options{
		TargetWidth: 600,
		LineHeight:  1.1,
		Now:         func() time.Time { return time.Date(2025, 3, 4, 9, 5, 0, 0, time.UTC) },
	})

	mk := func(id, name string, now int) *product.Product {
		return &product.Product{
			ID: id, Template: "oferta1.svg", Size: product.SizeQuarter, Name: name,
			Before: 1500, Now: now, Quota: 99, Qty: 1, PrintedAt: "04/03/2025 09:05",
		}
	}
	short, err := p.Render(mk("a", "A", 1234))
	if err != nil {
		t.Fatalf("Render short: %v", err)
	}
	long, err := p.Render(mk("b", "licuadora oster de diez velocidades con jarra", 99))
	if err != nil {
		t.Fatalf("Render long: %v", err)
	}
	if got := short.Normal.Bounds().Dx(); got < 599 || got > 601 {
		t.Fatalf("unexpected width %d", got)
	}

	// 名称框为 x 30..570、y 66..156（用户单位与像素 1:1）
	nameBox := image.Rect(30, 66, 570, 156)
	ds, dl := darkPixels(short.Normal, nameBox), darkPixels(long.Normal, nameBox)
	if ds == 0 {
		t.Fatalf("short name missing from the bitmap")
	}
	if dl <= ds {
		t.Fatalf("long name should cover more of the name box: short=%d long=%d", ds, dl)
	}
	if diffPixels(short.Normal, long.Normal, nameBox) == 0 {
		t.Fatalf("name box identical for different names")
	}
	if diffPixels(short.Normal, long.Normal, image.Rect(330, 200, 600, 270)) == 0 {
		t.Fatalf("current price area identical for different prices")
	}
	if rb := long.Rotated.Bounds().Size(); rb.X != long.Normal.Bounds().Dy() {
		t.Fatalf("rotated image has wrong size %v", rb)
	}
}
