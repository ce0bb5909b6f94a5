package canvasrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/etiqueta/layout"
	"github.com/ByLCY/etiqueta/renderer"
	"github.com/ByLCY/etiqueta/session"
)

// DocumentMeta 是写入 PDF 的文档信息。
type DocumentMeta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// SheetRenderer draws compositions onto letter pages via github.com/tdewolff/canvas.
type SheetRenderer struct {
	meta DocumentMeta
}

var _ renderer.Renderer = (*SheetRenderer)(nil)

// NewSheetRenderer creates a PDF sheet renderer.
func NewSheetRenderer(meta DocumentMeta) *SheetRenderer {
	return &SheetRenderer{meta: meta}
}

// Render renders the composition into a PDF byte slice, one page per packed page.
func (r *SheetRenderer) Render(comp *session.Composition) ([]byte, error) {
	if comp == nil {
		return nil, fmt.Errorf("排版结果为空")
	}
	if len(comp.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	paper := comp.Paper
	var buf bytes.Buffer
	writer := pdf.New(&buf, paper.Width, paper.Height, nil)
	r.applyMeta(writer)
	for i, page := range comp.Pages {
		if i > 0 {
			writer.NewPage(paper.Width, paper.Height)
		}
		c := canvas.New(paper.Width, paper.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

		if err := r.drawPage(ctx, comp, page); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *SheetRenderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}

// drawPage 将每个放置结果的图像等比缩放到其绘制区域并居中（毫米单位）。
func (r *SheetRenderer) drawPage(ctx *canvas.Context, comp *session.Composition, page layout.Page) error {
	for _, pl := range page.Placements {
		img, dim, err := comp.Image(pl)
		if err != nil {
			return err
		}
		box := comp.Paper.Box(page.Kind, pl).Fit(float64(dim.X), float64(dim.Y))
		if box.Width <= 0 {
			continue
		}
		dpmm := float64(dim.X) / box.Width
		ctx.DrawImage(box.X, box.Y, img, canvas.DPMM(dpmm))
	}
	return nil
}
