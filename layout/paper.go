package layout

// Paper 描述输出纸张与网格留白，单位均为毫米。
type Paper struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	GridPad float64 `json:"gridPad"` // 网格页四周留白
	GridGap float64 `json:"gridGap"` // 网格单元之间的间距
	FullPad float64 `json:"fullPad"` // 整页四周留白
}

// LetterPaper 返回美式 Letter 纸张的默认参数。
func LetterPaper() Paper {
	return Paper{
		Width:   215.9,
		Height:  279.4,
		GridPad: 6,
		GridGap: 6,
		FullPad: 10,
	}
}

// Box 计算放置结果在页面上的绘制区域。
// 整页使用 FullPad 留白；网格页先扣除 GridPad，再按 2×2 均分并留出 GridGap。
func (p Paper) Box(kind PageKind, pl Placement) Rect {
	if kind == PageFull {
		pad := p.FullPad
		return Rect{X: pad, Y: pad, Width: p.Width - pad*2, Height: p.Height - pad*2}
	}

	availW := p.Width - p.GridPad*2
	availH := p.Height - p.GridPad*2
	cellW := (availW - p.GridGap*float64(gridCols-1)) / gridCols
	cellH := (availH - p.GridGap*float64(gridRows-1)) / gridRows

	rs, cs := pl.RowSpan, pl.ColSpan
	if rs < 1 {
		rs = 1
	}
	if cs < 1 {
		cs = 1
	}
	return Rect{
		X:      p.GridPad + float64(pl.Col-1)*(cellW+p.GridGap),
		Y:      p.GridPad + float64(pl.Row-1)*(cellH+p.GridGap),
		Width:  cellW*float64(cs) + p.GridGap*float64(cs-1),
		Height: cellH*float64(rs) + p.GridGap*float64(rs-1),
	}
}

// Fit 将 w×h 的图片等比缩放到矩形内并居中，返回实际绘制区域。
func (r Rect) Fit(w, h float64) Rect {
	if w <= 0 || h <= 0 {
		return Rect{X: r.X, Y: r.Y}
	}
	scale := r.Width / w
	if s := r.Height / h; s < scale {
		scale = s
	}
	dw, dh := w*scale, h*scale
	return Rect{
		X:      r.X + (r.Width-dw)/2,
		Y:      r.Y + (r.Height-dh)/2,
		Width:  dw,
		Height: dh,
	}
}
