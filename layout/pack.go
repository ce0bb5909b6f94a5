package layout

import "github.com/ByLCY/etiqueta/product"

// Instances 将商品按 Qty 展开为价签实例，顺序与商品顺序一致。
func Instances(products []*product.Product) []Instance {
	var out []Instance
	for _, p := range products {
		if p == nil {
			continue
		}
		for i := 0; i < p.Qty; i++ {
			out = append(out, Instance{Product: p, Index: i})
		}
	}
	return out
}

// Pack 按输入顺序把实例放到页面上，返回按创建顺序排列的页面。
//
// 整页实例总是独占一张新页面；其余实例放到第一张能容纳它的网格页，
// 都放不下时新开一张网格页。这是带偏好的贪心首次适配，不保证页数最优，
// 但结果确定，且新页面总能容纳任意尺寸，因此 Pack 不会失败。
// 尺寸不是三种取值之一的实例无法放置，会被跳过（会话在排版前已校验尺寸）。
func Pack(instances []Instance) []Page {
	var pages []*Page

	for _, inst := range instances {
		switch inst.Size() {
		case product.SizeFull:
			pages = append(pages, &Page{
				Kind:       PageFull,
				Placements: []Placement{{Instance: inst, Row: 1, Col: 1, RowSpan: 1, ColSpan: 1}},
			})
			continue
		case product.SizeQuarter, product.SizeHalf:
		default:
			continue
		}

		placed := false
		for _, page := range pages {
			if page.Kind != PageGrid {
				continue
			}
			if place(page, inst) {
				placed = true
				break
			}
		}
		if !placed {
			page := &Page{Kind: PageGrid}
			pages = append(pages, page)
			place(page, inst)
		}
	}

	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = *p
	}
	return out
}

func place(page *Page, inst Instance) bool {
	switch inst.Size() {
	case product.SizeQuarter:
		return placeQuarter(page, inst)
	case product.SizeHalf:
		return placeHalf(page, inst)
	default:
		return false
	}
}

// placeQuarter 优先填满已有一格被占用的行，其次才使用整行为空的行；
// 同一优先级内取最小行号，再取最小列号。
func placeQuarter(page *Page, inst Instance) bool {
	preferRow, preferCol := -1, -1
	anyRow, anyCol := -1, -1

	for r := 0; r < gridRows; r++ {
		firstFree := -1
		free := 0
		for c := 0; c < gridCols; c++ {
			if page.cells[r][c] == nil {
				free++
				if firstFree < 0 {
					firstFree = c
				}
			}
		}
		if free == 0 {
			continue
		}
		if gridCols-free == 1 {
			if preferRow < 0 {
				preferRow, preferCol = r, firstFree
			}
		} else if anyRow < 0 {
			anyRow, anyCol = r, firstFree
		}
	}

	r, c := preferRow, preferCol
	if r < 0 {
		r, c = anyRow, anyCol
	}
	if r < 0 {
		return false
	}

	ref := inst
	page.cells[r][c] = &ref
	page.Placements = append(page.Placements, Placement{Instance: inst, Row: r + 1, Col: c + 1, RowSpan: 1, ColSpan: 1})
	return true
}

// placeHalf 只考虑整行为空的行。另一行已被占用的行得 2 分，否则 1 分，
// 以便先补齐部分使用的页面；同分取先找到的行。
func placeHalf(page *Page, inst Instance) bool {
	bestRow, bestScore := -1, 0

	for r := 0; r < gridRows; r++ {
		if !rowEmpty(page, r) {
			continue
		}
		score := 1
		if !rowEmpty(page, gridRows-1-r) {
			score = 2
		}
		if score > bestScore {
			bestRow, bestScore = r, score
		}
	}
	if bestRow < 0 {
		return false
	}

	ref := inst
	for c := 0; c < gridCols; c++ {
		page.cells[bestRow][c] = &ref
	}
	page.Placements = append(page.Placements, Placement{Instance: inst, Row: bestRow + 1, Col: 1, RowSpan: 1, ColSpan: gridCols})
	return true
}

func rowEmpty(page *Page, r int) bool {
	for c := 0; c < gridCols; c++ {
		if page.cells[r][c] != nil {
			return false
		}
	}
	return true
}
