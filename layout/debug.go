package layout

import (
	"encoding/json"
	"os"
)

// debugPage/debugPlacement 是调试 JSON 的输出形态，只保留定位所需的商品信息。
type debugPage struct {
	Kind       string           `json:"kind"`
	Placements []debugPlacement `json:"placements"`
}

type debugPlacement struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Index     int    `json:"index"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	RowSpan   int    `json:"rowSpan"`
	ColSpan   int    `json:"colSpan"`
	Box       Rect   `json:"box"`
}

// WriteDebugJSON 将装箱结果连同每个放置的绘制区域输出为 JSON，便于调试或可视化。
func WriteDebugJSON(pages []Page, paper Paper, path string) error {
	data, err := MarshalDebug(pages, paper)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalDebug 返回 WriteDebugJSON 写入的内容。
func MarshalDebug(pages []Page, paper Paper) ([]byte, error) {
	out := struct {
		Paper Paper       `json:"paper"`
		Pages []debugPage `json:"pages"`
	}{Paper: paper, Pages: make([]debugPage, 0, len(pages))}

	for _, page := range pages {
		dp := debugPage{Kind: page.Kind.String(), Placements: make([]debugPlacement, 0, len(page.Placements))}
		for _, pl := range page.Placements {
			item := debugPlacement{
				Size:    pl.Instance.Size().String(),
				Index:   pl.Instance.Index,
				Row:     pl.Row,
				Col:     pl.Col,
				RowSpan: pl.RowSpan,
				ColSpan: pl.ColSpan,
				Box:     paper.Box(page.Kind, pl),
			}
			if p := pl.Instance.Product; p != nil {
				item.ProductID = p.ID
				item.Name = p.Name
			}
			dp.Placements = append(dp.Placements, item)
		}
		out.Pages = append(out.Pages, dp)
	}
	return json.MarshalIndent(out, "", "  ")
}
