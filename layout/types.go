package layout

// 该文件定义排版结果的数据结构，供装箱、绘制与调试 JSON 共用。

import "github.com/ByLCY/etiqueta/product"

const (
	gridRows = 2
	gridCols = 2
)

// Instance 是一张需要实际打印的价签：所属商品以及它在该商品份数中的序号。
// 每次装箱都重新构造，不做持久化。
type Instance struct {
	Product *product.Product
	Index   int
}

// Size 返回实例所属商品的尺寸类别。
func (i Instance) Size() product.Size {
	if i.Product == nil {
		return product.SizeUnknown
	}
	return i.Product.Size
}

// PageKind 区分 2×2 网格页与整页。
type PageKind int

const (
	PageGrid PageKind = iota
	PageFull
)

func (k PageKind) String() string {
	if k == PageFull {
		return "full"
	}
	return "grid"
}

// Page 是一页输出。网格页带 2×2 占用表；整页恰好放一个实例，没有网格。
type Page struct {
	Kind       PageKind
	Placements []Placement

	cells [gridRows][gridCols]*Instance
}

// Cell 返回网格页 (row, col)（均从 1 开始）上的实例。整页或空格返回 false。
func (p *Page) Cell(row, col int) (Instance, bool) {
	if p.Kind != PageGrid || row < 1 || row > gridRows || col < 1 || col > gridCols {
		return Instance{}, false
	}
	inst := p.cells[row-1][col-1]
	if inst == nil {
		return Instance{}, false
	}
	return *inst, true
}

// Placement 完整描述实例在页面上的位置；行列从 1 开始。
type Placement struct {
	Instance Instance
	Row      int
	Col      int
	RowSpan  int
	ColSpan  int
}

// Rect 是以毫米为单位的矩形，原点在页面左上角。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
