package product

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxDigits 是价格类字段允许的最大位数。
const MaxDigits = 5

// PrintedAtLayout 是打印时间的默认格式（日/月/年 时:分）。
const PrintedAtLayout = "02/01/2006 15:04"

// DateLayout 是有效期日期在输入端使用的格式。
const DateLayout = "2006-01-02"

// Product 描述一张价签的内容：模板、尺寸、名称、价格、有效期与打印份数。
// 组合引擎在一次排版/渲染过程中将其视为只读输入。
type Product struct {
	ID       string `json:"id"`
	Template string `json:"template"`
	Size     Size   `json:"size"`
	Name     string `json:"name"`

	Before int `json:"before"` // 原价
	Now    int `json:"now"`    // 现价
	Quota  int `json:"quota"`  // 周供

	Qty int `json:"qty"`

	UseValidity bool      `json:"useValidity"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidTo     time.Time `json:"validTo"`

	PrintedAt string `json:"printedAt"`

	// ColorIdx 仅供界面着色使用，不影响排版与渲染。
	ColorIdx *int `json:"colorIdx,omitempty"`
}

// Validate 校验商品字段，返回全部问题合并后的错误；无问题时返回 nil。
func Validate(p *Product) error {
	if p == nil {
		return errors.New("商品为空")
	}
	var errs []error
	if strings.TrimSpace(p.Template) == "" {
		errs = append(errs, errors.New("缺少模板"))
	}
	if !p.Size.Valid() {
		errs = append(errs, errors.New("缺少尺寸"))
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("缺少名称"))
	}
	for _, f := range []struct {
		name  string
		value int
	}{{"before", p.Before}, {"now", p.Now}, {"quota", p.Quota}} {
		if f.value < 0 || digits(f.value) > MaxDigits {
			errs = append(errs, fmt.Errorf("%s 必须是最多 %d 位的非负整数", f.name, MaxDigits))
		}
	}
	if p.Now > p.Before {
		errs = append(errs, errors.New("现价不能高于原价"))
	}
	if p.Qty < 1 {
		errs = append(errs, errors.New("数量必须大于 0"))
	}
	if p.UseValidity {
		if p.ValidFrom.IsZero() {
			errs = append(errs, errors.New("缺少有效期开始日期"))
		}
		if p.ValidTo.IsZero() {
			errs = append(errs, errors.New("缺少有效期结束日期"))
		}
		if !p.ValidFrom.IsZero() && !p.ValidTo.IsZero() && p.ValidTo.Before(p.ValidFrom) {
			errs = append(errs, errors.New("有效期结束日期早于开始日期"))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	id := p.ID
	if id == "" {
		id = p.Name
	}
	return fmt.Errorf("商品 %q 校验失败: %w", id, errors.Join(errs...))
}

// Normalize 补齐缺省值：数量至少为 1，空的打印时间使用 now，缺失的颜色序号分配为 colorIdx。
func Normalize(p *Product, now time.Time, colorIdx int) {
	if p == nil {
		return
	}
	if p.Qty < 1 {
		p.Qty = 1
	}
	if strings.TrimSpace(p.PrintedAt) == "" {
		p.PrintedAt = now.Format(PrintedAtLayout)
	}
	if p.ColorIdx == nil {
		idx := colorIdx
		p.ColorIdx = &idx
	}
}

// NextColorIdx 返回 products 中未被占用的最小颜色序号（palette 为调色板长度）。
// 全部占用时按出现次数最少者循环复用。
func NextColorIdx(products []*Product, palette int) int {
	if palette <= 0 {
		return 0
	}
	counts := make([]int, palette)
	for _, p := range products {
		if p == nil || p.ColorIdx == nil {
			continue
		}
		if idx := *p.ColorIdx; idx >= 0 && idx < palette {
			counts[idx]++
		}
	}
	best := 0
	for i, n := range counts {
		if n < counts[best] {
			best = i
		}
	}
	return best
}

func digits(n int) int {
	if n == 0 {
		return 1
	}
	d := 0
	for n > 0 {
		n /= 10
		d++
	}
	return d
}
