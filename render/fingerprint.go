package render

import (
	"strings"

	"github.com/ByLCY/etiqueta/product"
)

// Fingerprint 是渲染缓存的键，只包含影响画面的字段。
// ID、数量与颜色序号不参与，因此仅数量不同的商品共享同一缓存项。
type Fingerprint struct {
	Template    string
	Name        string // 去除首尾空白并转为大写
	Before      int
	Now         int
	Quota       int
	UseValidity bool
	ValidFrom   string // 仅在 UseValidity 时填写
	ValidTo     string
	PrintedAt   string
}

// FingerprintOf 计算商品的渲染指纹。
func FingerprintOf(p *product.Product) Fingerprint {
	fp := Fingerprint{
		Template:    p.Template,
		Name:        strings.ToUpper(strings.TrimSpace(p.Name)),
		Before:      p.Before,
		Now:         p.Now,
		Quota:       p.Quota,
		UseValidity: p.UseValidity,
		PrintedAt:   strings.TrimSpace(p.PrintedAt),
	}
	if p.UseValidity {
		if !p.ValidFrom.IsZero() {
			fp.ValidFrom = p.ValidFrom.Format(product.DateLayout)
		}
		if !p.ValidTo.IsZero() {
			fp.ValidTo = p.ValidTo.Format(product.DateLayout)
		}
	}
	return fp
}
