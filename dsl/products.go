package dsl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/etiqueta/product"
)

// Meta 是 meta 段中声明的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Meta 汇总全部 meta 段；同名字段以后出现者为准。
func (d *Document) Meta() (Meta, error) {
	var m Meta
	if d == nil {
		return m, nil
	}
	var errs []error
	for _, sec := range d.Sections {
		if sec == nil || sec.Meta == nil || sec.Meta.Block == nil {
			continue
		}
		for _, a := range sec.Meta.Block.Assignments {
			key := strings.ToLower(a.Key)
			if key == "keywords" {
				kws, err := stringList(a.Value)
				if err != nil {
					errs = append(errs, posErr(a.Pos, "%s: %v", a.Key, err))
					continue
				}
				m.Keywords = kws
				continue
			}
			text, ok := a.Value.Text()
			if !ok {
				errs = append(errs, posErr(a.Pos, "%s 需要标量值", a.Key))
				continue
			}
			switch key {
			case "title":
				m.Title = text
			case "subject":
				m.Subject = text
			case "author":
				m.Author = text
			case "creator":
				m.Creator = text
			default:
				errs = append(errs, posErr(a.Pos, "未知的 meta 字段 %q", a.Key))
			}
		}
	}
	return m, errors.Join(errs...)
}

// Products 将 product 段转换为商品列表，保留书写顺序。
// 所有字段错误都会带上位置信息并合并返回。
func (d *Document) Products() ([]*product.Product, error) {
	if d == nil {
		return nil, errors.New("文档为空")
	}
	var (
		out  []*product.Product
		errs []error
		seen = map[string]lexer.Position{}
	)
	for _, sec := range d.Sections {
		if sec == nil || sec.Product == nil {
			continue
		}
		ps := sec.Product
		id := strings.TrimSpace(ps.ID())
		if id == "" {
			errs = append(errs, posErr(ps.Pos, "商品缺少编号"))
			continue
		}
		if prev, dup := seen[id]; dup {
			errs = append(errs, posErr(ps.Pos, "商品 %s 重复（首次出现于 %s）", id, prev))
			continue
		}
		seen[id] = ps.Pos

		p, err := convertProduct(id, ps.Block)
		if err != nil {
			errs = append(errs, fmt.Errorf("商品 %s: %w", id, err))
			continue
		}
		out = append(out, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func convertProduct(id string, block *Block) (*product.Product, error) {
	p := &product.Product{ID: id}
	if block == nil {
		return p, nil
	}
	var (
		errs     []error
		validity *bool
	)
	for _, a := range block.Assignments {
		text, ok := a.Value.Text()
		if !ok {
			errs = append(errs, posErr(a.Pos, "%s 需要标量值", a.Key))
			continue
		}
		var err error
		switch strings.ToLower(a.Key) {
		case "template", "plantilla":
			p.Template = text
		case "size", "tamano":
			p.Size, err = product.ParseSize(text)
		case "name", "nombre":
			p.Name = text
		case "before", "antes":
			p.Before, err = parseInt(text)
		case "now", "ahora":
			p.Now, err = parseInt(text)
		case "quota", "cuota":
			p.Quota, err = parseInt(text)
		case "qty", "cantidad":
			p.Qty, err = parseInt(text)
		case "validity", "use_validity", "vigencia":
			var b bool
			b, err = strconv.ParseBool(text)
			validity = &b
		case "valid_from", "desde":
			p.ValidFrom, err = parseDate(text)
		case "valid_to", "hasta":
			p.ValidTo, err = parseDate(text)
		case "printed_at", "impresion":
			p.PrintedAt = text
		default:
			err = fmt.Errorf("未知字段")
		}
		if err != nil {
			errs = append(errs, posErr(a.Pos, "%s: %v", a.Key, err))
		}
	}
	if validity != nil {
		p.UseValidity = *validity
	} else {
		// 未显式声明时，给出任一日期即视为启用有效期
		p.UseValidity = !p.ValidFrom.IsZero() || !p.ValidTo.IsZero()
	}
	return p, errors.Join(errs...)
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("需要整数，得到 %q", s)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(product.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式应为 %s，得到 %q", product.DateLayout, s)
	}
	return t, nil
}

func stringList(v *Value) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if text, ok := v.Text(); ok {
		return []string{text}, nil
	}
	if v.Array == nil {
		return nil, errors.New("需要字符串或数组")
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		text, ok := item.Text()
		if !ok {
			return nil, errors.New("数组元素必须是标量")
		}
		out = append(out, text)
	}
	return out, nil
}

func posErr(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
}
