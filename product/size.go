package product

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size 是价签的尺寸类别，只有三种取值。
type Size int

const (
	SizeUnknown Size = iota
	SizeQuarter      // 四分之一页
	SizeHalf         // 横向半页
	SizeFull         // 整页
)

// String returns the canonical name used in sheets and debug JSON.
func (s Size) String() string {
	switch s {
	case SizeQuarter:
		return "quarter"
	case SizeHalf:
		return "half_h"
	case SizeFull:
		return "full"
	default:
		return ""
	}
}

// Valid reports whether s is one of the three size classes.
func (s Size) Valid() bool {
	switch s {
	case SizeQuarter, SizeHalf, SizeFull:
		return true
	default:
		return false
	}
}

// ParseSize 解析尺寸名称，兼容标准名称以及常见的人工写法（如 "1/4"、"media"、"carta"）。
func ParseSize(v string) (Size, error) {
	t := strings.ToLower(strings.TrimSpace(v))
	switch {
	case t == "":
		return SizeUnknown, fmt.Errorf("尺寸为空")
	case t == "quarter", strings.Contains(t, "1/4"), strings.Contains(t, "1-4"), strings.Contains(t, "cuarto"):
		return SizeQuarter, nil
	case t == "half_h", t == "half", strings.Contains(t, "media"), strings.Contains(t, "mitad"), strings.Contains(t, "horizontal"):
		return SizeHalf, nil
	case t == "full", strings.Contains(t, "carta"), strings.Contains(t, "completa"):
		return SizeFull, nil
	default:
		return SizeUnknown, fmt.Errorf("无法识别的尺寸：%s", v)
	}
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSize(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
