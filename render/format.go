package render

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout 是标签上日期的显示格式（日/月/年）。
const DateLayout = "02/01/2006"

// FormatPrice 将金额格式化为带千位分隔符的格特查尔，如 "Q 1,234"。0 返回空串，对应槽位会被清空。
func FormatPrice(n int) string {
	if n <= 0 {
		return ""
	}
	return message.NewPrinter(language.English).Sprintf("Q %d", n)
}

// FormatValidity 返回有效期文字，如 "* VÁLIDO DESDE 01/02/2025 AL 28/02/2025"。
func FormatValidity(from, to time.Time) string {
	return "* VÁLIDO DESDE " + from.Format(DateLayout) + " AL " + to.Format(DateLayout)
}
