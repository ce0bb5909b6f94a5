package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/etiqueta/textfit"
)

// 当框宽与整行宽度恰好相等时，文字应保持一行且不截断。
func TestFitEqualWidthStaysOnOneLine(t *testing.T) {
	face := newFonts(t).Face(24, true)
	text := "LICUADORA OSTER"
	limit := face.TextWidth(text)
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	got := textfit.Fit(text, textfit.Box{Width: limit, Height: 100}, face, 1.1)
	if len(got.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got.Lines))
	}
	if got.Lines[0].Text != text || got.Truncated {
		t.Fatalf("line modified: %q truncated=%v", got.Lines[0].Text, got.Truncated)
	}

	// 窄一点就必须折行
	got = textfit.Fit(text, textfit.Box{Width: limit - 1, Height: 100}, face, 1.1)
	if len(got.Lines) != 2 {
		t.Fatalf("expected wrap into 2 lines, got %d", len(got.Lines))
	}
	for i, ln := range got.Lines {
		if ln.Width > limit {
			t.Fatalf("line %d wider than box: %g > %g", i, ln.Width, limit)
		}
	}
}
