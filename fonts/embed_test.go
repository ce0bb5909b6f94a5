package fonts

import (
	"bytes"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	regular, err := Load("embed:" + Regular)
	if err != nil {
		t.Fatalf("Load regular: %v", err)
	}
	bold, err := Load(Bold)
	if err != nil {
		t.Fatalf("Load bold: %v", err)
	}
	if len(regular) == 0 || len(bold) == 0 {
		t.Fatalf("font data must not be empty")
	}
	if bytes.Equal(regular, bold) {
		t.Fatalf("regular and bold should differ")
	}
	if _, err := Load("Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
	if got := Names(); len(got) != 2 || got[0] != Bold {
		t.Fatalf("unexpected names %v", got)
	}
}
