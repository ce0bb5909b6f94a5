package svgdoc

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeRemovesUnsafeContent(t *testing.T) {
	in := `<svg viewBox="0 0 10 10">
<script>alert(1)</script>
<foreignObject><div>x</div></foreignObject>
<rect onclick="steal()" onload="x()" width="1" height="1" fill="red"/>
<image href="http://evil.example/x.png"/>
<image href="https://evil.example/y.png"/>
<image xlink:href="javascript:alert(1)"/>
<image href="data:text/html;base64,PHNjcmlwdD4="/>
<image href="data:image/png;base64,iVBORw0KGgo="/>
<image href="#local"/>
<g style="fill:url(http://evil.example/p)"/>
<g style="fill:url(#grad)"/>
</svg>`
	out, err := Sanitize(in)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	lower := strings.ToLower(out)
	for _, bad := range []string{"<script", "alert(1)", "foreignobject", "onclick", "onload", "evil.example", "javascript:", "data:text/html"} {
		if strings.Contains(lower, bad) {
			t.Fatalf("unsafe fragment %q survived: %s", bad, out)
		}
	}
	for _, keep := range []string{`fill="red"`, "data:image/png;base64,iVBORw0KGgo=", `href="#local"`, "url(#grad)"} {
		if !strings.Contains(out, keep) {
			t.Fatalf("safe fragment %q was removed: %s", keep, out)
		}
	}
}

func TestSanitizeKeepsPlainTemplate(t *testing.T) {
	in := `<svg viewBox="0 0 100 50"><text id="precio_ahora" font-size="20">Q 0</text></svg>`
	out, err := Sanitize(in)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	doc, err := Parse(out)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if got := TextContent(doc.ByID("precio_ahora")); got != "Q 0" {
		t.Fatalf("text changed: %q", got)
	}
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	if _, err := Sanitize("plain text"); err == nil {
		t.Fatalf("expected error for non-svg input")
	}
}

func TestSanitizeRejectsMalformedMarkup(t *testing.T) {
	cases := []string{
		`<svg viewBox="0 0 10 10"><g><rect width="1" height="1"><text>unterminated`,
		`<svg viewBox="0 0 10 10"><g></svg>`,
		`<svg viewBox="0 0 10 10"><rect width=1 height="1"/></svg>`,
		`<svg viewBox="0 0 10 10"><rect width="1/></svg>`,
		`<svg viewBox="0 0 10 10"></svg><svg></svg>`,
		`<svg viewBox="0 0 10 10"><!-- abierto </svg>`,
		`<svg viewBox="0 0 10 10"></svg> sobra`,
		`<svg viewBox="0 0 10 10"></svg`,
	}
	for _, in := range cases {
		if _, err := Sanitize(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestParseAcceptsWellFormedProlog(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<!-- exportado -->
<svg viewBox='0 0 10 10'><style><![CDATA[ text { fill: red } ]]></style><text>a &amp; b</text></svg>
`
	if _, err := Parse(in); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
