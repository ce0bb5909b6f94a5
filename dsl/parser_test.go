package dsl_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/etiqueta/dsl"
	"github.com/ByLCY/etiqueta/product"
)

const sampleDSL = `
labels Promociones v1 {
  meta {
    title: "Etiquetas marzo"
    author: "Tienda Central"
    keywords: [
      "precios"
      "promo"
    ]
  }

  # cocina
  product licuadora {
    template: "Promoción"
    size: quarter
    name: "Licuadora Oster 10 velocidades"
    before: 1500
    now: 1234
    quota: 99
    qty: 3
    valid_from: "2025-02-01"
    valid_to: "2025-02-28"
  }

  /* número de catálogo como id */
  product 10045 {
    template: "normal1.svg"; size: "1/4"; name: "Batidora"
    before: 800; now: 750
    printed_at: "01/03/2025 10:00"
  }

  product "estufa 4q" {
    template: liquidacion
    size: full
    name: "Estufa"
    before: 4000
    now: 3500 // sin cuota
    validity: false
    valid_from: "2025-02-01"
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Promociones" {
		t.Fatalf("expected document name Promociones, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	kinds := []string{"meta", "product", "product", "product"}
	for i, sec := range doc.Sections {
		if sec.Kind() != kinds[i] {
			t.Fatalf("section %d: expected %s, got %s", i, kinds[i], sec.Kind())
		}
	}
	ids := []string{"licuadora", "10045", "estufa 4q"}
	for i, sec := range doc.Sections[1:] {
		if got := sec.Product.ID(); got != ids[i] {
			t.Fatalf("product %d: expected id %q, got %q", i, ids[i], got)
		}
	}
}

func TestDocumentMeta(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	meta, err := doc.Meta()
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if meta.Title != "Etiquetas marzo" || meta.Author != "Tienda Central" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if strings.Join(meta.Keywords, ",") != "precios,promo" {
		t.Fatalf("unexpected keywords: %v", meta.Keywords)
	}
}

func TestDocumentProducts(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	products, err := doc.Products()
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	lic := products[0]
	if lic.ID != "licuadora" || lic.Template != "Promoción" || lic.Size != product.SizeQuarter {
		t.Fatalf("unexpected first product: %+v", lic)
	}
	if lic.Before != 1500 || lic.Now != 1234 || lic.Quota != 99 || lic.Qty != 3 {
		t.Fatalf("unexpected prices: %+v", lic)
	}
	if !lic.UseValidity {
		t.Fatalf("dates should enable validity")
	}
	if want := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC); !lic.ValidTo.Equal(want) {
		t.Fatalf("unexpected valid_to: %v", lic.ValidTo)
	}

	bat := products[1]
	if bat.ID != "10045" || bat.Size != product.SizeQuarter || bat.Name != "Batidora" {
		t.Fatalf("unexpected second product: %+v", bat)
	}
	if bat.PrintedAt != "01/03/2025 10:00" || bat.UseValidity {
		t.Fatalf("unexpected printed/validity: %+v", bat)
	}
	if bat.Qty != 0 {
		t.Fatalf("qty should be left for normalization, got %d", bat.Qty)
	}

	est := products[2]
	if est.Template != "liquidacion" || est.Size != product.SizeFull {
		t.Fatalf("unexpected third product: %+v", est)
	}
	if est.UseValidity {
		t.Fatalf("explicit validity: false must win over dates")
	}
}

func TestProductsReportPositions(t *testing.T) {
	src := `labels Malo v1 {
  product a {
    size: triple
    before: doce
    color: "rojo"
    valid_to: "28/02/2025"
  }
  product a {
    name: "x"
  }
}`
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = doc.Products()
	if err == nil {
		t.Fatalf("expected conversion errors")
	}
	msg := err.Error()
	for _, want := range []string{"3:5: size", "4:5: before", "5:5: color", "6:5: valid_to", "重复"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got:\n%s", want, msg)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, src := range []string{
		`labels x { }`,
		`labels x v1 { product { name: "a" } }`,
		`labels x v1 { product a { name "a" } }`,
		`doc x v1 { }`,
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestParseEmptySheet(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("labels Vacio v2 {\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	products, err := doc.Products()
	if err != nil || len(products) != 0 {
		t.Fatalf("expected no products, got %v / %v", products, err)
	}
}
