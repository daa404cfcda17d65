package inventory

import (
	"math"
	"testing"
	"time"

	"mutfak-backend/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseTurkishFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1.234,56 TL", 1234.56},
		{"12,5", 12.5},
		{"100", 100},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		if got := parseTurkishFloat(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("parseTurkishFloat(%q) = %v, beklenen %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractQuantityAndUnit(t *testing.T) {
	q, u := extractQuantityAndUnit("2,5 KG")
	if !almostEqual(q, 2.5) || u != "KG" {
		t.Fatalf("beklenen (2.5, KG), alınan (%v, %q)", q, u)
	}
	q, u = extractQuantityAndUnit("10 Paket")
	if !almostEqual(q, 10) || u != "Paket" {
		t.Fatalf("beklenen (10, Paket), alınan (%v, %q)", q, u)
	}
	q, _ = extractQuantityAndUnit("")
	if q != 0 {
		t.Fatalf("boş girişte miktar 0 olmalı, alınan %v", q)
	}
}

func TestNormalizeProductName(t *testing.T) {
	if got := normalizeProductName("DOMATES SALÇASI 5 KG"); got != "domates salcasi" {
		t.Errorf("normalize hatalı: %q", got)
	}
	if got := normalizeProductName("Zeytinyağı"); got != "zeytinyagi" {
		t.Errorf("normalize hatalı: %q", got)
	}
}

func TestMatchProduct(t *testing.T) {
	products := []models.Product{
		{ID: 1, Code: "DMT-01", Name: "Domates"},
		{ID: 2, Code: "ZYT-01", Name: "Zeytinyağı"},
		{ID: 3, Code: "", Name: "Tavuk Göğsü"},
	}

	// Stok kodu birebir eşleşir, isim ne olursa olsun
	if p := matchProduct(products, "zyt-01", "bambaşka bir şey"); p == nil || p.ID != 2 {
		t.Fatalf("stok kodu eşleşmesi başarısız")
	}

	// İsimden eşleşme
	if p := matchProduct(products, "", "TAVUK GÖĞSÜ 2 KG"); p == nil || p.ID != 3 {
		t.Fatalf("isim eşleşmesi başarısız")
	}

	// Düşük skor eşleşme sayılmaz
	if p := matchProduct(products, "", "Un"); p != nil {
		t.Fatalf("kısa/alakasız isim eşleşmemeliydi, eşleşen: %v", p.Name)
	}
}

const sampleInvoice = `ACME GIDA TEDARİK A.Ş.
Fatura No: FTR2026060189
Fatura Tarihi: 02.06.2026

Stok Kodu | Ürün | Miktar | Birim Fiyat | Tutar
DMT-01 | Domates | 25 KG | 18,50 | 462,50
 | Zeytinyağı Natürel | 10 LT | 185,00 TL | 1.850,00
 | Sızma | | |
XXX-99 | Bilinmeyen Ürün | 5 ADET | 10,00 | 50,00
`

func TestParseInvoiceText(t *testing.T) {
	products := []models.Product{
		{ID: 1, Code: "DMT-01", Name: "Domates"},
		{ID: 2, Code: "ZYT-01", Name: "Zeytinyağı Natürel Sızma"},
	}

	parsed := ParseInvoiceText(sampleInvoice, products)

	if parsed.InvoiceNumber != "FTR2026060189" {
		t.Errorf("fatura no hatalı: %q", parsed.InvoiceNumber)
	}
	wantDate := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	if !parsed.Date.Equal(wantDate) {
		t.Errorf("fatura tarihi hatalı: %v", parsed.Date)
	}

	if len(parsed.Lines) != 3 {
		t.Fatalf("3 satır beklenirken %d satır ayrıştırıldı", len(parsed.Lines))
	}
	if parsed.MatchedCount != 2 {
		t.Errorf("2 eşleşme beklenirken %d bulundu", parsed.MatchedCount)
	}

	first := parsed.Lines[0]
	if first.MatchedProductID != 1 || !almostEqual(first.Quantity, 25) || !almostEqual(first.UnitPrice, 18.5) {
		t.Errorf("ilk satır hatalı: %+v", first)
	}

	// Alt satıra taşan ürün adı birleştirilir
	second := parsed.Lines[1]
	if second.RawName != "Zeytinyağı Natürel Sızma" {
		t.Errorf("taşan ürün adı birleştirilmedi: %q", second.RawName)
	}
	if second.MatchedProductID != 2 {
		t.Errorf("ikinci satır eşleşmedi: %+v", second)
	}
	if !almostEqual(second.LineTotal, 1850.00) {
		t.Errorf("tutar sütunu kullanılmalıydı: %v", second.LineTotal)
	}

	// Eşleşmeyen satır yine de listede kalır
	third := parsed.Lines[2]
	if third.MatchedProductID != 0 {
		t.Errorf("bilinmeyen ürün eşleşmemeliydi: %+v", third)
	}

	if !almostEqual(parsed.TotalAmount, 462.50+1850.00+50.00) {
		t.Errorf("toplam tutar hatalı: %v", parsed.TotalAmount)
	}
}

func TestParseInvoiceTextWithoutTable(t *testing.T) {
	parsed := ParseInvoiceText("rastgele metin, tablo yok", nil)
	if len(parsed.Lines) != 0 {
		t.Fatalf("tablosuz metinden satır çıkmamalı")
	}
}
