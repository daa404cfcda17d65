package sales

import (
	"testing"
	"time"

	"mutfak-backend/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("geçersiz test tarihi %q: %v", s, err)
	}
	return d
}

var testDishes = []models.Dish{
	{ID: 1, Name: "Adana Kebap", TotalCost: 45, SellingPrice: 180},
	{ID: 2, Name: "Mercimek Çorbası", TotalCost: 8, SellingPrice: 40},
}

func TestParseSalesRows(t *testing.T) {
	rows := [][]string{
		{"GÜNLÜK SATIŞ RAPORU"},
		{},
		{"Ürün", "Adet", "Tutar"},
		{"ADANA KEBAP", "12", "2160"},
		{"mercimek corbasi", "30", "1200"},
		{"Künefe", "5", "400"},
		{"", "3"},
		{"Ayran", "0"},
	}

	parsed, skipped := parseSalesRows(rows, testDishes)
	if parsed == nil {
		t.Fatal("başlık satırı bulunamadı")
	}
	if len(parsed) != 3 {
		t.Fatalf("3 satır beklenirken %d ayrıştırıldı: %+v", len(parsed), parsed)
	}
	if skipped != 1 {
		t.Errorf("sıfır adetli 1 satır atlanmalıydı, atlanan: %d", skipped)
	}

	// Büyük/küçük harf ve Türkçe karakter farkına rağmen eşleşir
	if parsed[0].MatchedDishID != 1 || parsed[0].Quantity != 12 {
		t.Errorf("ilk satır hatalı: %+v", parsed[0])
	}
	if parsed[1].MatchedDishID != 2 || parsed[1].Quantity != 30 {
		t.Errorf("ikinci satır hatalı: %+v", parsed[1])
	}

	// Menüde olmayan tabak eşleşmeden listede kalır
	if parsed[2].MatchedDishID != 0 || parsed[2].RawName != "Künefe" {
		t.Errorf("eşleşmeyen satır hatalı: %+v", parsed[2])
	}
}

func TestParseSalesRowsAlternateHeaders(t *testing.T) {
	rows := [][]string{
		{"Tabak", "Miktar"},
		{"Adana Kebap", "2,5"},
	}
	parsed, _ := parseSalesRows(rows, testDishes)
	if len(parsed) != 1 {
		t.Fatalf("1 satır beklenirken %d ayrıştırıldı", len(parsed))
	}
	if parsed[0].Quantity != 2.5 {
		t.Errorf("virgüllü miktar ayrıştırılamadı: %v", parsed[0].Quantity)
	}
}

func TestParseSalesRowsNoHeader(t *testing.T) {
	rows := [][]string{
		{"rastgele", "veri"},
		{"baska", "satir"},
	}
	parsed, _ := parseSalesRows(rows, testDishes)
	if parsed != nil {
		t.Fatalf("başlıksız dosyadan satır çıkmamalı: %+v", parsed)
	}
}

func TestNewSaleSnapshotsDishValues(t *testing.T) {
	dish := testDishes[0]
	s := newSale(dish, mustDate(t, "2026-06-09"), 3)

	if s.UnitCost != 45 || s.UnitRevenue != 180 {
		t.Errorf("birim değerler tabaktan dondurulmalı: %+v", s)
	}
	if s.TotalCost != 135 || s.TotalRevenue != 540 {
		t.Errorf("toplamlar hatalı: %+v", s)
	}
}
