package inventory

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"mutfak-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// InvoiceLine: Fatura metninden çıkarılan tek ürün satırı. MatchedProductID 0
// ise ürün eşleştirilememiştir, operatör elle seçmelidir.
type InvoiceLine struct {
	RawName          string  `json:"raw_name"`
	StockCode        string  `json:"stock_code"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	UnitPrice        float64 `json:"unit_price"`
	LineTotal        float64 `json:"line_total"`
	MatchedProductID uint    `json:"matched_product_id"`
	MatchedName      string  `json:"matched_name"`
}

// ParsedInvoice: Tedarikçi faturasının ayrıştırılmış hali.
type ParsedInvoice struct {
	InvoiceNumber string        `json:"invoice_number"`
	Date          time.Time     `json:"date"`
	Lines         []InvoiceLine `json:"lines"`
	MatchedCount  int           `json:"matched_count"`
	TotalAmount   float64       `json:"total_amount"`
}

var (
	invoiceDateRe   = regexp.MustCompile(`(?:Fatura|Sipariş)\s+Tarihi:\s*(\d{2}\.\d{2}\.\d{4})`)
	invoiceNumberRe = regexp.MustCompile(`(?:Fatura\s+)?No:\s*([A-Z0-9-]+)`)
	quantityRe      = regexp.MustCompile(`^([\d.,]+)\s*(.*)$`)
	nameSuffixRe    = regexp.MustCompile(`\s+[\d.,]+\s*(KG|GR|LT|ML|ADET|PAKET|KOLİ|KOLI)?\s*$`)
)

// parseTurkishFloat: "1.234,56" veya "1.234,56 TL" biçimini float'a çevirir.
// Binlik ayracı nokta, ondalık ayracı virgüldür.
func parseTurkishFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "TL")
	s = strings.TrimSuffix(s, "₺")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// extractQuantityAndUnit: "2,5 KG" -> (2.5, "KG"), "10 Paket" -> (10, "Paket")
func extractQuantityAndUnit(s string) (float64, string) {
	m := quantityRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, ""
	}
	return parseTurkishFloat(m[1]), strings.TrimSpace(m[2])
}

// Türkçe karakterleri ASCII karşılığına indirger, eşleştirme için.
var turkishReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

func normalizeProductName(name string) string {
	name = nameSuffixRe.ReplaceAllString(name, "")
	name = turkishReplacer.Replace(name)
	name = strings.ToLower(strings.TrimSpace(name))
	return name
}

// matchProduct: Önce stok koduyla birebir, bulunamazsa normalize edilmiş isim
// üzerinden kelime kesişimiyle eşleştirir. 5 puanın altındaki eşleşmeler
// güvenilmez sayılır ve boş döner.
func matchProduct(products []models.Product, stockCode, rawName string) *models.Product {
	if stockCode != "" {
		for i := range products {
			if products[i].Code != "" && strings.EqualFold(products[i].Code, stockCode) {
				return &products[i]
			}
		}
	}

	target := normalizeProductName(rawName)
	if target == "" {
		return nil
	}
	targetWords := strings.Fields(target)

	var best *models.Product
	bestScore := 0
	for i := range products {
		candidate := normalizeProductName(products[i].Name)
		score := 0
		if candidate == target {
			score = 100
		} else {
			for _, w := range targetWords {
				if len(w) >= 3 && strings.Contains(candidate, w) {
					score += len(w)
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = &products[i]
		}
	}

	if bestScore < 5 {
		return nil
	}
	return best
}

// parseInvoiceDate: "02.06.2026" -> time.Time. Bulunamazsa bugünün tarihi.
func parseInvoiceDate(text string) time.Time {
	if m := invoiceDateRe.FindStringSubmatch(text); m != nil {
		if d, err := time.Parse("02.01.2006", m[1]); err == nil {
			return d
		}
	}
	return time.Now().Truncate(24 * time.Hour)
}

func parseInvoiceNumber(text string) string {
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ParseInvoiceText: Tedarikçi faturasından (PDF'den çıkarılmış düz metin)
// ürün satırlarını ayrıştırır ve katalogdaki ürünlerle eşleştirir. Tablo
// satırları "|" ile ayrılmıştır; başlık satırı "Stok Kodu" ve "Ürün"
// sütunlarını içerir. Ürün adı bir sonraki satıra taşabilir, bu satırlarda
// miktar sütunu boştur.
func ParseInvoiceText(text string, products []models.Product) ParsedInvoice {
	result := ParsedInvoice{
		InvoiceNumber: parseInvoiceNumber(text),
		Date:          parseInvoiceDate(text),
	}

	lines := strings.Split(text, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "Stok Kodu") && strings.Contains(line, "Ürün") {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		log.Warn().Msg("Fatura metninde tablo başlığı bulunamadı")
		return result
	}

	for i := headerIdx + 1; i < len(lines); i++ {
		cols := strings.Split(lines[i], "|")
		if len(cols) < 4 {
			continue
		}
		for j := range cols {
			cols[j] = strings.TrimSpace(cols[j])
		}

		stockCode := cols[0]
		rawName := cols[1]
		if rawName == "" {
			continue
		}

		// Ürün adı alt satıra taşmışsa birleştir (taşan satırda miktar boş olur)
		if i+1 < len(lines) {
			next := strings.Split(lines[i+1], "|")
			if len(next) >= 4 && strings.TrimSpace(next[0]) == "" &&
				strings.TrimSpace(next[2]) == "" && strings.TrimSpace(next[1]) != "" {
				rawName = rawName + " " + strings.TrimSpace(next[1])
				i++
			}
		}

		quantity, unit := extractQuantityAndUnit(cols[2])
		if quantity <= 0 {
			continue
		}
		unitPrice := parseTurkishFloat(cols[3])
		lineTotal := unitPrice * quantity
		if len(cols) >= 5 && cols[4] != "" {
			lineTotal = parseTurkishFloat(cols[4])
		}

		line := InvoiceLine{
			RawName:   rawName,
			StockCode: stockCode,
			Quantity:  quantity,
			Unit:      unit,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		}
		if p := matchProduct(products, stockCode, rawName); p != nil {
			line.MatchedProductID = p.ID
			line.MatchedName = p.Name
			result.MatchedCount++
		} else {
			log.Warn().Str("urun", rawName).Msg("Fatura satırı katalogla eşleştirilemedi")
		}

		result.TotalAmount += lineTotal
		result.Lines = append(result.Lines, line)
	}

	return result
}
