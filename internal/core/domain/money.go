package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency - валюта площадки, если в строке цены нет ни символа, ни ISO-кода
const DefaultCurrency = "NGN"

// Money - числовая цена: целые единицы валюты + ISO 4217 код
type Money struct {
	Amount   int64
	Currency string
}

var (
	// число с разделителями тысяч и необязательным суффиксом масштаба: 120,000,000 | 1.5M | 45K.
	// Суффикс - отдельная буква, "monthly" или "Million" масштабом не считаются.
	amountRegexp = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(?:([KkMmBb])\b)?`)

	symbolToISO = map[string]string{
		"₦": "NGN",
		"$": "USD",
		"€": "EUR",
		"£": "GBP",
	}
	isoToSymbol = map[string]string{
		"NGN": "₦",
		"USD": "$",
		"EUR": "€",
		"GBP": "£",
	}
)

// ParseDisplayPrice достает сумму и валюту из строки вида "₦120,000,000", "₦2,500,000 /yr" или "₦120M"
func ParseDisplayPrice(display string) (*Money, error) {
	match := amountRegexp.FindStringSubmatch(display)
	if match == nil {
		return nil, fmt.Errorf("no amount in price %q", display)
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount in price %q: %w", display, err)
	}

	switch strings.ToUpper(match[2]) {
	case "K":
		value *= 1e3
	case "M":
		value *= 1e6
	case "B":
		value *= 1e9
	}

	value = math.Round(value)
	if value >= math.MaxInt64 {
		return nil, fmt.Errorf("amount in price %q is too large", display)
	}

	return &Money{
		Amount:   int64(value),
		Currency: detectCurrency(display),
	}, nil
}

func detectCurrency(display string) string {
	for _, field := range strings.Fields(display) {
		// только коды в верхнем регистре, иначе "all" превратится в албанский лек
		if len(field) != 3 || strings.ToUpper(field) != field {
			continue
		}
		if unit, err := currency.ParseISO(field); err == nil {
			return unit.String()
		}
	}
	for symbol, iso := range symbolToISO {
		if strings.Contains(display, symbol) {
			return iso
		}
	}
	return DefaultCurrency
}

// NormalizeCurrency проверяет ISO-код и приводит его к каноническому виду
func NormalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return unit.String(), nil
}

// FormatMoney рендерит сумму для отображения: ₦120,000,000
func FormatMoney(m Money) string {
	p := message.NewPrinter(language.English)
	amount := p.Sprintf("%d", m.Amount)

	code, err := NormalizeCurrency(m.Currency)
	if err != nil {
		return strings.TrimSpace(m.Currency + " " + amount)
	}
	if symbol, ok := isoToSymbol[code]; ok {
		return symbol + amount
	}
	return code + " " + amount
}

// WithDerivedPrice дополняет цену записи: строку из суммы или сумму из строки.
// Сумма с неизвестной валютой отбрасывается. Строка цены не переписывается.
func (r ListingRecord) WithDerivedPrice() ListingRecord {
	if m := r.Details.Money; m != nil {
		if code, err := NormalizeCurrency(m.Currency); err == nil {
			r.Details.Money = &Money{Amount: m.Amount, Currency: code}
		} else {
			r.Details.Money = nil
		}
	}

	switch {
	case r.Listing.Price == "" && r.Details.Money != nil:
		r.Listing.Price = FormatMoney(*r.Details.Money)
	case r.Listing.Price != "" && r.Details.Money == nil:
		if money, err := ParseDisplayPrice(r.Listing.Price); err == nil {
			r.Details.Money = money
		}
	}
	return r
}
