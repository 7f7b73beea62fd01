// Package pricing приводит цены туров к числу и форматирует суммы для отображения.
package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol - символ валюты, в которой указаны все цены.
const CurrencySymbol = "₹"

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	printer       = message.NewPrinter(language.English)
)

// Normalize приводит значение цены произвольного типа к неотрицательному числу.
// Отсутствующее или нераспознанное значение дает 0. Функция никогда не паникует.
func Normalize(v any) float64 {
	switch p := v.(type) {
	case nil:
		return 0
	case string:
		return parseText(p)
	case *string:
		if p == nil {
			return 0
		}
		return parseText(*p)
	case []byte:
		return parseText(string(p))
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return clean(f)
	case float64:
		return clean(p)
	case *float64:
		if p == nil {
			return 0
		}
		return clean(*p)
	case float32:
		return clean(float64(p))
	case int:
		return clean(float64(p))
	case int8:
		return clean(float64(p))
	case int16:
		return clean(float64(p))
	case int32:
		return clean(float64(p))
	case int64:
		return clean(float64(p))
	case *int:
		if p == nil {
			return 0
		}
		return clean(float64(*p))
	case uint:
		return clean(float64(p))
	case uint8:
		return clean(float64(p))
	case uint16:
		return clean(float64(p))
	case uint32:
		return clean(float64(p))
	case uint64:
		return clean(float64(p))
	}
	return 0
}

// parseText убирает из строки все, кроме цифр и точки, и разбирает самый длинный корректный
// десятичный префикс: "1.2.3" -> 1.2.
func parseText(s string) float64 {
	digits := nonPriceChars.ReplaceAllString(s, "")
	end, dot := 0, false
	for end < len(digits) {
		if digits[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}
	f, err := strconv.ParseFloat(digits[:end], 64)
	if err != nil {
		return 0
	}
	return clean(f)
}

func clean(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// FormatAmount форматирует сумму с разделителями разрядов, без символа валюты: 3600 -> "3,600".
func FormatAmount(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatINR форматирует сумму для отображения: 3600 -> "₹3,600".
func FormatINR(v float64) string {
	return CurrencySymbol + FormatAmount(v)
}
