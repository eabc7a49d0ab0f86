package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

// Formatter renders base (USD) amounts in the active display currency.
type Formatter struct {
	settings models.Settings
}

// NewFormatter returns a formatter for the given settings.
func NewFormatter(settings models.Settings) Formatter {
	return Formatter{settings: settings}
}

// Symbol returns the prefix of the active currency.
func (f Formatter) Symbol() string {
	switch f.settings.CurrentCurrency {
	case models.CurrencyEUR:
		return "€"
	case models.CurrencyRWF:
		return "FRw"
	default:
		return "$"
	}
}

// Convert maps a base amount to the active currency. EUR multiplies by the
// EUR rate and RWF divides by the RWF rate.
func (f Formatter) Convert(amount float64) float64 {
	switch f.settings.CurrentCurrency {
	case models.CurrencyEUR:
		return amount * f.settings.EURRate
	case models.CurrencyRWF:
		return amount / f.settings.RWFRate
	default:
		return amount
	}
}

// ToBase is the inverse of Convert.
func (f Formatter) ToBase(amount float64) float64 {
	switch f.settings.CurrentCurrency {
	case models.CurrencyEUR:
		return amount / f.settings.EURRate
	case models.CurrencyRWF:
		return amount * f.settings.RWFRate
	default:
		return amount
	}
}

// Format converts amount and renders it with the currency symbol and exactly
// two fractional digits, e.g. "€4.95".
func (f Formatter) Format(amount float64) string {
	return f.Symbol() + ToFixed(f.Convert(amount), 2)
}

// ToFixed renders v with exactly places fractional digits. Rounding works on
// the exact binary value of v, half away from zero, so 1.005 renders as
// "1.00" and 1.125 as "1.13". A negative value that rounds to zero keeps its
// sign.
func ToFixed(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	exact := strconv.FormatFloat(v, 'f', 1074, 64)
	out := decimal.RequireFromString(exact).StringFixed(places)
	if v < 0 && !strings.HasPrefix(out, "-") {
		out = "-" + out
	}
	return out
}
