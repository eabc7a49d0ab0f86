package models

// Currency is a display currency supported by the dashboard.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyRWF Currency = "RWF"
)

// Valid reports whether c is a supported display currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyRWF:
		return true
	}
	return false
}

// Settings holds dashboard-wide preferences. Amounts are stored in USD;
// EURRate converts USD to EUR by multiplication and RWFRate converts USD to
// RWF by division.
type Settings struct {
	ExpenseCap      float64  `json:"expenseCap"`
	EURRate         float64  `json:"eurRate"`
	RWFRate         float64  `json:"rwfRate"`
	CurrentCurrency Currency `json:"currentCurrency"`
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() Settings {
	return Settings{
		ExpenseCap:      1000,
		EURRate:         1.1,
		RWFRate:         0.00079,
		CurrentCurrency: CurrencyUSD,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	ExpenseCap      *float64  `json:"expenseCap,omitempty"`
	EURRate         *float64  `json:"eurRate,omitempty"`
	RWFRate         *float64  `json:"rwfRate,omitempty"`
	CurrentCurrency *Currency `json:"currentCurrency,omitempty"`
}

// Apply merges the non-nil fields of p over s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ExpenseCap != nil {
		s.ExpenseCap = *p.ExpenseCap
	}
	if p.EURRate != nil {
		s.EURRate = *p.EURRate
	}
	if p.RWFRate != nil {
		s.RWFRate = *p.RWFRate
	}
	if p.CurrentCurrency != nil {
		s.CurrentCurrency = *p.CurrentCurrency
	}
	return s
}
