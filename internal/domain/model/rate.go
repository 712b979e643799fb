package model

// BaseCurrency is the currency all internal price computation happens in.
const BaseCurrency = "GBP"

// SupportedCurrencies is the fixed set of currency codes the platform quotes in.
var SupportedCurrencies = []string{"GBP", "USD", "CAD", "AUD", "CNY"}

// RateTable maps a currency code to its multiplier relative to BaseCurrency.
type RateTable map[string]float64

// Supports reports whether the table carries a rate for code.
func (t RateTable) Supports(code string) bool {
	_, ok := t[code]
	return ok
}
