package domain

// LegacyCurrency is the reference currency of the first schema generation.
// The user's legacy balance field is denominated in it.
const LegacyCurrency = "usd"

// Currency describes a supported fiat currency.
type Currency struct {
	Code   string
	Name   string
	Symbol string
}

// Supported currencies, lowercase codes. The catalog is static and
// authoritative: settlements reject any currency not listed here.
var currencies = []Currency{
	{Code: "usd", Name: "US Dollar", Symbol: "$"},
	{Code: "eur", Name: "Euro", Symbol: "€"},
	{Code: "gbp", Name: "British Pound", Symbol: "£"},
	{Code: "jpy", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "cad", Name: "Canadian Dollar", Symbol: "CA$"},
	{Code: "aud", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "chf", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "cny", Name: "Chinese Yuan", Symbol: "CN¥"},
	{Code: "sek", Name: "Swedish Krona", Symbol: "kr"},
	{Code: "nzd", Name: "New Zealand Dollar", Symbol: "NZ$"},
	{Code: "brl", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "inr", Name: "Indian Rupee", Symbol: "₹"},
}

var currencyIndex = func() map[string]Currency {
	m := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		m[c.Code] = c
	}
	return m
}()

// SupportedCurrencies returns the full currency catalog.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// IsSupportedCurrency reports whether code (lowercase) is in the catalog.
func IsSupportedCurrency(code string) bool {
	_, ok := currencyIndex[code]
	return ok
}

// CurrencyByCode looks up a currency by its lowercase code.
func CurrencyByCode(code string) (Currency, bool) {
	c, ok := currencyIndex[code]
	return c, ok
}
