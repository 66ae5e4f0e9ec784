package domain

import "strings"

// zeroDecimalCurrencies are the currencies Stripe defines as having no minor
// unit. Amounts in these currencies are charged as whole units, not cents.
// See https://stripe.com/docs/currencies#zero-decimal
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {},
	"CLP": {},
	"DJF": {},
	"GNF": {},
	"JPY": {},
	"KMF": {},
	"KRW": {},
	"MGA": {},
	"PYG": {},
	"RWF": {},
	"UGX": {},
	"VND": {},
	"VUV": {},
	"XAF": {},
	"XOF": {},
	"XPF": {},
}

// IsZeroDecimalCurrency reports whether the given currency code has no minor
// unit. The comparison is case-insensitive; unknown codes simply return false.
func IsZeroDecimalCurrency(currency string) bool {
	_, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]
	return ok
}
