/*
# Module: services/currency.go
Static currency table: country to currency mapping, EUR conversion and display formatting.

## Linked Modules
- [types/currency](../types/currency.go) - Currency data structures
- [types/location](../types/location.go) - Location data structures

## Tags
business-logic, currency, conversion

## Exports
CurrencyForCountry, CurrencyForCode, ConvertFromEUR, FormatAmount, FormatForLocation, BaseCurrency, FallbackCurrency

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/currency.go" ;
    code:description "Static currency table: country to currency mapping, EUR conversion and display formatting" ;
    code:linksTo [
        code:name "types/currency" ;
        code:path "../types/currency.go" ;
        code:relationship "Currency data structures"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ] ;
    code:exports :CurrencyForCountry, :CurrencyForCode, :ConvertFromEUR, :FormatAmount, :FormatForLocation, :BaseCurrency, :FallbackCurrency ;
    code:tags "business-logic", "currency", "conversion" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"recipe-giving/types"
)

const (
	// BaseCurrency is the currency every meal estimate is computed in
	BaseCurrency = "EUR"
	// FallbackCurrency is used for any country or code missing from the table
	FallbackCurrency = "USD"
)

// currencyTable holds approximate conversion rates from EUR
var currencyTable = map[string]types.CurrencyInfo{
	"USD": {Code: "USD", Symbol: "$", Rate: 1.1, Name: "US Dollar"},
	"GBP": {Code: "GBP", Symbol: "£", Rate: 0.85, Name: "British Pound"},
	"EUR": {Code: "EUR", Symbol: "€", Rate: 1, Name: "Euro"},
	"CAD": {Code: "CAD", Symbol: "C$", Rate: 1.5, Name: "Canadian Dollar"},
	"AUD": {Code: "AUD", Symbol: "A$", Rate: 1.65, Name: "Australian Dollar"},
	"JPY": {Code: "JPY", Symbol: "¥", Rate: 160, Name: "Japanese Yen"},
	"CHF": {Code: "CHF", Symbol: "CHF", Rate: 0.95, Name: "Swiss Franc"},
	"NZD": {Code: "NZD", Symbol: "NZ$", Rate: 1.8, Name: "New Zealand Dollar"},
	"SEK": {Code: "SEK", Symbol: "kr", Rate: 11.5, Name: "Swedish Krona"},
	"NOK": {Code: "NOK", Symbol: "kr", Rate: 11.8, Name: "Norwegian Krone"},
	"DKK": {Code: "DKK", Symbol: "kr", Rate: 7.45, Name: "Danish Krone"},
}

// countryCurrency maps ISO 3166 alpha-2 country codes to their primary currency
var countryCurrency = map[string]string{
	// North America
	"US": "USD",
	"CA": "CAD",

	// Euro area
	"IE": "EUR", "FR": "EUR", "DE": "EUR", "ES": "EUR", "IT": "EUR",
	"PT": "EUR", "NL": "EUR", "BE": "EUR", "AT": "EUR", "FI": "EUR",
	"GR": "EUR", "LU": "EUR", "MT": "EUR", "CY": "EUR", "SI": "EUR",
	"SK": "EUR", "EE": "EUR", "LV": "EUR", "LT": "EUR",

	// Europe, outside the euro
	"GB": "GBP",
	"CH": "CHF",
	"SE": "SEK",
	"NO": "NOK",
	"DK": "DKK",

	// Oceania
	"AU": "AUD",
	"NZ": "NZD",

	// Asia
	"JP": "JPY",
}

// CurrencyForCountry returns the currency used in a country, USD when unknown
func CurrencyForCountry(countryCode string) types.CurrencyInfo {
	code, ok := countryCurrency[strings.ToUpper(strings.TrimSpace(countryCode))]
	if !ok {
		code = FallbackCurrency
	}
	return CurrencyForCode(code)
}

// CurrencyForCode returns the table entry for a currency code, USD when unknown
func CurrencyForCode(code string) types.CurrencyInfo {
	if info, ok := currencyTable[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return info
	}
	return currencyTable[FallbackCurrency]
}

// ConvertFromEUR converts a EUR amount into whole units of the target currency.
// Non-finite input converts to 0.
func ConvertFromEUR(amountEUR float64, targetCode string) int64 {
	if math.IsNaN(amountEUR) || math.IsInf(amountEUR, 0) {
		return 0
	}

	info := CurrencyForCode(targetCode)
	converted := decimal.NewFromFloat(amountEUR).Mul(decimal.NewFromFloat(info.Rate))
	return converted.Round(0).IntPart()
}

// FormatAmount prefixes an amount with the currency symbol, e.g. "€8" or "¥2400"
func FormatAmount(amount int64, currencyCode string) string {
	return CurrencyForCode(currencyCode).Symbol + strconv.FormatInt(amount, 10)
}

// FormatForLocation formats an amount with the symbol stored on a visitor location
func FormatForLocation(amount int64, loc *types.UserLocation) string {
	symbol := "$"
	if loc != nil && loc.CurrencySymbol != "" {
		symbol = loc.CurrencySymbol
	}
	return symbol + strconv.FormatInt(amount, 10)
}
