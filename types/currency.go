/*
# Module: types/currency.go
Currency display and conversion data structures.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, currency

## Exports
CurrencyInfo

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/currency.go" ;
    code:description "Currency display and conversion data structures" ;
    code:exports :CurrencyInfo ;
    code:tags "data-types", "currency" .
<!-- End LinkedDoc RDF -->
*/
package types

// CurrencyInfo describes a currency and its conversion rate from EUR
type CurrencyInfo struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"` // multiplier applied to EUR amounts
	Name   string  `json:"name"`
}
