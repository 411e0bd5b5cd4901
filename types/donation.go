/*
# Module: types/donation.go
Donation click records written when a visitor confirms a charity.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, donations

## Exports
Donation

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/donation.go" ;
    code:description "Donation click records written when a visitor confirms a charity" ;
    code:exports :Donation ;
    code:tags "data-types", "donations" .
<!-- End LinkedDoc RDF -->
*/
package types

import "time"

// Donation records a confirmed hand-off to the charity checkout
type Donation struct {
	ID          string    `json:"id" dynamodbav:"id"`
	ProjectID   string    `json:"project_id" dynamodbav:"project_id"`
	RecipeID    string    `json:"recipe_id" dynamodbav:"recipe_id"`
	Amount      int64     `json:"amount" dynamodbav:"amount"` // whole units, after the minimum is applied
	Currency    string    `json:"currency" dynamodbav:"currency"`
	CountryCode string    `json:"country_code,omitempty" dynamodbav:"country_code"`
	VisitorID   string    `json:"visitor_id,omitempty" dynamodbav:"visitor_id"`
	CheckoutURL string    `json:"checkout_url" dynamodbav:"checkout_url"`
	Timestamp   time.Time `json:"timestamp" dynamodbav:"timestamp"`
}
