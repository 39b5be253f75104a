// Package models defines the core domain records for the bookkeeping app.
//
// The data model is small and flat:
//   - Client: a registered customer
//   - Sale: one transaction against a client, with its line items and payments
//   - LineItem: one product line inside a sale
//   - Payment: one partial or full payment against a sale
//   - User: a local login account
//
// Relationships are Client 1—* Sale, Sale 1—* LineItem and Sale 1—* Payment.
// Children are owned by their parent and are cascade-deleted with it.
//
// IDs are random UUIDs generated on the client side, never auto-increment
// integers, so creation order and id order are unrelated; listings sort by a
// business field (client name, sale date) instead.
//
// Monetary values are float64 throughout. Currency comparisons use a fixed
// epsilon (see the calculator package) rather than exact equality.
package models
