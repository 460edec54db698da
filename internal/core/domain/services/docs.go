// Package services provides domain services that span several aggregates of
// the fulfillment core and do not belong to a single one of them.
//
// The package includes:
//   - CarrierSelector: picks the preferred active carrier among serviceability offers
//   - OrderSplitter: decides between direct labeling and splitting an order, and names clone orders
//   - AlertClassifier: maps remote failures to alert categories
package services
