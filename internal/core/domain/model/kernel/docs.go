// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - Pincode: a validated six digit postal code used for carrier serviceability
//   - PaymentType: prepaid or cash-on-delivery, which decides the collectable total
//     and which serviceability entries apply to an order
//
// Values are immutable and safe to copy. Zero values are invalid and fail Validate.
package kernel
