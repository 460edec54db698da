// Package orderline contains the OrderLine aggregate: one product of a
// customer order and the unit vendors claim, label and hand over.
//
// The claim lifecycle lives in ClaimStatus. Splitting a partially claimed
// order is expressed through MoveToClone, the only operation allowed to
// change a line's order id.
package orderline
