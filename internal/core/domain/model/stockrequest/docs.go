// Package stockrequest provides the StockRequest aggregate used when stock
// custody cannot satisfy an order and escalates to the HOD.
//
// Key business rules:
//   - A request starts Pending and is resolved exactly once to Approved or Rejected
//   - Resolution records the resolver and, on approval, the stock before and after
//   - A request may be linked to an order; an order has at most one pending request
//     (enforced by the ledger and the store, not by a single aggregate)
package stockrequest
