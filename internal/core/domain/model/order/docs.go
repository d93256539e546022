// Package order provides the Order aggregate of the installation fulfillment
// workflow together with its status machine.
//
// The package includes:
//   - Order: the aggregate root holding customer, product, stage and timeline
//   - Status: the lifecycle states of an order
//   - Transition: named operations and the table of their legal source states
//   - Stage: a closed set of per-status payloads (rejection, dispatch, installation)
//   - Report: the installation report carried only by the installed stage
//   - TimelineEntry: one append-only audit record per applied transition
//
// Key business rules:
//   - An order enters Created only through NewOrder
//   - Created -> Verified | HodPending | Rejected; HodPending -> Verified | Rejected;
//     Verified -> Dispatched; Dispatched -> Installed
//   - Rejected and Installed are terminal
//   - The first timeline entry is always Created by the sales role, and the
//     current status always equals the status of the last timeline entry
package order
