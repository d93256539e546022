// Package kernel provides the shared primitives of the fulfillment domain.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Role: the closed set of workflow roles (admin, hod, stock, dispatch, installer, sales)
//   - Principal: the authenticated actor invoking a transition, resolved once to exactly one role
//   - Contact: a validated customer contact block
//
// These primitives are immutable values and safe for concurrent use.
package kernel
