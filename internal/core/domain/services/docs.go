// Package services provides domain services that span several aggregates of the
// fulfillment workflow.
//
// The package includes:
//   - RoleAuthorizer: resolves a principal email to exactly one role and gates
//     every operation by a policy table
//   - NotificationPlanner: turns a committed transition into one message per
//     primary recipient category, with cc lists taken from configuration
//
// Both services are configured through explicit config objects injected at
// construction; neither holds package-level state.
package services
