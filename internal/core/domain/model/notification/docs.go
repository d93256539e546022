// Package notification models outbound notification intents: records of a
// message that should reach a recipient after a committed transition.
//
// An intent is decoupled from delivery. Its delivery status moves from
// Pending to Sent or Failed and may be retried; the open count is
// incremented by receipts from outside the workflow.
package notification
