// Package installer provides the Installer aggregate: a member of the field
// installation team that dispatch can assign to orders.
//
// Key business rules:
//   - Installers are identified by a human-readable id such as INST-001
//   - Name is required; email, when present, must parse
//   - An installer principal may only complete orders dispatched to its own id
package installer
