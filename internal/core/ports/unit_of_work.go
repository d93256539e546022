package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained after Begin run inside the transaction; repositories
// obtained without Begin run directly against the store.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. It is a no-op after a
	// successful Commit, so callers may always defer it.
	// Returns error if no transaction was begun or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	StockRequestRepository() StockRequestRepository
	InventoryRepository() InventoryRepository
	InstallerRepository() InstallerRepository
	NotificationRepository() NotificationRepository
}
