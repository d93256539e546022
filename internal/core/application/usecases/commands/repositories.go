// Package commands contains the operations that change workflow state.
// Every role-gated transition goes through WorkflowEngine; system operations
// (receipt recording, redelivery) have their own handlers. All of them follow
// the same pattern: validation, a unit of work per command, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	StockRequestRepoFactory interface {
		StockRequestRepository() ports.StockRequestRepository
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	InstallerRepoFactory interface {
		InstallerRepository() ports.InstallerRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// WorkflowUoW spans every aggregate a transition may touch.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orders := uow.OrderRepository()
	//   requests := uow.StockRequestRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	WorkflowUoW interface {
		TxManager
		OrderRepoFactory
		StockRequestRepoFactory
		InventoryRepoFactory
		InstallerRepoFactory
	}

	WorkflowUoWFactory interface {
		Create() WorkflowUoW
	}

	// NotificationUoW is used outside a transaction: intents are appended
	// after the transition they describe has committed.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
