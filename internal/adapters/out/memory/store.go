// Package memory is an in-process implementation of the unit of work and all
// repositories. Transactions are serialized and work on a copy of the
// transactional tables that replaces the live one on commit. The notification
// log is not transactional; it is only ever written after commit.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/core/ports"
)

var (
	errTxActive = errors.New("transaction already started")
	errNoTx     = errors.New("no active transaction")
)

type tables struct {
	orders        map[string]order.State
	stockRequests map[string]stockrequest.State
	inventory     map[string]inventory.Record
	installers    map[string]*installer.Installer
}

func newTables() *tables {
	return &tables{
		orders:        make(map[string]order.State),
		stockRequests: make(map[string]stockrequest.State),
		inventory:     make(map[string]inventory.Record),
		installers:    make(map[string]*installer.Installer),
	}
}

// clone copies the maps. Stored values are never mutated in place, so a
// shallow copy is enough.
func (t *tables) clone() *tables {
	return &tables{
		orders:        maps.Clone(t.orders),
		stockRequests: maps.Clone(t.stockRequests),
		inventory:     maps.Clone(t.inventory),
		installers:    maps.Clone(t.installers),
	}
}

// Store holds the data shared by every unit of work it creates.
type Store struct {
	txMu sync.Mutex // held for the whole life of a transaction
	mu   sync.Mutex // guards data, intents and intentOrder

	data        *tables
	intents     map[string]notification.State
	intentOrder []string
}

func NewStore() *Store {
	return &Store{
		data:    newTables(),
		intents: make(map[string]notification.State),
	}
}

// Create returns a new unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// UnitOfWork is not safe for concurrent use; create one per command.
type UnitOfWork struct {
	store *Store
	tx    *tables
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx != nil {
		return errTxActive
	}
	u.store.txMu.Lock()
	u.store.mu.Lock()
	u.tx = u.store.data.clone()
	u.store.mu.Unlock()
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return errNoTx
	}
	u.store.mu.Lock()
	u.store.data = u.tx
	u.store.mu.Unlock()
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

// Rollback discards the transaction. After Commit it is a no-op.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return nil
	}
	u.tx = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) StockRequestRepository() ports.StockRequestRepository {
	return &stockRequestRepository{uow: u}
}

func (u *UnitOfWork) InventoryRepository() ports.InventoryRepository {
	return &inventoryRepository{uow: u}
}

func (u *UnitOfWork) InstallerRepository() ports.InstallerRepository {
	return &installerRepository{uow: u}
}

func (u *UnitOfWork) NotificationRepository() ports.NotificationRepository {
	return &notificationRepository{store: u.store}
}

// read runs fn against the transaction, or against live data under the lock.
func (u *UnitOfWork) read(fn func(t *tables) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}

// write is read for mutations. Outside a transaction it waits for running
// transactions so their commit cannot overwrite the change.
func (u *UnitOfWork) write(fn func(t *tables) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}
