package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type workflowUoWFactory struct{ store *memory.Store }

func (f workflowUoWFactory) Create() commands.WorkflowUoW { return f.store.Create() }

type notificationUoWFactory struct{ store *memory.Store }

func (f notificationUoWFactory) Create() commands.NotificationUoW { return f.store.Create() }

// recordingSender keeps every intent it was handed and fails while fail is set.
type recordingSender struct {
	mu   sync.Mutex
	sent []*notification.Intent
	fail error
}

func (s *recordingSender) Send(_ context.Context, intent *notification.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, intent)
	return nil
}

func (s *recordingSender) failWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

type mapIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]kernel.UUID
}

func (m *mapIdempotencyStore) Lookup(_ context.Context, key string) (kernel.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.keys[key]
	return id, ok, nil
}

func (m *mapIdempotencyStore) Remember(_ context.Context, key string, orderID kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = orderID
	return nil
}

type fixture struct {
	store       *memory.Store
	engine      *commands.WorkflowEngine
	sender      *recordingSender
	idempotency *mapIdempotencyStore

	sales, stock, hod, dispatch, admin kernel.Principal
	fitter, otherFitter                kernel.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	authorizer, err := services.NewRoleAuthorizer(services.AccessConfig{})
	require.NoError(t, err)

	planner := services.NewNotificationPlanner(services.NotificationConfig{
		Mailboxes: map[notification.Category]services.Mailbox{
			notification.CategoryStock:     {Address: "stock@acme.test"},
			notification.CategorySales:     {Address: "sales@acme.test", CC: []string{"crm@acme.test"}},
			notification.CategoryHOD:       {Address: "hod@acme.test"},
			notification.CategoryDispatch:  {Address: "dispatch@acme.test"},
			notification.CategoryInstaller: {Address: "install-team@acme.test"},
		},
		TrackURL: "https://acme.test/track",
	})

	f := &fixture{
		store:       memory.NewStore(),
		sender:      &recordingSender{},
		idempotency: &mapIdempotencyStore{keys: map[string]kernel.UUID{}},
	}
	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewFixed(t0)

	dispatcher := commands.NewNotificationDispatcher(planner, f.sender, notificationUoWFactory{f.store}, clk, logger)
	f.engine = commands.NewWorkflowEngine(workflowUoWFactory{f.store}, authorizer, dispatcher, f.idempotency, clk, logger)

	f.sales = mustPrincipal(t, "sales", kernel.RoleSales)
	f.stock = mustPrincipal(t, "stock", kernel.RoleStock)
	f.hod = mustPrincipal(t, "hod", kernel.RoleHOD)
	f.dispatch = mustPrincipal(t, "dispatch", kernel.RoleDispatch)
	f.admin = mustPrincipal(t, "admin", kernel.RoleAdmin)
	f.fitter = mustPrincipal(t, "INST-001", kernel.RoleInstaller)
	f.otherFitter = mustPrincipal(t, "INST-002", kernel.RoleInstaller)
	return f
}

func mustPrincipal(t *testing.T, id string, role kernel.Role) kernel.Principal {
	t.Helper()
	p, err := kernel.NewPrincipal(id, id+"@acme.test", role)
	require.NoError(t, err)
	return p
}

func details(t *testing.T, product string, quantity int) order.Details {
	t.Helper()
	customer, err := kernel.NewContact("Asha Rao", "asha@example.com", "+91 98450 00000", "12 MG Road, Pune")
	require.NoError(t, err)
	return order.Details{
		Customer:         customer,
		Product:          product,
		Quantity:         quantity,
		InstallationDate: t0.AddDate(0, 0, 7),
	}
}

func (f *fixture) submit(t *testing.T, product string, quantity int) *order.Order {
	t.Helper()
	cmd, err := commands.NewSubmitOrderCommand(f.sales, details(t, product, quantity), "")
	require.NoError(t, err)
	res, err := f.engine.SubmitOrder(context.Background(), cmd)
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) verify(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	cmd, err := commands.NewVerifyStockCommand(f.stock, o.ID(), "shelf B2")
	require.NoError(t, err)
	res, err := f.engine.VerifyStock(context.Background(), cmd)
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) escalate(t *testing.T, o *order.Order, quantity int) commands.TransitionResult {
	t.Helper()
	res, err := f.tryEscalate(t, o, quantity)
	require.NoError(t, err)
	return res
}

func (f *fixture) tryEscalate(t *testing.T, o *order.Order, quantity int) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewEscalateStockCommand(f.stock, o.ID(), "", quantity, "need more")
	require.NoError(t, err)
	return f.engine.EscalateStock(context.Background(), cmd)
}

func (f *fixture) approve(t *testing.T, requestID kernel.UUID) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewApproveStockCommand(f.hod, requestID)
	require.NoError(t, err)
	return f.engine.ApproveStock(context.Background(), cmd)
}

func (f *fixture) registerInstaller(t *testing.T, id, email string) {
	t.Helper()
	cmd, err := commands.NewRegisterInstallerCommand(f.admin, id, "Ravi "+id, "98450", email)
	require.NoError(t, err)
	_, err = f.engine.RegisterInstaller(context.Background(), cmd)
	require.NoError(t, err)
}

func (f *fixture) dispatchTo(t *testing.T, o *order.Order, installerID string) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewDispatchOrderCommand(f.dispatch, o.ID(), installerID, t0.AddDate(0, 0, 3), "call first")
	require.NoError(t, err)
	return f.engine.DispatchOrder(context.Background(), cmd)
}

func (f *fixture) complete(t *testing.T, actor kernel.Principal, o *order.Order) (commands.TransitionResult, error) {
	t.Helper()
	cmd, err := commands.NewCompleteInstallationCommand(actor, o.ID(), order.ReportDraft{
		Site:     order.SiteLocation{Address: "12 MG Road", City: "Pune"},
		Feedback: order.Feedback{Rating: 4, Satisfied: true},
	})
	require.NoError(t, err)
	return f.engine.CompleteInstallation(context.Background(), cmd)
}

func (f *fixture) inventory(t *testing.T, product string) int {
	t.Helper()
	rec, err := f.store.Create().InventoryRepository().Get(context.Background(), product)
	require.NoError(t, err)
	return rec.Quantity()
}

func (f *fixture) reload(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	got, err := f.store.Create().OrderRepository().Get(context.Background(), o.ID())
	require.NoError(t, err)
	return got
}

func requireStatusMatchesTimeline(t *testing.T, o *order.Order) {
	t.Helper()
	tl := o.Timeline()
	require.NotEmpty(t, tl)
	require.Equal(t, o.Status(), tl[len(tl)-1].Status)
}

func intentsWithTag(intents []*notification.Intent, tag notification.Tag) []*notification.Intent {
	var out []*notification.Intent
	for _, i := range intents {
		if i.Tag() == tag {
			out = append(out, i)
		}
	}
	return out
}

var errSMTPDown = errors.New("smtp relay unavailable")
