package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const directory = "sales@acme.test=sales,stock@acme.test=stock,hod@acme.test=hod," +
	"dispatch@acme.test=dispatch,admin@acme.test=admin,ravi@acme.test=installer:INST-001"

type workflowUoWFactory struct{ store *memory.Store }

func (f workflowUoWFactory) Create() commands.WorkflowUoW { return f.store.Create() }

type notificationUoWFactory struct{ store *memory.Store }

func (f notificationUoWFactory) Create() commands.NotificationUoW { return f.store.Create() }

type readFactory struct{ store *memory.Store }

func (f readFactory) Create() queries.ReadRepositories { return f.store.Create() }

type acceptingSender struct{}

func (acceptingSender) Send(context.Context, *notification.Intent) error { return nil }

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dir, err := services.ParseDirectory(directory)
	require.NoError(t, err)
	authorizer, err := services.NewRoleAuthorizer(services.AccessConfig{Directory: dir})
	require.NoError(t, err)

	planner := services.NewNotificationPlanner(services.NotificationConfig{
		Mailboxes: map[notification.Category]services.Mailbox{
			notification.CategoryStock:     {Address: "stock@acme.test"},
			notification.CategorySales:     {Address: "sales@acme.test"},
			notification.CategoryHOD:       {Address: "hod@acme.test"},
			notification.CategoryDispatch:  {Address: "dispatch@acme.test"},
			notification.CategoryInstaller: {Address: "install-team@acme.test"},
		},
		TrackURL: "https://acme.test/track",
	})

	store := memory.NewStore()
	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewFixed(t0)

	dispatcher := commands.NewNotificationDispatcher(planner, acceptingSender{}, notificationUoWFactory{store}, clk, logger)
	engine := commands.NewWorkflowEngine(workflowUoWFactory{store}, authorizer, dispatcher, nil, clk, logger)

	server := httpin.NewServer(
		engine,
		authorizer,
		httpin.NewQueryHandlers(readFactory{store}),
		commands.NewRecordNotificationOpenedCommandHandler(notificationUoWFactory{store}),
		logger,
	)
	e := echo.New()
	server.Register(e)
	return e
}

type call struct {
	method, path, as, body string
	header                 map[string]string
}

func do(t *testing.T, e *echo.Echo, c call) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.as != "" {
		req.Header.Set(httpin.PrincipalHeader, c.as)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const submitBody = `{
	"customer": {"name": "Asha Rao", "email": "asha@example.com", "phone": "+91 98450 00000", "address": "12 MG Road, Pune"},
	"product": "Solar Inverter 5kW",
	"quantity": 2,
	"installationDate": "2026-03-09"
}`

func submit(t *testing.T, e *echo.Echo, key string) httpin.TransitionResponse {
	t.Helper()
	c := call{method: http.MethodPost, path: "/api/v1/orders", as: "sales@acme.test", body: submitBody}
	if key != "" {
		c.header = map[string]string{httpin.IdempotencyKeyHeader: key}
	}
	rec := do(t, e, c)
	require.Contains(t, []int{http.StatusCreated, http.StatusOK}, rec.Code, rec.Body.String())
	return decode[httpin.TransitionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, call{method: http.MethodGet, path: "/health"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_RejectsRequestsWithoutPrincipal(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/orders"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httpin.CodeUnauthenticated, decode[httpin.ErrorResponse](t, rec).Code)
}

func TestServer_SubmitOrder(t *testing.T) {
	e := newTestServer(t)

	t.Run("creates order and reports its notifications", func(t *testing.T) {
		res := submit(t, e, "")

		require.NotNil(t, res.Order)
		assert.Equal(t, "created", res.Order.Status)
		assert.Equal(t, 2, res.Order.Quantity)
		assert.NotEmpty(t, res.Order.Code)
		assert.NotEmpty(t, res.Notifications)
	})

	t.Run("replays the same idempotency key", func(t *testing.T) {
		first := submit(t, e, "checkout-42")
		rec := do(t, e, call{
			method: http.MethodPost, path: "/api/v1/orders", as: "sales@acme.test", body: submitBody,
			header: map[string]string{httpin.IdempotencyKeyHeader: "checkout-42"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		second := decode[httpin.TransitionResponse](t, rec)
		assert.True(t, second.Replayed)
		assert.Equal(t, first.Order.ID, second.Order.ID)
		assert.Empty(t, second.Notifications)
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		rec := do(t, e, call{
			method: http.MethodPost, path: "/api/v1/orders", as: "sales@acme.test",
			body: `{"customer": {"name": "Asha"}, "product": "", "quantity": 0}`,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httpin.CodeValidationFailed, decode[httpin.ErrorResponse](t, rec).Code)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := do(t, e, call{method: http.MethodPost, path: "/api/v1/orders", as: "sales@acme.test", body: `{`})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dispatch role may not submit", func(t *testing.T) {
		rec := do(t, e, call{method: http.MethodPost, path: "/api/v1/orders", as: "dispatch@acme.test", body: submitBody})

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, httpin.CodeUnauthorized, decode[httpin.ErrorResponse](t, rec).Code)
	})
}

func TestServer_OrderLifecycle(t *testing.T) {
	e := newTestServer(t)
	created := submit(t, e, "")
	orderPath := "/api/v1/orders/" + created.Order.ID

	rec := do(t, e, call{method: http.MethodPost, path: orderPath + "/verify", as: "sales@acme.test"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, e, call{method: http.MethodPost, path: orderPath + "/verify", as: "stock@acme.test", body: `{"note":"shelf B2"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "verified", decode[httpin.TransitionResponse](t, rec).Order.Status)

	rec = do(t, e, call{method: http.MethodPost, path: orderPath + "/verify", as: "stock@acme.test"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httpin.CodeInvalidTransition, decode[httpin.ErrorResponse](t, rec).Code)

	rec = do(t, e, call{
		method: http.MethodPost, path: orderPath + "/dispatch", as: "dispatch@acme.test",
		body: `{"installerId":"inst-001","scheduledDate":"2026-03-05","notes":"call first"}`,
	})
	require.Equal(t, http.StatusNotFound, rec.Code, "installer is not registered yet")

	rec = do(t, e, call{
		method: http.MethodPost, path: "/api/v1/installers", as: "admin@acme.test",
		body: `{"id":"inst-001","name":"Ravi Kumar","phone":"98450","email":"ravi@acme.test"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "INST-001", decode[httpin.TransitionResponse](t, rec).Installer.ID)

	rec = do(t, e, call{
		method: http.MethodPost, path: orderPath + "/dispatch", as: "dispatch@acme.test",
		body: `{"installerId":"inst-001","scheduledDate":"2026-03-05","notes":"call first"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dispatched := decode[httpin.TransitionResponse](t, rec)
	assert.Equal(t, "dispatched", dispatched.Order.Status)
	require.NotNil(t, dispatched.Order.Installer)
	assert.Equal(t, "Ravi Kumar", dispatched.Order.Installer.Name)

	report := `{
		"site": {"address": "12 MG Road", "city": "Pune"},
		"charges": {"amount": "250.50", "reason": "extra cabling"},
		"feedback": {"rating": 5, "satisfied": true}
	}`
	rec = do(t, e, call{method: http.MethodPost, path: orderPath + "/complete", as: "ravi@acme.test", body: report})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	installed := decode[httpin.TransitionResponse](t, rec)
	assert.Equal(t, "installed", installed.Order.Status)
	require.NotNil(t, installed.Order.Report)
	assert.Equal(t, "250.5", installed.Order.Report.Charges.Amount.String())

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders/code/" + strings.ToLower(created.Order.Code)})
	require.Equal(t, http.StatusOK, rec.Code)
	tracking := decode[queries.TrackingView](t, rec)
	assert.Equal(t, "installed", tracking.Status)
	assert.Equal(t, "Ravi Kumar", tracking.InstallerName)

	rec = do(t, e, call{method: http.MethodGet, path: orderPath, as: "hod@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[queries.OrderView](t, rec)
	assert.Len(t, view.Timeline, 4)
}

func TestServer_CompleteInstallationOwnership(t *testing.T) {
	e := newTestServer(t)
	created := submit(t, e, "")
	orderPath := "/api/v1/orders/" + created.Order.ID

	require.Equal(t, http.StatusCreated, do(t, e, call{
		method: http.MethodPost, path: "/api/v1/installers", as: "admin@acme.test",
		body: `{"id":"INST-002","name":"Meera","phone":"98451","email":"meera@acme.test"}`,
	}).Code)
	require.Equal(t, http.StatusOK, do(t, e, call{method: http.MethodPost, path: orderPath + "/verify", as: "stock@acme.test"}).Code)
	require.Equal(t, http.StatusOK, do(t, e, call{
		method: http.MethodPost, path: orderPath + "/dispatch", as: "dispatch@acme.test",
		body: `{"installerId":"INST-002","scheduledDate":"2026-03-05T10:00:00Z"}`,
	}).Code)

	rec := do(t, e, call{
		method: http.MethodPost, path: orderPath + "/complete", as: "ravi@acme.test",
		body: `{"site":{"address":"12 MG Road"},"feedback":{"rating":4,"satisfied":true}}`,
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httpin.CodeUnauthorized, decode[httpin.ErrorResponse](t, rec).Code)
}

func TestServer_StockEscalation(t *testing.T) {
	e := newTestServer(t)
	created := submit(t, e, "")
	orderPath := "/api/v1/orders/" + created.Order.ID

	rec := do(t, e, call{method: http.MethodPost, path: orderPath + "/escalate", as: "stock@acme.test", body: `{"message":"shelf empty"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	escalated := decode[httpin.TransitionResponse](t, rec)
	assert.Equal(t, "hod_pending", escalated.Order.Status)
	require.NotNil(t, escalated.StockRequest)
	assert.Equal(t, 2, escalated.StockRequest.Quantity)

	rec = do(t, e, call{method: http.MethodPost, path: orderPath + "/escalate", as: "stock@acme.test"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httpin.CodeConflict, decode[httpin.ErrorResponse](t, rec).Code)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/stock-requests/pending", as: "hod@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]queries.StockRequestView](t, rec)
	require.Len(t, pending, 1)

	requestPath := "/api/v1/stock-requests/" + pending[0].ID
	rec = do(t, e, call{method: http.MethodPost, path: requestPath + "/approve", as: "stock@acme.test"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, e, call{method: http.MethodPost, path: requestPath + "/approve", as: "hod@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[httpin.TransitionResponse](t, rec)
	assert.Equal(t, "verified", approved.Order.Status)
	assert.Equal(t, "approved", approved.StockRequest.Status)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/inventory/Solar%20Inverter%205kW", as: "stock@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[queries.InventoryView](t, rec).Quantity)

	rec = do(t, e, call{method: http.MethodPost, path: requestPath + "/reject", as: "hod@acme.test", body: `{"reason":"late"}`})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httpin.CodeInvalidTransition, decode[httpin.ErrorResponse](t, rec).Code)
}

func TestServer_OpenStockRequestAndInventory(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, call{
		method: http.MethodPost, path: "/api/v1/stock-requests", as: "stock@acme.test",
		body: `{"product":"Water Heater","quantity":5,"message":"season"}`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	opened := decode[httpin.TransitionResponse](t, rec)
	require.NotNil(t, opened.StockRequest)
	assert.Nil(t, opened.StockRequest.OrderID)

	rec = do(t, e, call{method: http.MethodPost, path: "/api/v1/stock-requests/" + opened.StockRequest.ID + "/approve", as: "admin@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/inventory", as: "sales@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]queries.InventoryView](t, rec)
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].Quantity)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/inventory/unknown-part", as: "sales@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[queries.InventoryView](t, rec).Quantity)
}

func TestServer_RejectOrderWithoutBody(t *testing.T) {
	e := newTestServer(t)
	submitted := submit(t, e, "")

	rec := do(t, e, call{method: http.MethodPost, path: "/api/v1/orders/" + submitted.Order.ID + "/reject", as: "stock@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "rejected", decode[httpin.TransitionResponse](t, rec).Order.Status)

	rec = do(t, e, call{method: http.MethodPost, path: "/api/v1/orders/" + submitted.Order.ID + "/reject", as: "stock@acme.test"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httpin.CodeInvalidTransition, decode[httpin.ErrorResponse](t, rec).Code)
}

func TestServer_ListOrders(t *testing.T) {
	e := newTestServer(t)
	first := submit(t, e, "")
	submit(t, e, "")
	require.Equal(t, http.StatusOK, do(t, e, call{
		method: http.MethodPost, path: "/api/v1/orders/" + first.Order.ID + "/reject", as: "stock@acme.test",
		body: `{"reason":"discontinued"}`,
	}).Code)

	rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/orders", as: "hod@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]queries.OrderView](t, rec), 2)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders?status=rejected", as: "hod@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	rejected := decode[[]queries.OrderView](t, rec)
	require.Len(t, rejected, 1)
	assert.Equal(t, first.Order.ID, rejected[0].ID)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders?from=2026-03-03&to=2026-03-01", as: "hod@acme.test"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders?limit=abc", as: "hod@acme.test"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_OrderLookupErrors(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/orders/not-a-uuid", as: "hod@acme.test"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders/0b6f8f5e-7d1c-4f43-9a57-0d7f3c8f1e2a", as: "hod@acme.test"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httpin.CodeNotFound, decode[httpin.ErrorResponse](t, rec).Code)

	rec = do(t, e, call{method: http.MethodGet, path: "/api/v1/orders/code/ORD-1700000000000-ZZZZ"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_OpenPixel(t *testing.T) {
	e := newTestServer(t)
	created := submit(t, e, "")
	require.NotEmpty(t, created.Notifications)
	intentID := created.Notifications[0].ID

	for range 2 {
		rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/notifications/" + intentID + "/open"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/gif", rec.Header().Get(echo.HeaderContentType))
	}

	rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/orders/" + created.Order.ID + "/notifications", as: "sales@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code)
	var opened queries.NotificationView
	for _, n := range decode[[]queries.NotificationView](t, rec) {
		if n.ID == intentID {
			opened = n
		}
	}
	assert.Equal(t, 2, opened.OpenCount)

	t.Run("unknown intent still gets the pixel", func(t *testing.T) {
		rec := do(t, e, call{method: http.MethodGet, path: "/api/v1/notifications/0b6f8f5e-7d1c-4f43-9a57-0d7f3c8f1e2a/open"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/gif", rec.Header().Get(echo.HeaderContentType))
	})
}
