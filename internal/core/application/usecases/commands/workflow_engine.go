package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// Authorizer gates operations by role and checks installer ownership.
type Authorizer interface {
	Authorize(p kernel.Principal, op services.Operation) error
	AuthorizeInstaller(p kernel.Principal, assignedInstallerID string) error
}

// Notifier is told about every committed transition. It must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, ev services.Event) []*notification.Intent
}

// TransitionResult is what a committed command produced. Notifications are
// the intents emitted after commit, with their first delivery outcome.
type TransitionResult struct {
	Order         *order.Order
	StockRequest  *stockrequest.StockRequest
	Installer     *installer.Installer
	Notifications []*notification.Intent

	// Replayed is set when a submit matched an earlier idempotency key.
	Replayed bool
}

// outcome is what an apply step hands back to run: the result and, unless
// nothing should be announced, the event for the notifier.
type outcome struct {
	result TransitionResult
	event  *services.Event
}

type applyFunc func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error)

// WorkflowEngine is the order state machine. Every command is authorized,
// applied in its own unit of work and committed before anyone is notified.
//
// Example:
//
//	engine := NewWorkflowEngine(uowFactory, authorizer, dispatcher, idempotency, clock.NewSystem(), logger)
//	cmd, _ := NewVerifyStockCommand(principal, orderID, "shelf B2")
//	result, err := engine.VerifyStock(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrUnauthorized):
//	    // role may not verify stock
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // order is no longer created
//	}
type WorkflowEngine struct {
	uowFactory  WorkflowUoWFactory
	authorizer  Authorizer
	notifier    Notifier
	idempotency ports.IdempotencyStore
	clock       clock.Clock
	logger      *slog.Logger
}

// NewWorkflowEngine wires the engine. idempotency may be nil; the order
// store's unique key is then the only replay check.
func NewWorkflowEngine(
	uowFactory WorkflowUoWFactory,
	authorizer Authorizer,
	notifier Notifier,
	idempotency ports.IdempotencyStore,
	clk clock.Clock,
	logger *slog.Logger,
) *WorkflowEngine {
	return &WorkflowEngine{
		uowFactory:  uowFactory,
		authorizer:  authorizer,
		notifier:    notifier,
		idempotency: idempotency,
		clock:       clk,
		logger:      logger.With("component", "WorkflowEngine"),
	}
}

// run authorizes p for op, applies the change inside a unit of work and
// commits it. Untyped failures surface as PersistenceError. Notification
// happens only after a successful commit.
func (e *WorkflowEngine) run(ctx context.Context, p kernel.Principal, op services.Operation, apply applyFunc) (TransitionResult, error) {
	if err := e.authorizer.Authorize(p, op); err != nil {
		return TransitionResult{}, err
	}

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, errs.AsPersistence("begin "+string(op), err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	out, err := apply(ctx, uow, e.clock.Now())
	if err != nil {
		return TransitionResult{}, errs.AsPersistence(string(op), err)
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, errs.AsPersistence("commit "+string(op), err)
	}

	if out.event != nil {
		out.result.Notifications = e.notifier.Notify(ctx, *out.event)
	}

	attrs := []any{"operation", op, "principal", p.ID(), "role", p.Role()}
	if o := out.result.Order; o != nil {
		attrs = append(attrs, "order_id", o.ID().String(), "status", o.Status())
	}
	if r := out.result.StockRequest; r != nil {
		attrs = append(attrs, "stock_request_id", r.ID().String())
	}
	e.logger.InfoContext(ctx, "transition committed", attrs...)

	return out.result, nil
}

func announce(tag notification.Tag, o *order.Order, r *stockrequest.StockRequest, p kernel.Principal) *services.Event {
	return &services.Event{Tag: tag, Order: o, Request: r, Actor: p}
}

// VerifyStock moves a created order to verified.
func (e *WorkflowEngine) VerifyStock(ctx context.Context, cmd VerifyStockCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpVerifyStock, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()
		o, err := orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return outcome{}, err
		}
		if err = o.VerifyStock(p, cmd.Note(), now); err != nil {
			return outcome{}, err
		}
		if err = orders.Update(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o},
			event:  announce(notification.TagStockVerified, o, nil, p),
		}, nil
	})
}

// EscalateStock opens a pending stock request for the order and parks it in
// hod_pending. An existing pending request is reported before the status.
func (e *WorkflowEngine) EscalateStock(ctx context.Context, cmd EscalateStockCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpEscalateStock, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()
		o, err := orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return outcome{}, err
		}

		product, quantity := cmd.Product(), cmd.Quantity()
		if product == "" {
			product = o.Product()
		}
		if quantity == 0 {
			quantity = o.Quantity()
		}

		orderID := o.ID()
		r, err := NewStockRequestLedger(uow.StockRequestRepository()).
			Open(ctx, &orderID, product, quantity, cmd.Message(), p, now)
		if err != nil {
			return outcome{}, err
		}
		if err = o.EscalateStock(p, r.ID(), cmd.Message(), now); err != nil {
			return outcome{}, err
		}
		if err = orders.Update(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o, StockRequest: r},
			event:  announce(notification.TagStockEscalated, o, r, p),
		}, nil
	})
}

// ApproveStock resolves a pending request, adds its quantity to inventory and
// releases the linked order to verified, all in one unit of work.
func (e *WorkflowEngine) ApproveStock(ctx context.Context, cmd ApproveStockCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpApproveStock, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		requests := NewStockRequestLedger(uow.StockRequestRepository())
		r, err := requests.Pending(ctx, cmd.RequestID(), string(services.OpApproveStock))
		if err != nil {
			return outcome{}, err
		}

		change, err := NewInventoryLedger(uow.InventoryRepository()).
			Increase(ctx, r.Product(), r.Quantity(), p.ID(), now)
		if err != nil {
			return outcome{}, err
		}
		if err = requests.Resolve(ctx, r, stockrequest.Approve, p, "", &change, now); err != nil {
			return outcome{}, err
		}

		o, err := e.settleLinkedOrder(ctx, uow, r, func(o *order.Order) error {
			return o.ApproveStock(p, r.ID(), now)
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o, StockRequest: r},
			event:  announce(notification.TagStockApproved, o, r, p),
		}, nil
	})
}

// RejectStock resolves a pending request as rejected and rejects the linked order.
func (e *WorkflowEngine) RejectStock(ctx context.Context, cmd RejectStockCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpRejectStock, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		requests := NewStockRequestLedger(uow.StockRequestRepository())
		r, err := requests.Pending(ctx, cmd.RequestID(), string(services.OpRejectStock))
		if err != nil {
			return outcome{}, err
		}
		if err = requests.Resolve(ctx, r, stockrequest.Reject, p, cmd.Reason(), nil, now); err != nil {
			return outcome{}, err
		}

		o, err := e.settleLinkedOrder(ctx, uow, r, func(o *order.Order) error {
			return o.RejectStock(p, r.ID(), cmd.Reason(), now)
		})
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o, StockRequest: r},
			event:  announce(notification.TagStockRejected, o, r, p),
		}, nil
	})
}

// settleLinkedOrder applies fn to the order a request was opened for and
// writes it. Standalone requests return a nil order.
func (e *WorkflowEngine) settleLinkedOrder(
	ctx context.Context,
	uow WorkflowUoW,
	r *stockrequest.StockRequest,
	fn func(*order.Order) error,
) (*order.Order, error) {
	if !r.IsLinked() {
		return nil, nil
	}
	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, *r.OrderID())
	if err != nil {
		return nil, err
	}
	if err = fn(o); err != nil {
		return nil, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RejectOrder ends a created order.
func (e *WorkflowEngine) RejectOrder(ctx context.Context, cmd RejectOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpRejectOrder, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()
		o, err := orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return outcome{}, err
		}
		if err = o.Reject(p, cmd.Reason(), now); err != nil {
			return outcome{}, err
		}
		if err = orders.Update(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o},
			event:  announce(notification.TagOrderRejected, o, nil, p),
		}, nil
	})
}

// DispatchOrder assigns a verified order to a registered installer. The order
// status is checked before the installer is looked up.
func (e *WorkflowEngine) DispatchOrder(ctx context.Context, cmd DispatchOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpDispatch, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()
		o, err := orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return outcome{}, err
		}
		if err = o.CheckTransition(order.TransitionDispatch); err != nil {
			return outcome{}, err
		}

		inst, err := uow.InstallerRepository().Get(ctx, cmd.InstallerID())
		if err != nil {
			return outcome{}, err
		}
		assignment, err := order.NewAssignment(inst.Snapshot(), cmd.ScheduledDate(), cmd.Notes())
		if err != nil {
			return outcome{}, err
		}
		if err = o.Dispatch(p, assignment, now); err != nil {
			return outcome{}, err
		}
		if err = orders.Update(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o, Installer: inst},
			event:  announce(notification.TagDispatchAssigned, o, nil, p),
		}, nil
	})
}

// CompleteInstallation closes a dispatched order. Installers may only close
// their own assignments.
func (e *WorkflowEngine) CompleteInstallation(ctx context.Context, cmd CompleteInstallationCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpCompleteInstallation, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()
		o, err := orders.Get(ctx, cmd.OrderID())
		if err != nil {
			return outcome{}, err
		}
		if err = o.CheckTransition(order.TransitionCompleteInstallation); err != nil {
			return outcome{}, err
		}

		assigned, _ := o.AssignedInstaller()
		if err = e.authorizer.AuthorizeInstaller(p, assigned.ID); err != nil {
			return outcome{}, err
		}

		report, err := order.NewReport(cmd.Draft(), now)
		if err != nil {
			return outcome{}, err
		}
		if err = o.CompleteInstallation(p, report, now); err != nil {
			return outcome{}, err
		}
		if err = orders.Update(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o},
			event:  announce(notification.TagInstallationComplete, o, nil, p),
		}, nil
	})
}

// OpenStockRequest raises a standalone stock request. HOD hears about it the
// same way as about an escalation.
func (e *WorkflowEngine) OpenStockRequest(ctx context.Context, cmd OpenStockRequestCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	p := cmd.Actor()

	return e.run(ctx, p, services.OpOpenStockRequest, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		r, err := NewStockRequestLedger(uow.StockRequestRepository()).
			Open(ctx, nil, cmd.Product(), cmd.Quantity(), cmd.Message(), p, now)
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{StockRequest: r},
			event:  announce(notification.TagStockEscalated, nil, r, p),
		}, nil
	})
}

// RegisterInstaller adds an installer. Nobody is notified.
func (e *WorkflowEngine) RegisterInstaller(ctx context.Context, cmd RegisterInstallerCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	return e.run(ctx, cmd.Actor(), services.OpRegisterInstaller, func(ctx context.Context, uow WorkflowUoW, _ time.Time) (outcome, error) {
		inst, err := installer.NewInstaller(cmd.ID(), cmd.Name(), cmd.Phone(), cmd.Email())
		if err != nil {
			return outcome{}, err
		}
		if err = uow.InstallerRepository().Add(ctx, inst); err != nil {
			return outcome{}, err
		}
		return outcome{result: TransitionResult{Installer: inst}}, nil
	})
}
