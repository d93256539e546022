package services

import (
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// Operation names a role-gated command. Order transitions reuse their
// transition names.
type Operation string

const (
	OpSubmitOrder          = Operation(order.TransitionSubmit)
	OpVerifyStock          = Operation(order.TransitionVerifyStock)
	OpEscalateStock        = Operation(order.TransitionEscalateStock)
	OpApproveStock         = Operation(order.TransitionApproveStock)
	OpRejectStock          = Operation(order.TransitionRejectStock)
	OpRejectOrder          = Operation(order.TransitionRejectOrder)
	OpDispatch             = Operation(order.TransitionDispatch)
	OpCompleteInstallation = Operation(order.TransitionCompleteInstallation)

	OpOpenStockRequest  Operation = "openStockRequest"
	OpRegisterInstaller Operation = "registerInstaller"
)

func defaultPolicy() map[Operation][]kernel.Role {
	oversight := []kernel.Role{kernel.RoleAdmin, kernel.RoleHOD}
	with := func(r kernel.Role) []kernel.Role { return append([]kernel.Role{r}, oversight...) }

	return map[Operation][]kernel.Role{
		OpSubmitOrder:          with(kernel.RoleSales),
		OpVerifyStock:          with(kernel.RoleStock),
		OpEscalateStock:        with(kernel.RoleStock),
		OpRejectOrder:          with(kernel.RoleStock),
		OpOpenStockRequest:     with(kernel.RoleStock),
		OpApproveStock:         {kernel.RoleHOD, kernel.RoleAdmin},
		OpRejectStock:          {kernel.RoleHOD, kernel.RoleAdmin},
		OpDispatch:             with(kernel.RoleDispatch),
		OpCompleteInstallation: with(kernel.RoleInstaller),
		OpRegisterInstaller:    oversight,
	}
}

// RoleAuthorizer resolves principals and checks them against the policy table.
//
// A principal is resolved once at the transport edge and carried through the
// request unchanged; nothing downstream re-derives a role from an email.
type RoleAuthorizer struct {
	directory map[string]DirectoryEntry
	fallback  kernel.Role
	policy    map[Operation][]kernel.Role
}

// NewRoleAuthorizer validates the config. An empty fallback role means sales.
func NewRoleAuthorizer(cfg AccessConfig) (*RoleAuthorizer, error) {
	fallback := cfg.FallbackRole
	if fallback == "" {
		fallback = kernel.RoleSales
	}
	if err := fallback.Validate(); err != nil {
		return nil, err
	}

	dir := make(map[string]DirectoryEntry, len(cfg.Directory))
	for email, entry := range cfg.Directory {
		if err := entry.Role.Validate(); err != nil {
			return nil, err
		}
		dir[normalizeEmail(email)] = entry
	}

	return &RoleAuthorizer{directory: dir, fallback: fallback, policy: defaultPolicy()}, nil
}

// Resolve maps an authenticated email to its principal. Unknown addresses get
// the fallback role.
func (a *RoleAuthorizer) Resolve(email string) (kernel.Principal, error) {
	key := normalizeEmail(email)
	if key == "" {
		return kernel.Principal{}, errs.NewValueIsRequiredError("principal email")
	}
	entry, ok := a.directory[key]
	if !ok {
		return kernel.NewPrincipal("", key, a.fallback)
	}
	return kernel.NewPrincipal(entry.PrincipalID, key, entry.Role)
}

// Authorize fails with UnauthorizedError when the principal's role is not in
// the policy for op. Unknown operations are denied.
func (a *RoleAuthorizer) Authorize(p kernel.Principal, op Operation) error {
	if err := p.Validate(); err != nil {
		return errs.NewOwnershipError(string(op), "", "principal is not authenticated")
	}
	allowed := a.policy[op]
	if slices.Contains(allowed, p.Role()) {
		return nil
	}
	return errs.NewUnauthorizedError(string(op), p.Role().String(), roleNames(allowed))
}

// AuthorizeInstaller enforces that an installer only completes its own
// assignments. Oversight roles pass.
func (a *RoleAuthorizer) AuthorizeInstaller(p kernel.Principal, assignedInstallerID string) error {
	if p.Role().IsOversight() {
		return nil
	}
	if p.Role() == kernel.RoleInstaller && strings.EqualFold(strings.TrimSpace(p.ID()), strings.TrimSpace(assignedInstallerID)) {
		return nil
	}
	return errs.NewOwnershipError(string(OpCompleteInstallation), p.Role().String(),
		"principal "+p.ID()+" is not the assigned installer "+assignedInstallerID)
}

// Allowed returns the roles permitted for op.
func (a *RoleAuthorizer) Allowed(op Operation) []kernel.Role {
	return slices.Clone(a.policy[op])
}

func roleNames(roles []kernel.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
