package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is one of the closed set of workflow roles. Every principal holds exactly one.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHOD       Role = "hod"
	RoleStock     Role = "stock"
	RoleDispatch  Role = "dispatch"
	RoleInstaller Role = "installer"
	RoleSales     Role = "sales"
)

// Roles lists every valid role in a stable order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHOD, RoleStock, RoleDispatch, RoleInstaller, RoleSales}
}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	for _, known := range Roles() {
		if r == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
}

// IsOversight reports whether the role may invoke transitions reserved for a single
// operational role.
func (r Role) IsOversight() bool {
	return r == RoleAdmin || r == RoleHOD
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated actor invoking a transition.
type Principal struct {
	id    string
	email string
	role  Role
}

// NewPrincipal builds a principal; the id defaults to the email when empty.
func NewPrincipal(id, email string, role Role) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Principal{}, errs.NewValueIsRequiredError("principal email")
	}
	if err := role.Validate(); err != nil {
		return Principal{}, err
	}
	if strings.TrimSpace(id) == "" {
		id = email
	}
	return Principal{id: strings.TrimSpace(id), email: email, role: role}, nil
}

func (p Principal) ID() string    { return p.id }
func (p Principal) Email() string { return p.email }
func (p Principal) Role() Role    { return p.role }

func (p Principal) Validate() error {
	if p.email == "" {
		return errs.NewValueIsRequiredError("principal")
	}
	return p.role.Validate()
}

func (p Principal) String() string {
	return fmt.Sprintf("%s(%s)", p.email, p.role)
}
