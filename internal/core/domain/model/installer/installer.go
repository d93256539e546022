package installer

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrNameIsRequired            = errs.NewValueIsRequiredError("installer name")
	ErrInstallerIsNotConstructed = errors.New("Installer must be created via NewInstaller constructor")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Installer is a member of the installation team.
type Installer struct {
	id    string
	name  string
	phone string
	email string
	guard guard.ConstructorGuard
}

// NewInstaller validates and builds an installer. Ids are upper-cased so
// "inst-001" and "INST-001" name the same person.
func NewInstaller(id, name, phone, email string) (*Installer, error) {
	i := &Installer{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		i.setID(id),
		i.setName(name),
		i.setEmail(email),
	); err != nil {
		return nil, err
	}
	i.phone = strings.TrimSpace(phone)
	return i, nil
}

func (i *Installer) Validate() error {
	if i == nil {
		return ErrInstallerIsNotConstructed
	}
	return i.guard.Validate(ErrInstallerIsNotConstructed)
}

func (i *Installer) ID() string    { return i.id }
func (i *Installer) Name() string  { return i.name }
func (i *Installer) Phone() string { return i.phone }
func (i *Installer) Email() string { return i.email }

// Snapshot copies the installer into the shape embedded in dispatched orders.
func (i *Installer) Snapshot() order.InstallerSnapshot {
	return order.InstallerSnapshot{ID: i.id, Name: i.name, Phone: i.phone, Email: i.email}
}

// NormalizeID applies the same normalization NewInstaller uses.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func (i *Installer) setID(id string) error {
	id = NormalizeID(id)
	if id == "" {
		return errs.NewValueIsRequiredError("installer id")
	}
	if !idPattern.MatchString(id) {
		return errs.NewValueIsInvalidErrorWithCause("installer id", fmt.Errorf("%q has unsupported characters", id))
	}
	i.id = id
	return nil
}

func (i *Installer) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	i.name = name
	return nil
}

func (i *Installer) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("installer email", err)
		}
	}
	i.email = strings.ToLower(email)
	return nil
}
