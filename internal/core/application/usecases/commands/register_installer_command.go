package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterInstallerCommandIsNotConstructed = errors.New(
	"RegisterInstallerCommand must be created via NewRegisterInstallerCommand constructor",
)

// RegisterInstallerCommand adds a member to the installation team. Field
// validation happens in installer.NewInstaller when the engine applies it.
type RegisterInstallerCommand struct {
	actor kernel.Principal
	id    string
	name  string
	phone string
	email string

	guard guard.ConstructorGuard
}

func NewRegisterInstallerCommand(actor kernel.Principal, id, name, phone, email string) (RegisterInstallerCommand, error) {
	if err := actor.Validate(); err != nil {
		return RegisterInstallerCommand{}, err
	}
	return RegisterInstallerCommand{
		actor: actor,
		id:    id,
		name:  name,
		phone: phone,
		email: email,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterInstallerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterInstallerCommandIsNotConstructed)
}

func (c RegisterInstallerCommand) Actor() kernel.Principal { return c.actor }
func (c RegisterInstallerCommand) ID() string              { return c.id }
func (c RegisterInstallerCommand) Name() string            { return c.name }
func (c RegisterInstallerCommand) Phone() string           { return c.phone }
func (c RegisterInstallerCommand) Email() string           { return c.email }
