package memory

import (
	"context"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/pkg/errs"
)

type installerRepository struct {
	uow *UnitOfWork
}

func (r *installerRepository) Add(_ context.Context, aggregate *installer.Installer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.write(func(t *tables) error {
		if _, ok := t.installers[aggregate.ID()]; ok {
			return errs.NewConflictError("installer", aggregate.ID(), "installer id is taken")
		}
		t.installers[aggregate.ID()] = aggregate
		return nil
	})
}

func (r *installerRepository) Get(_ context.Context, id string) (*installer.Installer, error) {
	id = installer.NormalizeID(id)
	var found *installer.Installer
	err := r.uow.read(func(t *tables) error {
		i, ok := t.installers[id]
		if !ok {
			return errs.NewObjectNotFoundError("installer", id)
		}
		found = i
		return nil
	})
	return found, err
}

func (r *installerRepository) List(_ context.Context) ([]*installer.Installer, error) {
	var out []*installer.Installer
	_ = r.uow.read(func(t *tables) error {
		for _, i := range t.installers {
			out = append(out, i)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *installer.Installer) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return out, nil
}
