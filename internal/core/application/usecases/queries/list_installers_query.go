package queries

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrListInstallersQueryIsNotConstructed = errors.New(
	"ListInstallersQuery must be created via NewListInstallersQuery constructor",
)

// ListInstallersQuery returns the installation team ordered by id, for the
// dispatch picker.
type ListInstallersQuery struct {
	guard guard.ConstructorGuard
}

func NewListInstallersQuery() ListInstallersQuery {
	return ListInstallersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListInstallersQuery) Validate() error {
	return q.guard.Validate(ErrListInstallersQueryIsNotConstructed)
}

type ListInstallersQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewListInstallersQueryHandler(factory ReadRepositoriesFactory) ListInstallersQueryHandler {
	return ListInstallersQueryHandler{factory: factory}
}

func (h ListInstallersQueryHandler) Handle(ctx context.Context, query ListInstallersQuery) ([]InstallerView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	installers, err := h.factory.Create().InstallerRepository().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]InstallerView, 0, len(installers))
	for _, i := range installers {
		views = append(views, NewInstallerView(i))
	}
	return views, nil
}
