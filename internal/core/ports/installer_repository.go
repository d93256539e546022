package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/installer"
)

// InstallerRepository stores the installation team.
type InstallerRepository interface {
	// Add fails with a ConflictError when the id is taken.
	Add(ctx context.Context, aggregate *installer.Installer) error
	Get(ctx context.Context, id string) (*installer.Installer, error)
	List(ctx context.Context) ([]*installer.Installer, error)
}
