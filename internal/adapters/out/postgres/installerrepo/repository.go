// Package installerrepo persists the installation team.
package installerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type InstallerDTO struct {
	ID    string `gorm:"size:64;primaryKey"`
	Name  string
	Phone string
	Email string
}

func (InstallerDTO) TableName() string {
	return "installers"
}

// GormInstallerRepository implements ports.InstallerRepository using GORM.
type GormInstallerRepository struct {
	db *gorm.DB
}

func NewGormInstallerRepository(db *gorm.DB) *GormInstallerRepository {
	return &GormInstallerRepository{db: db}
}

func (r *GormInstallerRepository) Add(ctx context.Context, aggregate *installer.Installer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := InstallerDTO{ID: aggregate.ID(), Name: aggregate.Name(), Phone: aggregate.Phone(), Email: aggregate.Email()}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if _, ok := pgerr.UniqueViolation(err); ok {
			return errs.NewConflictErrorWithCause("installer", dto.ID, "installer id already registered", err)
		}
		return err
	}
	return nil
}

func (r *GormInstallerRepository) Get(ctx context.Context, id string) (*installer.Installer, error) {
	id = installer.NormalizeID(id)

	var dto InstallerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("installer", id)
		}
		return nil, err
	}
	return installer.NewInstaller(dto.ID, dto.Name, dto.Phone, dto.Email)
}

func (r *GormInstallerRepository) List(ctx context.Context) ([]*installer.Installer, error) {
	var dtos []InstallerDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*installer.Installer, 0, len(dtos))
	for _, dto := range dtos {
		i, err := installer.NewInstaller(dto.ID, dto.Name, dto.Phone, dto.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
