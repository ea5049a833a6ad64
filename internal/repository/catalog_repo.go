package repository

import (
	"context"

	"gorm.io/gorm"

	"rihla/internal/domain"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreatePackage(ctx context.Context, p *domain.UmrahPackage) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogRepository) GetPackage(ctx context.Context, id int64) (*domain.UmrahPackage, error) {
	var p domain.UmrahPackage
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) ListPackagesByProvider(ctx context.Context, providerID int64) ([]domain.UmrahPackage, error) {
	var ps []domain.UmrahPackage
	err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("id").Find(&ps).Error
	return ps, err
}

func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.ProviderService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.ProviderService, error) {
	var s domain.ProviderService
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) ListServicesByProvider(ctx context.Context, providerID int64) ([]domain.ProviderService, error) {
	var ss []domain.ProviderService
	err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("id").Find(&ss).Error
	return ss, err
}
