package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// MenuFilter narrows catalog listings.
type MenuFilter struct {
	Category      string
	OnlyAvailable bool
}

// MenuRepository defines catalog persistence operations.
type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error)
	List(ctx context.Context, filter MenuFilter) ([]model.MenuItem, error)
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) List(ctx context.Context, filter MenuFilter) ([]model.MenuItem, error) {
	query := r.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyAvailable {
		query = query.Where("available = ?", true)
	}

	var items []model.MenuItem
	if err := query.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
