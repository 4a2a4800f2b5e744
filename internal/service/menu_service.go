package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/cache"
	apperrors "github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

const (
	menuCacheTTL       = 5 * time.Minute
	menuCacheKeyPrefix = "menu:"
)

// MenuItemInput carries catalog item fields for create and update.
type MenuItemInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	ImageURL    string
	Available   bool
}

// MenuService exposes the product catalog: public reads with a
// cache-aside layer, staff-only mutation.
type MenuService interface {
	List(ctx context.Context, filter repository.MenuFilter) ([]model.MenuItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	Create(ctx context.Context, identity *auth.Identity, input MenuItemInput) (*model.MenuItem, error)
	Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, input MenuItemInput) (*model.MenuItem, error)
	SetAvailability(ctx context.Context, identity *auth.Identity, id uuid.UUID, available bool) (*model.MenuItem, error)
}

type menuService struct {
	repo  repository.MenuRepository
	cache *cache.Client
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository, cache *cache.Client) MenuService {
	return &menuService{repo: repo, cache: cache}
}

func (s *menuService) listCacheKey(filter repository.MenuFilter) string {
	return fmt.Sprintf("%slist:%s:%t", menuCacheKeyPrefix, filter.Category, filter.OnlyAvailable)
}

// List returns catalog items, served from cache when possible.
func (s *menuService) List(ctx context.Context, filter repository.MenuFilter) ([]model.MenuItem, error) {
	key := s.listCacheKey(filter)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.MenuItem
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorage("list menu items", err)
	}

	if payload, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, key, payload, menuCacheTTL)
	}
	return items, nil
}

// GetByID returns one catalog item.
func (s *menuService) GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("menu item")
		}
		return nil, apperrors.NewStorage("find menu item", err)
	}
	return item, nil
}

// Create adds a catalog item. Staff only.
func (s *menuService) Create(ctx context.Context, identity *auth.Identity, input MenuItemInput) (*model.MenuItem, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if err := validateMenuItem(input); err != nil {
		return nil, err
	}

	item := &model.MenuItem{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Available:   input.Available,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apperrors.NewStorage("create menu item", err)
	}

	_ = s.cache.DeleteByPrefix(ctx, menuCacheKeyPrefix)
	return item, nil
}

// Update rewrites a catalog item. Staff only.
func (s *menuService) Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, input MenuItemInput) (*model.MenuItem, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if err := validateMenuItem(input); err != nil {
		return nil, err
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Category = input.Category
	item.Price = input.Price
	item.ImageURL = input.ImageURL
	item.Available = input.Available
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperrors.NewStorage("update menu item", err)
	}

	_ = s.cache.DeleteByPrefix(ctx, menuCacheKeyPrefix)
	return item, nil
}

// SetAvailability toggles whether an item can be ordered. Staff only.
func (s *menuService) SetAvailability(ctx context.Context, identity *auth.Identity, id uuid.UUID, available bool) (*model.MenuItem, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Available = available
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperrors.NewStorage("update menu item", err)
	}

	_ = s.cache.DeleteByPrefix(ctx, menuCacheKeyPrefix)
	return item, nil
}

func validateMenuItem(input MenuItemInput) error {
	if input.Name == "" {
		return apperrors.NewValidation("name", "required")
	}
	if input.Category == "" {
		return apperrors.NewValidation("category", "required")
	}
	if input.Price.IsNegative() {
		return apperrors.NewValidation("price", "must not be negative")
	}
	return nil
}
