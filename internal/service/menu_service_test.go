package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

func validMenuInput() MenuItemInput {
	return MenuItemInput{
		Name:      "Flat White",
		Category:  "coffee",
		Price:     decimal.RequireFromString("3.80"),
		Available: true,
	}
}

func TestMenuService_List(t *testing.T) {
	repo := new(MockMenuRepository)
	items := []model.MenuItem{{ID: uuid.New(), Name: "Espresso", Available: true}}
	repo.On("List", mock.Anything, repository.MenuFilter{OnlyAvailable: true}).Return(items, nil)
	svc := NewMenuService(repo, nil)

	got, err := svc.List(context.Background(), repository.MenuFilter{OnlyAvailable: true})
	assert.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestMenuService_GetByID(t *testing.T) {
	repo := new(MockMenuRepository)
	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	svc := NewMenuService(repo, nil)

	_, err := svc.GetByID(context.Background(), uuid.New())
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMenuService_Create(t *testing.T) {
	t.Run("admin creates an item", func(t *testing.T) {
		repo := new(MockMenuRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.MenuItem")).Return(nil)
		svc := NewMenuService(repo, nil)

		item, err := svc.Create(context.Background(), adminIdentity(), validMenuInput())
		assert.NoError(t, err)
		assert.Equal(t, "Flat White", item.Name)
		repo.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc := NewMenuService(new(MockMenuRepository), nil)

		_, err := svc.Create(context.Background(), userIdentity(uuid.New()), validMenuInput())
		var forbidden *apperrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		svc := NewMenuService(new(MockMenuRepository), nil)

		input := validMenuInput()
		input.Price = decimal.RequireFromString("-1")
		_, err := svc.Create(context.Background(), adminIdentity(), input)
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}

func TestMenuService_SetAvailability(t *testing.T) {
	item := &model.MenuItem{ID: uuid.New(), Name: "Espresso", Category: "coffee", Available: true}

	repo := new(MockMenuRepository)
	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil)
	repo.On("Update", mock.Anything, item).Return(nil)
	svc := NewMenuService(repo, nil)

	got, err := svc.SetAvailability(context.Background(), adminIdentity(), item.ID, false)
	assert.NoError(t, err)
	assert.False(t, got.Available)
}
