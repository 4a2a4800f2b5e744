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

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.OrderRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

// MockMenuRepository is a mock implementation of repository.MenuRepository.
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) List(ctx context.Context, filter repository.MenuFilter) ([]model.MenuItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func TestOrderService_Checkout(t *testing.T) {
	espresso := model.MenuItem{
		ID:        uuid.New(),
		Name:      "Espresso",
		Price:     decimal.RequireFromString("2.50"),
		Available: true,
	}
	croissant := model.MenuItem{
		ID:        uuid.New(),
		Name:      "Croissant",
		Price:     decimal.RequireFromString("3.20"),
		Available: true,
	}

	t.Run("prices the cart and persists the order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		menuRepo := new(MockMenuRepository)
		svc := NewOrderService(orderRepo, menuRepo)

		menuRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return([]model.MenuItem{espresso, croissant}, nil)
		orderRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

		callerID := uuid.New()
		order, err := svc.Checkout(context.Background(), userIdentity(callerID), []CheckoutItem{
			{MenuItemID: espresso.ID, Quantity: 2},
			{MenuItemID: croissant.ID, Quantity: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, callerID, order.UserID)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.Len(t, order.Items, 2)
		// 2 x 2.50 + 1 x 3.20
		assert.True(t, order.Total.Equal(decimal.RequireFromString("8.20")),
			"total = %s", order.Total)
		assert.Equal(t, "Espresso", order.Items[0].Name)
		assert.True(t, order.Items[0].UnitPrice.Equal(espresso.Price))
	})

	t.Run("guest cannot check out", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockMenuRepository))

		_, err := svc.Checkout(context.Background(), nil, []CheckoutItem{{MenuItemID: espresso.ID, Quantity: 1}})
		var forbidden *apperrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockMenuRepository))

		_, err := svc.Checkout(context.Background(), userIdentity(uuid.New()), nil)
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockMenuRepository))

		_, err := svc.Checkout(context.Background(), userIdentity(uuid.New()), []CheckoutItem{
			{MenuItemID: espresso.ID, Quantity: 0},
		})
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("unknown menu item is not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		menuRepo := new(MockMenuRepository)
		svc := NewOrderService(orderRepo, menuRepo)

		menuRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.MenuItem{}, nil)

		_, err := svc.Checkout(context.Background(), userIdentity(uuid.New()), []CheckoutItem{
			{MenuItemID: uuid.New(), Quantity: 1},
		})
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("unavailable item conflicts", func(t *testing.T) {
		soldOut := espresso
		soldOut.Available = false

		orderRepo := new(MockOrderRepository)
		menuRepo := new(MockMenuRepository)
		svc := NewOrderService(orderRepo, menuRepo)

		menuRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]model.MenuItem{soldOut}, nil)

		_, err := svc.Checkout(context.Background(), userIdentity(uuid.New()), []CheckoutItem{
			{MenuItemID: soldOut.ID, Quantity: 1},
		})
		var conflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	ownerID := uuid.New()
	order := &model.Order{ID: uuid.New(), UserID: ownerID, Status: model.OrderStatusPending}

	t.Run("owner reads own order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		svc := NewOrderService(orderRepo, new(MockMenuRepository))

		got, err := svc.GetByID(context.Background(), userIdentity(ownerID), order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("other user is forbidden, admin is not", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		svc := NewOrderService(orderRepo, new(MockMenuRepository))

		_, err := svc.GetByID(context.Background(), userIdentity(uuid.New()), order.ID)
		var forbidden *apperrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)

		_, err = svc.GetByID(context.Background(), adminIdentity(), order.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
		svc := NewOrderService(orderRepo, new(MockMenuRepository))

		_, err := svc.GetByID(context.Background(), adminIdentity(), uuid.New())
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Run("admin advances the order", func(t *testing.T) {
		order := &model.Order{ID: uuid.New(), UserID: uuid.New(), Status: model.OrderStatusPaid}
		orderRepo := new(MockOrderRepository)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("Update", mock.Anything, order).Return(nil)
		svc := NewOrderService(orderRepo, new(MockMenuRepository))

		got, err := svc.UpdateStatus(context.Background(), adminIdentity(), order.ID, model.OrderStatusPreparing)
		assert.NoError(t, err)
		assert.Equal(t, model.OrderStatusPreparing, got.Status)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockMenuRepository))

		_, err := svc.UpdateStatus(context.Background(), userIdentity(uuid.New()), uuid.New(), model.OrderStatusPreparing)
		var forbidden *apperrors.ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})

	t.Run("delivered and cancelled are terminal", func(t *testing.T) {
		for _, status := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled} {
			order := &model.Order{ID: uuid.New(), UserID: uuid.New(), Status: status}
			orderRepo := new(MockOrderRepository)
			orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
			svc := NewOrderService(orderRepo, new(MockMenuRepository))

			_, err := svc.UpdateStatus(context.Background(), adminIdentity(), order.ID, model.OrderStatusPending)
			var conflict *apperrors.ConflictError
			assert.ErrorAs(t, err, &conflict)
		}
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockMenuRepository))

		_, err := svc.UpdateStatus(context.Background(), adminIdentity(), uuid.New(), "shipped")
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	})
}
