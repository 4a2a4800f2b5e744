package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	apperrors "github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

// CheckoutItem is one cart line at checkout.
type CheckoutItem struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// OrderService turns carts into persisted orders and tracks their
// fulfillment status.
type OrderService interface {
	Checkout(ctx context.Context, identity *auth.Identity, items []CheckoutItem) (*model.Order, error)
	ListMine(ctx context.Context, identity *auth.Identity) ([]model.Order, error)
	GetByID(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, menuRepo repository.MenuRepository) OrderService {
	return &orderService{orderRepo: orderRepo, menuRepo: menuRepo}
}

// Checkout validates the cart against the catalog, prices it, and
// persists the order with its line items in one transaction.
func (s *orderService) Checkout(ctx context.Context, identity *auth.Identity, items []CheckoutItem) (*model.Order, error) {
	if identity == nil {
		return nil, apperrors.NewForbidden("authentication required")
	}
	if len(items) == 0 {
		return nil, apperrors.NewValidation("items", "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidation("quantity", "must be at least 1")
		}
		ids = append(ids, item.MenuItemID)
	}

	menuItems, err := s.menuRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewStorage("load menu items", err)
	}
	byID := make(map[uuid.UUID]model.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	order := &model.Order{
		UserID: identity.ID,
		Status: model.OrderStatusPending,
		Total:  decimal.Zero,
	}
	for _, item := range items {
		menuItem, ok := byID[item.MenuItemID]
		if !ok {
			return nil, apperrors.NewNotFound("menu item")
		}
		if !menuItem.Available {
			return nil, apperrors.NewConflict(fmt.Sprintf("%s is not available", menuItem.Name))
		}
		line := model.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   item.Quantity,
			UnitPrice:  menuItem.Price,
		}
		order.Items = append(order.Items, line)
		order.Total = order.Total.Add(menuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	err = s.orderRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.OrderRepository) error {
		return txRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, apperrors.NewStorage("create order", err)
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, identity *auth.Identity) ([]model.Order, error) {
	if identity == nil {
		return nil, apperrors.NewForbidden("authentication required")
	}
	orders, err := s.orderRepo.FindByUserID(ctx, identity.ID)
	if err != nil {
		return nil, apperrors.NewStorage("list orders", err)
	}
	return orders, nil
}

// GetByID fetches one order, enforcing ownership.
func (s *orderService) GetByID(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, apperrors.NewStorage("find order", err)
	}
	if !identity.IsAdmin() && (identity == nil || order.UserID != identity.ID) {
		return nil, apperrors.NewForbidden("not the owner of this order")
	}
	return order, nil
}

// UpdateStatus moves an order along the fulfillment chain. Staff only.
func (s *orderService) UpdateStatus(ctx context.Context, identity *auth.Identity, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidation("status", "unknown status")
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, apperrors.NewStorage("find order", err)
	}

	if order.Status == model.OrderStatusCancelled || order.Status == model.OrderStatusDelivered {
		return nil, apperrors.NewConflict(fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	order.Status = status
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.NewStorage("update order status", err)
	}
	return order, nil
}
