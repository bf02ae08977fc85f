package service

import (
	"context"
	"fmt"

	"github.com/Yaswanth0403/BookHaven/internal/domain"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/google/uuid"
)

// OrderService exposes the read side of the order ledger
type OrderService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderRecord, error) {
	records, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return records, nil
}
