package repository

import (
	"context"

	"garageQueue/internal/queue"
	"garageQueue/models"
)

// ProfileRepositoryI defines operations on Profile entities.
type ProfileRepositoryI interface {
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*models.Profile, error)
	UpdateContact(ctx context.Context, id, fullName, phone string) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

// OrderRepositoryI is the order store client. Mutating calls never return
// list state: callers re-read with ListOrders after a write.
type OrderRepositoryI interface {
	ListOrders(ctx context.Context, p queue.Predicate) ([]models.Order, error)
	Create(ctx context.Context, ownerID, motor, mapsLink string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	ListByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
}

var (
	_ ProfileRepositoryI = (*ProfileRepository)(nil)
	_ OrderRepositoryI   = (*OrderRepository)(nil)
)
