package repository

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// UserRepository reads dashboard accounts. Lookups return nil, nil when absent.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	ListAssignedBarangays(ctx context.Context) ([]string, error)
}
