package repositories

import (
	"context"

	"github.com/bizlink/directory-backend/internal/domain/entities"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// Create creates a new business
	Create(ctx context.Context, business *entities.Business) error

	// GetAll retrieves every business in the directory
	GetAll(ctx context.Context) ([]*entities.Business, error)

	// GetByID retrieves a business by ID
	GetByID(ctx context.Context, id string) (*entities.Business, error)

	// GetByCity retrieves businesses with at least one address in the city
	GetByCity(ctx context.Context, city string) ([]*entities.Business, error)

	// GetByCategory retrieves businesses carrying the category
	GetByCategory(ctx context.Context, category string) ([]*entities.Business, error)

	// GetRecent retrieves the most recently created businesses, newest first
	GetRecent(ctx context.Context, limit int) ([]*entities.Business, error)

	// Update replaces the stored record
	Update(ctx context.Context, business *entities.Business) error

	// Delete removes a business by ID
	Delete(ctx context.Context, id string) error
}
