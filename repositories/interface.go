package repositories

import (
	"context"
	"errors"

	"hotel-server/entities"
)

// ErrNotFound is returned when a lookup by id or key matches no row.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	// FindByEmailOrUsername returns the first user whose email or username matches.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdateToken(ctx context.Context, id, token string) error
}

// HotelFilter holds equality constraints; empty fields impose none.
type HotelFilter struct {
	City    string
	Status  string
	OwnerID string
}

type HotelRepository interface {
	Create(ctx context.Context, hotel *entities.Hotel) error
	GetByID(ctx context.Context, id string) (*entities.Hotel, error)
	// List returns one page ordered by creation time, newest first, and
	// the total number of rows matching filter.
	List(ctx context.Context, filter HotelFilter, offset, limit int) ([]entities.Hotel, int64, error)
	Count(ctx context.Context, filter HotelFilter) (int64, error)
	Update(ctx context.Context, hotel *entities.Hotel) error
	Delete(ctx context.Context, id string) error
}
