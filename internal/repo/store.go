// Package repo holds the user record store contract shared by the storage
// backends, the JSON document shape they persist, and store decorators.
package repo

import (
	"context"

	"github.com/geocoder89/usergraph/internal/domain/user"
)

// Store is a persistent collection of user records. Lookups by id return
// user.ErrNotFound when no record matches.
type Store interface {
	Create(ctx context.Context, f user.Fields) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Replace(ctx context.Context, id string, f user.Fields) (user.User, error)
	Delete(ctx context.Context, id string) (user.User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
