package repo

import (
	"context"
	"fmt"

	"github.com/geocoder89/usergraph/internal/domain/user"
)

// Unavailable stands in for a store whose client could not be constructed at
// startup. The process keeps serving and every call reports the original error.
type Unavailable struct {
	err error
}

func NewUnavailable(err error) *Unavailable {
	return &Unavailable{err: err}
}

func (u *Unavailable) fail() error {
	return fmt.Errorf("store unavailable: %w", u.err)
}

func (u *Unavailable) Create(context.Context, user.Fields) (user.User, error) {
	return user.User{}, u.fail()
}

func (u *Unavailable) List(context.Context) ([]user.User, error) {
	return nil, u.fail()
}

func (u *Unavailable) GetByID(context.Context, string) (user.User, error) {
	return user.User{}, u.fail()
}

func (u *Unavailable) Replace(context.Context, string, user.Fields) (user.User, error) {
	return user.User{}, u.fail()
}

func (u *Unavailable) Delete(context.Context, string) (user.User, error) {
	return user.User{}, u.fail()
}

func (u *Unavailable) Ping(context.Context) error {
	return u.fail()
}

func (u *Unavailable) Close(context.Context) error {
	return nil
}
