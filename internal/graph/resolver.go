package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/graph-gophers/graphql-go"
)

// UsersRepo is the record store as seen by the resolvers.
type UsersRepo interface {
	Create(ctx context.Context, f user.Fields) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Replace(ctx context.Context, id string, f user.Fields) (user.User, error)
	Delete(ctx context.Context, id string) (user.User, error)
}

// Operations is the operation table: one method per Query and Mutation field.
type Operations interface {
	Users(ctx context.Context) (*[]*UserResolver, error)
	User(ctx context.Context, args struct{ ID *graphql.ID }) (*UserResolver, error)
	AddUser(ctx context.Context, args UserArgs) (*UserResolver, error)
	EditUser(ctx context.Context, args EditUserArgs) (*UserResolver, error)
	DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (*UserResolver, error)
}

var _ Operations = (*Resolver)(nil)

type Resolver struct {
	repo UsersRepo
	log  *slog.Logger
}

func NewResolver(repo UsersRepo, log *slog.Logger) *Resolver {
	return &Resolver{repo: repo, log: log}
}

func (r *Resolver) Users(ctx context.Context) (*[]*UserResolver, error) {
	users, err := r.repo.List(ctx)
	if err != nil {
		return nil, r.fail(ctx, "users", err)
	}

	out := make([]*UserResolver, len(users))
	for i := range users {
		out[i] = &UserResolver{u: users[i]}
	}

	return &out, nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID *graphql.ID }) (*UserResolver, error) {
	// no id matches no record
	if args.ID == nil {
		return nil, nil
	}

	u, err := r.repo.GetByID(ctx, string(*args.ID))
	return r.single(ctx, "user", u, err)
}

func (r *Resolver) AddUser(ctx context.Context, args UserArgs) (*UserResolver, error) {
	f, err := args.fields()
	if err != nil {
		return nil, err
	}

	u, err := r.repo.Create(ctx, f)
	if err != nil {
		return nil, r.fail(ctx, "addUser", err)
	}

	return &UserResolver{u: u}, nil
}

func (r *Resolver) EditUser(ctx context.Context, args EditUserArgs) (*UserResolver, error) {
	f, err := args.userArgs().fields()
	if err != nil {
		return nil, err
	}

	u, err := r.repo.Replace(ctx, string(args.ID), f)
	return r.single(ctx, "editUser", u, err)
}

func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (*UserResolver, error) {
	u, err := r.repo.Delete(ctx, string(args.ID))
	return r.single(ctx, "deleteUser", u, err)
}

// single maps a by-id store result: a miss is a null user, not an error.
func (r *Resolver) single(ctx context.Context, op string, u user.User, err error) (*UserResolver, error) {
	if errors.Is(err, user.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, r.fail(ctx, op, err)
	}

	return &UserResolver{u: u}, nil
}

func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	r.log.ErrorContext(ctx, "store call failed", "op", op, "err", err)
	return err
}
