package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the repo needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id          uuid PRIMARY KEY,
	doc         jsonb NOT NULL,
	inserted_at timestamptz NOT NULL DEFAULT now()
)`

type UsersRepo struct {
	db DB
}

// constructor function

func NewUsersRepo(db DB) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

// EnsureSchema creates the users table when it is missing.
func (r *UsersRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	return nil
}

func (r *UsersRepo) Create(ctx context.Context, f user.Fields) (user.User, error) {
	doc, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	return r.scanOne(r.db.QueryRow(ctx,
		`INSERT INTO users (id, doc) VALUES ($1, $2) RETURNING id::text, doc`,
		uuid.NewString(), doc,
	))
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, doc FROM users ORDER BY inserted_at, id`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]user.User, 0)

	for rows.Next() {
		u, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}

		output = append(output, u)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if err := validID(id); err != nil {
		return user.User{}, err
	}

	return r.scanOne(r.db.QueryRow(ctx, `SELECT id::text, doc FROM users WHERE id = $1`, id))
}

func (r *UsersRepo) Replace(ctx context.Context, id string, f user.Fields) (user.User, error) {
	if err := validID(id); err != nil {
		return user.User{}, err
	}

	doc, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	return r.scanOne(r.db.QueryRow(ctx,
		`UPDATE users SET doc = $2 WHERE id = $1 RETURNING id::text, doc`,
		id, doc,
	))
}

func (r *UsersRepo) Delete(ctx context.Context, id string) (user.User, error) {
	if err := validID(id); err != nil {
		return user.User{}, err
	}

	return r.scanOne(r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING id::text, doc`, id))
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *UsersRepo) Close(context.Context) error {
	if c, ok := r.db.(interface{ Close() }); ok {
		c.Close()
	}

	return nil
}

func (r *UsersRepo) scanOne(row pgx.Row) (user.User, error) {
	var (
		id  string
		raw []byte
	)

	if err := row.Scan(&id, &raw); err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	var doc repo.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return user.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}

	return doc.User(id), nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", user.ErrInvalidID, id)
	}

	return nil
}
