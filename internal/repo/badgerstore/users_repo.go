// Package badgerstore keeps users in an embedded badger database. Ids are
// UUIDv7 so key order is insertion order.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/google/uuid"
)

var prefix = []byte("users/")

// Open opens the database in dir, or an in-memory one when dir is empty.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return db, nil
}

type UsersRepo struct {
	db *badger.DB
}

func NewUsersRepo(db *badger.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func key(id string) []byte {
	return append(append([]byte{}, prefix...), id...)
}

func (r *UsersRepo) Create(_ context.Context, f user.Fields) (user.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, err
	}

	payload, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(id.String()), payload)
	})
	if err != nil {
		return user.User{}, err
	}

	return user.User{ID: id.String(), Fields: f}, nil
}

func (r *UsersRepo) List(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])

			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			u, err := decode(id, raw)
			if err != nil {
				return err
			}
			out = append(out, u)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	var u user.User

	err := r.db.View(func(txn *badger.Txn) error {
		raw, err := get(txn, id)
		if err != nil {
			return err
		}

		u, err = decode(id, raw)
		return err
	})

	return u, err
}

func (r *UsersRepo) Replace(_ context.Context, id string, f user.Fields) (user.User, error) {
	payload, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := get(txn, id); err != nil {
			return err
		}

		return txn.Set(key(id), payload)
	})
	if err != nil {
		return user.User{}, err
	}

	return user.User{ID: id, Fields: f}, nil
}

func (r *UsersRepo) Delete(_ context.Context, id string) (user.User, error) {
	var u user.User

	err := r.db.Update(func(txn *badger.Txn) error {
		raw, err := get(txn, id)
		if err != nil {
			return err
		}

		if u, err = decode(id, raw); err != nil {
			return err
		}

		return txn.Delete(key(id))
	})

	return u, err
}

func (r *UsersRepo) Ping(context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}

	return nil
}

func (r *UsersRepo) Close(context.Context) error {
	return r.db.Close()
}

func get(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(key(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, user.ErrNotFound
		}

		return nil, err
	}

	return item.ValueCopy(nil)
}

func decode(id string, raw []byte) (user.User, error) {
	var doc repo.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return user.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}

	return doc.User(id), nil
}
