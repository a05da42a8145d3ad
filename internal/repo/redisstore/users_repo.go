// Package redisstore keeps each user as a JSON string under user:<id> and
// tracks insertion order in a sorted set. Every member shares score 0, so the
// set orders by id, and ids are UUIDv7 which sort by creation time.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	indexKey  = "users"
	keyPrefix = "user:"
)

type UsersRepo struct {
	rdb *redis.Client
}

func NewUsersRepo(rdb *redis.Client) *UsersRepo {
	return &UsersRepo{rdb: rdb}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *UsersRepo) Create(ctx context.Context, f user.Fields) (user.User, error) {
	v7, err := uuid.NewV7()
	if err != nil {
		return user.User{}, err
	}
	id := v7.String()

	payload, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key(id), payload, 0)
		p.ZAdd(ctx, indexKey, redis.Z{Score: 0, Member: id})
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	return user.User{ID: id, Fields: f}, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	ids, err := r.rdb.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]user.User, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// removed between ZRANGE and MGET
			continue
		}

		u, err := decode(ids[i], []byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return user.User{}, notFound(err)
	}

	return decode(id, raw)
}

func (r *UsersRepo) Replace(ctx context.Context, id string, f user.Fields) (user.User, error) {
	payload, err := json.Marshal(repo.NewDocument(f))
	if err != nil {
		return user.User{}, err
	}

	// XX only overwrites an existing key.
	err = r.rdb.SetArgs(ctx, key(id), payload, redis.SetArgs{Mode: "XX"}).Err()
	if err != nil {
		return user.User{}, notFound(err)
	}

	return user.User{ID: id, Fields: f}, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) (user.User, error) {
	var getDel *redis.StringCmd

	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		getDel = p.GetDel(ctx, key(id))
		p.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return user.User{}, notFound(err)
	}

	raw, err := getDel.Bytes()
	if err != nil {
		return user.User{}, notFound(err)
	}

	return decode(id, raw)
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *UsersRepo) Close(context.Context) error {
	return r.rdb.Close()
}

func decode(id string, raw []byte) (user.User, error) {
	var doc repo.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return user.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}

	return doc.User(id), nil
}

func notFound(err error) error {
	if errors.Is(err, redis.Nil) {
		return user.ErrNotFound
	}

	return err
}
