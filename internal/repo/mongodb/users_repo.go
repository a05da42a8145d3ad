// Package mongodb stores users in a MongoDB collection, one document per user
// keyed by an ObjectID.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const CollectionName = "users"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Age       int                `bson:"age"`
	Phone     string             `bson:"phone"`
	Website   string             `bson:"website"`
	Company   string             `bson:"company"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	Status    any                `bson:"status"` // untyped in the collection
	Created   time.Time          `bson:"created"`
}

// newDocument trims created to the millisecond precision of a BSON datetime so
// the record handed back by Create and Replace is the one the collection keeps.
func newDocument(f user.Fields) userDocument {
	var status any
	if f.Status != nil {
		status = *f.Status
	}

	return userDocument{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Age:       f.Age,
		Phone:     f.Phone,
		Website:   f.Website,
		Company:   f.Company,
		Username:  f.Username,
		Password:  f.Password,
		Role:      f.Role,
		Status:    status,
		Created:   f.Created.UTC().Truncate(time.Millisecond),
	}
}

func (d userDocument) user() user.User {
	status := user.CoerceStatus(d.Status)
	if status == nil && d.Status != nil {
		slog.Default().Warn("stored status is not a boolean", "user_id", d.ID.Hex(), "status", d.Status)
	}

	return user.User{
		ID: d.ID.Hex(),
		Fields: user.Fields{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Age:       d.Age,
			Phone:     d.Phone,
			Website:   d.Website,
			Company:   d.Company,
			Username:  d.Username,
			Password:  d.Password,
			Role:      d.Role,
			Status:    status,
			Created:   d.Created,
		},
	}
}

type UsersRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect builds a client for uri. The driver connects lazily, so a nil error
// does not mean the cluster is reachable; use Ping for that.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return client, nil
}

func NewUsersRepo(client *mongo.Client, database string) *UsersRepo {
	return &UsersRepo{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
	}
}

func (r *UsersRepo) Create(ctx context.Context, f user.Fields) (user.User, error) {
	doc := newDocument(f)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return user.User{}, err
	}

	return doc.user(), nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]user.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.user())
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return user.User{}, err
	}

	var doc userDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)

	return found(doc, err)
}

func (r *UsersRepo) Replace(ctx context.Context, id string, f user.Fields) (user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return user.User{}, err
	}

	update := bson.D{{Key: "$set", Value: newDocument(f)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)

	return found(doc, err)
}

func (r *UsersRepo) Delete(ctx context.Context, id string) (user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return user.User{}, err
	}

	var doc userDocument
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)

	return found(doc, err)
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *UsersRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func found(doc userDocument, err error) (user.User, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return doc.user(), nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", user.ErrInvalidID, id)
	}

	return oid, nil
}
