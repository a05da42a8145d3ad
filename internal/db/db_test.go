package db_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/geocoder89/usergraph/internal/config"
	"github.com/geocoder89/usergraph/internal/db"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/geocoder89/usergraph/internal/repo/badgerstore"
	"github.com/geocoder89/usergraph/internal/repo/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenMemory(t *testing.T) {
	s := db.Open(context.Background(), config.Config{Store: config.StoreMemory}, discardLogger())

	if _, ok := s.(*memory.UsersRepo); !ok {
		t.Fatalf("got %T, want *memory.UsersRepo", s)
	}
}

func TestOpenBadgerInMemory(t *testing.T) {
	s := db.Open(context.Background(), config.Config{Store: config.StoreBadger}, discardLogger())
	defer s.Close(context.Background())

	if _, ok := s.(*badgerstore.UsersRepo); !ok {
		t.Fatalf("got %T, want *badgerstore.UsersRepo", s)
	}
}

func TestOpenMongoWithoutURIStillStarts(t *testing.T) {
	s := db.Open(context.Background(), config.Config{Store: config.StoreMongo, MongoDatabase: "test"}, discardLogger())

	if _, ok := s.(*repo.Unavailable); !ok {
		t.Fatalf("got %T, want *repo.Unavailable", s)
	}

	if _, err := s.List(context.Background()); err == nil {
		t.Fatalf("expected every call to fail")
	}
}

func TestOpenUnknownStore(t *testing.T) {
	s := db.Open(context.Background(), config.Config{Store: "nope"}, discardLogger())

	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected an error for an unknown store")
	}
}
