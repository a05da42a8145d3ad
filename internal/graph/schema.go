// Package graph declares the client-facing GraphQL schema for users and the
// resolvers that back each query and mutation with a single store call.
package graph

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var SchemaSDL string

type Options struct {
	Introspection bool
}

// NewSchema parses the SDL against the resolver set. Parsing fails if any
// query or mutation lacks a resolver method with matching arguments.
func NewSchema(repo UsersRepo, log *slog.Logger, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{log: log}),
	}

	if !opts.Introspection {
		schemaOpts = append(schemaOpts, graphql.DisableIntrospection())
	}

	schema, err := graphql.ParseSchema(SchemaSDL, NewResolver(repo, log), schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}

	return schema, nil
}

type panicLogger struct {
	log *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.ErrorContext(ctx, "graphql resolver panic", "panic", fmt.Sprint(value))
}
