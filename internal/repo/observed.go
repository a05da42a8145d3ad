package repo

import (
	"context"
	"errors"

	"github.com/geocoder89/usergraph/internal/domain/user"
	"github.com/geocoder89/usergraph/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/geocoder89/usergraph/internal/repo"

// Observed records latency, errors and a span for every call on the wrapped
// store. A miss by id is not counted as an error.
type Observed struct {
	next   Store
	prom   *observability.Prom
	tracer trace.Tracer
	driver string
}

func NewObserved(next Store, driver string, prom *observability.Prom) *Observed {
	return &Observed{
		next:   next,
		prom:   prom,
		tracer: otel.Tracer(tracerName),
		driver: driver,
	}
}

func (o *Observed) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("db.system", o.driver),
		attribute.String("db.operation", op),
	))
	defer span.End()

	var opErr error

	_ = o.prom.ObserveDB(op, func() error {
		opErr = fn(ctx)
		if errors.Is(opErr, user.ErrNotFound) {
			return nil
		}
		return opErr
	})

	if opErr != nil && !errors.Is(opErr, user.ErrNotFound) {
		span.RecordError(opErr)
		span.SetStatus(codes.Error, opErr.Error())
	}

	return opErr
}

func (o *Observed) Create(ctx context.Context, f user.Fields) (u user.User, err error) {
	err = o.observe(ctx, "create_user", func(ctx context.Context) error {
		u, err = o.next.Create(ctx, f)
		return err
	})
	return u, err
}

func (o *Observed) List(ctx context.Context) (users []user.User, err error) {
	err = o.observe(ctx, "list_users", func(ctx context.Context) error {
		users, err = o.next.List(ctx)
		return err
	})
	return users, err
}

func (o *Observed) GetByID(ctx context.Context, id string) (u user.User, err error) {
	err = o.observe(ctx, "get_user", func(ctx context.Context) error {
		u, err = o.next.GetByID(ctx, id)
		return err
	})
	return u, err
}

func (o *Observed) Replace(ctx context.Context, id string, f user.Fields) (u user.User, err error) {
	err = o.observe(ctx, "replace_user", func(ctx context.Context) error {
		u, err = o.next.Replace(ctx, id, f)
		return err
	})
	return u, err
}

func (o *Observed) Delete(ctx context.Context, id string) (u user.User, err error) {
	err = o.observe(ctx, "delete_user", func(ctx context.Context) error {
		u, err = o.next.Delete(ctx, id)
		return err
	})
	return u, err
}

func (o *Observed) Ping(ctx context.Context) error {
	return o.next.Ping(ctx)
}

func (o *Observed) Close(ctx context.Context) error {
	return o.next.Close(ctx)
}
