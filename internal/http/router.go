package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/usergraph/internal/config"
	"github.com/geocoder89/usergraph/internal/http/handlers"
	"github.com/geocoder89/usergraph/internal/http/middlewares"
	"github.com/geocoder89/usergraph/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "usergraph"

// NewRouter serves the GraphQL endpoint and nothing else. prom may be nil.
func NewRouter(log *slog.Logger, exec handlers.Executor, cfg config.Config, prom *observability.Prom) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// middleware

	r.Use(gin.Recovery())
	if cfg.OTLPEndpoint != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	gql := handlers.NewGraphQLHandler(exec, prom, cfg.Introspection)

	r.POST("/graphql",
		middlewares.RequireContentType(handlers.MediaJSON, handlers.MediaGraphQL, handlers.MediaForm),
		gql.Post)
	r.GET("/graphql", gql.Get)

	return r
}

// NewAdminRouter serves metrics and probes on a listener kept apart from the
// public one. ping may be nil.
func NewAdminRouter(log *slog.Logger, ping func(ctx context.Context) error, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}
