// Package router registers the HTTP routes of the statement API.
package router

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/theater-statement/internal/config"
	"github.com/iliyamo/theater-statement/internal/handler"
	"github.com/iliyamo/theater-statement/internal/middleware"
)

// RoleClerk is the role allowed to request statements and edit data.
const RoleClerk = "CLERK"

const playsRoute = "/v1/plays"

// Handlers groups the handlers mounted under /v1.
type Handlers struct {
	Statements *handler.StatementHandler
	Plays      *handler.PlayHandler
	Invoices   *handler.InvoiceHandler
}

// Options carries the settings of the shared middleware.  A nil Redis
// client turns caching and rate limiting off.
type Options struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// RegisterRoutes registers the unauthenticated probes.  db may be nil,
// in which case /readyz is not mounted.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterStatements mounts the /v1 API.  The play catalogue is public
// and cached, and the cache is dropped whenever a play is written;
// everything else needs a CLERK token and is rate limited per user.
func RegisterStatements(e *echo.Echo, h Handlers, opt Options) {
	limiter := middleware.NewTokenBucket(opt.RateLimit, opt.Redis)

	e.GET(playsRoute, h.Plays.List, limiter, middleware.NewRedisCache(opt.Cache, opt.Redis))
	if opt.Redis != nil && opt.Cache.Enabled {
		h.Plays.Invalidate = func(ctx context.Context) error {
			return middleware.InvalidateRoute(ctx, opt.Cache, opt.Redis, playsRoute)
		}
	}

	g := e.Group("/v1",
		middleware.JWTAuth(opt.JWTSecret),
		middleware.RequireRole(RoleClerk),
		limiter,
	)
	g.POST("/statements", h.Statements.Compute)
	g.GET("/invoices/:id/statement", h.Statements.ForInvoice)
	g.POST("/invoices", h.Invoices.Create)
	g.PUT("/plays/:id", h.Plays.Put)
}
