// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Route groups:
//   - {API_BASE_PATH}/...          landlord API (X-Landlord-ID), idempotency + rate limit
//   - {API_BASE_PATH}/tenant/...   tenant API (X-Tenant-ID), rate limit, no-store
//   - /worker/...                  shared-secret job endpoints, no rate limit
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/juanmanuelcanocamacho/Rent-Manager-sub000/docs"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/config"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/handlers"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
)

// leaseScope namespaces Idempotency-Key lookups for lease creation; it must
// match the scope the lease service records keys under.
const leaseScope = "leases"

// Deps are the runtime collaborators the routes need beyond configuration.
type Deps struct {
	DB    *gorm.DB
	Clock calendar.Clock

	// Jobs behind the /worker endpoints.
	Overdue   handlers.OverdueRunner
	Reminders handlers.ReminderRunner
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip
//  7. Metrics
//  8. CORS and Security headers
//  9. Per group: identity, then idempotency before the rate limiter so
//     replays bypass it
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (x-worker-secret is masked by default)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
		middleware.HeaderLandlordID, middleware.HeaderTenantID, middleware.HeaderIdempotencyKey,
	}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/clock/config
	db, clock := deps.DB, deps.Clock
	leaseSvc := services.NewLeaseService(db, clock)
	if cfg.Billing.HorizonMonths > 0 {
		leaseSvc.Horizon = cfg.Billing.HorizonMonths
	}
	if cfg.IdempotencyTTL > 0 {
		leaseSvc.IdempotencyTTL = cfg.IdempotencyTTL
	}
	h := handlers.New(handlers.Services{
		Rooms:        &services.RoomService{DB: db},
		Tenants:      &services.TenantService{DB: db},
		Leases:       leaseSvc,
		Invoices:     services.NewInvoiceService(db, clock),
		Messages:     &services.MessageService{DB: db, MaxContentRunes: 4000},
		Expenses:     &services.ExpenseService{DB: db},
		Overdue:      deps.Overdue,
		Reminders:    deps.Reminders,
		WorkerSecret: cfg.Worker.Secret,
		Today:        func() time.Time { return calendar.Today(clock) },
	})

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByActorOrIP())

	// Tenant API
	base := groupWithPrefix(r, cfg.APIBasePath)
	tenant := base.Group("/tenant", middleware.RequireTenant(), middleware.NoStore(), rl.Handler())
	{
		tenant.GET("/invoices", h.TenantInvoices)
		tenant.POST("/invoices/:id/declare", h.DeclarePayment)
		tenant.GET("/balance", h.TenantBalance)
		tenant.POST("/leases/:id/messages", h.PostMessage)
		tenant.GET("/leases/:id/messages", h.ListMessages)
	}

	// Landlord API
	api := base.Group("",
		middleware.RequireLandlord(),
		middleware.IdempotencyValidator(
			middleware.IdempotencyOptions{
				MaxLen: 200,
				Scope: func(c *gin.Context) string {
					if c.Request.Method == http.MethodPost && c.FullPath() == joinPath(cfg.APIBasePath, "/leases") {
						return leaseScope
					}
					return ""
				},
				Now: func() time.Time { return time.Now().UTC() },
			},
			func(ctx context.Context, landlordID, scope, key string, now time.Time) (bool, error) {
				rec, err := repo.GetIdempotency(ctx, db, landlordID, scope, key, now)
				if err != nil || rec == nil {
					return false, nil
				}
				return true, nil
			},
		),
		rl.Handler(),
	)
	{
		// Rooms and tenants
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms", h.ListRooms)
		api.DELETE("/rooms/:id", h.DeleteRoom)
		api.POST("/tenants", h.CreateTenant)
		api.GET("/tenants", h.ListTenants)

		// Leases
		api.POST("/leases", h.CreateLease)
		api.GET("/leases", h.ListLeases)
		api.GET("/leases/:id", h.GetLease)
		api.POST("/leases/:id/end", h.EndLease)
		api.PATCH("/leases/:id/terms", h.UpdateLeaseTerms)
		api.DELETE("/leases/:id", h.DeleteLease)

		// Invoices
		api.GET("/invoices", h.ListInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.POST("/invoices/:id/mark-paid", h.MarkPaid)
		api.POST("/invoices/:id/unmark-paid", h.UnmarkPaid)
		api.POST("/invoices/:id/approve", h.ApprovePayment)
		api.POST("/invoices/:id/reject", h.RejectPayment)

		// Incidents
		api.GET("/messages", h.LandlordMessages)
		api.POST("/messages/:id/reply", h.ReplyMessage)
		api.POST("/messages/:id/close", h.CloseMessage)

		// Expenses
		api.POST("/expenses", h.CreateExpense)
		api.GET("/expenses", h.ListExpenses)
		api.POST("/expenses/:id/approve", h.ApproveExpense)
		api.POST("/expenses/:id/reject", h.RejectExpense)
	}

	// Worker endpoints live at the root, outside the rate limiter.
	wk := r.Group("/worker", middleware.NoStore())
	{
		wk.POST("/recompute-overdue", h.RecomputeOverdue)
		wk.POST("/send-whatsapp-reminders", h.SendReminders)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath mirrors how Gin composes a group prefix with a route path.
func joinPath(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	return prefix + path
}
