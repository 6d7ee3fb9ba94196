package router

import (
	"github.com/gin-gonic/gin"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"github.com/saifghl/lms/internal/interfaces/http/handler"
	"github.com/saifghl/lms/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps request bodies
const DefaultMaxBodyBytes int64 = 1 << 20

// Handlers are the endpoint groups served by the API
type Handlers struct {
	Lease     *handler.LeaseHandler
	Dashboard *handler.DashboardHandler
	Unit      *handler.UnitHandler
	System    *handler.SystemHandler
}

// Options configure the engine's middleware chain
type Options struct {
	Logger       *zap.Logger
	Meter        *telemetry.MeterProvider
	Tracing      middleware.TracingConfig
	Profiling    middleware.ProfilingConfig
	CORS         middleware.CORSConfig
	MaxBodyBytes int64
}

// New builds the gin engine with the middleware chain and every route
func New(opts Options, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		logger.Recovery(opts.Logger),
		logger.GinMiddleware(opts.Logger, "/health", "/health/ready"),
		middleware.Tracing(opts.Tracing),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(opts.Meter),
		middleware.Profiling(opts.Profiling),
		middleware.CORS(opts.CORS),
		middleware.Secure(),
		middleware.BodyLimit(opts.MaxBodyBytes),
	)

	if h.System != nil {
		engine.GET("/health", h.System.Health)
		engine.GET("/health/ready", h.System.Ready)
	}

	Mount(engine.Group(APIPrefix), resources(h)...)
	return engine
}

func resources(h Handlers) []Resource {
	var out []Resource

	if h.Lease != nil {
		out = append(out, Resource{Path: "/leases", Routes: []Route{
			post("", h.Lease.Create),
			get("", h.Lease.List),
			get("/:id", h.Lease.Get),
			put("/:id", h.Lease.Update),
			patch("/:id", h.Lease.Update),
			remove("/:id", h.Lease.Delete),
			post("/:id/approve", h.Lease.Approve),
			post("/:id/reject", h.Lease.Reject),
			post("/:id/terminate", h.Lease.Terminate),
			get("/:id/escalations", h.Lease.Schedule),
		}})
	}

	if h.Dashboard != nil {
		out = append(out, Resource{Path: "/dashboard", Routes: []Route{
			get("/stats", h.Dashboard.Stats),
		}})
	}

	if h.Unit != nil {
		out = append(out, Resource{Path: "/units", Routes: []Route{
			get("", h.Unit.List),
			get("/:id/assignments", h.Unit.Assignments),
			post("/:id/owners", h.Unit.AssignOwner),
			remove("/:id/owners/:ownerId", h.Unit.RemoveOwner),
			post("/:id/tenants", h.Unit.AssignTenant),
			remove("/:id/tenants/:tenantId", h.Unit.RemoveTenant),
		}})
	}

	if h.System != nil {
		out = append(out, Resource{Path: "/system", Routes: []Route{
			get("/info", h.System.Info),
		}})
	}

	return out
}
