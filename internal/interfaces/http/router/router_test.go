package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/interfaces/http/handler"
	"github.com/saifghl/lms/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMount_ResourcesAndMiddleware(t *testing.T) {
	engine := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	tag := func(c *gin.Context) {
		c.Header("X-Resource", "items")
		c.Next()
	}

	Mount(engine.Group(APIPrefix), Resource{
		Path:       "/items",
		Middleware: []gin.HandlerFunc{tag},
		Routes: []Route{
			get("", echo),
			post("", echo),
			put("/:id", echo),
			patch("/:id", echo),
			remove("/:id", echo),
		},
	})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/items"},
		{http.MethodPost, "/api/v1/items"},
		{http.MethodPut, "/api/v1/items/1"},
		{http.MethodPatch, "/api/v1/items/1"},
		{http.MethodDelete, "/api/v1/items/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
			assert.Equal(t, "items", w.Header().Get("X-Resource"))
		})
	}
}

func testEngine() *gin.Engine {
	caps := shared.AllCapabilities()
	return New(Options{
		Tracing: middleware.TracingConfig{Enabled: false},
		CORS:    middleware.DefaultCORSConfig(),
	}, Handlers{
		Lease:     handler.NewLeaseHandler(nil),
		Dashboard: handler.NewDashboardHandler(nil),
		Unit:      handler.NewUnitHandler(nil),
		System:    handler.NewSystemHandler("lms", "test", nil, caps),
	})
}

func TestNew_HealthAndMiddleware(t *testing.T) {
	engine := testEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}

func TestNew_Routes(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"lease id is validated", http.MethodGet, "/api/v1/leases/abc", http.StatusBadRequest},
		{"approve id is validated", http.MethodPost, "/api/v1/leases/x/approve", http.StatusBadRequest},
		{"reject id is validated", http.MethodPost, "/api/v1/leases/x/reject", http.StatusBadRequest},
		{"terminate id is validated", http.MethodPost, "/api/v1/leases/x/terminate", http.StatusBadRequest},
		{"schedule id is validated", http.MethodGet, "/api/v1/leases/0/escalations", http.StatusBadRequest},
		{"patch id is validated", http.MethodPatch, "/api/v1/leases/x", http.StatusBadRequest},
		{"put id is validated", http.MethodPut, "/api/v1/leases/x", http.StatusBadRequest},
		{"delete id is validated", http.MethodDelete, "/api/v1/leases/x", http.StatusBadRequest},
		{"unit owner id is validated", http.MethodDelete, "/api/v1/units/1/owners/x", http.StatusBadRequest},
		{"unit tenant id is validated", http.MethodDelete, "/api/v1/units/1/tenants/x", http.StatusBadRequest},
		{"unit assignments id is validated", http.MethodGet, "/api/v1/units/x/assignments", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/invoices", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/v1/dashboard/stats", http.StatusMethodNotAllowed},
		{"system info", http.MethodGet, "/api/v1/system/info", http.StatusOK},
		{"readiness without database", http.MethodGet, "/health/ready", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestNew_BodyLimit(t *testing.T) {
	engine := New(Options{MaxBodyBytes: 8}, Handlers{Lease: handler.NewLeaseHandler(nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leases", nil)
	req.ContentLength = 64
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
