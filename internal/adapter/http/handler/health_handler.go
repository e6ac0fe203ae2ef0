package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Probe checks an optional dependency. A failing probe is reported but does
// not make the service unhealthy.
type Probe func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db         *gorm.DB
	redis      *redis.Client
	probes     map[string]Probe
	components map[string]bool
}

// NewHealthHandler creates a new health handler. components lists which
// pipeline parts were configured at start-up.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, components map[string]bool) *HealthHandler {
	if components == nil {
		components = map[string]bool{}
	}
	return &HealthHandler{
		db:         db,
		redis:      redis,
		probes:     make(map[string]Probe),
		components: components,
	}
}

// AddProbe registers an optional dependency check shown by Health
func (h *HealthHandler) AddProbe(name string, p Probe) {
	h.probes[name] = p
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// APIHealthStatus represents the /api/health response
type APIHealthStatus struct {
	Status     string          `json:"status"`
	Timestamp  string          `json:"timestamp"`
	Components map[string]bool `json:"components"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	// Check database
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(ctx); err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "not configured"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	} else {
		components["redis"] = "not configured"
	}

	for name, probe := range h.probes {
		if err := probe(ctx); err != nil {
			components[name] = "degraded: " + err.Error()
		} else {
			components[name] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database error"})
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// APIHealth handles GET /api/health. It reports which components were
// configured, not whether they answer.
func (h *HealthHandler) APIHealth(c *gin.Context) {
	components := make(map[string]bool, len(h.components)+1)
	for k, v := range h.components {
		components[k] = v
	}
	components["database"] = h.db != nil

	respondSuccess(c, http.StatusOK, APIHealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}
