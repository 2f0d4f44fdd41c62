package handler

import (
	"net/http"
	"time"

	"github.com/dafenarts/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the storage backend is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler serves the health endpoint
type SystemHandler struct {
	BaseHandler
	db      Pinger
	appName string
	started time.Time
}

// NewSystemHandler creates a SystemHandler
func NewSystemHandler(db Pinger, appName string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName, started: time.Now()}
}

// Health reports service and database status
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, dto.NewSuccessResponse(gin.H{
		"status":   status,
		"database": dbStatus,
		"app":      h.appName,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	}))
}
