package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthController(r gin.IRouter, db Pinger, logger *zap.Logger) *HealthController {
	hc := &HealthController{db: db, logger: logger}
	r.GET(RouteHealth, hc.HealthHandler)
	return hc
}

// HealthHandler godoc
//
//	@Summary	Liveness and database reachability
//	@Tags		ops
//	@Success	200
//	@Failure	503
//	@Router		/healthz [get]
func (hc *HealthController) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := hc.db.Ping(ctx); err != nil {
		hc.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
