package adaptor

import (
	"context"
	"net/http"
	"time"

	"tempest-reviews/internal/data/repository"
	"tempest-reviews/pkg/utils"

	"go.uber.org/zap"
)

type HealthHandler struct {
	pinger repository.Pinger
	log    *zap.Logger
}

func NewHealthHandler(pinger repository.Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		pinger: pinger,
		log:    log.With(zap.String("handler", "health")),
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		utils.ResponseUnavailable(w, "Database unavailable")
		return
	}

	utils.ResponseSuccess(w, "OK", map[string]string{"database": "up"})
}
