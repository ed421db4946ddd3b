package handlers

import (
	"net/http"
	"time"

	"rentzy/internal/common"

	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	startedAt time.Time
}

func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{startedAt: time.Now()}
}

func (h *HealthHandlers) Health(c echo.Context) error {
	return common.SendData(c, http.StatusOK, "Server is running", map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
