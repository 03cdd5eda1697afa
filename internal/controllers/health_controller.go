package controllers

import (
	"fmt"
	"net/http"
	"plantao/internal/providers"
	"plantao/internal/services"
	"plantao/internal/store"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.PlantaoServiceInterface
	startTime time.Time
	now       func() time.Time
}

type healthResponse struct {
	Ok            bool                  `json:"ok"`
	Time          string                `json:"time"`
	Uptime        string                `json:"uptime"`
	UptimeSeconds float64               `json:"uptime_seconds"`
	Stats         services.ServiceStats `json:"stats"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	now := hc.now()
	uptime := now.Sub(hc.startTime)
	resp := healthResponse{
		Ok:            true,
		Time:          store.FormatTimestamp(now),
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Stats:         hc.service.Stats(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		providers.WriteJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	providers.WriteJSON(w, http.StatusOK, gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.PlantaoServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
		now:       time.Now,
	}
}
