package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Scheduler string `json:"scheduler"`
	Archive   string `json:"archive"`
	ClockTick int64  `json:"clock_tick"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	archive := "disabled"
	if s.archive != nil {
		archive = "sqlite"
	}
	s.respondOK(w, r, healthResponse{
		Status:    "healthy",
		Version:   "0.1.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Scheduler: "running",
		Archive:   archive,
		ClockTick: s.engine.Clock().Now(),
	})
}
