package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	endpoints := []endpointInfo{
		{"/api/v1/tasks", []string{"GET", "POST"}, "Task submission and listing. GET accepts state, priority, limit and offset filters"},
		{"/api/v1/tasks/batch", []string{"POST"}, "Submit multiple tasks in one request"},
		{"/api/v1/tasks/{id}", []string{"GET", "PATCH", "DELETE"}, "Single task detail, update, and removal of terminal tasks"},
		{"/api/v1/tasks/{id}/cancel", []string{"PUT"}, "Cancel a pending, ready, or running task"},
		{"/api/v1/stats", []string{"GET"}, "Aggregate scheduler metrics and state counts"},
		{"/api/v1/health", []string{"GET"}, "Server health and version"},
	}
	if s.archive != nil {
		endpoints = append(endpoints,
			endpointInfo{"/api/v1/history", []string{"GET"}, "Archived task snapshots, including deleted tasks until their delete event is applied"},
			endpointInfo{"/api/v1/history/{id}", []string{"GET"}, "Single archived task snapshot"},
		)
	}
	s.respondOK(w, r, discoveryResponse{
		Name:        "schedq API",
		Version:     "v1",
		Description: "schedq priority scheduler - round-robin task dispatch with logical-time quanta",
		Endpoints:   endpoints,
	})
}
