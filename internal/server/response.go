package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/me/schedq/pkg/model"
)

func respondJSON(w http.ResponseWriter, status int, resp model.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Headers are already written; nothing left to do but note it.
		return
	}
}

func (s *Server) respondOK(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, http.StatusOK, model.Response{
		Status:    "success",
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

func (s *Server) respondCreated(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, http.StatusCreated, model.Response{
		Status:    "success",
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

func (s *Server) respondList(w http.ResponseWriter, r *http.Request, data any, p *model.Pagination) {
	respondJSON(w, http.StatusOK, model.Response{
		Status:     "success",
		RequestID:  RequestIDFromContext(r.Context()),
		Timestamp:  time.Now().UTC(),
		Data:       data,
		Pagination: p,
	})
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *model.APIError) {
	respondJSON(w, status, model.Response{
		Status:    "error",
		RequestID: RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Error:     apiErr,
	})
}
