package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/schedq/pkg/model"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()
	s.respondOK(w, r, stats)
}

// handleHistory lists archived task snapshots from the store. The
// archive outlives the in-memory registry, so deleted tasks linger here
// until their delete event is applied.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	opts, apiErr := parseListOptions(r)
	if apiErr != nil {
		s.respondError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	views, total, err := s.archive.ListTasks(r.Context(), opts)
	if err != nil {
		s.logger.Error("history query failed", "error", err)
		s.respondError(w, r, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "failed to query task history",
		})
		return
	}
	s.respondList(w, r, views, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(views) < total,
	})
}

func (s *Server) handleHistoryTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.archive.GetTask(r.Context(), id)
	if err != nil {
		s.logger.Error("history query failed", "error", err, "task_id", id)
		s.respondError(w, r, http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "failed to query task history",
		})
		return
	}
	if view == nil {
		s.respondError(w, r, http.StatusNotFound, model.NewNotFoundError("task", id))
		return
	}
	s.respondOK(w, r, view)
}
