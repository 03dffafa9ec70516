package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/me/schedq/internal/scheduler"
	"github.com/me/schedq/pkg/model"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxBatchSize      = 50
)

// submitTaskRequest is the JSON body for POST /tasks.
type submitTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	BurstTime   int64  `json:"burst_time"`
}

func (req *submitTaskRequest) validate() []model.FieldError {
	var details []model.FieldError
	if req.Name == "" {
		details = append(details, model.FieldError{Field: "name", Message: "name is required"})
	}
	if len(req.Name) > maxNameLen {
		details = append(details, model.FieldError{Field: "name", Message: "name must be at most 100 characters"})
	}
	if len(req.Description) > maxDescriptionLen {
		details = append(details, model.FieldError{Field: "description", Message: "description must be at most 500 characters"})
	}
	return details
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("invalid JSON body"))
		return
	}
	if details := req.validate(); len(details) > 0 {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("invalid task", details...))
		return
	}

	view, err := s.engine.Submit(scheduler.SubmitRequest{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		BurstTime:   req.BurstTime,
	})
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondCreated(w, r, view)
}

// batchSubmitRequest is the JSON body for POST /tasks/batch.
type batchSubmitRequest struct {
	Tasks []submitTaskRequest `json:"tasks"`
}

// batchSubmitResult reports per-item outcomes; the batch itself never
// fails partway, each item is accepted or rejected on its own.
type batchSubmitResult struct {
	Created []model.TaskView `json:"created"`
	Errors  []batchItemError `json:"errors,omitempty"`
}

type batchItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (s *Server) handleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req batchSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("invalid JSON body"))
		return
	}
	if len(req.Tasks) == 0 {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("batch must contain at least one task"))
		return
	}
	if len(req.Tasks) > maxBatchSize {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("batch must contain at most 50 tasks"))
		return
	}

	result := batchSubmitResult{Created: []model.TaskView{}}
	for i, item := range req.Tasks {
		if details := item.validate(); len(details) > 0 {
			result.Errors = append(result.Errors, batchItemError{
				Index: i, Message: details[0].Message,
			})
			continue
		}
		view, err := s.engine.Submit(scheduler.SubmitRequest{
			Name:        item.Name,
			Description: item.Description,
			Priority:    item.Priority,
			BurstTime:   item.BurstTime,
		})
		if err != nil {
			result.Errors = append(result.Errors, batchItemError{
				Index: i, Message: err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, view)
	}
	s.respondCreated(w, r, result)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	opts, apiErr := parseListOptions(r)
	if apiErr != nil {
		s.respondError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	views, total := s.engine.List(opts)
	s.respondList(w, r, views, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(views) < total,
	})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.engine.Get(id)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

// updateTaskRequest is the JSON body for PATCH /tasks/{id}. Absent
// fields are left unchanged.
type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("invalid JSON body"))
		return
	}
	if req.Name == nil && req.Description == nil && req.Priority == nil {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("no fields to update"))
		return
	}
	var details []model.FieldError
	if req.Name != nil && *req.Name == "" {
		details = append(details, model.FieldError{Field: "name", Message: "name must not be empty"})
	}
	if req.Name != nil && len(*req.Name) > maxNameLen {
		details = append(details, model.FieldError{Field: "name", Message: "name must be at most 100 characters"})
	}
	if req.Description != nil && len(*req.Description) > maxDescriptionLen {
		details = append(details, model.FieldError{Field: "description", Message: "description must be at most 500 characters"})
	}
	if len(details) > 0 {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError("invalid update", details...))
		return
	}

	view, err := s.engine.UpdateTask(id, scheduler.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.engine.Cancel(id)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondOK(w, r, view)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.Delete(id); err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondOK(w, r, map[string]string{"id": id, "deleted": "true"})
}

// respondEngineError maps the engine's typed errors onto HTTP statuses
// and the structured error envelope.
func (s *Server) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *model.TaskNotFoundError
	if errors.As(err, &notFound) {
		s.respondError(w, r, http.StatusNotFound, model.NewNotFoundError("task", notFound.ID))
		return
	}
	var badPriority *model.InvalidPriorityError
	if errors.As(err, &badPriority) {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError(badPriority.Error(),
				model.FieldError{Field: "priority", Message: badPriority.Error()}))
		return
	}
	var badBurst *model.InvalidBurstError
	if errors.As(err, &badBurst) {
		s.respondError(w, r, http.StatusBadRequest,
			model.NewValidationError(badBurst.Error(),
				model.FieldError{Field: "burst_time", Message: badBurst.Error()}))
		return
	}
	var badState *model.InvalidStateError
	if errors.As(err, &badState) {
		s.respondError(w, r, http.StatusConflict, &model.APIError{
			Code:    model.ErrInvalidState,
			Message: badState.Error(),
		})
		return
	}

	s.logger.Error("internal error", "error", err, "path", r.URL.Path)
	s.respondError(w, r, http.StatusInternalServerError, &model.APIError{
		Code:    model.ErrInternal,
		Message: "internal server error",
	})
}

// parseListOptions reads state, priority, limit and offset query params.
func parseListOptions(r *http.Request) (model.ListOptions, *model.APIError) {
	opts := model.DefaultListOptions()
	q := r.URL.Query()

	if v := q.Get("state"); v != "" {
		st := model.TaskState(v)
		if !st.IsValid() {
			return opts, model.NewValidationError("invalid state filter",
				model.FieldError{Field: "state", Message: "unknown state: " + v})
		}
		opts.State = st
	}
	if v := q.Get("priority"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return opts, model.NewValidationError("invalid priority filter",
				model.FieldError{Field: "priority", Message: "priority must be an integer"})
		}
		opts.Priority = &p
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, model.NewValidationError("invalid limit",
				model.FieldError{Field: "limit", Message: "limit must be an integer"})
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, model.NewValidationError("invalid offset",
				model.FieldError{Field: "offset", Message: "offset must be an integer"})
		}
		opts.Offset = n
	}
	opts.Clamp()
	return opts, nil
}
