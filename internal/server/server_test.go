package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/schedq/internal/config"
	"github.com/me/schedq/internal/scheduler"
	"github.com/me/schedq/pkg/model"
)

func testServer(t *testing.T) (*Server, *scheduler.Engine) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := scheduler.New(scheduler.DefaultConfig(), logger)
	return New(config.DefaultServerConfig(), eng, logger), eng
}

// envelope decodes the standard response envelope.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func doRequest(t *testing.T, srv *Server, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON: %v, body=%s", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func submitTask(t *testing.T, srv *Server, body string) model.TaskView {
	t.Helper()
	code, env := doRequest(t, srv, "POST", "/api/v1/tasks", body)
	if code != http.StatusCreated {
		t.Fatalf("submit: status=%d, want 201, error=%+v", code, env.Error)
	}
	var view model.TaskView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("submit: bad data: %v", err)
	}
	return view
}

func TestDiscovery(t *testing.T) {
	srv, _ := testServer(t)
	code, env := doRequest(t, srv, "GET", "/api/v1/", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if env.Status != "success" {
		t.Errorf("status = %q, want success", env.Status)
	}
	if env.RequestID == "" {
		t.Error("request_id is empty")
	}

	var data struct {
		Name      string `json:"name"`
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Name != "schedq API" {
		t.Errorf("name = %q, want schedq API", data.Name)
	}
	if len(data.Endpoints) < 5 {
		t.Errorf("endpoints count = %d, want >= 5", len(data.Endpoints))
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	code, env := doRequest(t, srv, "GET", "/api/v1/health", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	var data struct {
		Status  string `json:"status"`
		Archive string `json:"archive"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Status != "healthy" {
		t.Errorf("health status = %q, want healthy", data.Status)
	}
	if data.Archive != "disabled" {
		t.Errorf("archive = %q, want disabled", data.Archive)
	}
}

func TestSubmitTask(t *testing.T) {
	srv, _ := testServer(t)
	view := submitTask(t, srv, `{"name":"encode","priority":3,"burst_time":5}`)

	if view.ID == "" || !strings.HasPrefix(view.ID, "task_") {
		t.Errorf("id = %q, want task_ prefix", view.ID)
	}
	if view.State != model.TaskStateReady {
		t.Errorf("state = %s, want READY", view.State)
	}
	if view.Priority != 3 || view.BurstTime != 5 {
		t.Errorf("priority=%d burst=%d, want 3/5", view.Priority, view.BurstTime)
	}
}

func TestSubmitTask_Validation(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		body string
		code model.ErrorCode
	}{
		{"bad json", `{`, model.ErrValidation},
		{"missing name", `{"priority":3,"burst_time":5}`, model.ErrValidation},
		{"name too long", `{"name":"` + strings.Repeat("x", 101) + `","priority":3,"burst_time":5}`, model.ErrValidation},
		{"priority out of range", `{"name":"a","priority":0,"burst_time":5}`, model.ErrValidation},
		{"priority too high", `{"name":"a","priority":11,"burst_time":5}`, model.ErrValidation},
		{"zero burst", `{"name":"a","priority":3,"burst_time":0}`, model.ErrValidation},
		{"negative burst", `{"name":"a","priority":3,"burst_time":-2}`, model.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := doRequest(t, srv, "POST", "/api/v1/tasks", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestSubmitBatch(t *testing.T) {
	srv, _ := testServer(t)
	body := `{"tasks":[
		{"name":"a","priority":1,"burst_time":2},
		{"name":"","priority":1,"burst_time":2},
		{"name":"c","priority":99,"burst_time":2}
	]}`
	code, env := doRequest(t, srv, "POST", "/api/v1/tasks/batch", body)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}

	var result struct {
		Created []model.TaskView `json:"created"`
		Errors  []struct {
			Index int `json:"index"`
		} `json:"errors"`
	}
	json.Unmarshal(env.Data, &result)
	if len(result.Created) != 1 {
		t.Errorf("created = %d, want 1", len(result.Created))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(result.Errors))
	}
	if result.Errors[0].Index != 1 || result.Errors[1].Index != 2 {
		t.Errorf("error indexes = %d,%d, want 1,2", result.Errors[0].Index, result.Errors[1].Index)
	}
}

func TestSubmitBatch_Empty(t *testing.T) {
	srv, _ := testServer(t)
	code, _ := doRequest(t, srv, "POST", "/api/v1/tasks/batch", `{"tasks":[]}`)
	if code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestGetTask(t *testing.T) {
	srv, _ := testServer(t)
	created := submitTask(t, srv, `{"name":"probe","priority":2,"burst_time":4}`)

	code, env := doRequest(t, srv, "GET", "/api/v1/tasks/"+created.ID, "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var view model.TaskView
	json.Unmarshal(env.Data, &view)
	if view.ID != created.ID || view.Name != "probe" {
		t.Errorf("got %+v, want id=%s name=probe", view, created.ID)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	code, env := doRequest(t, srv, "GET", "/api/v1/tasks/task_missing", "")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if env.Error == nil || env.Error.Code != model.ErrNotFound {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}

func TestListTasks_FilterAndPagination(t *testing.T) {
	srv, _ := testServer(t)
	for i := 0; i < 3; i++ {
		submitTask(t, srv, `{"name":"low","priority":5,"burst_time":2}`)
	}
	submitTask(t, srv, `{"name":"high","priority":1,"burst_time":2}`)

	code, env := doRequest(t, srv, "GET", "/api/v1/tasks?priority=5&limit=2", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var views []model.TaskView
	json.Unmarshal(env.Data, &views)
	if len(views) != 2 {
		t.Errorf("len = %d, want 2", len(views))
	}
	if env.Pagination == nil {
		t.Fatal("pagination missing")
	}
	if env.Pagination.Total != 3 || !env.Pagination.HasMore {
		t.Errorf("pagination = %+v, want total 3 has_more", env.Pagination)
	}
}

func TestListTasks_BadFilters(t *testing.T) {
	srv, _ := testServer(t)
	for _, path := range []string{
		"/api/v1/tasks?state=BOGUS",
		"/api/v1/tasks?priority=abc",
		"/api/v1/tasks?limit=xyz",
	} {
		code, _ := doRequest(t, srv, "GET", path, "")
		if code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", path, code)
		}
	}
}

func TestUpdateTask(t *testing.T) {
	srv, _ := testServer(t)
	created := submitTask(t, srv, `{"name":"old","priority":5,"burst_time":4}`)

	code, env := doRequest(t, srv, "PATCH", "/api/v1/tasks/"+created.ID,
		`{"name":"new","priority":2}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200, error=%+v", code, env.Error)
	}
	var view model.TaskView
	json.Unmarshal(env.Data, &view)
	if view.Name != "new" || view.Priority != 2 {
		t.Errorf("got name=%q priority=%d, want new/2", view.Name, view.Priority)
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	srv, eng := testServer(t)
	created := submitTask(t, srv, `{"name":"t","priority":5,"burst_time":2}`)

	code, _ := doRequest(t, srv, "PATCH", "/api/v1/tasks/"+created.ID, `{}`)
	if code != http.StatusBadRequest {
		t.Errorf("empty update: status = %d, want 400", code)
	}

	code, _ = doRequest(t, srv, "PATCH", "/api/v1/tasks/"+created.ID, `{"priority":42}`)
	if code != http.StatusBadRequest {
		t.Errorf("bad priority: status = %d, want 400", code)
	}

	code, _ = doRequest(t, srv, "PATCH", "/api/v1/tasks/task_missing", `{"priority":2}`)
	if code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", code)
	}

	// Terminal tasks reject updates with a conflict.
	if _, err := eng.Cancel(created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	code, env := doRequest(t, srv, "PATCH", "/api/v1/tasks/"+created.ID, `{"priority":2}`)
	if code != http.StatusConflict {
		t.Errorf("terminal update: status = %d, want 409", code)
	}
	if env.Error == nil || env.Error.Code != model.ErrInvalidState {
		t.Errorf("error = %+v, want INVALID_STATE", env.Error)
	}
}

func TestCancelTask(t *testing.T) {
	srv, _ := testServer(t)
	created := submitTask(t, srv, `{"name":"t","priority":5,"burst_time":2}`)

	code, env := doRequest(t, srv, "PUT", "/api/v1/tasks/"+created.ID+"/cancel", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var view model.TaskView
	json.Unmarshal(env.Data, &view)
	if view.State != model.TaskStateCancelled {
		t.Errorf("state = %s, want CANCELLED", view.State)
	}

	// Cancelling again is an idempotent no-op.
	code, _ = doRequest(t, srv, "PUT", "/api/v1/tasks/"+created.ID+"/cancel", "")
	if code != http.StatusOK {
		t.Errorf("second cancel: status = %d, want 200", code)
	}
}

func TestDeleteTask(t *testing.T) {
	srv, eng := testServer(t)
	created := submitTask(t, srv, `{"name":"t","priority":5,"burst_time":2}`)

	// Live tasks cannot be deleted.
	code, _ := doRequest(t, srv, "DELETE", "/api/v1/tasks/"+created.ID, "")
	if code != http.StatusConflict {
		t.Errorf("live delete: status = %d, want 409", code)
	}

	if _, err := eng.Cancel(created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	code, _ = doRequest(t, srv, "DELETE", "/api/v1/tasks/"+created.ID, "")
	if code != http.StatusOK {
		t.Errorf("delete: status = %d, want 200", code)
	}

	code, _ = doRequest(t, srv, "GET", "/api/v1/tasks/"+created.ID, "")
	if code != http.StatusNotFound {
		t.Errorf("after delete: status = %d, want 404", code)
	}
}

func TestStats(t *testing.T) {
	srv, eng := testServer(t)
	submitTask(t, srv, `{"name":"t","priority":5,"burst_time":2}`)

	// Drive the task to completion synchronously.
	ctx := context.Background()
	for {
		worked, err := eng.Tick(ctx)
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		if !worked {
			break
		}
	}

	code, env := doRequest(t, srv, "GET", "/api/v1/stats", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	var stats model.SchedulerStats
	json.Unmarshal(env.Data, &stats)
	if stats.CompletedTasks != 1 {
		t.Errorf("completed = %d, want 1", stats.CompletedTasks)
	}
	if stats.ClockTicks != 2 {
		t.Errorf("clock_ticks = %d, want 2", stats.ClockTicks)
	}
}

func TestRequestID_Propagates(t *testing.T) {
	srv, _ := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req_fixed123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req_fixed123" {
		t.Errorf("X-Request-ID = %q, want req_fixed123", got)
	}
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	if env.RequestID != "req_fixed123" {
		t.Errorf("request_id = %q, want req_fixed123", env.RequestID)
	}
}
