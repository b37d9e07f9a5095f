// Package httpx provides HTTP handlers and utilities for the jobdeck API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// TaskHandlers provides HTTP handlers for task-related operations.
type TaskHandlers struct {
	Svc         *service.TaskService
	Attachments *service.AttachmentService
	Comments    *service.CommentService
}

// CreateTask handles HTTP requests to create a new task.
func (h *TaskHandlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	task, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

// GetTask handles HTTP requests to fetch a task by ID.
func (h *TaskHandlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	task, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListTasks handles HTTP requests to list tasks with optional filters.
func (h *TaskHandlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	opts := &model.TaskListOptions{}
	opts.Limit, opts.Offset = ParseLimitOffset(r, defaultListLimit, maxListLimit)

	if v := r.URL.Query().Get("job_id"); v != "" {
		opts.JobID = &v
	}
	if v := r.URL.Query().Get("assignee_id"); v != "" {
		opts.AssigneeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := model.TaskStatus(v)
		if !status.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("invalid task status")})
			return
		}
		opts.Status = &status
	}

	tasks, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type assignRequest struct {
	ActorID *string  `json:"actor_id,omitempty"`
	UserIDs []string `json:"user_ids"`
}

// AssignTask handles HTTP requests to add assignees to a task.
func (h *TaskHandlers) AssignTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	var req assignRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("user_ids is required")})
		return
	}

	task, err := h.Svc.Assign(r.Context(), id, req.ActorID, req.UserIDs)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type completeRequest struct {
	ActorID *string `json:"actor_id,omitempty"`
}

// CompleteTask handles HTTP requests to mark a task done.
func (h *TaskHandlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	var req completeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	task, err := h.Svc.Complete(r.Context(), id, req.ActorID)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type setStatusRequest struct {
	Status  model.TaskStatus `json:"status"`
	ActorID *string          `json:"actor_id,omitempty"`
}

// SetTaskStatus handles HTTP requests to change a task's status.
func (h *TaskHandlers) SetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	var req setStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("invalid task status")})
		return
	}

	task, err := h.Svc.SetStatus(r.Context(), id, req.ActorID, req.Status)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

// ListTaskAssignees handles HTTP requests to list a task's assignees.
func (h *TaskHandlers) ListTaskAssignees(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	assignees, err := h.Svc.Assignees(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"assignees": assignees})
}

// ListTaskAttachments handles HTTP requests to list a task's attachments
// with their comment correlation.
func (h *TaskHandlers) ListTaskAttachments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	view, err := h.Attachments.ListForTask(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// ListTaskComments handles HTTP requests to list a task's comments.
func (h *TaskHandlers) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	comments, err := h.Comments.ListForTask(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
