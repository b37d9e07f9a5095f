package httpx

import (
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// JobHandlers provides HTTP handlers for job-related operations.
type JobHandlers struct {
	Svc         *service.JobService
	Comments    *service.CommentService
	Attachments *service.AttachmentService
}

// CreateJob handles HTTP requests to create a new job.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, job)
}

// GetJob handles HTTP requests to fetch a job by ID.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	job, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// ListJobCollaborators handles HTTP requests to list a job's collaborators.
func (h *JobHandlers) ListJobCollaborators(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	collaborators, err := h.Svc.Collaborators(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"collaborators": collaborators})
}

type addCollaboratorsRequest struct {
	ActorID *string                `json:"actor_id,omitempty"`
	UserIDs []string               `json:"user_ids"`
	Role    model.CollaboratorRole `json:"role,omitempty"`
}

// AddJobCollaborators handles HTTP requests to add collaborators to a job.
// Users already on the job are skipped and receive no notification.
func (h *JobHandlers) AddJobCollaborators(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	var req addCollaboratorsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("user_ids is required")})
		return
	}
	if req.Role == "" {
		req.Role = model.CollaboratorRoleCollaborator
	}
	if !req.Role.Valid() {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("invalid collaborator role")})
		return
	}

	if err := h.Svc.AddCollaborators(r.Context(), id, req.ActorID, req.UserIDs, req.Role); err != nil {
		RenderServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListJobComments handles HTTP requests to list a job's comments.
func (h *JobHandlers) ListJobComments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	comments, err := h.Comments.ListForJob(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// ListJobAttachments handles HTTP requests to list a job's attachments
// with their comment correlation.
func (h *JobHandlers) ListJobAttachments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	view, err := h.Attachments.ListForJob(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}
