package httpx

import (
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// CommentHandlers provides HTTP handlers for comment operations.
type CommentHandlers struct {
	Svc         *service.CommentService
	Attachments *service.AttachmentService
}

// CreateComment handles HTTP requests to post a comment. Mention
// notifications run downstream of the insert and never fail the
// request.
func (h *CommentHandlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, comment)
}

// CreateAttachment handles HTTP requests to record an uploaded file's
// metadata.
func (h *CommentHandlers) CreateAttachment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAttachmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	att, err := h.Attachments.Record(r.Context(), &req)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, att)
}
