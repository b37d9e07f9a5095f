package httpx

import (
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/data"
	apperrors "github.com/jobdeck/jobdeck/internal/errors"
)

// RenderServiceError writes an error response with the HTTP status and
// error code derived from the error category. Database errors are
// mapped through MapDBError first; unrecognized errors render as 500
// without leaking internals to the client.
func RenderServiceError(w http.ResponseWriter, err error) {
	if isNotFoundSentinel(err) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
		return
	}

	mapped := apperrors.MapDBError(err)

	var appErr *apperrors.AppError
	if !errors.As(mapped, &appErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal",
			Err:     errors.New("an internal error occurred"),
		})
		return
	}

	WriteError(w, ErrorParams{
		Code:    statusForCode(appErr.Code),
		ErrCode: string(appErr.Code),
		Err:     appErr,
	})
}

func isNotFoundSentinel(err error) bool {
	for _, sentinel := range []error{
		data.ErrUserNotFound,
		data.ErrJobNotFound,
		data.ErrTaskNotFound,
		data.ErrCommentNotFound,
		data.ErrNotificationNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}
