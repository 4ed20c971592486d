package handlers

import (
	"errors"
	"log"
	"net/http"

	"homevault/internal/service"
	"homevault/internal/utils"
)

// respondWithError logs the underlying error and sends a JSON error response.
// logMsg defaults to userMsg when empty.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondError(w, status, errorCode(status), userMsg)
}

// respondServiceError maps known service errors to HTTP statuses. Unknown
// errors become a 500 with the details kept in the log.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr utils.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrInviteNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrInvalidInviteCode):
		respondError(w, http.StatusNotFound, "INVALID_INVITE_CODE", err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		respondError(w, http.StatusConflict, "ALREADY_MEMBER", err.Error())
	case errors.Is(err, service.ErrMissingContact),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidRelationship):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "", err)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
