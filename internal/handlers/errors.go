package handlers

import (
	"errors"
	"net/http"

	"interviewhub/internal/gate"
	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/store"
	"interviewhub/internal/utils"
)

// writeDomainError maps domain errors onto the standard error envelope.
// Authorization and not-found failures are checked before any mutation, so
// an error here means no partial effect happened.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gate.ErrUnauthenticated):
		utils.Error(w, http.StatusUnauthorized, "unauthenticated", "no caller identity")
	case errors.Is(err, gate.ErrUnauthorized):
		utils.Error(w, http.StatusForbidden, "unauthorized", "caller is not authorized for this operation")
	case errors.Is(err, store.ErrSessionNotFound):
		utils.Error(w, http.StatusNotFound, "session_not_found", "Session not found")
	case errors.Is(err, repositories.ErrQuestionNotFound):
		utils.Error(w, http.StatusNotFound, "question_not_found", "Question not found")
	case errors.Is(err, repositories.ErrNotOwner):
		utils.Error(w, http.StatusForbidden, "not_owner", "Only the question owner may modify it")
	case errors.Is(err, repositories.ErrDefaultQuestion):
		utils.Error(w, http.StatusForbidden, "default_question", "Default questions cannot be modified")
	case errors.Is(err, repositories.ErrDuplicateQuestion):
		utils.Error(w, http.StatusConflict, "duplicate_question", "A question with this title already exists")
	case errors.Is(err, store.ErrInvalidTransition):
		utils.Error(w, http.StatusBadRequest, "invalid_transition", "Requested status change is not allowed")
	case errors.Is(err, store.ErrNoInterviewers):
		utils.Error(w, http.StatusBadRequest, "no_interviewers", "At least one interviewer is required")
	case errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrIncompleteReview),
		errors.Is(err, models.ErrIncompleteQuestion),
		errors.Is(err, models.ErrIncompleteStarterCode):
		utils.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
