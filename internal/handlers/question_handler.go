package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/utils"
)

type QuestionHandler struct {
	repo repositories.QuestionRepository
}

func NewQuestionHandler(repo repositories.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{repo: repo}
}

// ListQuestionsHandler returns the caller's bank (own plus defaults).
func (h *QuestionHandler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	questions, err := h.repo.ListByOwner(r.Context(), CallerID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.QuestionsResponse{Total: len(questions), Items: questions})
}

// ListByOwnerHandler returns another user's bank. Candidates use this to
// load the interviewer's questions in a live session.
func (h *QuestionHandler) ListByOwnerHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "userId")
	questions, err := h.repo.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.QuestionsResponse{Total: len(questions), Items: questions})
}

func (h *QuestionHandler) GetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	question, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, question)
}

type questionRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Examples    []models.Example   `json:"examples"`
	StarterCode models.StarterCode `json:"starterCode"`
	Constraints []string           `json:"constraints,omitempty"`
}

func (h *QuestionHandler) CreateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}

	question := &models.Question{
		Title:       req.Title,
		Description: req.Description,
		Examples:    req.Examples,
		StarterCode: req.StarterCode,
		Constraints: req.Constraints,
		CreatedBy:   CallerID(r),
	}
	created, err := h.repo.Create(r.Context(), question)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/questions/"+created.ID)
	utils.JSON(w, http.StatusCreated, created)
}

func (h *QuestionHandler) UpdateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.requireOwner(existing, CallerID(r)); err != nil {
		writeDomainError(w, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, &models.Question{
		Title:       req.Title,
		Description: req.Description,
		Examples:    req.Examples,
		StarterCode: req.StarterCode,
		Constraints: req.Constraints,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *QuestionHandler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.requireOwner(existing, CallerID(r)); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) requireOwner(q *models.Question, callerID string) error {
	if q.IsDefault {
		return repositories.ErrDefaultQuestion
	}
	if q.CreatedBy != callerID {
		return repositories.ErrNotOwner
	}
	return nil
}
