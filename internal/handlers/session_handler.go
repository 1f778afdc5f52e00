package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interviewhub/internal/gate"
	"interviewhub/internal/metrics"
	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/store"
	"interviewhub/internal/sweeper"
	"interviewhub/internal/utils"
)

type SessionHandler struct {
	sessions  *store.SessionStore
	questions repositories.QuestionRepository
	sweeper   *sweeper.Sweeper
	log       *zap.Logger
}

func NewSessionHandler(sessions *store.SessionStore, questions repositories.QuestionRepository, sw *sweeper.Sweeper, log *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, questions: questions, sweeper: sw, log: log}
}

type createSessionRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartTime      int64    `json:"startTime"`
	Status         string   `json:"status,omitempty"`
	StreamCallID   string   `json:"streamCallId"`
	CandidateID    string   `json:"candidateId"`
	InterviewerIDs []string `json:"interviewerIds"`
}

func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if req.Title == "" || req.StreamCallID == "" || req.CandidateID == "" {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "title, streamCallId and candidateId are required")
		return
	}

	sess := &models.Session{
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		Status:         models.Status(req.Status),
		StreamCallID:   req.StreamCallID,
		CandidateID:    req.CandidateID,
		InterviewerIDs: req.InterviewerIDs,
	}
	created, err := h.sessions.Create(r.Context(), sess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, created)
}

func (h *SessionHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		sessions []models.Session
		err      error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.Status(status).Valid() {
			utils.Error(w, http.StatusBadRequest, "invalid_status", "status must be one of: scheduled, live, completed, missed")
			return
		}
		sessions, err = h.sessions.ListByStatus(r.Context(), models.Status(status))
	} else {
		sessions, err = h.sessions.ListAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.SessionsResponse{Total: len(sessions), Items: sessions})
}

// ListMySessionsHandler returns sessions where the caller is the candidate.
func (h *SessionHandler) ListMySessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListByCandidate(r.Context(), CallerID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.SessionsResponse{Total: len(sessions), Items: sessions})
}

// ListInterviewingHandler returns sessions where the caller is listed as an
// interviewer.
func (h *SessionHandler) ListInterviewingHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListByInterviewer(r.Context(), CallerID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.SessionsResponse{Total: len(sessions), Items: sessions})
}

func (h *SessionHandler) GetByCallIDHandler(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "streamCallId")
	sess, err := h.sessions.GetByStreamCallID(r.Context(), callID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sess)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *SessionHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	sess, err := h.sessions.TransitionStatus(r.Context(), id, models.Status(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sess)
}

type setQuestionRequest struct {
	QuestionID string `json:"questionId"`
}

// SetQuestionHandler makes a question the shared one for the session.
// Interviewer-only: the switch replaces every participant's buffer with the
// question's starter code for the active language.
func (h *SessionHandler) SetQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := CallerID(r)

	sess, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := gate.RequireQuestionControl(callerID, sess); err != nil {
		writeDomainError(w, err)
		return
	}

	var req setQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "questionId is required")
		return
	}
	question, err := h.questions.GetByID(r.Context(), req.QuestionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.sessions.Patch(r.Context(), id, map[string]any{
		"currentQuestionId": question.ID,
		"currentCode":       question.StarterCode.ForLanguage(sess.CurrentLanguage),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

type updateCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// UpdateCodeHandler publishes a participant's buffer as canonical state.
func (h *SessionHandler) UpdateCodeHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := CallerID(r)

	sess, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := gate.RequireCodeAccess(callerID, sess); err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	fields := map[string]any{"currentCode": req.Code}
	if req.Language != "" {
		fields["currentLanguage"] = models.Language(req.Language)
	}
	updated, err := h.sessions.Patch(r.Context(), id, fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

type updateCandidateRequest struct {
	CandidateID string `json:"candidateId"`
}

func (h *SessionHandler) UpdateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := CallerID(r)

	sess, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CandidateID == "" {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "candidateId is required")
		return
	}
	if err := gate.RequireCandidateReassign(callerID, req.CandidateID, sess); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.sessions.Patch(r.Context(), id, map[string]any{"candidateId": req.CandidateID})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

type submitReviewRequest struct {
	Result string        `json:"result"`
	Review models.Review `json:"review"`
}

func (h *SessionHandler) SubmitReviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := CallerID(r)

	sess, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := gate.RequireReviewer(callerID, sess); err != nil {
		writeDomainError(w, err)
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	updated, err := h.sessions.SubmitReview(r.Context(), id, callerID, models.Result(req.Result), &req.Review)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

type updateResultRequest struct {
	Result string `json:"result"`
}

func (h *SessionHandler) UpdateResultHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	callerID := CallerID(r)

	sess, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := gate.RequireReviewer(callerID, sess); err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	updated, err := h.sessions.UpdateResult(r.Context(), id, callerID, models.Result(req.Result))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

// SweepMissedHandler runs the missed-session sweep on demand.
func (h *SessionHandler) SweepMissedHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.SessionsSwept(count)
	utils.JSON(w, http.StatusOK, models.SweepResponse{Transitioned: count})
}
