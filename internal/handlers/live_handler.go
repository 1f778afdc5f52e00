package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interviewhub/internal/gate"
	"interviewhub/internal/metrics"
	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/store"
	"interviewhub/internal/sync"
	"interviewhub/internal/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// LiveHandler runs the live-session WebSocket: one connection per
// participant, buffer convergence guarded by a per-connection controller.
type LiveHandler struct {
	hub       *sync.Hub
	sessions  *store.SessionStore
	questions repositories.QuestionRepository
	jwtSecret string
	ctrlCfg   sync.Config
	log       *zap.Logger
}

func NewLiveHandler(hub *sync.Hub, sessions *store.SessionStore, questions repositories.QuestionRepository, jwtSecret string, log *zap.Logger) *LiveHandler {
	return &LiveHandler{
		hub:       hub,
		sessions:  sessions,
		questions: questions,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

// LiveWS upgrades the connection and runs the frame loop. Auth comes from a
// token query parameter since browsers cannot set headers on websockets.
func (h *LiveHandler) LiveWS(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "streamCallId")

	claims, err := utils.VerifyTokenString(r.URL.Query().Get("token"), h.jwtSecret)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "unauthenticated", "missing or invalid credentials")
		return
	}
	callerID, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "unauthenticated", "missing or invalid credentials")
		return
	}

	sess, err := h.sessions.GetByStreamCallID(r.Context(), callID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// The request context dies with the HTTP exchange; the connection and
	// its publishes outlive it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := sync.NewController(sync.NewStorePublisher(h.sessions, sess.ID), h.ctrlCfg, h.log)
	defer ctrl.Close()

	client := sync.NewClient(conn, callerID, ctrl)
	room := h.hub.GetOrCreate(callID)
	room.Join(client)
	metrics.ParticipantJoined()
	defer func() {
		metrics.ParticipantLeft()
		if left := room.Leave(client); left == 0 {
			h.hub.Delete(callID)
		}
	}()

	// Seed the local view from canonical state, then hand the snapshot to
	// the client.
	ctrl.ApplyRemote(sess, h.starterLookup(ctx))
	client.Send(models.WSFrame{Type: "init", Data: models.InitResponse{Session: sess}})

	// First-question bootstrap: nobody has selected a question yet, so the
	// first participant observing a non-empty bank picks the first entry.
	// Only an interviewer's selection is published.
	if sess.CurrentQuestionID == nil {
		bank, bankErr := h.questions.ListByOwner(ctx, sess.InterviewerIDs[0])
		if bankErr != nil {
			h.log.Warn("question bank load failed", zap.String("sessionId", sess.ID), zap.Error(bankErr))
		} else {
			authorized := gate.Classify(callerID, sess) == gate.RoleInterviewer
			if err := ctrl.Bootstrap(ctx, bank, authorized); err != nil {
				h.log.Warn("question bootstrap publish failed", zap.String("sessionId", sess.ID), zap.Error(err))
			}
		}
	}

	for {
		var frame models.WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case "code":
			var update models.CodeUpdate
			unmarshalData(frame.Data, &update)
			if err := gate.RequireCodeAccess(callerID, sess); err != nil {
				client.Send(errFrame("unauthorized"))
				continue
			}
			// Optimistic local apply; the debounce timer publishes later.
			// Publish failures never surface here: they would interrupt
			// typing flow, and the next keystroke retries anyway.
			ctrl.LocalEdit(update.Code)

		case "language":
			var change models.LanguageChange
			unmarshalData(frame.Data, &change)
			if !change.Language.Valid() {
				client.Send(errFrame("unsupported_language"))
				continue
			}
			if err := gate.RequireQuestionControl(callerID, sess); err != nil {
				client.Send(errFrame("unauthorized"))
				continue
			}
			if err := ctrl.SetLanguage(ctx, change.Language, h.starterLookup(ctx)); err != nil {
				h.log.Warn("language publish failed", zap.String("sessionId", sess.ID), zap.Error(err))
				client.Send(errFrame("publish_failed"))
			}

		case "question":
			var change models.QuestionChange
			unmarshalData(frame.Data, &change)
			if err := gate.RequireQuestionControl(callerID, sess); err != nil {
				client.Send(errFrame("unauthorized"))
				continue
			}
			question, qErr := h.questions.GetByID(ctx, change.QuestionID)
			if qErr != nil {
				client.Send(errFrame("question_not_found"))
				continue
			}
			if err := ctrl.SetQuestion(ctx, question); err != nil {
				h.log.Warn("question publish failed", zap.String("sessionId", sess.ID), zap.Error(err))
				client.Send(errFrame("publish_failed"))
			}

		default:
			client.Send(errFrame("unknown_type"))
		}
	}
}

func (h *LiveHandler) starterLookup(ctx context.Context) sync.StarterLookup {
	return func(questionID string, lang models.Language) (string, bool) {
		q, err := h.questions.GetByID(ctx, questionID)
		if err != nil {
			return "", false
		}
		return q.StarterCode.ForLanguage(lang), true
	}
}

func unmarshalData(in any, out any) {
	b, _ := json.Marshal(in)
	_ = json.Unmarshal(b, out)
}

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: "error", Data: msg} }
