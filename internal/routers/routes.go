package routers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"interviewhub/internal/handlers"
)

// Register wires the API surface. Everything under /api/v1 requires a
// verified caller identity; the live websocket authenticates on its own
// because browsers cannot set headers there.
func Register(
	r *chi.Mux,
	jwtSecret string,
	sessionHandler *handlers.SessionHandler,
	questionHandler *handlers.QuestionHandler,
	liveHandler *handlers.LiveHandler,
	healthHandler *handlers.HealthHandler,
) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)

	// The request timeout stays off the websocket route: live sessions
	// outlive any sensible request deadline.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(handlers.Authenticator(jwtSecret))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.CreateSessionHandler)
			r.Get("/", sessionHandler.ListSessionsHandler)
			r.Get("/mine", sessionHandler.ListMySessionsHandler)
			r.Get("/interviewing", sessionHandler.ListInterviewingHandler)
			r.Get("/by-call/{streamCallId}", sessionHandler.GetByCallIDHandler)
			r.Post("/sweep-missed", sessionHandler.SweepMissedHandler)

			r.Patch("/{id}/status", sessionHandler.UpdateStatusHandler)
			r.Put("/{id}/question", sessionHandler.SetQuestionHandler)
			r.Put("/{id}/code", sessionHandler.UpdateCodeHandler)
			r.Put("/{id}/candidate", sessionHandler.UpdateCandidateHandler)
			r.Post("/{id}/review", sessionHandler.SubmitReviewHandler)
			r.Put("/{id}/result", sessionHandler.UpdateResultHandler)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.ListQuestionsHandler)
			r.Post("/", questionHandler.CreateQuestionHandler)
			r.Get("/by-owner/{userId}", questionHandler.ListByOwnerHandler)
			r.Get("/{id}", questionHandler.GetQuestionHandler)
			r.Put("/{id}", questionHandler.UpdateQuestionHandler)
			r.Delete("/{id}", questionHandler.DeleteQuestionHandler)
		})
	})

	r.Get("/ws/session/{streamCallId}", liveHandler.LiveWS)
}
