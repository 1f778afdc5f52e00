package sync

import (
	"context"

	"go.uber.org/zap"

	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/store"
)

// Dispatcher feeds canonical update events from the bus into the room of
// the affected session.
type Dispatcher struct {
	hub       *Hub
	sessions  *store.SessionStore
	questions repositories.QuestionRepository
	bus       *store.Bus
	log       *zap.Logger
}

func NewDispatcher(hub *Hub, sessions *store.SessionStore, questions repositories.QuestionRepository, bus *store.Bus, log *zap.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, sessions: sessions, questions: questions, bus: bus, log: log}
}

// Run blocks consuming update events until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.bus.Subscribe(ctx, func(event store.SessionUpdatedEvent) {
		d.HandleUpdate(ctx, event)
	})
}

// HandleUpdate pushes one session's fresh canonical state to its room.
// Bulk events (empty session id, e.g. a sweep) touch no live room: swept
// sessions were never activated.
func (d *Dispatcher) HandleUpdate(ctx context.Context, event store.SessionUpdatedEvent) {
	if event.SessionID == "" {
		return
	}
	sess, err := d.sessions.GetByID(ctx, event.SessionID)
	if err != nil {
		d.log.Warn("dropping update for unknown session", zap.String("sessionId", event.SessionID), zap.Error(err))
		return
	}
	room, ok := d.hub.Get(sess.StreamCallID)
	if !ok {
		return
	}
	room.Dispatch(sess, d.starterLookup(ctx))
}

func (d *Dispatcher) starterLookup(ctx context.Context) StarterLookup {
	return func(questionID string, lang models.Language) (string, bool) {
		q, err := d.questions.GetByID(ctx, questionID)
		if err != nil {
			return "", false
		}
		return q.StarterCode.ForLanguage(lang), true
	}
}
