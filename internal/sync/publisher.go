package sync

import (
	"context"

	"interviewhub/internal/models"
	"interviewhub/internal/store"
)

// StorePublisher publishes a participant's state as canonical patches.
type StorePublisher struct {
	sessions  *store.SessionStore
	sessionID string
}

func NewStorePublisher(sessions *store.SessionStore, sessionID string) *StorePublisher {
	return &StorePublisher{sessions: sessions, sessionID: sessionID}
}

func (p *StorePublisher) PublishCode(ctx context.Context, code string, lang models.Language) error {
	_, err := p.sessions.Patch(ctx, p.sessionID, map[string]any{
		"currentCode":     code,
		"currentLanguage": lang,
	})
	return err
}

func (p *StorePublisher) PublishQuestion(ctx context.Context, questionID, code string, lang models.Language) error {
	_, err := p.sessions.Patch(ctx, p.sessionID, map[string]any{
		"currentQuestionId": questionID,
		"currentCode":       code,
		"currentLanguage":   lang,
	})
	return err
}
