// Package store holds the canonical shared state for interview sessions.
// Every mutation goes through here; subscribers learn about changes via the
// Redis event bus so each participant can reconcile against canonical state.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"interviewhub/internal/models"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoInterviewers    = errors.New("session requires at least one interviewer")
	ErrUnknownField      = errors.New("unknown patch field")
)

type SessionStore struct {
	db  *gorm.DB
	bus *Bus
	log *zap.Logger
}

// NewSessionStore wires the relational store with an optional event bus.
// A nil bus disables update fan-out (used by tests and the sweeper CLI path).
func NewSessionStore(db *gorm.DB, bus *Bus, log *zap.Logger) *SessionStore {
	return &SessionStore{db: db, bus: bus, log: log}
}

// Migrate creates the sessions table.
func (s *SessionStore) Migrate() error {
	return s.db.AutoMigrate(&models.Session{})
}

// Create inserts a new session record. Status defaults to scheduled; a
// session can also be created directly live (instant meetings).
func (s *SessionStore) Create(ctx context.Context, sess *models.Session) (*models.Session, error) {
	if len(sess.InterviewerIDs) == 0 {
		return nil, ErrNoInterviewers
	}
	if sess.Status == "" {
		sess.Status = models.StatusScheduled
	}
	if sess.Status != models.StatusScheduled && sess.Status != models.StatusLive {
		return nil, ErrInvalidTransition
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CurrentLanguage == "" {
		sess.CurrentLanguage = models.Languages[0]
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetByStreamCallID looks a session up by its opaque call token.
func (s *SessionStore) GetByStreamCallID(ctx context.Context, callID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "stream_call_id = ?", callID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) ListAll(ctx context.Context) ([]models.Session, error) {
	sessions := []models.Session{}
	err := s.db.WithContext(ctx).Order("start_time DESC").Find(&sessions).Error
	return sessions, err
}

func (s *SessionStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Session, error) {
	sessions := []models.Session{}
	err := s.db.WithContext(ctx).Where("status = ?", status).Order("start_time DESC").Find(&sessions).Error
	return sessions, err
}

func (s *SessionStore) ListByCandidate(ctx context.Context, candidateID string) ([]models.Session, error) {
	sessions := []models.Session{}
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("start_time DESC").Find(&sessions).Error
	return sessions, err
}

// ListByInterviewer returns sessions where the identity appears in the
// interviewer set. Membership lives in a JSON column, so filtering happens
// here rather than in SQL.
func (s *SessionStore) ListByInterviewer(ctx context.Context, interviewerID string) ([]models.Session, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sessions := []models.Session{}
	for _, sess := range all {
		if sess.HasInterviewer(interviewerID) {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}

// Patch applies a shallow merge: only the supplied fields change, everything
// else keeps its prior value. Field names follow the JSON schema. A
// session_updated event is published after commit; publish failures are
// logged and never fail the patch.
func (s *SessionStore) Patch(ctx context.Context, id string, fields map[string]any) (*models.Session, error) {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(fields))
	for name, value := range fields {
		col, err := applyField(sess, name, value)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return sess, nil
	}

	err = s.db.WithContext(ctx).Model(&models.Session{ID: id}).Select(cols).Updates(sess).Error
	if err != nil {
		return nil, err
	}
	s.notify(ctx, id)
	return sess, nil
}

// TransitionStatus moves a session forward through its lifecycle and pairs
// endTime with terminal statuses so call sites cannot desynchronize them.
func (s *SessionStore) TransitionStatus(ctx context.Context, id string, next models.Status) (*models.Session, error) {
	if !next.Valid() {
		return nil, ErrInvalidTransition
	}
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	fields := map[string]any{"status": next}
	if next.Terminal() {
		fields["endTime"] = time.Now().UnixMilli()
	}
	return s.Patch(ctx, id, fields)
}

// MarkMissedBefore transitions every scheduled session whose start time has
// elapsed into missed, stamping endTime with the sweep time. Idempotent: a
// session already missed no longer matches the status filter.
func (s *SessionStore) MarkMissedBefore(ctx context.Context, now time.Time) (int, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("status = ? AND start_time < ?", models.StatusScheduled, now.UnixMilli()).
		Updates(map[string]any{
			"status":   models.StatusMissed,
			"end_time": now.UnixMilli(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.notify(ctx, "")
	}
	return int(result.RowsAffected), nil
}

func (s *SessionStore) notify(ctx context.Context, sessionID string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, sessionID); err != nil {
		s.log.Warn("session update publish failed", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// applyField maps a schema field name onto the session struct and returns
// the gorm field to persist.
func applyField(sess *models.Session, name string, value any) (string, error) {
	switch name {
	case "title":
		v, ok := value.(string)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.Title = v
		return "Title", nil
	case "description":
		v, ok := value.(string)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.Description = v
		return "Description", nil
	case "startTime":
		v, ok := value.(int64)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.StartTime = v
		return "StartTime", nil
	case "endTime":
		switch v := value.(type) {
		case int64:
			sess.EndTime = &v
		case *int64:
			sess.EndTime = v
		default:
			return "", badFieldType(name, value)
		}
		return "EndTime", nil
	case "status":
		v, ok := value.(models.Status)
		if !ok || !v.Valid() {
			return "", badFieldType(name, value)
		}
		sess.Status = v
		return "Status", nil
	case "candidateId":
		v, ok := value.(string)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.CandidateID = v
		return "CandidateID", nil
	case "interviewerIds":
		v, ok := value.([]string)
		if !ok || len(v) == 0 {
			return "", badFieldType(name, value)
		}
		sess.InterviewerIDs = v
		return "InterviewerIDs", nil
	case "result":
		v, ok := value.(models.Result)
		if !ok || !v.Valid() {
			return "", badFieldType(name, value)
		}
		sess.Result = &v
		return "Result", nil
	case "review":
		v, ok := value.(*models.Review)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.Review = v
		return "Review", nil
	case "reviewedBy":
		v, ok := value.(string)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.ReviewedBy = &v
		return "ReviewedBy", nil
	case "reviewedAt":
		v, ok := value.(int64)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.ReviewedAt = &v
		return "ReviewedAt", nil
	case "currentQuestionId":
		switch v := value.(type) {
		case string:
			sess.CurrentQuestionID = &v
		case *string:
			sess.CurrentQuestionID = v
		default:
			return "", badFieldType(name, value)
		}
		return "CurrentQuestionID", nil
	case "currentCode":
		v, ok := value.(string)
		if !ok {
			return "", badFieldType(name, value)
		}
		sess.CurrentCode = v
		return "CurrentCode", nil
	case "currentLanguage":
		v, ok := value.(models.Language)
		if !ok || !v.Valid() {
			return "", badFieldType(name, value)
		}
		sess.CurrentLanguage = v
		return "CurrentLanguage", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
}

func badFieldType(name string, value any) error {
	return fmt.Errorf("%w: bad value for %s (%T)", ErrUnknownField, name, value)
}
