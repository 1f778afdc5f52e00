package sweeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewhub/internal/models"
	"interviewhub/internal/store"
	"interviewhub/internal/sweeper"
	"interviewhub/internal/testhelpers"
)

func seedSession(t *testing.T, s *store.SessionStore, callID string, startTime int64, status models.Status) *models.Session {
	t.Helper()
	sess, err := s.Create(context.Background(), &models.Session{
		Title:          "Interview",
		StartTime:      startTime,
		Status:         status,
		StreamCallID:   callID,
		CandidateID:    "candidate-1",
		InterviewerIDs: []string{"interviewer-1"},
	})
	require.NoError(t, err)
	return sess
}

func TestSweepMarksOverdueScheduledSessions(t *testing.T) {
	sessions := store.NewSessionStore(testhelpers.SetupTestDB(t), nil, zap.NewNop())
	sw := sweeper.New(sessions, "", zap.NewNop())

	now := time.Now()
	overdue := seedSession(t, sessions, "call-overdue", now.Add(-time.Hour).UnixMilli(), models.StatusScheduled)
	upcoming := seedSession(t, sessions, "call-upcoming", now.Add(time.Hour).UnixMilli(), models.StatusScheduled)
	running := seedSession(t, sessions, "call-live", now.Add(-time.Hour).UnixMilli(), models.StatusLive)

	count, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	swept, err := sessions.GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMissed, swept.Status)
	require.NotNil(t, swept.EndTime)

	// A session that went live keeps its status even if it started late.
	stillLive, err := sessions.GetByID(context.Background(), running.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLive, stillLive.Status)

	future, err := sessions.GetByID(context.Background(), upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, future.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	sessions := store.NewSessionStore(testhelpers.SetupTestDB(t), nil, zap.NewNop())
	sw := sweeper.New(sessions, "", zap.NewNop())

	seedSession(t, sessions, "call-overdue", time.Now().Add(-time.Hour).UnixMilli(), models.StatusScheduled)

	count, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSweepEmptyStore(t *testing.T) {
	sessions := store.NewSessionStore(testhelpers.SetupTestDB(t), nil, zap.NewNop())
	sw := sweeper.New(sessions, "", zap.NewNop())

	count, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
