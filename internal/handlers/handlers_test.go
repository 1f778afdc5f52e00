package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewhub/internal/handlers"
	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
	"interviewhub/internal/routers"
	"interviewhub/internal/store"
	"interviewhub/internal/sweeper"
	syncpkg "interviewhub/internal/sync"
	"interviewhub/internal/testhelpers"
)

const testSecret = "test-secret"

type testEnv struct {
	router    *chi.Mux
	sessions  *store.SessionStore
	questions *memQuestionRepo
}

// memQuestionRepo is an in-memory QuestionRepository preserving creation
// order, matching the contract the bootstrap relies on.
type memQuestionRepo struct {
	items  []models.Question
	nextID int
}

func newMemQuestionRepo() *memQuestionRepo { return &memQuestionRepo{} }

func (m *memQuestionRepo) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	for _, existing := range m.items {
		if existing.CreatedBy == q.CreatedBy && existing.Title == q.Title {
			return nil, repositories.ErrDuplicateQuestion
		}
	}
	m.nextID++
	stored := *q
	stored.ID = fmt.Sprintf("q-%d", m.nextID)
	m.items = append(m.items, stored)
	out := stored
	return &out, nil
}

func (m *memQuestionRepo) GetByID(_ context.Context, id string) (*models.Question, error) {
	for _, q := range m.items {
		if q.ID == id {
			out := q
			return &out, nil
		}
	}
	return nil, repositories.ErrQuestionNotFound
}

func (m *memQuestionRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range m.items {
		if q.CreatedBy == ownerID || q.IsDefault {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestionRepo) Update(_ context.Context, id string, q *models.Question) (*models.Question, error) {
	for i, existing := range m.items {
		if existing.ID == id {
			updated := existing
			updated.Title = q.Title
			updated.Description = q.Description
			updated.Examples = q.Examples
			updated.StarterCode = q.StarterCode
			updated.Constraints = q.Constraints
			m.items[i] = updated
			out := updated
			return &out, nil
		}
	}
	return nil, repositories.ErrQuestionNotFound
}

func (m *memQuestionRepo) Delete(_ context.Context, id string) error {
	for i, q := range m.items {
		if q.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrQuestionNotFound
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	sessions := store.NewSessionStore(testhelpers.SetupTestDB(t), nil, log)
	questions := newMemQuestionRepo()
	sw := sweeper.New(sessions, "", log)

	sessionHandler := handlers.NewSessionHandler(sessions, questions, sw, log)
	questionHandler := handlers.NewQuestionHandler(questions)
	liveHandler := handlers.NewLiveHandler(syncpkg.NewHub(), sessions, questions, testSecret, log)
	healthHandler := handlers.NewHealthHandler()

	router := chi.NewRouter()
	routers.Register(router, testSecret, sessionHandler, questionHandler, liveHandler, healthHandler)

	return &testEnv{router: router, sessions: sessions, questions: questions}
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do performs a request as the given user; an empty userID sends no token.
func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func fullStarterCode() models.StarterCode {
	return models.StarterCode{
		JavaScript: "// js",
		Python:     "# py",
		Java:       "// java",
		CPP:        "// cpp",
	}
}
