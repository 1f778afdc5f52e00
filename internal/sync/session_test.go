package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewhub/internal/models"
)

func newTestClient(userID string, pub Publisher) *Client {
	return NewClient(nil, userID, NewController(pub, testConfig, zap.NewNop()))
}

func TestHubGetOrCreate(t *testing.T) {
	hub := NewHub()

	a := hub.GetOrCreate("call-1")
	b := hub.GetOrCreate("call-1")
	assert.Same(t, a, b)

	c := hub.GetOrCreate("call-2")
	assert.NotSame(t, a, c)

	hub.Delete("call-1")
	_, ok := hub.Get("call-1")
	assert.False(t, ok)
	_, ok = hub.Get("call-2")
	assert.True(t, ok)
}

func TestRoomJoinLeaveCounts(t *testing.T) {
	room := NewRoom("call-1")
	pub := &fakePublisher{}

	interviewer := newTestClient("interviewer-1", pub)
	candidate := newTestClient("candidate-1", pub)

	room.Join(interviewer)
	room.Join(candidate)
	assert.Equal(t, 2, room.ClientCount())

	assert.Equal(t, 1, room.Leave(interviewer))
	assert.Equal(t, 0, room.Leave(candidate))
	assert.Equal(t, 0, room.ClientCount())
}

func TestDispatchSendsStateOnlyToChangedClients(t *testing.T) {
	room := NewRoom("call-1")
	pub := &fakePublisher{}
	q := testQuestion("q1")
	starter := func(questionID string, lang models.Language) (string, bool) {
		return q.StarterCode.ForLanguage(lang), true
	}

	quiet := newTestClient("interviewer-1", pub)
	typing := newTestClient("candidate-1", pub)
	room.Join(quiet)
	room.Join(typing)

	var quietFrames, typingFrames []models.WSFrame
	quiet.SetSendHook(func(f models.WSFrame) { quietFrames = append(quietFrames, f) })
	typing.SetSendHook(func(f models.WSFrame) { typingFrames = append(typingFrames, f) })

	// Both pick up the canonical question first.
	sess := &models.Session{
		ID:                "sess-1",
		StreamCallID:      "call-1",
		CurrentQuestionID: &q.ID,
		CurrentLanguage:   models.Languages[0],
	}
	room.Dispatch(sess, starter)
	require.Len(t, quietFrames, 1)
	require.Len(t, typingFrames, 1)

	// The candidate starts typing; the canonical code moves on.
	typing.Ctrl.LocalEdit("candidate draft")
	sess.CurrentCode = "interviewer's version"
	room.Dispatch(sess, starter)

	// The quiet client converges to canonical code; the typing client is in
	// its protection window, so its view is unchanged and no frame is sent.
	require.Len(t, quietFrames, 2)
	assert.Len(t, typingFrames, 1)

	state, ok := quietFrames[1].Data.(models.InitResponse)
	require.True(t, ok)
	assert.Equal(t, "interviewer's version", state.Session.CurrentCode)

	code, _, _ := typing.Ctrl.Snapshot()
	assert.Equal(t, "candidate draft", code)
}

func TestDispatchOverlaysPerClientView(t *testing.T) {
	room := NewRoom("call-1")
	pub := &fakePublisher{}
	q := testQuestion("q1")
	starter := func(questionID string, lang models.Language) (string, bool) {
		return q.StarterCode.ForLanguage(lang), true
	}

	typing := newTestClient("candidate-1", pub)
	room.Join(typing)

	var frames []models.WSFrame
	typing.SetSendHook(func(f models.WSFrame) { frames = append(frames, f) })

	require.NoError(t, typing.Ctrl.SetQuestion(context.Background(), q))
	typing.Ctrl.LocalEdit("protected draft")

	// A language change must reach the client even mid-typing, but the code
	// in the delivered view stays the client's own protected buffer.
	sess := &models.Session{
		ID:                "sess-1",
		StreamCallID:      "call-1",
		CurrentQuestionID: &q.ID,
		CurrentCode:       "remote code",
		CurrentLanguage:   models.LangPython,
	}
	room.Dispatch(sess, starter)

	require.Len(t, frames, 1)
	state, ok := frames[0].Data.(models.InitResponse)
	require.True(t, ok)
	assert.Equal(t, models.LangPython, state.Session.CurrentLanguage)
	assert.Equal(t, "protected draft", state.Session.CurrentCode)
}

func TestDispatchNoChangeSendsNothing(t *testing.T) {
	room := NewRoom("call-1")
	pub := &fakePublisher{}

	client := newTestClient("candidate-1", pub)
	room.Join(client)

	var frames []models.WSFrame
	client.SetSendHook(func(f models.WSFrame) { frames = append(frames, f) })

	sess := &models.Session{ID: "sess-1", CurrentLanguage: models.Languages[0]}
	room.Dispatch(sess, noStarter)
	room.Dispatch(sess, noStarter)

	assert.Empty(t, frames)
}

func TestDispatchConvergesAfterWindowExpires(t *testing.T) {
	room := NewRoom("call-1")
	pub := &fakePublisher{}
	q := testQuestion("q1")
	starter := func(questionID string, lang models.Language) (string, bool) {
		return q.StarterCode.ForLanguage(lang), true
	}

	client := newTestClient("candidate-1", pub)
	room.Join(client)

	var frames []models.WSFrame
	client.SetSendHook(func(f models.WSFrame) { frames = append(frames, f) })

	require.NoError(t, client.Ctrl.SetQuestion(context.Background(), q))
	client.Ctrl.LocalEdit("abandoned draft")
	time.Sleep(testConfig.ProtectionWindow + 30*time.Millisecond)

	sess := &models.Session{
		ID:                "sess-1",
		CurrentQuestionID: &q.ID,
		CurrentCode:       "settled canonical code",
		CurrentLanguage:   models.Languages[0],
	}
	room.Dispatch(sess, starter)

	require.Len(t, frames, 1)
	code, _, _ := client.Ctrl.Snapshot()
	assert.Equal(t, "settled canonical code", code)
}
