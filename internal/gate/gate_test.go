package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewhub/internal/models"
)

func testSession() *models.Session {
	return &models.Session{
		ID:             "sess-1",
		CandidateID:    "candidate-1",
		InterviewerIDs: []string{"interviewer-1", "interviewer-2"},
		Status:         models.StatusLive,
	}
}

func TestClassify(t *testing.T) {
	sess := testSession()

	assert.Equal(t, RoleInterviewer, Classify("interviewer-1", sess))
	assert.Equal(t, RoleInterviewer, Classify("interviewer-2", sess))
	assert.Equal(t, RoleCandidate, Classify("candidate-1", sess))
	assert.Equal(t, RoleNone, Classify("stranger", sess))
	assert.Equal(t, RoleNone, Classify("", sess))
	assert.Equal(t, RoleNone, Classify("interviewer-1", nil))
}

func TestQuestionControlIsInterviewerOnly(t *testing.T) {
	sess := testSession()

	assert.NoError(t, RequireQuestionControl("interviewer-1", sess))
	assert.ErrorIs(t, RequireQuestionControl("candidate-1", sess), ErrUnauthorized)
	assert.ErrorIs(t, RequireQuestionControl("stranger", sess), ErrUnauthorized)
	assert.ErrorIs(t, RequireQuestionControl("", sess), ErrUnauthenticated)
}

func TestQuestionControlRejectsCandidateRegardlessOfStatus(t *testing.T) {
	for _, status := range []models.Status{models.StatusScheduled, models.StatusLive, models.StatusCompleted, models.StatusMissed} {
		sess := testSession()
		sess.Status = status
		assert.ErrorIs(t, RequireQuestionControl("candidate-1", sess), ErrUnauthorized, "status %s", status)
	}
}

func TestCodeAccessIsRelaxed(t *testing.T) {
	sess := testSession()

	// Any authenticated caller may push code, participant or not.
	assert.NoError(t, RequireCodeAccess("candidate-1", sess))
	assert.NoError(t, RequireCodeAccess("interviewer-1", sess))
	assert.NoError(t, RequireCodeAccess("stranger", sess))
	assert.ErrorIs(t, RequireCodeAccess("", sess), ErrUnauthenticated)
}

func TestRequireReviewer(t *testing.T) {
	sess := testSession()

	assert.NoError(t, RequireReviewer("interviewer-2", sess))
	assert.ErrorIs(t, RequireReviewer("candidate-1", sess), ErrUnauthorized)
	assert.ErrorIs(t, RequireReviewer("", sess), ErrUnauthenticated)
}

func TestRequireCandidateReassign(t *testing.T) {
	sess := testSession()

	// The incoming candidate may claim the seat.
	assert.NoError(t, RequireCandidateReassign("new-candidate", "new-candidate", sess))
	// So may any listed interviewer.
	assert.NoError(t, RequireCandidateReassign("interviewer-1", "new-candidate", sess))
	// The outgoing candidate may not hand it to someone else.
	assert.ErrorIs(t, RequireCandidateReassign("candidate-1", "new-candidate", sess), ErrUnauthorized)
	assert.ErrorIs(t, RequireCandidateReassign("", "new-candidate", sess), ErrUnauthenticated)
}
