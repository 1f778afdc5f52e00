package store

import (
	"context"
	"time"

	"interviewhub/internal/models"
)

// SubmitReview writes the structured review together with its pass/fail
// result, so a review can never exist without a result. A live session is
// closed out in the same patch (completed + endTime); an already-terminal
// session keeps its status.
func (s *SessionStore) SubmitReview(ctx context.Context, id, reviewerID string, result models.Result, review *models.Review) (*models.Session, error) {
	if !result.Valid() {
		return nil, ErrInvalidTransition
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	fields := map[string]any{
		"result":     result,
		"review":     review,
		"reviewedBy": reviewerID,
		"reviewedAt": now,
	}
	if sess.Status.CanTransitionTo(models.StatusCompleted) {
		fields["status"] = models.StatusCompleted
		fields["endTime"] = now
	}
	return s.Patch(ctx, id, fields)
}

// UpdateResult sets just the pass/fail outcome, stamping the reviewer.
func (s *SessionStore) UpdateResult(ctx context.Context, id, reviewerID string, result models.Result) (*models.Session, error) {
	if !result.Valid() {
		return nil, ErrInvalidTransition
	}
	return s.Patch(ctx, id, map[string]any{
		"result":     result,
		"reviewedBy": reviewerID,
		"reviewedAt": time.Now().UnixMilli(),
	})
}
