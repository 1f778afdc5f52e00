package repositories

import (
	"context"
	"errors"

	"interviewhub/internal/models"
)

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNotOwner          = errors.New("caller does not own this question")
	ErrDefaultQuestion   = errors.New("default questions cannot be modified")
	ErrDuplicateQuestion = errors.New("a question with this title already exists")
)

// QuestionRepository is the storage contract for the question bank.
// Questions are returned in creation order so the first-question bootstrap
// is stable across participants.
type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Question, error)
	Update(ctx context.Context, id string, q *models.Question) (*models.Question, error)
	Delete(ctx context.Context, id string) error
}
