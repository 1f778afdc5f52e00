package mongo

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewhub/internal/models"
	"interviewhub/internal/repositories"
)

// Repo wraps the questions collection.
type Repo struct{ col *mongo.Collection }

// NewQuestionRepo ensures indexes on the owner and title fields.
func NewQuestionRepo(c *Client) (*Repo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	colName := os.Getenv("QUESTIONS_COLLECTION")
	if colName == "" {
		colName = "questions"
	}

	col := db.Collection(colName)
	r := &Repo{col: col}

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return r, nil
}

func (r *Repo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now

	if _, err := r.col.InsertOne(ctx, q); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repositories.ErrDuplicateQuestion
		}
		return nil, err
	}
	return q, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByOwner returns the owner's questions plus the seeded defaults, in
// creation order.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]models.Question, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"createdBy": ownerID},
		bson.M{"isDefault": true},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, id string, q *models.Question) (*models.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	patch := bson.M{
		"title":       q.Title,
		"description": q.Description,
		"examples":    q.Examples,
		"starterCode": q.StarterCode,
		"constraints": q.Constraints,
		"updatedAt":   time.Now().UTC(),
	}

	var updated models.Question
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrQuestionNotFound
	}
	return nil
}
