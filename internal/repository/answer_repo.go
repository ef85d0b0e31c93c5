package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"questline/internal/model"
)

// AnswerRepo handles MongoDB operations for user answer documents. Every
// write replaces the whole per-user, per-cluster document: the engine
// persists full state, never deltas.
type AnswerRepo interface {
	Get(ctx context.Context, userID, cluster string) (*model.UserAnswers, error)
	GetByUser(ctx context.Context, userID string) ([]*model.UserAnswers, error)
	Save(ctx context.Context, doc *model.UserAnswers) error
	ResetAnswers(ctx context.Context, userID, cluster string) error
	ResetPageAnswers(ctx context.Context, userID, cluster string) error
}

type answerRepo struct {
	collection *mongo.Collection
}

// NewAnswerRepo creates a new answer repository
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection("userAnswers"),
	}
}

func (r *answerRepo) Get(ctx context.Context, userID, cluster string) (*model.UserAnswers, error) {
	var doc model.UserAnswers
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "cluster": cluster}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for %s/%s: %w", userID, cluster, err)
	}
	doc.EnsureMaps()
	return &doc, nil
}

func (r *answerRepo) GetByUser(ctx context.Context, userID string) ([]*model.UserAnswers, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list answers for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var docs []*model.UserAnswers
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode answers for %s: %w", userID, err)
	}
	for _, doc := range docs {
		doc.EnsureMaps()
	}
	return docs, nil
}

func (r *answerRepo) Save(ctx context.Context, doc *model.UserAnswers) error {
	doc.EnsureMaps()
	doc.LastUpdated = time.Now()

	filter := bson.M{"userId": doc.UserID, "cluster": doc.Cluster}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save answers for %s/%s: %w", doc.UserID, doc.Cluster, err)
	}
	return nil
}

func (r *answerRepo) ResetAnswers(ctx context.Context, userID, cluster string) error {
	return r.reset(ctx, userID, cluster, "answers")
}

func (r *answerRepo) ResetPageAnswers(ctx context.Context, userID, cluster string) error {
	return r.reset(ctx, userID, cluster, "pageAnswers")
}

func (r *answerRepo) reset(ctx context.Context, userID, cluster, field string) error {
	filter := bson.M{"userId": userID, "cluster": cluster}
	update := bson.M{"$set": bson.M{
		field:         bson.M{},
		"lastUpdated": time.Now(),
	}}
	// No matched document means there was nothing to reset.
	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to reset %s for %s/%s: %w", field, userID, cluster, err)
	}
	return nil
}
