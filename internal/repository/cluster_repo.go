package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"questline/internal/model"
)

// ClusterRepo handles MongoDB operations for questionnaire content
type ClusterRepo interface {
	GetByKey(ctx context.Context, key string) (*model.Cluster, error)
	List(ctx context.Context) ([]*model.Cluster, error)
	Upsert(ctx context.Context, cluster *model.Cluster) error
	ReplaceAll(ctx context.Context, clusters []*model.Cluster) error
}

type clusterRepo struct {
	collection *mongo.Collection
}

// NewClusterRepo creates a new cluster repository
func NewClusterRepo(db *mongo.Database) ClusterRepo {
	return &clusterRepo{
		collection: db.Collection("clusters"),
	}
}

func (r *clusterRepo) GetByKey(ctx context.Context, key string) (*model.Cluster, error) {
	var cluster model.Cluster
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&cluster)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cluster %q: %w", key, err)
	}
	return &cluster, nil
}

func (r *clusterRepo) List(ctx context.Context) ([]*model.Cluster, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"key": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	defer cursor.Close(ctx)

	var clusters []*model.Cluster
	if err := cursor.All(ctx, &clusters); err != nil {
		return nil, fmt.Errorf("failed to decode clusters: %w", err)
	}
	return clusters, nil
}

func (r *clusterRepo) Upsert(ctx context.Context, cluster *model.Cluster) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"key": cluster.Key}, cluster, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cluster %q: %w", cluster.Key, err)
	}
	return nil
}

// ReplaceAll swaps the entire content set, mirroring the whole-document
// replace contract of the CMS surface.
func (r *clusterRepo) ReplaceAll(ctx context.Context, clusters []*model.Cluster) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear clusters: %w", err)
	}
	if len(clusters) == 0 {
		return nil
	}
	docs := make([]interface{}, len(clusters))
	for i, c := range clusters {
		docs[i] = c
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert clusters: %w", err)
	}
	return nil
}
