package service

import (
	"context"
	"errors"
	"time"

	"questline/internal/model"
)

// errSaveFailed simulates a storage outage in tests.
var errSaveFailed = errors.New("save failed")

type fakeClusterRepo struct {
	clusters map[string]*model.Cluster
	order    []string
}

func newFakeClusterRepo(clusters ...*model.Cluster) *fakeClusterRepo {
	r := &fakeClusterRepo{clusters: make(map[string]*model.Cluster)}
	for _, c := range clusters {
		r.clusters[c.Key] = c
		r.order = append(r.order, c.Key)
	}
	return r
}

func (r *fakeClusterRepo) GetByKey(_ context.Context, key string) (*model.Cluster, error) {
	return r.clusters[key], nil
}

func (r *fakeClusterRepo) List(_ context.Context) ([]*model.Cluster, error) {
	out := make([]*model.Cluster, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.clusters[key])
	}
	return out, nil
}

func (r *fakeClusterRepo) Upsert(_ context.Context, cluster *model.Cluster) error {
	if _, ok := r.clusters[cluster.Key]; !ok {
		r.order = append(r.order, cluster.Key)
	}
	r.clusters[cluster.Key] = cluster
	return nil
}

func (r *fakeClusterRepo) ReplaceAll(_ context.Context, clusters []*model.Cluster) error {
	r.clusters = make(map[string]*model.Cluster)
	r.order = nil
	for _, c := range clusters {
		r.clusters[c.Key] = c
		r.order = append(r.order, c.Key)
	}
	return nil
}

type fakeAnswerRepo struct {
	docs     map[string]*model.UserAnswers // keyed userID + "/" + cluster
	saveErr  error
	saves    int
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{docs: make(map[string]*model.UserAnswers)}
}

func (r *fakeAnswerRepo) key(userID, cluster string) string { return userID + "/" + cluster }

func (r *fakeAnswerRepo) Get(_ context.Context, userID, cluster string) (*model.UserAnswers, error) {
	doc, ok := r.docs[r.key(userID, cluster)]
	if !ok {
		return nil, nil
	}
	copied := *doc
	copied.Answers = doc.Answers.Clone()
	copied.PageAnswers = doc.PageAnswers.Clone()
	return &copied, nil
}

func (r *fakeAnswerRepo) GetByUser(_ context.Context, userID string) ([]*model.UserAnswers, error) {
	var out []*model.UserAnswers
	for _, doc := range r.docs {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) Save(_ context.Context, doc *model.UserAnswers) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	doc.LastUpdated = time.Now()
	stored := *doc
	stored.Answers = doc.Answers.Clone()
	stored.PageAnswers = doc.PageAnswers.Clone()
	r.docs[r.key(doc.UserID, doc.Cluster)] = &stored
	return nil
}

func (r *fakeAnswerRepo) ResetAnswers(_ context.Context, userID, cluster string) error {
	if doc, ok := r.docs[r.key(userID, cluster)]; ok {
		doc.Answers = make(model.AnswerMap)
	}
	return nil
}

func (r *fakeAnswerRepo) ResetPageAnswers(_ context.Context, userID, cluster string) error {
	if doc, ok := r.docs[r.key(userID, cluster)]; ok {
		doc.PageAnswers = make(model.PageAnswerMap)
	}
	return nil
}

type fakeClusterCache struct {
	entries     map[string]*model.Cluster
	invalidated int
}

func newFakeClusterCache() *fakeClusterCache {
	return &fakeClusterCache{entries: make(map[string]*model.Cluster)}
}

func (c *fakeClusterCache) Get(_ context.Context, key string) (*model.Cluster, error) {
	return c.entries[key], nil
}

func (c *fakeClusterCache) Set(_ context.Context, cluster *model.Cluster) error {
	c.entries[cluster.Key] = cluster
	return nil
}

func (c *fakeClusterCache) InvalidateAll(_ context.Context) error {
	c.entries = make(map[string]*model.Cluster)
	c.invalidated++
	return nil
}

type fakeProgressCache struct {
	entries      map[string][]model.ClusterProgress
	invalidated  []string
	getErr       error
}

func newFakeProgressCache() *fakeProgressCache {
	return &fakeProgressCache{entries: make(map[string][]model.ClusterProgress)}
}

func (c *fakeProgressCache) Get(_ context.Context, userID string) ([]model.ClusterProgress, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[userID], nil
}

func (c *fakeProgressCache) Set(_ context.Context, userID string, list []model.ClusterProgress) error {
	c.entries[userID] = list
	return nil
}

func (c *fakeProgressCache) Invalidate(_ context.Context, userID string) error {
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}
