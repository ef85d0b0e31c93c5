package service

import (
	"context"
	"log"

	"questline/internal/cache"
	"questline/internal/flow"
	"questline/internal/model"
	"questline/internal/repository"
)

// ProgressService computes the per-user aggregate progress list: one row
// per cluster, each a pure function of content and stored answers.
type ProgressService struct {
	clusterRepo   repository.ClusterRepo
	answerRepo    repository.AnswerRepo
	progressCache cache.ProgressCache
}

// NewProgressService creates a new progress service
func NewProgressService(clusterRepo repository.ClusterRepo, answerRepo repository.AnswerRepo, progressCache cache.ProgressCache) *ProgressService {
	return &ProgressService{
		clusterRepo:   clusterRepo,
		answerRepo:    answerRepo,
		progressCache: progressCache,
	}
}

// GetProgress returns the progress list for every cluster, applying the
// per-mode formula. Results are cached briefly; answer writes invalidate
// the cache.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) ([]model.ClusterProgress, error) {
	if cached, err := s.progressCache.Get(ctx, userID); err != nil {
		log.Printf("progress cache read failed for %s: %v", userID, err)
	} else if cached != nil {
		return cached, nil
	}

	clusters, err := s.clusterRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.answerRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byCluster := make(map[string]*model.UserAnswers, len(docs))
	for _, doc := range docs {
		byCluster[doc.Cluster] = doc
	}

	result := make([]model.ClusterProgress, 0, len(clusters))
	for _, cluster := range clusters {
		result = append(result, model.ClusterProgress{
			Cluster:               cluster.Key,
			Title:                 cluster.DisplayTitle(),
			QuestionnaireTitle:    cluster.QuestionnaireTitle,
			QuestionnaireSubtitle: cluster.QuestionnaireSubtitle,
			Percent:               clusterPercent(cluster, byCluster[cluster.Key]),
		})
	}

	if err := s.progressCache.Set(ctx, userID, result); err != nil {
		log.Printf("progress cache write failed for %s: %v", userID, err)
	}
	return result, nil
}

func clusterPercent(cluster *model.Cluster, doc *model.UserAnswers) int {
	if cluster.Mode() == model.ModePaged {
		var pageAnswers model.PageAnswerMap
		if doc != nil {
			pageAnswers = doc.PageAnswers
		}
		return flow.PageProgress(cluster.Pages, pageAnswers)
	}

	var answers model.AnswerMap
	if doc != nil {
		answers = doc.Answers
	}
	result := flow.BuildPath(cluster.Questionnaire, answers)
	return flow.Progress(cluster.Questionnaire, answers, result.Completed(answers))
}
