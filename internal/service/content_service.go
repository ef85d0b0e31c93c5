package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"questline/internal/cache"
	"questline/internal/model"
	"questline/internal/repository"
)

// ErrClusterNotFound reports a request against an unknown cluster key.
var ErrClusterNotFound = errors.New("cluster not found")

// questionsPerPage sizes the on-the-fly conversion of classic
// questionnaires into pages.
const questionsPerPage = 3

// ContentService handles read access to questionnaire content and the
// CMS replace surface. Content problems are logged for authors and
// degraded, never fatal to a user session.
type ContentService struct {
	clusterRepo  repository.ClusterRepo
	clusterCache cache.ClusterCache
}

// NewContentService creates a new content service
func NewContentService(clusterRepo repository.ClusterRepo, clusterCache cache.ClusterCache) *ContentService {
	return &ContentService{
		clusterRepo:  clusterRepo,
		clusterCache: clusterCache,
	}
}

// GetCluster loads a cluster through the cache. A nil result with nil
// error means the cluster does not exist.
func (s *ContentService) GetCluster(ctx context.Context, key string) (*model.Cluster, error) {
	if cached, err := s.clusterCache.Get(ctx, key); err != nil {
		log.Printf("cluster cache read failed for %q: %v", key, err)
	} else if cached != nil {
		return cached, nil
	}

	cluster, err := s.clusterRepo.GetByKey(ctx, key)
	if err != nil || cluster == nil {
		return cluster, err
	}
	if err := s.clusterCache.Set(ctx, cluster); err != nil {
		log.Printf("cluster cache write failed for %q: %v", key, err)
	}
	return cluster, nil
}

// GetQuestionnaire returns the classic question list of a cluster.
// Unknown clusters yield an empty list, and questions missing an id or
// text are dropped with a content warning.
func (s *ContentService) GetQuestionnaire(ctx context.Context, key string) ([]model.Question, error) {
	cluster, err := s.GetCluster(ctx, key)
	if err != nil {
		return nil, err
	}
	if cluster == nil {
		return []model.Question{}, nil
	}

	questions := make([]model.Question, 0, len(cluster.Questionnaire))
	for _, q := range cluster.Questionnaire {
		if q.ID == "" || q.Text == "" {
			log.Printf("content warning: cluster %q has a question without id or text, skipping", key)
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// GetPages returns the page list of a cluster along with its title.
// Clusters stored in classic shape are converted into pages on the fly.
func (s *ContentService) GetPages(ctx context.Context, key string) (string, []model.Page, error) {
	cluster, err := s.GetCluster(ctx, key)
	if err != nil {
		return "", nil, err
	}
	if cluster == nil {
		return "", nil, fmt.Errorf("%w: %q", ErrClusterNotFound, key)
	}
	return cluster.DisplayTitle(), PagesFor(cluster), nil
}

// ListClusters returns the full content set.
func (s *ContentService) ListClusters(ctx context.Context) ([]*model.Cluster, error) {
	return s.clusterRepo.List(ctx)
}

// ReplaceContent swaps the entire content set and drops cached copies.
// Referential problems in the new content are warnings for the author,
// not rejections: the engine degrades dangling references at runtime.
func (s *ContentService) ReplaceContent(ctx context.Context, clusters []*model.Cluster) error {
	for _, cluster := range clusters {
		if cluster.Key == "" {
			return fmt.Errorf("cluster without key")
		}
		for _, warning := range lintCluster(cluster) {
			log.Printf("content warning: cluster %q: %s", cluster.Key, warning)
		}
	}
	if err := s.clusterRepo.ReplaceAll(ctx, clusters); err != nil {
		return err
	}
	if err := s.clusterCache.InvalidateAll(ctx); err != nil {
		log.Printf("cluster cache invalidation failed: %v", err)
	}
	return nil
}

// PagesFor returns the pages of a cluster, converting classic clusters
// into groups of questionsPerPage questions so both shapes share the
// paged surface. The conversion is deterministic: page ids are stable
// across calls, which keeps stored page answers valid.
func PagesFor(cluster *model.Cluster) []model.Page {
	if cluster.Mode() == model.ModePaged {
		return cluster.Pages
	}

	questions := cluster.Questionnaire
	if len(questions) == 0 {
		return []model.Page{}
	}

	var pages []model.Page
	for start := 0; start < len(questions); start += questionsPerPage {
		end := start + questionsPerPage
		if end > len(questions) {
			end = len(questions)
		}
		pageNumber := start/questionsPerPage + 1
		isLast := end == len(questions)

		pageQuestions := make([]model.Question, end-start)
		copy(pageQuestions, questions[start:end])
		for i := range pageQuestions {
			pageQuestions[i].Required = true
			pageQuestions[i].Next = nil
		}

		description := "Complete the questions on this page"
		if isLast {
			description = "Complete the last questions to finish"
		}
		pages = append(pages, model.Page{
			ID:           fmt.Sprintf("page_%d", pageNumber),
			Title:        fmt.Sprintf("Section %d", pageNumber),
			Description:  description,
			Questions:    pageQuestions,
			ShowContinue: true,
			IsLast:       isLast,
		})
	}
	return pages
}

// lintCluster collects referential problems for content authors.
func lintCluster(cluster *model.Cluster) []string {
	var warnings []string

	questionIDs := make(map[string]bool)
	for _, q := range cluster.Questionnaire {
		if q.ID == "" {
			warnings = append(warnings, "question without id")
			continue
		}
		if questionIDs[q.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		questionIDs[q.ID] = true
	}
	for _, q := range cluster.Questionnaire {
		if q.Next == nil {
			continue
		}
		for _, target := range nextTargets(q.Next) {
			if !questionIDs[target] {
				warnings = append(warnings, fmt.Sprintf("question %q routes to unknown id %q", q.ID, target))
			}
		}
	}

	pageIDs := make(map[string]bool)
	pageQuestionIDs := make(map[string]bool)
	for _, p := range cluster.Pages {
		if p.ID == "" {
			warnings = append(warnings, "page without id")
			continue
		}
		if pageIDs[p.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate page id %q", p.ID))
		}
		pageIDs[p.ID] = true
		for _, q := range p.Questions {
			pageQuestionIDs[q.ID] = true
		}
	}
	for _, p := range cluster.Pages {
		routing := p.ConditionalRouting
		if routing == nil {
			continue
		}
		for _, rule := range routing.Rules {
			if !pageIDs[rule.NextPage] {
				warnings = append(warnings, fmt.Sprintf("page %q routes to unknown page %q", p.ID, rule.NextPage))
			}
			if !pageQuestionIDs[rule.Condition.QuestionID] {
				warnings = append(warnings, fmt.Sprintf("page %q condition references unknown question %q", p.ID, rule.Condition.QuestionID))
			}
		}
		if routing.DefaultAction != model.DefaultActionComplete && !pageIDs[routing.DefaultAction] {
			warnings = append(warnings, fmt.Sprintf("page %q default action %q is not a page", p.ID, routing.DefaultAction))
		}
	}
	return warnings
}

func nextTargets(next *model.NextSpec) []string {
	if next.Literal != "" {
		return []string{next.Literal}
	}
	var targets []string
	for _, id := range next.Mapping {
		targets = append(targets, id)
	}
	if next.Default != "" {
		targets = append(targets, next.Default)
	}
	return targets
}
