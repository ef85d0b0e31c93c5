package service

import (
	"context"
	"fmt"
	"log"

	"questline/internal/cache"
	"questline/internal/flow"
	"questline/internal/model"
	"questline/internal/repository"
)

// AnswerService orchestrates answer mutations: it rebuilds the flow
// session from stored state, applies the mutation in memory, and writes
// the full document back (write-through, no batching). A failed write is
// reported alongside the already-computed state so the caller can retry
// the save without losing the mutation.
type AnswerService struct {
	content       *ContentService
	answerRepo    repository.AnswerRepo
	progressCache cache.ProgressCache
}

// NewAnswerService creates a new answer service
func NewAnswerService(content *ContentService, answerRepo repository.AnswerRepo, progressCache cache.ProgressCache) *AnswerService {
	return &AnswerService{
		content:       content,
		answerRepo:    answerRepo,
		progressCache: progressCache,
	}
}

// PageResult is the outcome of a paged-mode mutation.
type PageResult struct {
	State flow.PageState
	// ClearedPages lists pages whose stored answers were dropped because
	// the mutation made them unreachable.
	ClearedPages []string
}

// GetAnswers returns the classic answer map of a user's cluster.
func (s *AnswerService) GetAnswers(ctx context.Context, userID, clusterKey string) (model.AnswerMap, error) {
	if _, err := s.requireCluster(ctx, clusterKey); err != nil {
		return nil, err
	}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	return doc.Answers, nil
}

// GetPageAnswers returns the per-page answer map of a user's cluster.
func (s *AnswerService) GetPageAnswers(ctx context.Context, userID, clusterKey string) (model.PageAnswerMap, error) {
	if _, err := s.requireCluster(ctx, clusterKey); err != nil {
		return nil, err
	}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	return doc.PageAnswers, nil
}

// ReplaceAnswers overwrites the whole classic answer map of a cluster and
// rebuilds the position from it.
func (s *AnswerService) ReplaceAnswers(ctx context.Context, userID, clusterKey string, answers model.AnswerMap) (*flow.State, error) {
	cluster, err := s.requireCluster(ctx, clusterKey)
	if err != nil {
		return nil, err
	}
	session := flow.NewSession(cluster.Questionnaire, answers)
	return s.persistSession(ctx, userID, clusterKey, session)
}

// ApplyAnswer records a single answer through the classic flow session:
// idempotent re-answers, downstream invalidation, and completion
// detection all happen in flow.Session.
func (s *AnswerService) ApplyAnswer(ctx context.Context, userID, clusterKey, questionID string, value model.AnswerValue) (*flow.State, error) {
	cluster, err := s.requireCluster(ctx, clusterKey)
	if err != nil {
		return nil, err
	}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	session := flow.NewSession(cluster.Questionnaire, doc.Answers)
	if err := session.Apply(questionID, value); err != nil {
		return nil, err
	}
	return s.persistSession(ctx, userID, clusterKey, session)
}

// Back steps the classic flow one question back. exited=true means the
// flow was left entirely.
func (s *AnswerService) Back(ctx context.Context, userID, clusterKey string) (*flow.State, bool, error) {
	cluster, err := s.requireCluster(ctx, clusterKey)
	if err != nil {
		return nil, false, err
	}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return nil, false, err
	}
	session := flow.NewSession(cluster.Questionnaire, doc.Answers)
	if exited := session.Back(); exited {
		state := session.State()
		return &state, true, nil
	}
	state, err := s.persistSession(ctx, userID, clusterKey, session)
	return state, false, err
}

// ResetAnswers clears all classic answers of a cluster.
func (s *AnswerService) ResetAnswers(ctx context.Context, userID, clusterKey string) error {
	if err := s.answerRepo.ResetAnswers(ctx, userID, clusterKey); err != nil {
		return err
	}
	s.invalidateProgress(ctx, userID)
	return nil
}

// ApplyPageAnswers replaces the stored answers of one page with a full
// page submission, clears pages left unreachable, and persists both.
func (s *AnswerService) ApplyPageAnswers(ctx context.Context, userID, clusterKey, pageID string, answers model.AnswerMap) (*PageResult, error) {
	session, err := s.pageSession(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	cleared, err := session.ApplyPage(pageID, answers)
	if err != nil {
		return nil, err
	}
	return s.persistPageSession(ctx, userID, clusterKey, session, cleared)
}

// PageBack steps the paged flow one page back, clearing the landed page.
func (s *AnswerService) PageBack(ctx context.Context, userID, clusterKey string) (*PageResult, bool, error) {
	session, err := s.pageSession(ctx, userID, clusterKey)
	if err != nil {
		return nil, false, err
	}
	cleared, exited := session.Back()
	if exited {
		return &PageResult{State: session.State()}, true, nil
	}
	result, err := s.persistPageSession(ctx, userID, clusterKey, session, cleared)
	return result, false, err
}

// ResetPageAnswers clears all page answers of a cluster.
func (s *AnswerService) ResetPageAnswers(ctx context.Context, userID, clusterKey string) error {
	if err := s.answerRepo.ResetPageAnswers(ctx, userID, clusterKey); err != nil {
		return err
	}
	s.invalidateProgress(ctx, userID)
	return nil
}

func (s *AnswerService) requireCluster(ctx context.Context, clusterKey string) (*model.Cluster, error) {
	cluster, err := s.content.GetCluster(ctx, clusterKey)
	if err != nil {
		return nil, err
	}
	if cluster == nil {
		return nil, fmt.Errorf("%w: %q", ErrClusterNotFound, clusterKey)
	}
	return cluster, nil
}

func (s *AnswerService) loadDoc(ctx context.Context, userID, clusterKey string) (*model.UserAnswers, error) {
	doc, err := s.answerRepo.Get(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &model.UserAnswers{UserID: userID, Cluster: clusterKey}
		doc.EnsureMaps()
	}
	return doc, nil
}

func (s *AnswerService) pageSession(ctx context.Context, userID, clusterKey string) (*flow.PageSession, error) {
	cluster, err := s.requireCluster(ctx, clusterKey)
	if err != nil {
		return nil, err
	}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return nil, err
	}
	return flow.NewPageSession(PagesFor(cluster), doc.PageAnswers), nil
}

// persistSession writes the session's full answer map through to the
// store. On write failure the computed state is still returned: the
// mutation stays visible, only durability failed.
func (s *AnswerService) persistSession(ctx context.Context, userID, clusterKey string, session *flow.Session) (*flow.State, error) {
	state := session.State()
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return &state, err
	}
	doc.Answers = session.Answers()
	if err := s.answerRepo.Save(ctx, doc); err != nil {
		return &state, err
	}
	s.invalidateProgress(ctx, userID)
	return &state, nil
}

func (s *AnswerService) persistPageSession(ctx context.Context, userID, clusterKey string, session *flow.PageSession, cleared []string) (*PageResult, error) {
	result := &PageResult{State: session.State(), ClearedPages: cleared}
	doc, err := s.loadDoc(ctx, userID, clusterKey)
	if err != nil {
		return result, err
	}
	doc.PageAnswers = session.PageAnswers()
	if err := s.answerRepo.Save(ctx, doc); err != nil {
		return result, err
	}
	s.invalidateProgress(ctx, userID)
	return result, nil
}

func (s *AnswerService) invalidateProgress(ctx context.Context, userID string) {
	if err := s.progressCache.Invalidate(ctx, userID); err != nil {
		log.Printf("progress cache invalidation failed for %s: %v", userID, err)
	}
}
