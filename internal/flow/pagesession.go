package flow

import (
	"fmt"

	"questline/internal/model"
)

// PageSession is the paged-mode flow controller. Reachability is
// recomputed eagerly after every mutation rather than cached: the
// questionnaires are small and correctness wins. Like Session, it holds
// only in-memory state.
type PageSession struct {
	pages       []model.Page
	indexByID   map[string]int
	pageAnswers model.PageAnswerMap
	stack       []int // visited page indices, last = current
	completed   bool
}

// PageState is a snapshot of a paged session.
type PageState struct {
	CurrentIndex int                 `json:"currentIndex"`
	Reachable    []int               `json:"reachable"`
	Completed    bool                `json:"completed"`
	Progress     int                 `json:"progress"`
	PageAnswers  model.PageAnswerMap `json:"pageAnswers"`
}

// NewPageSession resumes a paged flow: the current position is the first
// reachable page with unanswered required questions, or the last
// reachable page when everything is done.
func NewPageSession(pages []model.Page, pageAnswers model.PageAnswerMap) *PageSession {
	s := &PageSession{
		pages:       pages,
		indexByID:   make(map[string]int, len(pages)),
		pageAnswers: pageAnswers.Clone(),
	}
	for i, p := range pages {
		s.indexByID[p.ID] = i
	}
	if len(pages) > 0 {
		s.stack = []int{s.firstIncompleteIndex()}
	}
	s.completed = PagesComplete(s.pages, s.pageAnswers)
	return s
}

// CurrentIndex returns the active page index, or -1 for an empty
// questionnaire.
func (s *PageSession) CurrentIndex() int {
	if len(s.stack) == 0 {
		return -1
	}
	return s.stack[len(s.stack)-1]
}

// Completed reports whether every reachable required question is
// answered.
func (s *PageSession) Completed() bool { return s.completed }

// Progress returns the 0-100 completion percentage.
func (s *PageSession) Progress() int {
	return PageProgress(s.pages, s.pageAnswers)
}

// PageAnswers returns a copy of the stored per-page answers.
func (s *PageSession) PageAnswers() model.PageAnswerMap {
	return s.pageAnswers.Clone()
}

// Reachable returns the reachable page indices in ascending order.
func (s *PageSession) Reachable() []int {
	return SortedIndices(ReachablePages(s.pages, s.pageAnswers.Flatten()))
}

// State snapshots the session.
func (s *PageSession) State() PageState {
	return PageState{
		CurrentIndex: s.CurrentIndex(),
		Reachable:    s.Reachable(),
		Completed:    s.completed,
		Progress:     s.Progress(),
		PageAnswers:  s.PageAnswers(),
	}
}

// ApplyPage replaces the stored answers of one page with a full page
// submission, then clears every page left unreachable by the new answers
// so no stored answer ever belongs to an unreachable page. It returns the
// ids of the pages that were cleared, which the caller must also persist.
func (s *PageSession) ApplyPage(pageID string, answers model.AnswerMap) ([]string, error) {
	if _, ok := s.indexByID[pageID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, pageID)
	}
	s.pageAnswers[pageID] = answers.Clone()
	cleared := s.cleanup()
	s.advance(s.firstIncompleteIndex())
	s.completed = PagesComplete(s.pages, s.pageAnswers)
	return cleared, nil
}

// Back pops the current page, clears the answers of the page landed on
// (stale state is re-answered, not shown), and re-runs cleanup. It
// reports exited=true when there is nothing left to go back to.
func (s *PageSession) Back() (cleared []string, exited bool) {
	if len(s.stack) <= 1 {
		return nil, true
	}
	s.stack = s.stack[:len(s.stack)-1]
	landed := s.pages[s.stack[len(s.stack)-1]]
	if len(s.pageAnswers[landed.ID]) > 0 {
		s.pageAnswers[landed.ID] = model.AnswerMap{}
		cleared = append(cleared, landed.ID)
	}
	cleared = append(cleared, s.cleanup()...)
	s.completed = false
	return cleared, false
}

// Restart clears all stored answers and resets to the first page.
func (s *PageSession) Restart() {
	s.pageAnswers = make(model.PageAnswerMap)
	s.stack = nil
	if len(s.pages) > 0 {
		s.stack = []int{0}
	}
	s.completed = false
}

// cleanup enforces the invariant that unreachable pages hold no answers.
func (s *PageSession) cleanup() []string {
	reachable := ReachablePages(s.pages, s.pageAnswers.Flatten())
	var cleared []string
	for idx, page := range s.pages {
		if reachable[idx] || len(s.pageAnswers[page.ID]) == 0 {
			continue
		}
		s.pageAnswers[page.ID] = model.AnswerMap{}
		cleared = append(cleared, page.ID)
	}
	return cleared
}

// firstIncompleteIndex scans reachable pages in definition order for the
// first one whose required questions are not all answered; when all are
// complete it stays on the last reachable page.
func (s *PageSession) firstIncompleteIndex() int {
	reachable := ReachablePages(s.pages, s.pageAnswers.Flatten())
	last := 0
	for idx, page := range s.pages {
		if !reachable[idx] {
			continue
		}
		if idx > last {
			last = idx
		}
		saved := s.pageAnswers[page.ID]
		for _, q := range page.RequiredQuestions() {
			if v, ok := saved[q.ID]; !ok || v.IsEmpty() {
				return idx
			}
		}
	}
	return last
}

// advance moves the visited stack to idx: trimming back when idx was
// already visited, pushing when it is new, leaving the stack alone when
// it is already current.
func (s *PageSession) advance(idx int) {
	if len(s.stack) == 0 {
		s.stack = []int{idx}
		return
	}
	if s.stack[len(s.stack)-1] == idx {
		return
	}
	for i, visited := range s.stack {
		if visited == idx {
			s.stack = s.stack[:i+1]
			return
		}
	}
	s.stack = append(s.stack, idx)
}
