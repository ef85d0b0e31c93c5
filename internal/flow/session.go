package flow

import (
	"fmt"

	"questline/internal/model"
)

// Session is the classic-mode flow controller: a stack of visited
// question ids rebuilt from the stored answers on load and mutated as
// answers change. It is pure in-memory state; persisting the answer map
// after a mutation is the caller's job.
type Session struct {
	questions []model.Question
	byID      map[string]model.Question
	answers   model.AnswerMap
	stack     []string
	completed bool
}

// State is a snapshot of a classic session for callers and transports.
type State struct {
	Stack     []string        `json:"stack"`
	CurrentID string          `json:"currentId,omitempty"`
	Completed bool            `json:"completed"`
	Progress  int             `json:"progress"`
	Answers   model.AnswerMap `json:"answers"`
}

// NewSession rebuilds the position from scratch by replaying the answers
// from the start question.
func NewSession(questions []model.Question, answers model.AnswerMap) *Session {
	s := &Session{
		questions: questions,
		byID:      questionIndex(questions),
		answers:   answers.Clone(),
	}
	result := BuildPath(questions, s.answers)
	s.stack = result.Path
	if len(s.stack) == 0 && len(questions) > 0 {
		s.stack = []string{questions[0].ID}
	}
	s.completed = result.Completed(s.answers)
	return s
}

// CurrentID returns the id of the active question, or "" when the
// questionnaire is empty.
func (s *Session) CurrentID() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

// Completed reports whether the flow reached its end with every question
// on the path answered.
func (s *Session) Completed() bool { return s.completed }

// Progress returns the 0-100 completion percentage.
func (s *Session) Progress() int {
	return Progress(s.questions, s.answers, s.completed)
}

// Answers returns a copy of the full answer map, the unit of persistence.
func (s *Session) Answers() model.AnswerMap { return s.answers.Clone() }

// State snapshots the session.
func (s *Session) State() State {
	stack := make([]string, len(s.stack))
	copy(stack, s.stack)
	return State{
		Stack:     stack,
		CurrentID: s.CurrentID(),
		Completed: s.completed,
		Progress:  s.Progress(),
		Answers:   s.Answers(),
	}
}

// Apply records an answer. Re-submitting an unchanged value is a no-op.
// Revising an earlier answer truncates the stack after it and drops the
// invalidated downstream answers, since the branch that produced them may
// no longer be the one taken. The resolved next question becomes current,
// or the flow completes when there is none.
func (s *Session) Apply(questionID string, value model.AnswerValue) error {
	q, ok := s.byID[questionID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if err := validateShape(q, value); err != nil {
		return err
	}
	if existing, ok := s.answers[questionID]; ok && existing.Equal(value) {
		return nil
	}

	idx := s.stackIndex(questionID)
	if idx == -1 {
		// Freshly answered at the frontier.
		s.stack = append(s.stack, questionID)
		idx = len(s.stack) - 1
	}
	if idx < len(s.stack)-1 {
		for _, id := range s.stack[idx+1:] {
			delete(s.answers, id)
		}
		s.stack = s.stack[:idx+1]
	}
	s.answers[questionID] = value

	if nextID, ok := NextID(q, value); ok {
		if _, exists := s.byID[nextID]; exists && s.stackIndex(nextID) == -1 {
			s.stack = append(s.stack, nextID)
			s.completed = false
			return nil
		}
	}
	s.completed = true
	return nil
}

// Back pops the current question and clears the answer of the question
// landed on, forcing it to be re-answered. It reports exited=true when
// there is nothing left to go back to.
func (s *Session) Back() (exited bool) {
	if len(s.stack) <= 1 {
		return true
	}
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.answers, s.stack[len(s.stack)-1])
	s.completed = false
	return false
}

// Restart clears all answers and resets the position to the start.
func (s *Session) Restart() {
	s.answers = make(model.AnswerMap)
	s.stack = nil
	if len(s.questions) > 0 {
		s.stack = []string{s.questions[0].ID}
	}
	s.completed = false
}

func (s *Session) stackIndex(id string) int {
	for i, entry := range s.stack {
		if entry == id {
			return i
		}
	}
	return -1
}

// validateShape rejects values whose shape cannot belong to the question
// type before any mutation happens.
func validateShape(q model.Question, value model.AnswerValue) error {
	switch q.Type {
	case model.QuestionTypeRating:
		if value.Kind != model.AnswerInt {
			return fmt.Errorf("%w: %s wants an integer rating", ErrValueShape, q.ID)
		}
		if q.Scale != nil && (value.Int < q.Scale.Min || value.Int > q.Scale.Max) {
			return fmt.Errorf("%w: %s rating outside scale %d-%d", ErrValueShape, q.ID, q.Scale.Min, q.Scale.Max)
		}
	case model.QuestionTypeMultiChoice, model.QuestionTypeGroupedMultiChoice:
		if value.Kind != model.AnswerList {
			return fmt.Errorf("%w: %s wants a selection list", ErrValueShape, q.ID)
		}
		if q.MaxSelections > 0 && len(value.List) > q.MaxSelections {
			return fmt.Errorf("%w: %s allows at most %d selections", ErrValueShape, q.ID, q.MaxSelections)
		}
	default:
		if value.Kind != model.AnswerString {
			return fmt.Errorf("%w: %s wants a string value", ErrValueShape, q.ID)
		}
	}
	return nil
}
