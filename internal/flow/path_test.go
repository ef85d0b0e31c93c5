package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"questline/internal/model"
)

func branchingQuestions() []model.Question {
	return []model.Question{
		{
			ID:   "q1",
			Text: "First?",
			Next: &model.NextSpec{Mapping: map[string]string{"yes": "q2", "no": "q3"}},
		},
		{ID: "q2", Text: "Second?"},
		{ID: "q3", Text: "Third?"},
	}
}

func TestBuildPathNoAnswers(t *testing.T) {
	result := BuildPath(branchingQuestions(), model.AnswerMap{})

	assert.Equal(t, []string{"q1"}, result.Path)
	assert.False(t, result.EndReached)
	assert.Equal(t, 0, Progress(branchingQuestions(), model.AnswerMap{}, false))
}

func TestBuildPathFollowsBranch(t *testing.T) {
	questions := branchingQuestions()
	answers := model.AnswerMap{"q1": model.StringAnswer("yes")}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1", "q2"}, result.Path)
	assert.True(t, result.EndReached, "q2 has no next, so the walk hit the end")
	assert.False(t, result.Completed(answers), "q2 itself is unanswered")
	assert.Equal(t, 33, Progress(questions, answers, false))
}

func TestBuildPathCompleted(t *testing.T) {
	questions := branchingQuestions()
	answers := model.AnswerMap{
		"q1": model.StringAnswer("yes"),
		"q2": model.StringAnswer("anything"),
	}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1", "q2"}, result.Path)
	assert.True(t, result.EndReached)
	assert.True(t, result.Completed(answers))
	assert.Equal(t, 100, Progress(questions, answers, result.Completed(answers)))
}

func TestBuildPathOtherBranch(t *testing.T) {
	answers := model.AnswerMap{"q1": model.StringAnswer("no")}

	result := BuildPath(branchingQuestions(), answers)

	assert.Equal(t, []string{"q1", "q3"}, result.Path)
}

func TestBuildPathMappingDefault(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Next: &model.NextSpec{
			Mapping: map[string]string{"yes": "q2"},
			Default: "q3",
		}},
		{ID: "q2"},
		{ID: "q3"},
	}
	answers := model.AnswerMap{"q1": model.StringAnswer("whatever")}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1", "q3"}, result.Path)
}

func TestBuildPathUnmappedAnswerEndsFlow(t *testing.T) {
	questions := branchingQuestions()
	answers := model.AnswerMap{"q1": model.StringAnswer("maybe")}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1"}, result.Path)
	assert.True(t, result.EndReached)
	assert.True(t, result.Completed(answers))
}

func TestBuildPathLiteralNext(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Next: &model.NextSpec{Literal: "q2"}},
		{ID: "q2"},
	}
	answers := model.AnswerMap{"q1": model.IntAnswer(7)}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1", "q2"}, result.Path)
}

func TestBuildPathDanglingNext(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Next: &model.NextSpec{Literal: "gone"}},
	}
	answers := model.AnswerMap{"q1": model.StringAnswer("x")}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1"}, result.Path)
	assert.True(t, result.EndReached)
}

func TestBuildPathCycleGuard(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Next: &model.NextSpec{Literal: "q2"}},
		{ID: "q2", Next: &model.NextSpec{Literal: "q1"}},
	}
	answers := model.AnswerMap{
		"q1": model.StringAnswer("a"),
		"q2": model.StringAnswer("b"),
	}

	result := BuildPath(questions, answers)

	assert.Equal(t, []string{"q1", "q2"}, result.Path, "revisits are cut, not followed")
	assert.True(t, result.EndReached)
}

func TestBuildPathStepCap(t *testing.T) {
	// A long straight chain with every question answered walks to the end
	// within the step budget; the cap only exists to stop degenerate
	// content, not healthy questionnaires.
	var questions []model.Question
	answers := make(model.AnswerMap)
	for i := 0; i < 50; i++ {
		q := model.Question{ID: fmt.Sprintf("q%d", i)}
		if i < 49 {
			q.Next = &model.NextSpec{Literal: fmt.Sprintf("q%d", i+1)}
		}
		questions = append(questions, q)
		answers[q.ID] = model.StringAnswer("v")
	}

	result := BuildPath(questions, answers)

	assert.Len(t, result.Path, 50)
	assert.True(t, result.EndReached)
	assert.True(t, result.Completed(answers))
}

func TestBuildPathEmptyQuestionnaire(t *testing.T) {
	result := BuildPath(nil, model.AnswerMap{"q1": model.StringAnswer("x")})

	assert.Empty(t, result.Path)
	assert.False(t, result.EndReached)
}
