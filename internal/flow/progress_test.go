package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"questline/internal/model"
)

func TestProgressClassic(t *testing.T) {
	questions := branchingQuestions()

	assert.Equal(t, 0, Progress(questions, model.AnswerMap{}, false))
	assert.Equal(t, 33, Progress(questions, model.AnswerMap{
		"q1": model.StringAnswer("yes"),
	}, false))
	assert.Equal(t, 67, Progress(questions, model.AnswerMap{
		"q1": model.StringAnswer("yes"),
		"q2": model.StringAnswer("done"),
	}, false))
	assert.Equal(t, 100, Progress(questions, model.AnswerMap{
		"q1": model.StringAnswer("yes"),
		"q2": model.StringAnswer("done"),
	}, true))
}

func TestProgressIgnoresStaleAnswers(t *testing.T) {
	questions := branchingQuestions()
	answers := model.AnswerMap{
		"q1":      model.StringAnswer("yes"),
		"removed": model.StringAnswer("old"),
	}

	assert.Equal(t, 33, Progress(questions, answers, false))
}

func TestProgressNeverHits100EarlyClassic(t *testing.T) {
	// 199 of 200 answered rounds to 100 but must report 99 while the flow
	// is not completed.
	var questions []model.Question
	answers := make(model.AnswerMap)
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("q%d", i)
		questions = append(questions, model.Question{ID: id})
		if i < 199 {
			answers[id] = model.StringAnswer("v")
		}
	}

	assert.Equal(t, 99, Progress(questions, answers, false))
}

func TestProgressEmptyQuestionnaire(t *testing.T) {
	assert.Equal(t, 0, Progress(nil, model.AnswerMap{}, false))
}

func feedbackPages() []model.Page {
	return []model.Page{
		{
			ID: "p1",
			Questions: []model.Question{
				{ID: "q1", Required: true},
				{ID: "q2", Required: false},
			},
			ConditionalRouting: &model.Routing{
				Rules: []model.RoutingRule{
					{Condition: cond("q1", model.OpGreaterEqual, "4"), NextPage: "p3", Priority: 1},
				},
				DefaultAction: "p2",
			},
		},
		{
			ID:        "p2",
			Questions: []model.Question{{ID: "q3", Required: true}},
		},
		{
			ID:        "p3",
			Questions: []model.Question{{ID: "q4", Required: true}},
			IsLast:    true,
		},
	}
}

func TestPageProgressCountsReachableRequiredOnly(t *testing.T) {
	pages := feedbackPages()

	// Nothing answered: p1 routes nowhere beyond its default; required
	// questions on reachable pages are q1, q3, q4 (p2 falls through to p3).
	assert.Equal(t, 0, PageProgress(pages, model.PageAnswerMap{}))

	withRating := model.PageAnswerMap{
		"p1": {"q1": model.IntAnswer(5)},
	}
	// q1 >= 4 opens p3 and the default keeps p2 open: 1 of 3 required.
	assert.Equal(t, 33, PageProgress(pages, withRating))
}

func TestPageProgressFullCompletion(t *testing.T) {
	pages := feedbackPages()
	answers := model.PageAnswerMap{
		"p1": {"q1": model.IntAnswer(5)},
		"p2": {"q3": model.StringAnswer("fine")},
		"p3": {"q4": model.StringAnswer("great")},
	}

	assert.Equal(t, 100, PageProgress(pages, answers))
	assert.True(t, PagesComplete(pages, answers))
}

func TestPageProgressClampsBelow100(t *testing.T) {
	// 199 of 200 required answered must report 99, not the rounded 100.
	var pages []model.Page
	answers := make(model.PageAnswerMap)
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("p%d", i)
		qid := fmt.Sprintf("q%d", i)
		pages = append(pages, model.Page{
			ID:        id,
			Questions: []model.Question{{ID: qid, Required: true}},
		})
		if i < 199 {
			answers[id] = model.AnswerMap{qid: model.StringAnswer("v")}
		}
	}

	assert.Equal(t, 99, PageProgress(pages, answers))
	assert.False(t, PagesComplete(pages, answers))
}

func TestPageProgressNoRequiredQuestions(t *testing.T) {
	pages := []model.Page{
		{ID: "p1", Questions: []model.Question{{ID: "q1", Required: false}}},
	}

	assert.Equal(t, 0, PageProgress(pages, model.PageAnswerMap{}))
	assert.False(t, PagesComplete(pages, model.PageAnswerMap{}))
}

func TestPageProgressEmptyAnswerDoesNotCount(t *testing.T) {
	pages := []model.Page{
		{ID: "p1", Questions: []model.Question{{ID: "q1", Required: true}}, IsLast: true},
	}
	answers := model.PageAnswerMap{
		"p1": {"q1": model.StringAnswer("")},
	}

	assert.Equal(t, 0, PageProgress(pages, answers))
}
