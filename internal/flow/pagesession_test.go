package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questline/internal/model"
)

func branchingPages() []model.Page {
	return []model.Page{
		{
			ID:        "intro",
			Questions: []model.Question{{ID: "mood", Required: true}},
			ConditionalRouting: &model.Routing{
				Rules: []model.RoutingRule{
					{Condition: cond("mood", model.OpEqual, "bad"), NextPage: "detail", Priority: 1},
				},
				DefaultAction: "wrapup",
			},
		},
		{
			ID:        "detail",
			Questions: []model.Question{{ID: "why", Required: true}},
			ConditionalRouting: &model.Routing{
				DefaultAction: "wrapup",
			},
		},
		{
			ID:        "wrapup",
			Questions: []model.Question{{ID: "final", Required: true}},
			IsLast:    true,
		},
	}
}

func TestPageSessionFreshStart(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})

	assert.Equal(t, 0, s.CurrentIndex())
	assert.False(t, s.Completed())
	assert.Equal(t, 0, s.Progress())
	assert.Equal(t, []int{0, 2}, s.Reachable(), "detail is closed until mood is bad")
}

func TestPageSessionApplyAdvances(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})

	cleared, err := s.ApplyPage("intro", model.AnswerMap{"mood": model.StringAnswer("good")})
	require.NoError(t, err)
	assert.Empty(t, cleared)
	assert.Equal(t, 2, s.CurrentIndex(), "good mood skips detail")

	cleared, err = s.ApplyPage("wrapup", model.AnswerMap{"final": model.StringAnswer("bye")})
	require.NoError(t, err)
	assert.Empty(t, cleared)
	assert.True(t, s.Completed())
	assert.Equal(t, 100, s.Progress())
}

func TestPageSessionBranchOpens(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})

	_, err := s.ApplyPage("intro", model.AnswerMap{"mood": model.StringAnswer("bad")})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, s.Reachable())
	assert.Equal(t, 1, s.CurrentIndex())
}

func TestPageSessionCleanupClosesTheLoop(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})
	_, err := s.ApplyPage("intro", model.AnswerMap{"mood": model.StringAnswer("bad")})
	require.NoError(t, err)
	_, err = s.ApplyPage("detail", model.AnswerMap{"why": model.StringAnswer("tired")})
	require.NoError(t, err)

	// Revising the intro to a good mood cuts detail off; its stored
	// answers must go with it.
	cleared, err := s.ApplyPage("intro", model.AnswerMap{"mood": model.StringAnswer("good")})
	require.NoError(t, err)

	assert.Equal(t, []string{"detail"}, cleared)
	assert.Empty(t, s.PageAnswers()["detail"])
	reachable := ReachablePages(s.pages, s.PageAnswers().Flatten())
	for idx, page := range s.pages {
		if !reachable[idx] {
			assert.Empty(t, s.PageAnswers()[page.ID], "unreachable pages hold no answers")
		}
	}
}

func TestPageSessionUnknownPage(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})

	_, err := s.ApplyPage("bogus", model.AnswerMap{})

	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestPageSessionBackClearsLandedPage(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})
	_, err := s.ApplyPage("intro", model.AnswerMap{"mood": model.StringAnswer("bad")})
	require.NoError(t, err)
	_, err = s.ApplyPage("detail", model.AnswerMap{"why": model.StringAnswer("tired")})
	require.NoError(t, err)
	require.Equal(t, 2, s.CurrentIndex())

	cleared, exited := s.Back()

	assert.False(t, exited)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Contains(t, cleared, "detail", "the landed-on page is re-answered")
	assert.Empty(t, s.PageAnswers()["detail"])
	assert.NotEmpty(t, s.PageAnswers()["intro"], "upstream pages survive")
}

func TestPageSessionBackExitsAtStart(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{})

	cleared, exited := s.Back()

	assert.True(t, exited)
	assert.Empty(t, cleared)
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestPageSessionResumesAtFirstIncomplete(t *testing.T) {
	saved := model.PageAnswerMap{
		"intro": {"mood": model.StringAnswer("bad")},
	}
	s := NewPageSession(branchingPages(), saved)

	assert.Equal(t, 1, s.CurrentIndex(), "resume on the first unanswered reachable page")
	assert.False(t, s.Completed())
}

func TestPageSessionResumesCompletedOnLastPage(t *testing.T) {
	saved := model.PageAnswerMap{
		"intro":  {"mood": model.StringAnswer("good")},
		"wrapup": {"final": model.StringAnswer("bye")},
	}
	s := NewPageSession(branchingPages(), saved)

	assert.Equal(t, 2, s.CurrentIndex())
	assert.True(t, s.Completed())
	assert.Equal(t, 100, s.Progress())
}

func TestPageSessionRestart(t *testing.T) {
	s := NewPageSession(branchingPages(), model.PageAnswerMap{
		"intro": {"mood": model.StringAnswer("good")},
	})

	s.Restart()

	assert.Equal(t, 0, s.CurrentIndex())
	assert.Empty(t, s.PageAnswers())
	assert.False(t, s.Completed())
	assert.Equal(t, 0, s.Progress())
}

func TestPageSessionEmptyQuestionnaire(t *testing.T) {
	s := NewPageSession(nil, model.PageAnswerMap{})

	assert.Equal(t, -1, s.CurrentIndex())
	assert.False(t, s.Completed())
	_, err := s.ApplyPage("p1", model.AnswerMap{})
	assert.ErrorIs(t, err, ErrUnknownPage)
}
