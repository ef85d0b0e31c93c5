package flow

import (
	"math"

	"questline/internal/model"
)

// Progress derives the classic-mode completion percentage. The
// denominator is the full questionnaire length, not the active path;
// answers to ids that no longer exist in the questionnaire are ignored.
// The result is clamped to 99 unless the flow is genuinely completed, so
// rounding at the last question never shows a premature 100.
func Progress(questions []model.Question, answers model.AnswerMap, completed bool) int {
	if completed {
		return 100
	}
	if len(questions) == 0 {
		return 0
	}

	byID := questionIndex(questions)
	answered := 0
	for id := range answers {
		if _, ok := byID[id]; ok {
			answered++
		}
	}

	pct := int(math.Round(float64(answered) / float64(len(questions)) * 100))
	if pct > 99 {
		pct = 99
	}
	return pct
}

// PageProgress derives the paged-mode completion percentage: answered
// required questions over total required questions, counted on reachable
// pages only. Pages cut off by routing must neither inflate nor deflate
// the denominator. No required questions anywhere reachable reports 0,
// not 100, so an untouched questionnaire never starts out complete.
func PageProgress(pages []model.Page, pageAnswers model.PageAnswerMap) int {
	if len(pages) == 0 {
		return 0
	}

	reachable := ReachablePages(pages, pageAnswers.Flatten())
	if len(reachable) == 0 {
		return 0
	}

	totalRequired, answeredRequired := countRequired(pages, pageAnswers, reachable)
	if totalRequired == 0 {
		return 0
	}
	if answeredRequired == totalRequired {
		return 100
	}
	pct := int(math.Round(float64(answeredRequired) / float64(totalRequired) * 100))
	if pct > 99 {
		pct = 99
	}
	return pct
}

// PagesComplete reports whether every required question on every
// reachable page has a non-empty saved answer. An empty questionnaire, or
// one with no required questions at all, is never complete.
func PagesComplete(pages []model.Page, pageAnswers model.PageAnswerMap) bool {
	if len(pages) == 0 {
		return false
	}
	reachable := ReachablePages(pages, pageAnswers.Flatten())
	totalRequired, answeredRequired := countRequired(pages, pageAnswers, reachable)
	return totalRequired > 0 && answeredRequired == totalRequired
}

func countRequired(pages []model.Page, pageAnswers model.PageAnswerMap, reachable map[int]bool) (total, answered int) {
	for idx := range reachable {
		if idx < 0 || idx >= len(pages) {
			continue
		}
		page := pages[idx]
		saved := pageAnswers[page.ID]
		for _, q := range page.RequiredQuestions() {
			total++
			if v, ok := saved[q.ID]; ok && !v.IsEmpty() {
				answered++
			}
		}
	}
	return total, answered
}
