package flow

import "questline/internal/model"

// maxWalkSteps caps the classic walk so cyclic or self-referential
// content stops silently instead of looping.
const maxWalkSteps = 200

// PathResult is the outcome of a classic-mode walk.
type PathResult struct {
	// Path holds visited question ids in traversal order; the last entry
	// is the current position.
	Path []string
	// EndReached is true when the walk hit a terminal question rather
	// than stopping at an unanswered one.
	EndReached bool
}

// NextID resolves the question that follows q given its answer. ok=false
// means the flow ends after q.
func NextID(q model.Question, answer model.AnswerValue) (string, bool) {
	key, _ := answer.StringKey()
	return q.Next.Resolve(key)
}

// BuildPath walks the single deterministic path from the first question
// to the current frontier. The walk never runs ahead of the given
// answers: it stops at the first unanswered question, which is the
// current position. Dangling or already-visited next ids terminate the
// flow instead of erroring, since content is externally authored.
func BuildPath(questions []model.Question, answers model.AnswerMap) PathResult {
	if len(questions) == 0 {
		return PathResult{}
	}
	byID := questionIndex(questions)
	start := questions[0].ID
	if len(answers) == 0 {
		return PathResult{Path: []string{start}}
	}

	var path []string
	visited := make(map[string]bool)
	currentID := start
	endReached := false

	for steps := 0; currentID != "" && !visited[currentID] && steps < maxWalkSteps; steps++ {
		path = append(path, currentID)
		visited[currentID] = true
		q := byID[currentID]

		if q.Next == nil {
			endReached = true
			break
		}
		answer, answered := answers[currentID]
		if !answered {
			break
		}
		nextID, ok := NextID(q, answer)
		if !ok {
			endReached = true
			break
		}
		if _, exists := byID[nextID]; !exists || visited[nextID] {
			endReached = true
			break
		}
		currentID = nextID
	}

	return PathResult{Path: path, EndReached: endReached}
}

// Completed reports whether the walk finished the flow: the end was
// reached and every question on the path has an answer.
func (r PathResult) Completed(answers model.AnswerMap) bool {
	if !r.EndReached {
		return false
	}
	for _, id := range r.Path {
		if _, ok := answers[id]; !ok {
			return false
		}
	}
	return true
}

func questionIndex(questions []model.Question) map[string]model.Question {
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID
}
