package flow

import (
	"sort"

	"questline/internal/model"
)

// ReachablePages computes the set of page indices reachable from page 0
// given the flattened answers, by breadth-first traversal over the graph
// implied by each page's conditional routing. Page 0 is always reachable.
//
// For a routed page, every rule whose condition holds contributes its
// target (all matches, not just the first: an answer may legitimately
// reopen several downstream branches), and the default action is always
// added as the fallthrough continuation unless it is "complete". Pages
// without routing fall through to index+1. Dangling target ids are
// skipped.
func ReachablePages(pages []model.Page, flat model.AnswerMap) map[int]bool {
	visited := make(map[int]bool)
	if len(pages) == 0 {
		return visited
	}

	indexByID := make(map[string]int, len(pages))
	for i, p := range pages {
		indexByID[p.ID] = i
	}

	queue := []int{0}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if idx < 0 || idx >= len(pages) || visited[idx] {
			continue
		}
		visited[idx] = true

		page := pages[idx]
		if page.ConditionalRouting != nil {
			for _, target := range routingTargets(page.ConditionalRouting, indexByID, flat) {
				if !visited[target] {
					queue = append(queue, target)
				}
			}
		} else if next := idx + 1; next < len(pages) {
			queue = append(queue, next)
		}
	}
	return visited
}

// routingTargets resolves the candidate successor indices of a routed
// page, in ascending rule priority followed by the default action.
func routingTargets(routing *model.Routing, indexByID map[string]int, flat model.AnswerMap) []int {
	rules := make([]model.RoutingRule, len(routing.Rules))
	copy(rules, routing.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	seen := make(map[string]bool)
	var targetIDs []string
	for _, rule := range rules {
		if !Evaluate(rule.Condition, flat) {
			continue
		}
		if !seen[rule.NextPage] {
			seen[rule.NextPage] = true
			targetIDs = append(targetIDs, rule.NextPage)
		}
	}
	if routing.DefaultAction != "" && routing.DefaultAction != model.DefaultActionComplete && !seen[routing.DefaultAction] {
		targetIDs = append(targetIDs, routing.DefaultAction)
	}

	var targets []int
	for _, id := range targetIDs {
		if idx, ok := indexByID[id]; ok {
			targets = append(targets, idx)
		}
	}
	return targets
}

// SortedIndices returns a reachable set as an ascending slice, for stable
// JSON output and iteration in page order.
func SortedIndices(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
