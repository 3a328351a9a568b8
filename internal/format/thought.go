package format

import "strings"

// ThoughtCategory buckets a reasoning fragment for icon and color choice.
type ThoughtCategory int

const (
	ThoughtGeneric ThoughtCategory = iota
	ThoughtPlanning
	ThoughtAnalyzing
	ThoughtExecuting
	ThoughtCompleting
)

// String returns the category name.
func (c ThoughtCategory) String() string {
	switch c {
	case ThoughtPlanning:
		return "planning"
	case ThoughtAnalyzing:
		return "analyzing"
	case ThoughtExecuting:
		return "executing"
	case ThoughtCompleting:
		return "completing"
	default:
		return "generic"
	}
}

// thoughtRule pairs a category with the keywords that select it. Rules are
// evaluated in order and the first hit wins, so terminal-state wording beats
// the verbs it tends to contain.
type thoughtRule struct {
	category ThoughtCategory
	keywords []string
}

var thoughtRules = []thoughtRule{
	{ThoughtCompleting, []string{
		"done", "complete", "finished", "succeeded", "verified",
		"all set", "wrapped up",
	}},
	{ThoughtPlanning, []string{
		"plan", "i'll ", "i will", "going to", "next step", "need to",
		"let's ", "first,", "then i",
	}},
	{ThoughtAnalyzing, []string{
		"analyz", "check", "look", "inspect", "read", "examin",
		"review", "consider", "search", "compar", "trac",
	}},
	{ThoughtExecuting, []string{
		"run", "creat", "writ", "apply", "implement", "execut",
		"updat", "install", "build", "delet", "fix",
	}},
}

// ClassifyThought buckets text by keyword inspection. Unmatched text falls
// back to the generic category; classification never fails.
func ClassifyThought(text string) ThoughtCategory {
	lower := strings.ToLower(text)
	for _, rule := range thoughtRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return ThoughtGeneric
}
