package drip

import "time"

// ProgressSnapshot is a learner's completion state across a course.
// Completion maps chapter id to percent complete (0-100); Order lists chapter
// ids in display order, which sequential and last-n rules depend on.
type ProgressSnapshot struct {
	Completion map[string]int
	Order      []string
}

// Outcome is the result of evaluating a chapter's effective conditions.
type Outcome struct {
	Unlocked bool     `json:"unlocked"`
	Behavior Behavior `json:"behavior,omitempty"`
	Source   Source   `json:"source"`
}

// Evaluator decides whether a chapter is unlocked for a learner.
//
// CombineAll controls how multiple rules on one condition combine: true means
// every rule must be satisfied, false means any one suffices. The stored rule
// list carries no combinator of its own, so this is deliberately a
// configuration knob rather than an inferred semantic.
type Evaluator struct {
	CombineAll bool
	Now        func() time.Time
}

func NewEvaluator() *Evaluator {
	return &Evaluator{CombineAll: true, Now: time.Now}
}

// Evaluate resolves the effective conditions for the chapter and applies them
// to the snapshot. A chapter with no effective conditions is always unlocked.
// When several conditions apply, all of them must unlock the chapter; the
// behavior reported for a locked chapter is the first unmet condition's.
func (e *Evaluator) Evaluate(courseID, chapterID string, conditions []Condition, snap ProgressSnapshot) Outcome {
	eff := ResolveEffective(courseID, chapterID, conditions)
	if eff.Source == SourceNone {
		return Outcome{Unlocked: true, Source: SourceNone}
	}
	for _, c := range eff.Conditions {
		if !e.conditionMet(c, chapterID, snap) {
			return Outcome{Unlocked: false, Behavior: c.Spec.Behavior, Source: eff.Source}
		}
	}
	return Outcome{Unlocked: true, Source: eff.Source}
}

func (e *Evaluator) conditionMet(c Condition, chapterID string, snap ProgressSnapshot) bool {
	if len(c.Spec.Rules) == 0 {
		return true
	}
	for _, r := range c.Spec.Rules {
		met := e.ruleMet(r, chapterID, snap)
		if e.CombineAll && !met {
			return false
		}
		if !e.CombineAll && met {
			return true
		}
	}
	return e.CombineAll
}

func (e *Evaluator) ruleMet(r Rule, chapterID string, snap ProgressSnapshot) bool {
	switch r.Type {
	case RuleDateBased:
		at, err := time.Parse(time.RFC3339, r.Params.UnlockDate)
		if err != nil {
			// Malformed data degrades to "no gate" rather than a hard lock.
			return true
		}
		return !e.Now().Before(at)
	case RuleCompletionBased:
		return e.completionMet(r.Params, chapterID, snap)
	case RulePrerequisite:
		threshold := thresholdOr(r.Params.Threshold, 100)
		for _, id := range r.Params.RequiredChapters {
			if snap.Completion[id] < threshold {
				return false
			}
		}
		return true
	case RuleSequential:
		if r.Params.RequiresPrevious != nil && !*r.Params.RequiresPrevious {
			return true
		}
		prev := previousChapter(chapterID, snap.Order)
		if prev == "" {
			// First chapter, or one outside the known order: nothing precedes it.
			return true
		}
		return snap.Completion[prev] >= thresholdOr(r.Params.Threshold, 100)
	default:
		return true
	}
}

func (e *Evaluator) completionMet(p Params, chapterID string, snap ProgressSnapshot) bool {
	threshold := thresholdOr(p.Threshold, 100)
	switch p.Metric {
	case MetricAverageOfLastN:
		n := 0
		if p.Count != nil {
			n = *p.Count
		}
		window := precedingChapters(chapterID, snap.Order, n)
		return averageCompletion(window, snap.Completion) >= threshold
	default:
		return averageCompletion(snap.Order, snap.Completion) >= threshold
	}
}

func previousChapter(chapterID string, order []string) string {
	for i, id := range order {
		if id == chapterID {
			if i == 0 {
				return ""
			}
			return order[i-1]
		}
	}
	return ""
}

// precedingChapters returns up to n chapter ids immediately before chapterID
// in order. A chapter not present in the order yields the last n chapters.
func precedingChapters(chapterID string, order []string, n int) []string {
	end := len(order)
	for i, id := range order {
		if id == chapterID {
			end = i
			break
		}
	}
	start := end - n
	if n <= 0 || start < 0 {
		start = 0
	}
	return order[start:end]
}

func averageCompletion(ids []string, completion map[string]int) int {
	if len(ids) == 0 {
		return 100
	}
	sum := 0
	for _, id := range ids {
		sum += completion[id]
	}
	return sum / len(ids)
}

func thresholdOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
