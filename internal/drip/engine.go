package drip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EditingIDNew is the sentinel editing id for "create a new condition".
const EditingIDNew = "new"

// Source says which scope produced the effective condition set for a chapter.
type Source string

const (
	SourcePackage Source = "package"
	SourceChapter Source = "chapter"
	SourceNone    Source = "none"
)

// Effective is the resolved condition set governing one chapter.
type Effective struct {
	Source     Source      `json:"source"`
	Conditions []Condition `json:"conditions"`
}

// Editable reports whether chapter-level conditions may be edited. While a
// package-level chapter-targeting condition exists for the course, every
// chapter-level condition in it is inert and locked out of editing.
func (e Effective) Editable() bool {
	return e.Source != SourcePackage
}

// ResolveEffective decides which conditions govern the given chapter.
//
// An enabled package-level condition for the course that targets chapters
// takes total precedence: chapter-level conditions are never consulted while
// one exists, no matter how many there are. Otherwise the chapter's own
// conditions apply, and with neither the chapter is always unlocked.
func ResolveEffective(courseID, chapterID string, conditions []Condition) Effective {
	var pkg []Condition
	var chapter []Condition
	for _, c := range conditions {
		if !c.IsEnabled() || c.Spec.Target != TargetChapter {
			continue
		}
		switch {
		case c.Level == LevelPackage && c.LevelID == courseID:
			pkg = append(pkg, c)
		case c.Level == LevelChapter && c.LevelID == chapterID:
			chapter = append(chapter, c)
		}
	}
	if len(pkg) > 0 {
		return Effective{Source: SourcePackage, Conditions: pkg}
	}
	if len(chapter) > 0 {
		return Effective{Source: SourceChapter, Conditions: chapter}
	}
	return Effective{Source: SourceNone}
}

// Upsert returns a new collection with incoming applied. editingID "new"
// appends incoming under a fresh id; any other editingID replaces the matching
// entry in place, preserving its id. An unknown id leaves the content
// unchanged. The input slice is never mutated; callers persist the result
// themselves.
func Upsert(existing []Condition, incoming Condition, editingID string) []Condition {
	out := make([]Condition, len(existing))
	copy(out, existing)

	if editingID == EditingIDNew {
		incoming.ID = uuid.NewString()
		return append(out, incoming)
	}
	for i := range out {
		if out[i].ID == editingID {
			incoming.ID = editingID
			out[i] = incoming
			break
		}
	}
	return out
}

// Remove returns a new collection without the matching entry. Removing an
// absent id is a no-op, not an error.
func Remove(existing []Condition, conditionID string) []Condition {
	out := make([]Condition, 0, len(existing))
	for _, c := range existing {
		if c.ID == conditionID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ValidateRule checks one rule's required fields.
func ValidateRule(r Rule) error {
	switch r.Type {
	case RuleDateBased:
		if r.Params.UnlockDate == "" {
			return validationErr("unlock_date", "required")
		}
		if _, err := time.Parse(time.RFC3339, r.Params.UnlockDate); err != nil {
			return validationErr("unlock_date", "not a valid timestamp")
		}
	case RuleCompletionBased:
		if err := validateThreshold(r.Params.Threshold); err != nil {
			return err
		}
		if r.Params.Metric == MetricAverageOfLastN {
			if r.Params.Count == nil || *r.Params.Count <= 0 {
				return validationErr("count", "required for average_of_last_n")
			}
		}
	case RulePrerequisite:
		if err := validateThreshold(r.Params.Threshold); err != nil {
			return err
		}
	case RuleSequential:
		// requires_previous defaults to true; threshold only checked when set.
		if r.Params.Threshold != nil {
			if err := validateThreshold(r.Params.Threshold); err != nil {
				return err
			}
		}
	default:
		return validationErr("type", fmt.Sprintf("unknown rule type %q", r.Type))
	}
	return nil
}

// ValidateRuleSet checks a rule list for submission. An empty list is valid
// for display (empty-state placeholder) but not for saving.
func ValidateRuleSet(rules []Rule) error {
	if len(rules) == 0 {
		return validationErr("rules", "at least one rule is required")
	}
	for _, r := range rules {
		if err := ValidateRule(r); err != nil {
			return err
		}
	}
	return nil
}

func validateThreshold(v *int) error {
	if v == nil {
		return validationErr("threshold", "required")
	}
	if *v < 0 || *v > 100 {
		return validationErr("threshold", "must be between 0 and 100")
	}
	return nil
}
