package drip

import "time"

// Level is the scope a condition is declared at. A package-level condition
// targeting chapters overrides every chapter-level condition in that course.
type Level string

const (
	LevelPackage Level = "package"
	LevelChapter Level = "chapter"
)

// Target is the kind of child entity a condition gates.
type Target string

const (
	TargetChapter Target = "chapter"
)

// Behavior is the effect applied to a gated chapter while its rules are unmet.
type Behavior string

const (
	BehaviorLock Behavior = "lock"
	BehaviorHide Behavior = "hide"
	BehaviorBoth Behavior = "both"
)

type RuleType string

const (
	RuleDateBased       RuleType = "date_based"
	RuleCompletionBased RuleType = "completion_based"
	RulePrerequisite    RuleType = "prerequisite"
	RuleSequential      RuleType = "sequential"
)

type Metric string

const (
	MetricAverageOfAll   Metric = "average_of_all"
	MetricAverageOfLastN Metric = "average_of_last_n"
)

// Condition attaches a set of unlock rules to a package (course) or a single
// chapter. A nil Enabled means enabled; only an explicit false disables it.
type Condition struct {
	ID      string `json:"id"`
	Level   Level  `json:"level"`
	LevelID string `json:"level_id"`
	Spec    Spec   `json:"drip_condition"`
	Enabled *bool  `json:"enabled,omitempty"`
}

func (c Condition) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

type Spec struct {
	Target   Target   `json:"target"`
	Behavior Behavior `json:"behavior"`
	Rules    []Rule   `json:"rules"`
}

// Rule is a tagged union on Type. Params is flat with optional fields so a
// type switch can swap the whole params block for the new type's defaults.
type Rule struct {
	Type   RuleType `json:"type"`
	Params Params   `json:"params"`
}

type Params struct {
	// date_based
	UnlockDate string `json:"unlock_date,omitempty"`
	// completion_based
	Metric Metric `json:"metric,omitempty"`
	Count  *int   `json:"count,omitempty"`
	// prerequisite
	RequiredChapters []string `json:"required_chapters,omitempty"`
	// sequential
	RequiresPrevious *bool `json:"requires_previous,omitempty"`
	// shared: completion_based, prerequisite, sequential. Zero is a valid
	// threshold, distinct from absent, hence the pointer.
	Threshold *int `json:"threshold,omitempty"`
}

// DefaultParams returns the canonical params for a rule type. Switching a
// rule's type replaces its params with these wholesale; nothing carries over.
func DefaultParams(t RuleType, now time.Time) Params {
	switch t {
	case RuleDateBased:
		return Params{UnlockDate: now.UTC().Format(time.RFC3339)}
	case RuleCompletionBased:
		return Params{Metric: MetricAverageOfAll, Threshold: intPtr(100)}
	case RulePrerequisite:
		return Params{RequiredChapters: []string{}, Threshold: intPtr(100)}
	case RuleSequential:
		return Params{RequiresPrevious: boolPtr(true), Threshold: intPtr(100)}
	default:
		return Params{}
	}
}

// SwitchRuleType resets a rule to the given type with that type's defaults.
func SwitchRuleType(r Rule, t RuleType, now time.Time) Rule {
	if r.Type == t {
		return r
	}
	return Rule{Type: t, Params: DefaultParams(t, now)}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
