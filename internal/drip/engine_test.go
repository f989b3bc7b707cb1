package drip

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func enabledPtr(v bool) *bool { return &v }

func pkgCondition(id, courseID string) Condition {
	return Condition{
		ID:      id,
		Level:   LevelPackage,
		LevelID: courseID,
		Spec: Spec{
			Target:   TargetChapter,
			Behavior: BehaviorLock,
			Rules: []Rule{{
				Type:   RuleDateBased,
				Params: Params{UnlockDate: "2030-01-01T00:00:00Z"},
			}},
		},
	}
}

func chapterCondition(id, chapterID string) Condition {
	return Condition{
		ID:      id,
		Level:   LevelChapter,
		LevelID: chapterID,
		Spec: Spec{
			Target:   TargetChapter,
			Behavior: BehaviorHide,
			Rules: []Rule{{
				Type:   RuleSequential,
				Params: DefaultParams(RuleSequential, time.Now()),
			}},
		},
	}
}

func TestResolveEffectivePackagePrecedence(t *testing.T) {
	pkg := pkgCondition("cond-pkg", "courseA")
	ch1 := chapterCondition("cond-ch1", "ch1")
	ch1b := chapterCondition("cond-ch1b", "ch1")

	eff := ResolveEffective("courseA", "ch1", []Condition{ch1, pkg, ch1b})
	if eff.Source != SourcePackage {
		t.Fatalf("source = %q, want %q", eff.Source, SourcePackage)
	}
	if len(eff.Conditions) != 1 || eff.Conditions[0].ID != "cond-pkg" {
		t.Fatalf("conditions = %+v, want only cond-pkg", eff.Conditions)
	}
	if eff.Editable() {
		t.Fatalf("chapter-level editing must be disabled under a package override")
	}
}

func TestResolveEffectiveChapterFallback(t *testing.T) {
	ch1 := chapterCondition("cond-ch1", "ch1")
	other := chapterCondition("cond-ch2", "ch2")

	eff := ResolveEffective("courseA", "ch1", []Condition{other, ch1})
	if eff.Source != SourceChapter {
		t.Fatalf("source = %q, want %q", eff.Source, SourceChapter)
	}
	if len(eff.Conditions) != 1 || eff.Conditions[0].ID != "cond-ch1" {
		t.Fatalf("conditions = %+v, want only cond-ch1", eff.Conditions)
	}
}

func TestResolveEffectiveDisabledExcluded(t *testing.T) {
	ch1 := chapterCondition("cond-ch1", "ch1")
	ch1.Enabled = enabledPtr(false)

	eff := ResolveEffective("courseA", "ch1", []Condition{ch1})
	if eff.Source != SourceNone || len(eff.Conditions) != 0 {
		t.Fatalf("disabled condition leaked through: %+v", eff)
	}

	// A disabled package condition must not suppress chapter conditions either.
	pkg := pkgCondition("cond-pkg", "courseA")
	pkg.Enabled = enabledPtr(false)
	active := chapterCondition("cond-active", "ch1")
	eff = ResolveEffective("courseA", "ch1", []Condition{pkg, active})
	if eff.Source != SourceChapter {
		t.Fatalf("source = %q, want %q", eff.Source, SourceChapter)
	}
}

func TestResolveEffectiveEmptyInputs(t *testing.T) {
	eff := ResolveEffective("courseA", "ch1", nil)
	if eff.Source != SourceNone || len(eff.Conditions) != 0 {
		t.Fatalf("nil conditions should resolve to none, got %+v", eff)
	}
}

func TestUpsertNewAssignsID(t *testing.T) {
	existing := []Condition{chapterCondition("cond-old", "ch1")}
	incoming := chapterCondition("", "ch2")

	out := Upsert(existing, incoming, EditingIDNew)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[1].ID == "" || out[1].ID == "cond-old" {
		t.Fatalf("new condition id = %q, want a fresh unique id", out[1].ID)
	}
	if len(existing) != 1 {
		t.Fatalf("input slice was mutated")
	}
}

func TestUpsertReplaceByIDIsIdempotent(t *testing.T) {
	existing := []Condition{chapterCondition("cond-a", "ch1"), chapterCondition("cond-b", "ch2")}
	incoming := chapterCondition("", "ch1")
	incoming.Spec.Behavior = BehaviorBoth

	once := Upsert(existing, incoming, "cond-a")
	twice := Upsert(once, incoming, "cond-a")

	count := 0
	for _, c := range twice {
		if c.ID == "cond-a" {
			count++
			if c.Spec.Behavior != BehaviorBoth {
				t.Fatalf("replacement not applied: %+v", c)
			}
		}
	}
	if count != 1 {
		t.Fatalf("id cond-a appears %d times, want exactly 1", count)
	}
}

func TestUpsertUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	existing := []Condition{chapterCondition("cond-a", "ch1")}
	out := Upsert(existing, chapterCondition("", "ch2"), "cond-missing")
	if !reflect.DeepEqual(out, existing) {
		t.Fatalf("collection changed on unknown editing id: %+v", out)
	}
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	existing := []Condition{chapterCondition("cond-a", "ch1")}
	added := Upsert(existing, chapterCondition("", "ch2"), EditingIDNew)
	newID := added[len(added)-1].ID

	out := Remove(added, newID)
	if !reflect.DeepEqual(out, existing) {
		t.Fatalf("add-then-remove is not a no-op: %+v", out)
	}
}

func TestRemoveMissingIDIsNoop(t *testing.T) {
	existing := []Condition{chapterCondition("cond-a", "ch1")}
	out := Remove(existing, "cond-missing")
	if !reflect.DeepEqual(out, existing) {
		t.Fatalf("remove of missing id changed collection: %+v", out)
	}
}

func TestSwitchRuleTypeResetsParams(t *testing.T) {
	count := 5
	threshold := 80
	r := Rule{
		Type: RuleCompletionBased,
		Params: Params{
			Metric:    MetricAverageOfLastN,
			Count:     &count,
			Threshold: &threshold,
		},
	}

	out := SwitchRuleType(r, RulePrerequisite, time.Now())
	want := Rule{
		Type:   RulePrerequisite,
		Params: Params{RequiredChapters: []string{}, Threshold: intPtr(100)},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("switched rule = %+v, want %+v (no leaked fields)", out, want)
	}
}

func TestSwitchRuleTypeSameTypeKeepsParams(t *testing.T) {
	threshold := 30
	r := Rule{Type: RulePrerequisite, Params: Params{RequiredChapters: []string{"ch1"}, Threshold: &threshold}}
	out := SwitchRuleType(r, RulePrerequisite, time.Now())
	if !reflect.DeepEqual(out, r) {
		t.Fatalf("same-type switch must not reset params: %+v", out)
	}
}

func TestValidateRule(t *testing.T) {
	zero := 0
	over := 101
	count := 3

	cases := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name:    "date_based_valid",
			rule:    Rule{Type: RuleDateBased, Params: Params{UnlockDate: "2030-01-01T00:00:00Z"}},
			wantErr: false,
		},
		{
			name:    "date_based_empty",
			rule:    Rule{Type: RuleDateBased},
			wantErr: true,
		},
		{
			name:    "date_based_unparseable",
			rule:    Rule{Type: RuleDateBased, Params: Params{UnlockDate: "tomorrow"}},
			wantErr: true,
		},
		{
			name:    "completion_threshold_zero_is_valid",
			rule:    Rule{Type: RuleCompletionBased, Params: Params{Metric: MetricAverageOfAll, Threshold: &zero}},
			wantErr: false,
		},
		{
			name:    "completion_threshold_missing",
			rule:    Rule{Type: RuleCompletionBased, Params: Params{Metric: MetricAverageOfAll}},
			wantErr: true,
		},
		{
			name:    "completion_threshold_out_of_range",
			rule:    Rule{Type: RuleCompletionBased, Params: Params{Metric: MetricAverageOfAll, Threshold: &over}},
			wantErr: true,
		},
		{
			name:    "completion_last_n_requires_count",
			rule:    Rule{Type: RuleCompletionBased, Params: Params{Metric: MetricAverageOfLastN, Threshold: &zero}},
			wantErr: true,
		},
		{
			name:    "completion_last_n_with_count",
			rule:    Rule{Type: RuleCompletionBased, Params: Params{Metric: MetricAverageOfLastN, Count: &count, Threshold: &zero}},
			wantErr: false,
		},
		{
			name:    "prerequisite_threshold_missing",
			rule:    Rule{Type: RulePrerequisite, Params: Params{RequiredChapters: []string{"ch1"}}},
			wantErr: true,
		},
		{
			name:    "sequential_no_required_fields",
			rule:    Rule{Type: RuleSequential},
			wantErr: false,
		},
		{
			name:    "unknown_type",
			rule:    Rule{Type: RuleType("mystery")},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRule(tc.rule)
			if tc.wantErr && err == nil {
				t.Fatalf("ValidateRule(%+v) = nil, want error", tc.rule)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("ValidateRule(%+v) = %v, want nil", tc.rule, err)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestValidateRuleSetRejectsEmpty(t *testing.T) {
	if err := ValidateRuleSet(nil); err == nil {
		t.Fatalf("empty rule set must be invalid for submission")
	}
	if err := ValidateRuleSet([]Rule{{Type: RuleSequential}}); err != nil {
		t.Fatalf("single valid rule rejected: %v", err)
	}
}
