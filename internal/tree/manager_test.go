package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/drip"
	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

// fakeBackend implements StructureProvider, MutationProvider and
// SessionResolver over an in-memory store.
type fakeBackend struct {
	mu sync.Mutex

	psID             uuid.UUID
	subjects         []*types.Subject
	modulesBySubject map[uuid.UUID][]*types.ModuleWithChapters
	slidesByModule   map[uuid.UUID][]*types.ChapterWithSlides
	directSlides     []*types.Slide

	failModulesFor uuid.UUID
	failSlides     bool
	mutationErr    error

	subjectCalls   int
	beforeSubjects func(call int)
}

func newFakeBackend(nSubjects, modsPerSubject, chaptersPerModule int) *fakeBackend {
	fb := &fakeBackend{
		psID:             uuid.New(),
		modulesBySubject: map[uuid.UUID][]*types.ModuleWithChapters{},
		slidesByModule:   map[uuid.UUID][]*types.ChapterWithSlides{},
	}
	for i := 0; i < nSubjects; i++ {
		subj := &types.Subject{ID: uuid.New(), Name: fmt.Sprintf("Subject %d", i+1), Index: i}
		fb.subjects = append(fb.subjects, subj)
		for j := 0; j < modsPerSubject; j++ {
			mod := &types.Module{ID: uuid.New(), SubjectID: subj.ID, Name: fmt.Sprintf("Module %d.%d", i+1, j+1), Index: j}
			mwc := &types.ModuleWithChapters{Module: mod}
			for k := 0; k < chaptersPerModule; k++ {
				ch := &types.Chapter{ID: uuid.New(), ModuleID: mod.ID, Name: fmt.Sprintf("Chapter %d.%d.%d", i+1, j+1, k+1), Index: k}
				mwc.Chapters = append(mwc.Chapters, ch)
				chID := ch.ID
				fb.slidesByModule[mod.ID] = append(fb.slidesByModule[mod.ID], &types.ChapterWithSlides{
					Chapter: ch,
					Slides:  []*types.Slide{{ID: uuid.New(), ChapterID: &chID, Name: "Slide 1"}},
				})
			}
			fb.modulesBySubject[subj.ID] = append(fb.modulesBySubject[subj.ID], mwc)
		}
	}
	return fb
}

func (fb *fakeBackend) GetPackageSessionID(ctx context.Context, courseID, sessionID, levelID uuid.UUID) (uuid.UUID, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.psID, nil
}

func (fb *fakeBackend) GetSubjects(ctx context.Context, courseID, sessionID, levelID uuid.UUID) ([]*types.Subject, error) {
	fb.mu.Lock()
	fb.subjectCalls++
	call := fb.subjectCalls
	cb := fb.beforeSubjects
	out := make([]*types.Subject, len(fb.subjects))
	copy(out, fb.subjects)
	fb.mu.Unlock()
	if cb != nil {
		cb(call)
	}
	return out, nil
}

func (fb *fakeBackend) GetModulesWithChapters(ctx context.Context, subjectID, packageSessionID uuid.UUID) ([]*types.ModuleWithChapters, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.failModulesFor == subjectID {
		return nil, errors.New("backend unavailable")
	}
	return fb.modulesBySubject[subjectID], nil
}

func (fb *fakeBackend) GetChaptersWithSlides(ctx context.Context, moduleID, packageSessionID uuid.UUID) ([]*types.ChapterWithSlides, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.failSlides {
		return nil, errors.New("backend unavailable")
	}
	return fb.slidesByModule[moduleID], nil
}

func (fb *fakeBackend) GetDirectSlides(ctx context.Context, packageSessionID uuid.UUID) ([]*types.Slide, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.directSlides, nil
}

func (fb *fakeBackend) CreateSubject(ctx context.Context, req types.CreateSubjectRequest) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mutationErr != nil {
		return fb.mutationErr
	}
	fb.subjects = append(fb.subjects, &types.Subject{ID: uuid.New(), Name: req.Name, Index: req.Index})
	return nil
}

func (fb *fakeBackend) UpdateSubject(ctx context.Context, req types.UpdateSubjectRequest) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mutationErr != nil {
		return fb.mutationErr
	}
	for _, s := range fb.subjects {
		if s.ID == req.SubjectID {
			s.Name = req.Name
		}
	}
	return nil
}

func (fb *fakeBackend) DeleteSubject(ctx context.Context, req types.DeleteSubjectRequest) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mutationErr != nil {
		return fb.mutationErr
	}
	kept := fb.subjects[:0]
	for _, s := range fb.subjects {
		if s.ID != req.SubjectID {
			kept = append(kept, s)
		}
	}
	fb.subjects = kept
	delete(fb.modulesBySubject, req.SubjectID)
	return nil
}

func (fb *fakeBackend) CreateModule(ctx context.Context, req types.CreateModuleRequest) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.mutationErr != nil {
		return fb.mutationErr
	}
	mod := &types.Module{ID: uuid.New(), SubjectID: req.SubjectID, Name: req.Name, Index: req.Index}
	fb.modulesBySubject[req.SubjectID] = append(fb.modulesBySubject[req.SubjectID], &types.ModuleWithChapters{Module: mod})
	return nil
}

func (fb *fakeBackend) UpdateModule(ctx context.Context, req types.UpdateModuleRequest) error {
	return fb.mutationErr
}

func (fb *fakeBackend) DeleteModule(ctx context.Context, req types.DeleteModuleRequest) error {
	return fb.mutationErr
}

func (fb *fakeBackend) CreateChapter(ctx context.Context, req types.CreateChapterRequest) error {
	return fb.mutationErr
}

func (fb *fakeBackend) UpdateChapter(ctx context.Context, req types.UpdateChapterRequest) error {
	return fb.mutationErr
}

func (fb *fakeBackend) DeleteChapter(ctx context.Context, req types.DeleteChapterRequest) error {
	return fb.mutationErr
}

func newTestManager(fb *fakeBackend, shape Shape) *Manager {
	deps := Deps{
		Log:       logger.NewNop(),
		Structure: fb,
		Mutations: fb,
		Resolver:  fb,
	}
	return New(deps, Key{CourseID: uuid.New(), SessionID: uuid.New(), LevelID: uuid.New()}, shape)
}

func TestShapeForDepth(t *testing.T) {
	cases := []struct {
		depth   int
		want    Shape
		wantErr bool
	}{
		{depth: 2, want: ShapeDirectSlides},
		{depth: 3, want: ShapeSingleSubjectFlat},
		{depth: 4, want: ShapeSingleSubjectWithModules},
		{depth: 5, want: ShapeFullHierarchy},
		{depth: 1, wantErr: true},
		{depth: 6, wantErr: true},
	}
	for _, tc := range cases {
		got, err := ShapeForDepth(tc.depth)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ShapeForDepth(%d) = %q, want error", tc.depth, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ShapeForDepth(%d) = %q, %v, want %q", tc.depth, got, err, tc.want)
		}
	}
}

func TestLoadSeedsExpansionSets(t *testing.T) {
	fb := newFakeBackend(2, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Subjects) != 2 {
		t.Fatalf("subjects = %d, want 2", len(snap.Subjects))
	}
	if got := len(snap.OpenSubjects); got != 2 {
		t.Fatalf("open subjects = %d, want 2", got)
	}
	if got := len(snap.OpenModules); got != 2 {
		t.Fatalf("open modules = %d, want 2", got)
	}
	if got := len(snap.OpenChapters); got != 2 {
		t.Fatalf("open chapters = %d, want 2", got)
	}

	// Deleting a subject reloads; the sets shrink to the survivor's tree.
	victim := snap.Subjects[0].ID
	err := m.DeleteSubject(context.Background(), types.DeleteSubjectRequest{
		SubjectID:         victim,
		PackageSessionIDs: []uuid.UUID{fb.psID},
	})
	if err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	snap = m.Snapshot()
	if len(snap.OpenSubjects) != 1 || len(snap.OpenModules) != 1 || len(snap.OpenChapters) != 1 {
		t.Fatalf("open sets after delete = %d/%d/%d, want 1/1/1",
			len(snap.OpenSubjects), len(snap.OpenModules), len(snap.OpenChapters))
	}
	if snap.OpenSubjects[0] == victim {
		t.Fatalf("open set still references the deleted subject")
	}
}

func TestLoadDefaultCollapsedOverride(t *testing.T) {
	fb := newFakeBackend(2, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)
	settings := types.DefaultCourseSettings()
	settings.Outline.DefaultState = types.OutlineDefaultCollapsed
	m.ApplySettings(settings)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.OpenSubjects)+len(snap.OpenModules)+len(snap.OpenChapters) != 0 {
		t.Fatalf("collapsed default must seed empty open sets, got %d/%d/%d",
			len(snap.OpenSubjects), len(snap.OpenModules), len(snap.OpenChapters))
	}
}

func TestLoadModuleFanOutAllOrNothing(t *testing.T) {
	fb := newFakeBackend(3, 2, 1)
	fb.failModulesFor = fb.subjects[1].ID
	m := newTestManager(fb, ShapeFullHierarchy)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Subjects) != 3 {
		t.Fatalf("subjects = %d, want 3 (subjects load independently)", len(snap.Subjects))
	}
	if len(snap.Modules) != 0 {
		t.Fatalf("one failed fetch must discard the whole module batch, got %d entries", len(snap.Modules))
	}
	if len(snap.Slides) != 0 {
		t.Fatalf("slide map must be empty when the module map is, got %d entries", len(snap.Slides))
	}
}

func TestLoadSlideFanOutAllOrNothing(t *testing.T) {
	fb := newFakeBackend(2, 2, 2)
	fb.failSlides = true
	m := newTestManager(fb, ShapeFullHierarchy)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Modules) != 2 {
		t.Fatalf("module map = %d entries, want 2", len(snap.Modules))
	}
	if len(snap.Slides) != 0 {
		t.Fatalf("slide map must reset to empty on fan-out failure, got %d entries", len(snap.Slides))
	}
}

func TestLoadSkipsWithoutPackageSession(t *testing.T) {
	fb := newFakeBackend(2, 1, 1)
	fb.psID = uuid.Nil
	m := newTestManager(fb, ShapeFullHierarchy)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load must no-op, not fail: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Subjects) != 0 || snap.PackageSessionID != uuid.Nil {
		t.Fatalf("load without a package session must leave the tree empty: %+v", snap)
	}
}

func TestLoadDirectSlidesShape(t *testing.T) {
	fb := newFakeBackend(0, 0, 0)
	fb.directSlides = []*types.Slide{
		{ID: uuid.New(), Name: "Intro", PackageSessionID: &fb.psID},
		{ID: uuid.New(), Name: "Basics", PackageSessionID: &fb.psID},
	}
	m := newTestManager(fb, ShapeDirectSlides)

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.DirectSlides) != 2 {
		t.Fatalf("direct slides = %d, want 2", len(snap.DirectSlides))
	}
	if fb.subjectCalls != 0 {
		t.Fatalf("direct-slide course must not fetch subjects, got %d calls", fb.subjectCalls)
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)

	started := make(chan struct{})
	release := make(chan struct{})
	fb.mu.Lock()
	fb.beforeSubjects = func(call int) {
		if call == 1 {
			close(started)
			<-release
		}
	}
	fb.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = m.Load(context.Background()) // stale load, blocks on the gate
		close(done)
	}()
	<-started

	// The store changes and a newer load completes while the first hangs.
	fresh := &types.Subject{ID: uuid.New(), Name: "Fresh Subject"}
	fb.mu.Lock()
	fb.subjects = []*types.Subject{fresh}
	fb.mu.Unlock()
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	close(release)
	<-done

	snap := m.Snapshot()
	if len(snap.Subjects) != 1 || snap.Subjects[0].ID != fresh.ID {
		t.Fatalf("stale load overwrote fresher state: %+v", snap.Subjects)
	}
}

func TestMutationFailureLeavesStateUntouched(t *testing.T) {
	fb := newFakeBackend(2, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := m.Snapshot()
	callsBefore := fb.subjectCalls

	fb.mu.Lock()
	fb.mutationErr = errors.New("server rejected")
	fb.mu.Unlock()

	err := m.CreateSubject(context.Background(), types.CreateSubjectRequest{
		Name:              "New Subject",
		PackageSessionIDs: []uuid.UUID{fb.psID},
	})
	var merr *MutationError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *MutationError", err)
	}
	if fb.subjectCalls != callsBefore {
		t.Fatalf("failed mutation must not trigger a reload")
	}
	after := m.Snapshot()
	if len(after.Subjects) != len(before.Subjects) {
		t.Fatalf("state changed after failed mutation")
	}
}

func TestToggleAndCollapse(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	subjectID := fb.subjects[0].ID

	m.ToggleSubject(subjectID) // seeded open, toggles closed
	if snap := m.Snapshot(); len(snap.OpenSubjects) != 0 {
		t.Fatalf("toggle did not close the subject")
	}
	m.ToggleSubject(subjectID)
	if snap := m.Snapshot(); len(snap.OpenSubjects) != 1 {
		t.Fatalf("toggle did not reopen the subject")
	}

	m.CollapseAll()
	m.CollapseAll() // idempotent
	if snap := m.Snapshot(); len(snap.OpenSubjects)+len(snap.OpenModules)+len(snap.OpenChapters) != 0 {
		t.Fatalf("collapse all left nodes open")
	}
	m.ExpandAll()
	m.ExpandAll()
	snap := m.Snapshot()
	if len(snap.OpenSubjects) != 1 || len(snap.OpenModules) != 1 || len(snap.OpenChapters) != 1 {
		t.Fatalf("expand all = %d/%d/%d, want 1/1/1", len(snap.OpenSubjects), len(snap.OpenModules), len(snap.OpenChapters))
	}
}

func TestDripDialogHandoff(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	chapter := fb.slidesByModule[fb.modulesBySubject[fb.subjects[0].ID][0].Module.ID][0].Chapter

	if _, ok := m.OpenDripDialog(chapter.ID); ok {
		t.Fatalf("dialog must not open while drip conditions are disabled")
	}

	settings := types.DefaultCourseSettings()
	settings.DripConditions.Enabled = true
	m.ApplySettings(settings)

	dialog, ok := m.OpenDripDialog(chapter.ID)
	if !ok {
		t.Fatalf("dialog should open for a loaded chapter")
	}
	if dialog.ChapterName != chapter.Name || dialog.PackageID != m.Key().CourseID {
		t.Fatalf("dialog payload = %+v", dialog)
	}

	if _, ok := m.OpenDripDialog(uuid.New()); ok {
		t.Fatalf("dialog must not open for an unknown chapter")
	}

	// A condition save refreshes the list without reloading the tree.
	callsBefore := fb.subjectCalls
	m.SetConditions([]drip.Condition{{ID: "cond-1", Level: drip.LevelChapter, LevelID: chapter.ID.String(),
		Spec: drip.Spec{Target: drip.TargetChapter, Behavior: drip.BehaviorLock}}})
	if fb.subjectCalls != callsBefore {
		t.Fatalf("condition refresh must not reload the tree")
	}
	eff := m.ChapterConditions(chapter.ID)
	if eff.Source != drip.SourceChapter || len(eff.Conditions) != 1 {
		t.Fatalf("effective conditions = %+v", eff)
	}
}
