package tree

import (
	"testing"

	"github.com/google/uuid"
)

func TestNavigationDrillDownAndBreadcrumbs(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)

	subjectID := uuid.New()
	moduleID := uuid.New()
	chapterID := uuid.New()

	m.EnterSubject(subjectID, "Physics")
	m.EnterModule(moduleID, "Mechanics")
	m.EnterChapter(chapterID, "Kinematics")

	nav := m.Navigation()
	if nav.Level != NavSlides {
		t.Fatalf("level = %q, want %q", nav.Level, NavSlides)
	}
	if len(nav.Trail) != 3 {
		t.Fatalf("trail length = %d, want 3", len(nav.Trail))
	}
	if nav.SubjectID != subjectID || nav.ModuleID != moduleID {
		t.Fatalf("selections = %v/%v, want %v/%v", nav.SubjectID, nav.ModuleID, subjectID, moduleID)
	}
}

func TestBreadcrumbTruncationRestoresSelections(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)

	subjectID := uuid.New()
	moduleID := uuid.New()
	m.EnterSubject(subjectID, "Physics")
	m.EnterModule(moduleID, "Mechanics")
	m.EnterChapter(uuid.New(), "Kinematics")

	m.GoToBreadcrumb(0) // back to the subject's module list
	nav := m.Navigation()
	if nav.Level != NavModules {
		t.Fatalf("level = %q, want %q", nav.Level, NavModules)
	}
	if len(nav.Trail) != 1 {
		t.Fatalf("trail length = %d, want 1 (later crumbs truncated)", len(nav.Trail))
	}
	if nav.SubjectID != subjectID {
		t.Fatalf("subject selection lost: %v", nav.SubjectID)
	}
	if nav.ModuleID != uuid.Nil {
		t.Fatalf("module selection must clear when its crumb is truncated")
	}
}

func TestBreadcrumbOutOfRangeIsNoop(t *testing.T) {
	fb := newFakeBackend(1, 1, 1)
	m := newTestManager(fb, ShapeFullHierarchy)
	m.EnterSubject(uuid.New(), "Physics")

	m.GoToBreadcrumb(5)
	m.GoToBreadcrumb(-1)
	nav := m.Navigation()
	if len(nav.Trail) != 1 || nav.Level != NavModules {
		t.Fatalf("out-of-range breadcrumb changed state: %+v", nav)
	}
}

func TestFourLevelShapeHasNoSubjectSelection(t *testing.T) {
	fb := newFakeBackend(1, 2, 1)
	m := newTestManager(fb, ShapeSingleSubjectWithModules)

	if nav := m.Navigation(); nav.Level != NavModules {
		t.Fatalf("4-level root level = %q, want %q", nav.Level, NavModules)
	}

	moduleID := uuid.New()
	m.EnterModule(moduleID, "Mechanics")
	m.EnterChapter(uuid.New(), "Kinematics")

	m.GoToBreadcrumb(0)
	nav := m.Navigation()
	if nav.Level != NavChapters || nav.ModuleID != moduleID {
		t.Fatalf("module crumb navigation broken: %+v", nav)
	}
	if nav.SubjectID != uuid.Nil {
		t.Fatalf("4-level course must never hold a subject selection, got %v", nav.SubjectID)
	}
}

func TestResetNavigationClearsEverything(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		root  NavLevel
	}{
		{name: "full_hierarchy", shape: ShapeFullHierarchy, root: NavSubjects},
		{name: "single_subject_with_modules", shape: ShapeSingleSubjectWithModules, root: NavModules},
		{name: "single_subject_flat", shape: ShapeSingleSubjectFlat, root: NavChapters},
		{name: "direct_slides", shape: ShapeDirectSlides, root: NavSlides},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBackend(1, 1, 1)
			m := newTestManager(fb, tc.shape)
			m.EnterModule(uuid.New(), "Mechanics")
			m.EnterChapter(uuid.New(), "Kinematics")

			m.ResetNavigation()
			nav := m.Navigation()
			if nav.Level != tc.root {
				t.Fatalf("root level = %q, want %q", nav.Level, tc.root)
			}
			if nav.SubjectID != uuid.Nil || nav.ModuleID != uuid.Nil || len(nav.Trail) != 0 {
				t.Fatalf("reset left residual state: %+v", nav)
			}
		})
	}
}
