package tree

import "github.com/google/uuid"

// NavLevel is the folder-view drill-down position.
type NavLevel string

const (
	NavSubjects NavLevel = "subjects"
	NavModules  NavLevel = "modules"
	NavChapters NavLevel = "chapters"
	NavSlides   NavLevel = "slides"
)

// Breadcrumb records one drill-down step. Level is the level the click
// navigated into; ID is the node that was clicked.
type Breadcrumb struct {
	Level NavLevel  `json:"level"`
	Name  string    `json:"name"`
	ID    uuid.UUID `json:"id"`
}

type navState struct {
	level     NavLevel
	subjectID uuid.UUID
	moduleID  uuid.UUID
	trail     []Breadcrumb
}

// NavSnapshot is the externally visible navigation state.
type NavSnapshot struct {
	Level     NavLevel     `json:"level"`
	SubjectID uuid.UUID    `json:"subject_id,omitempty"`
	ModuleID  uuid.UUID    `json:"module_id,omitempty"`
	Trail     []Breadcrumb `json:"trail"`
}

// EnterSubject drills into a subject, pushing a breadcrumb and landing on
// its module list.
func (m *Manager) EnterSubject(id uuid.UUID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav.subjectID = id
	m.nav.level = NavModules
	m.nav.trail = append(m.nav.trail, Breadcrumb{Level: NavModules, Name: name, ID: id})
}

func (m *Manager) EnterModule(id uuid.UUID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav.moduleID = id
	m.nav.level = NavChapters
	m.nav.trail = append(m.nav.trail, Breadcrumb{Level: NavChapters, Name: name, ID: id})
}

func (m *Manager) EnterChapter(id uuid.UUID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav.level = NavSlides
	m.nav.trail = append(m.nav.trail, Breadcrumb{Level: NavSlides, Name: name, ID: id})
}

// GoToBreadcrumb navigates back to an earlier trail entry, truncating
// everything after it and re-deriving the subject/module selections from the
// crumbs that remain. A 4-level course has no subject-selection state, so
// dropping the module crumb there simply clears the module selection instead
// of falling back to a subject.
func (m *Manager) GoToBreadcrumb(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.nav.trail) {
		return
	}
	m.nav.trail = m.nav.trail[:index+1]
	m.nav.level = m.nav.trail[index].Level
	m.recomputeSelectionsLocked()
}

// ResetNavigation returns the folder view to its root: level, subject
// selection, module selection and trail clear together.
func (m *Manager) ResetNavigation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav = navState{level: m.shape.rootNavLevel()}
}

func (m *Manager) recomputeSelectionsLocked() {
	m.nav.subjectID = uuid.Nil
	m.nav.moduleID = uuid.Nil
	for _, crumb := range m.nav.trail {
		switch crumb.Level {
		case NavModules:
			if m.shape.HasSubjectSelection() {
				m.nav.subjectID = crumb.ID
			}
		case NavChapters:
			m.nav.moduleID = crumb.ID
		}
	}
}

func (m *Manager) Navigation() NavSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	trail := make([]Breadcrumb, len(m.nav.trail))
	copy(trail, m.nav.trail)
	return NavSnapshot{
		Level:     m.nav.level,
		SubjectID: m.nav.subjectID,
		ModuleID:  m.nav.moduleID,
		Trail:     trail,
	}
}
