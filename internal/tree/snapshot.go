package tree

import (
	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/types"
)

// Snapshot is a read-only copy of the manager's current view state, shaped
// for the outline and folder views.
type Snapshot struct {
	Key              Key                                       `json:"key"`
	Shape            Shape                                     `json:"shape"`
	PackageSessionID uuid.UUID                                 `json:"package_session_id"`
	Subjects         []*types.Subject                          `json:"subjects"`
	Modules          map[uuid.UUID][]*types.ModuleWithChapters `json:"modules"`
	Slides           map[uuid.UUID][]*types.Slide              `json:"slides"`
	DirectSlides     []*types.Slide                            `json:"direct_slides,omitempty"`
	OpenSubjects     []uuid.UUID                               `json:"open_subjects"`
	OpenModules      []uuid.UUID                               `json:"open_modules"`
	OpenChapters     []uuid.UUID                               `json:"open_chapters"`
	DripEnabled      bool                                      `json:"drip_enabled"`
	Nav              NavSnapshot                               `json:"nav"`
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	modules := make(map[uuid.UUID][]*types.ModuleWithChapters, len(m.moduleMap))
	for k, v := range m.moduleMap {
		modules[k] = v
	}
	slides := make(map[uuid.UUID][]*types.Slide, len(m.slideMap))
	for k, v := range m.slideMap {
		slides[k] = v
	}
	trail := make([]Breadcrumb, len(m.nav.trail))
	copy(trail, m.nav.trail)

	return Snapshot{
		Key:              m.key,
		Shape:            m.shape,
		PackageSessionID: m.packageSessionID,
		Subjects:         m.subjects,
		Modules:          modules,
		Slides:           slides,
		DirectSlides:     m.directSlides,
		OpenSubjects:     setToSlice(m.openSubjects),
		OpenModules:      setToSlice(m.openModules),
		OpenChapters:     setToSlice(m.openChapters),
		DripEnabled:      m.dripEnabled,
		Nav: NavSnapshot{
			Level:     m.nav.level,
			SubjectID: m.nav.subjectID,
			ModuleID:  m.nav.moduleID,
			Trail:     trail,
		},
	}
}

func setToSlice(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
