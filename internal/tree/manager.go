package tree

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/openlms/authoring-backend/internal/drip"
	"github.com/openlms/authoring-backend/internal/logger"
	"github.com/openlms/authoring-backend/internal/types"
)

// Key identifies the offering one manager instance is editing.
type Key struct {
	CourseID  uuid.UUID `json:"course_id"`
	SessionID uuid.UUID `json:"session_id"`
	LevelID   uuid.UUID `json:"level_id"`
}

type Deps struct {
	Log       *logger.Logger
	Structure StructureProvider
	Mutations MutationProvider
	Resolver  SessionResolver
}

// Manager owns the in-memory course structure tree for one editing session:
// the lazily-loaded subject/module/slide maps, the expand/collapse sets, and
// the folder-view navigation state. It is an explicit state object handed to
// callers, never ambient global state. One manager serves one logical editing
// session; the mutex only orders state application against concurrent loads.
type Manager struct {
	log       *logger.Logger
	structure StructureProvider
	mutations MutationProvider
	resolver  SessionResolver

	key   Key
	shape Shape

	// Settings-derived flags, applied before the first load.
	dripEnabled     bool
	defaultExpanded bool

	// loadSeq implements latest-load-wins: results of a load apply only if
	// no newer load started while it was in flight.
	loadSeq atomic.Int64

	mu               sync.Mutex
	packageSessionID uuid.UUID
	subjects         []*types.Subject
	moduleMap        map[uuid.UUID][]*types.ModuleWithChapters
	slideMap         map[uuid.UUID][]*types.Slide
	directSlides     []*types.Slide
	openSubjects     map[uuid.UUID]struct{}
	openModules      map[uuid.UUID]struct{}
	openChapters     map[uuid.UUID]struct{}
	conditions       []drip.Condition
	nav              navState
}

func New(deps Deps, key Key, shape Shape) *Manager {
	m := &Manager{
		log:             deps.Log.With("component", "TreeManager", "course_id", key.CourseID),
		structure:       deps.Structure,
		mutations:       deps.Mutations,
		resolver:        deps.Resolver,
		key:             key,
		shape:           shape,
		defaultExpanded: true,
		moduleMap:       map[uuid.UUID][]*types.ModuleWithChapters{},
		slideMap:        map[uuid.UUID][]*types.Slide{},
		openSubjects:    map[uuid.UUID]struct{}{},
		openModules:     map[uuid.UUID]struct{}{},
		openChapters:    map[uuid.UUID]struct{}{},
	}
	m.nav.level = shape.rootNavLevel()
	return m
}

func (m *Manager) Key() Key     { return m.key }
func (m *Manager) Shape() Shape { return m.shape }

// ApplySettings folds the course-wide settings document into the manager:
// whether drip dialogs open at all, the outline's default expansion state,
// and the current condition list.
func (m *Manager) ApplySettings(s types.CourseSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dripEnabled = s.DripConditions.Enabled
	m.defaultExpanded = s.Outline.DefaultState != types.OutlineDefaultCollapsed
	m.conditions = s.DripConditions.Conditions
}

// SetConditions refreshes the in-memory condition list after a drip save.
// It deliberately does not reload the tree.
func (m *Manager) SetConditions(cs []drip.Condition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conditions = cs
}

func (m *Manager) Conditions() []drip.Condition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]drip.Condition, len(m.conditions))
	copy(out, m.conditions)
	return out
}

// ChapterConditions resolves the effective drip conditions for one chapter
// of this manager's course.
func (m *Manager) ChapterConditions(chapterID uuid.UUID) drip.Effective {
	m.mu.Lock()
	conditions := m.conditions
	m.mu.Unlock()
	return drip.ResolveEffective(m.key.CourseID.String(), chapterID.String(), conditions)
}

// DripDialog is the hand-off payload for opening the drip editing dialog on
// a chapter node.
type DripDialog struct {
	ChapterID   uuid.UUID `json:"chapter_id"`
	ChapterName string    `json:"chapter_name"`
	PackageID   uuid.UUID `json:"package_id"`
}

// OpenDripDialog returns the dialog payload for a chapter, or false when drip
// conditions are disabled course-wide or the chapter is not loaded.
func (m *Manager) OpenDripDialog(chapterID uuid.UUID) (DripDialog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dripEnabled {
		return DripDialog{}, false
	}
	name, ok := m.chapterNameLocked(chapterID)
	if !ok {
		return DripDialog{}, false
	}
	return DripDialog{ChapterID: chapterID, ChapterName: name, PackageID: m.key.CourseID}, true
}

func (m *Manager) chapterNameLocked(chapterID uuid.UUID) (string, bool) {
	for _, mods := range m.moduleMap {
		for _, mwc := range mods {
			for _, ch := range mwc.Chapters {
				if ch.ID == chapterID {
					return ch.Name, true
				}
			}
		}
	}
	return "", false
}

// ToggleSubject flips a subject's membership in the open set.
func (m *Manager) ToggleSubject(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toggle(m.openSubjects, id)
}

func (m *Manager) ToggleModule(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toggle(m.openModules, id)
}

func (m *Manager) ToggleChapter(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toggle(m.openChapters, id)
}

// ExpandAll opens every node currently loaded. Idempotent.
func (m *Manager) ExpandAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expandAllLocked()
}

// CollapseAll closes every node. Idempotent.
func (m *Manager) CollapseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openSubjects = map[uuid.UUID]struct{}{}
	m.openModules = map[uuid.UUID]struct{}{}
	m.openChapters = map[uuid.UUID]struct{}{}
}

func (m *Manager) expandAllLocked() {
	m.openSubjects = map[uuid.UUID]struct{}{}
	m.openModules = map[uuid.UUID]struct{}{}
	m.openChapters = map[uuid.UUID]struct{}{}
	for _, s := range m.subjects {
		m.openSubjects[s.ID] = struct{}{}
	}
	for _, mods := range m.moduleMap {
		for _, mwc := range mods {
			if mwc.Module != nil {
				m.openModules[mwc.Module.ID] = struct{}{}
			}
			for _, ch := range mwc.Chapters {
				m.openChapters[ch.ID] = struct{}{}
			}
		}
	}
}

func toggle(set map[uuid.UUID]struct{}, id uuid.UUID) {
	if _, ok := set[id]; ok {
		delete(set, id)
		return
	}
	set[id] = struct{}{}
}
