package tree

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openlms/authoring-backend/internal/types"
)

// fanOutLimit bounds how many provider fetches run at once during a load.
const fanOutLimit = 8

// Load runs the full data-load protocol for this manager's offering:
// resolve the package session, fetch subjects, fan out for modules, then fan
// out for chapter slides, then seed the expansion sets. Every failure mode
// degrades to an empty or partial view; nothing propagates to the caller
// except context cancellation.
//
// Loads are tagged with a monotonic sequence number. A load that finishes
// after a newer one started is discarded wholesale, so a slow stale response
// can never overwrite fresher state.
func (m *Manager) Load(ctx context.Context) error {
	seq := m.loadSeq.Add(1)

	psID, err := m.resolver.GetPackageSessionID(ctx, m.key.CourseID, m.key.SessionID, m.key.LevelID)
	if err != nil {
		m.log.Warn("package session lookup failed, skipping load", "error", err)
		return nil
	}
	if psID == uuid.Nil {
		m.log.Debug("no package session for offering, skipping load", "error", ErrNoPackageSession)
		return nil
	}

	if m.shape == ShapeDirectSlides {
		slides, err := m.structure.GetDirectSlides(ctx, psID)
		if err != nil {
			m.log.Error("direct slide fetch failed", "error", &FetchError{Stage: "direct_slides", Err: err})
			slides = nil
		}
		m.applyDirect(seq, psID, slides)
		return ctx.Err()
	}

	subjects, err := m.structure.GetSubjects(ctx, m.key.CourseID, m.key.SessionID, m.key.LevelID)
	if err != nil {
		m.log.Error("subject fetch failed", "error", &FetchError{Stage: "subjects", Err: err})
		subjects = nil
	}

	// Modules load strictly after subjects, slides strictly after modules.
	moduleMap := m.fetchModuleMap(ctx, subjects, psID)
	slideMap := m.fetchSlideMap(ctx, moduleMap, psID)

	m.apply(seq, psID, subjects, moduleMap, slideMap)
	return ctx.Err()
}

// fetchModuleMap fans out one modules-with-chapters fetch per subject.
// All-or-nothing: a single rejection discards the whole batch and the map
// comes back empty.
func (m *Manager) fetchModuleMap(ctx context.Context, subjects []*types.Subject, psID uuid.UUID) map[uuid.UUID][]*types.ModuleWithChapters {
	out := map[uuid.UUID][]*types.ModuleWithChapters{}
	if len(subjects) == 0 {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	var mu sync.Mutex
	for _, s := range subjects {
		s := s
		g.Go(func() error {
			mods, err := m.structure.GetModulesWithChapters(gctx, s.ID, psID)
			if err != nil {
				return &FetchError{Stage: "modules", Err: err}
			}
			mu.Lock()
			out[s.ID] = mods
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.log.Error("module fan-out failed, discarding batch", "error", err)
		return map[uuid.UUID][]*types.ModuleWithChapters{}
	}
	return out
}

// fetchSlideMap fans out one chapters-with-slides fetch per module across all
// subjects, with the same all-or-nothing policy.
func (m *Manager) fetchSlideMap(ctx context.Context, moduleMap map[uuid.UUID][]*types.ModuleWithChapters, psID uuid.UUID) map[uuid.UUID][]*types.Slide {
	out := map[uuid.UUID][]*types.Slide{}
	var moduleIDs []uuid.UUID
	for _, mods := range moduleMap {
		for _, mwc := range mods {
			if mwc.Module != nil {
				moduleIDs = append(moduleIDs, mwc.Module.ID)
			}
		}
	}
	if len(moduleIDs) == 0 {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	var mu sync.Mutex
	for _, moduleID := range moduleIDs {
		moduleID := moduleID
		g.Go(func() error {
			chapters, err := m.structure.GetChaptersWithSlides(gctx, moduleID, psID)
			if err != nil {
				return &FetchError{Stage: "slides", Err: err}
			}
			mu.Lock()
			for _, cws := range chapters {
				if cws.Chapter != nil {
					out[cws.Chapter.ID] = cws.Slides
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.log.Error("slide fan-out failed, discarding batch", "error", err)
		return map[uuid.UUID][]*types.Slide{}
	}
	return out
}

func (m *Manager) apply(seq int64, psID uuid.UUID, subjects []*types.Subject, moduleMap map[uuid.UUID][]*types.ModuleWithChapters, slideMap map[uuid.UUID][]*types.Slide) bool {
	if seq != m.loadSeq.Load() {
		m.log.Debug("stale load discarded", "seq", seq)
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packageSessionID = psID
	m.subjects = subjects
	m.moduleMap = moduleMap
	m.slideMap = slideMap
	m.directSlides = nil
	if m.defaultExpanded {
		m.expandAllLocked()
	} else {
		m.openSubjects = map[uuid.UUID]struct{}{}
		m.openModules = map[uuid.UUID]struct{}{}
		m.openChapters = map[uuid.UUID]struct{}{}
	}
	return true
}

func (m *Manager) applyDirect(seq int64, psID uuid.UUID, slides []*types.Slide) bool {
	if seq != m.loadSeq.Load() {
		m.log.Debug("stale load discarded", "seq", seq)
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packageSessionID = psID
	m.subjects = nil
	m.moduleMap = map[uuid.UUID][]*types.ModuleWithChapters{}
	m.slideMap = map[uuid.UUID][]*types.Slide{}
	m.directSlides = slides
	return true
}
