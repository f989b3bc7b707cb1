package tree

import (
	"context"

	"github.com/openlms/authoring-backend/internal/types"
)

// Every structural mutation follows the same protocol: issue the external
// write, and on confirmed success re-run the full load rather than patch the
// local caches. The in-memory tree therefore never diverges from server
// state, at the cost of a re-fetch per edit. On failure local state is left
// exactly as it was.
func (m *Manager) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		m.log.Error("structure mutation failed", "op", op, "error", err)
		return &MutationError{Op: op, Err: err}
	}
	return m.Load(ctx)
}

func (m *Manager) CreateSubject(ctx context.Context, req types.CreateSubjectRequest) error {
	return m.mutate(ctx, "create_subject", func(ctx context.Context) error {
		return m.mutations.CreateSubject(ctx, req)
	})
}

func (m *Manager) UpdateSubject(ctx context.Context, req types.UpdateSubjectRequest) error {
	return m.mutate(ctx, "update_subject", func(ctx context.Context) error {
		return m.mutations.UpdateSubject(ctx, req)
	})
}

func (m *Manager) DeleteSubject(ctx context.Context, req types.DeleteSubjectRequest) error {
	return m.mutate(ctx, "delete_subject", func(ctx context.Context) error {
		return m.mutations.DeleteSubject(ctx, req)
	})
}

func (m *Manager) CreateModule(ctx context.Context, req types.CreateModuleRequest) error {
	return m.mutate(ctx, "create_module", func(ctx context.Context) error {
		return m.mutations.CreateModule(ctx, req)
	})
}

func (m *Manager) UpdateModule(ctx context.Context, req types.UpdateModuleRequest) error {
	return m.mutate(ctx, "update_module", func(ctx context.Context) error {
		return m.mutations.UpdateModule(ctx, req)
	})
}

func (m *Manager) DeleteModule(ctx context.Context, req types.DeleteModuleRequest) error {
	return m.mutate(ctx, "delete_module", func(ctx context.Context) error {
		return m.mutations.DeleteModule(ctx, req)
	})
}

func (m *Manager) CreateChapter(ctx context.Context, req types.CreateChapterRequest) error {
	return m.mutate(ctx, "create_chapter", func(ctx context.Context) error {
		return m.mutations.CreateChapter(ctx, req)
	})
}

func (m *Manager) UpdateChapter(ctx context.Context, req types.UpdateChapterRequest) error {
	return m.mutate(ctx, "update_chapter", func(ctx context.Context) error {
		return m.mutations.UpdateChapter(ctx, req)
	})
}

func (m *Manager) DeleteChapter(ctx context.Context, req types.DeleteChapterRequest) error {
	return m.mutate(ctx, "delete_chapter", func(ctx context.Context) error {
		return m.mutations.DeleteChapter(ctx, req)
	})
}
