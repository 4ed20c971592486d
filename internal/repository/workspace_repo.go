package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"homevault/internal/models"
	"homevault/internal/store"
)

// ErrCorruptData indicates a persisted collection exists but cannot be decoded
var ErrCorruptData = errors.New("persisted collection cannot be decoded")

// WorkspaceRepository owns the set of workspaces the user belongs to and
// which one is active, keeping both durable through the store.
//
// All operations are serialized by an internal mutex, so concurrent callers
// get read-modify-write atomicity within this process. Writes to the store
// are still last-write-wins across processes.
type WorkspaceRepository struct {
	store  store.Store
	prefix string

	mu               sync.Mutex
	workspaces       []models.Workspace
	active           *models.Workspace
	showSwitchPrompt bool
	loaded           bool
}

// NewWorkspaceRepository creates a workspace repository over the given store
func NewWorkspaceRepository(s store.Store, prefix string) *WorkspaceRepository {
	return &WorkspaceRepository{store: s, prefix: prefix}
}

// Load reads the workspace collection and the persisted active-workspace id.
//
// When the collection is absent, in-memory state stays empty; seeding is the
// onboarding flow's job, not Load's. The active workspace is selected by, in
// order: persisted id, IsDefault, first in the collection. With two or more
// workspaces and no persisted id, the switch-prompt flag is raised so the
// caller can ask the user to pick.
//
// Store or decode failures leave the repository in the defined empty state
// and are returned to the caller; they never panic or leave partial state.
func (r *WorkspaceRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workspaces = nil
	r.active = nil
	r.showSwitchPrompt = false
	r.loaded = true

	raw, ok, err := r.store.Get(ctx, storeKey(r.prefix, keyWorkspaces))
	if err != nil {
		return fmt.Errorf("failed to load workspaces: %w", err)
	}
	if !ok {
		return nil
	}

	var workspaces []models.Workspace
	if err := json.Unmarshal([]byte(raw), &workspaces); err != nil {
		return fmt.Errorf("failed to load workspaces: %w: %v", ErrCorruptData, err)
	}
	r.workspaces = workspaces

	activeID, hasActiveID, err := r.store.Get(ctx, storeKey(r.prefix, keyActiveWorkspace))
	if err != nil {
		// A missing active id is recoverable; fall back to default selection
		// but report the degraded read.
		r.active = r.selectFallback("")
		r.showSwitchPrompt = len(r.workspaces) > 1
		return fmt.Errorf("failed to load active workspace id: %w", err)
	}

	if hasActiveID {
		r.active = r.selectFallback(activeID)
		return nil
	}

	r.active = r.selectFallback("")
	r.showSwitchPrompt = len(r.workspaces) > 1
	return nil
}

// selectFallback picks the active workspace: id match, then IsDefault, then
// the first workspace. Returns nil for an empty collection. Caller holds the lock.
func (r *WorkspaceRepository) selectFallback(activeID string) *models.Workspace {
	if activeID != "" {
		for i := range r.workspaces {
			if r.workspaces[i].ID == activeID {
				ws := r.workspaces[i]
				return &ws
			}
		}
	}

	for i := range r.workspaces {
		if r.workspaces[i].IsDefault {
			ws := r.workspaces[i]
			return &ws
		}
	}

	if len(r.workspaces) > 0 {
		ws := r.workspaces[0]
		return &ws
	}

	return nil
}

// SelectActive makes the given workspace the active one and persists its id.
// The in-memory pointer is updated even when the durable write fails, so a
// later restart may revert to the previously persisted selection; the write
// error is returned so callers can surface it.
func (r *WorkspaceRepository) SelectActive(ctx context.Context, ws models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	selected := ws
	r.active = &selected
	r.showSwitchPrompt = false

	if err := r.store.Set(ctx, storeKey(r.prefix, keyActiveWorkspace), ws.ID); err != nil {
		return fmt.Errorf("failed to persist active workspace: %w", err)
	}
	return nil
}

// ReplaceAll replaces the entire workspace collection and persists it.
//
// The active pointer is refreshed to the (possibly mutated) record carrying
// the same id. When the active workspace's id is no longer present in the
// new collection, the active workspace is reselected using the same fallback
// order as Load and the new selection is persisted.
//
// In-memory state is updated even when the durable write fails; the error is
// returned so callers can decide whether to surface it.
func (r *WorkspaceRepository) ReplaceAll(ctx context.Context, workspaces []models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	encoded, err := json.Marshal(workspaces)
	if err != nil {
		return fmt.Errorf("failed to encode workspaces: %w", err)
	}
	if err := r.store.Set(ctx, storeKey(r.prefix, keyWorkspaces), string(encoded)); err != nil {
		errs = append(errs, fmt.Errorf("failed to persist workspaces: %w", err))
	}

	r.workspaces = workspaces

	previousID := ""
	if r.active != nil {
		previousID = r.active.ID
	}

	r.active = r.selectFallback(previousID)

	// Re-persist the active id when the previous selection disappeared
	if previousID != "" && (r.active == nil || r.active.ID != previousID) {
		newID := ""
		if r.active != nil {
			newID = r.active.ID
		}
		if newID != "" {
			if err := r.store.Set(ctx, storeKey(r.prefix, keyActiveWorkspace), newID); err != nil {
				errs = append(errs, fmt.Errorf("failed to persist reselected active workspace: %w", err))
			}
		} else {
			if err := r.store.Delete(ctx, storeKey(r.prefix, keyActiveWorkspace)); err != nil {
				errs = append(errs, fmt.Errorf("failed to clear active workspace: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

// DismissSwitchPrompt clears the prompt-user-to-switch flag
func (r *WorkspaceRepository) DismissSwitchPrompt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showSwitchPrompt = false
}

// Workspaces returns a copy of the current workspace collection
func (r *WorkspaceRepository) Workspaces() []models.Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Workspace, len(r.workspaces))
	copy(out, r.workspaces)
	return out
}

// Active returns a copy of the active workspace, or nil when none is selected
func (r *WorkspaceRepository) Active() *models.Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil
	}
	ws := *r.active
	return &ws
}

// ShowSwitchPrompt reports whether the caller should prompt the user to pick
// a workspace
func (r *WorkspaceRepository) ShowSwitchPrompt() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showSwitchPrompt
}

// Loaded reports whether Load has completed at least once
func (r *WorkspaceRepository) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}
