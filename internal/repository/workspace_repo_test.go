package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"homevault/internal/models"
	"homevault/internal/store"
)

const testPrefix = "homevault"

func testWorkspace(id, name string, isDefault bool) models.Workspace {
	return models.Workspace{
		ID:         id,
		Name:       name,
		CreatedBy:  "user-1",
		CreatedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		InviteCode: "HV" + id,
		IsDefault:  isDefault,
		Members: []models.Member{
			{ID: "user-1", Name: "Sam", Email: "sam@example.com", Role: models.RoleAdmin},
		},
	}
}

func seedWorkspaces(t *testing.T, s *store.MemoryStore, workspaces []models.Workspace, activeID string) {
	t.Helper()
	ctx := context.Background()

	encoded, err := json.Marshal(workspaces)
	if err != nil {
		t.Fatalf("failed to encode workspaces: %v", err)
	}
	if err := s.Set(ctx, storeKey(testPrefix, keyWorkspaces), string(encoded)); err != nil {
		t.Fatalf("failed to seed workspaces: %v", err)
	}
	if activeID != "" {
		if err := s.Set(ctx, storeKey(testPrefix, keyActiveWorkspace), activeID); err != nil {
			t.Fatalf("failed to seed active id: %v", err)
		}
	}
}

func TestWorkspaceLoadEmptyStore(t *testing.T) {
	repo := NewWorkspaceRepository(store.NewMemoryStore(), testPrefix)

	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := repo.Workspaces(); len(got) != 0 {
		t.Errorf("Workspaces() = %v, want empty", got)
	}
	if repo.Active() != nil {
		t.Error("Active() should be nil on an empty store")
	}
	if repo.ShowSwitchPrompt() {
		t.Error("switch prompt should not be raised on an empty store")
	}
	if !repo.Loaded() {
		t.Error("Loaded() should be true after Load")
	}
}

func TestWorkspaceLoadIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	workspaces := []models.Workspace{
		testWorkspace("ws-1", "Smiths", true),
		testWorkspace("ws-2", "Lake House", false),
	}
	seedWorkspaces(t, s, workspaces, "ws-2")

	repo := NewWorkspaceRepository(s, testPrefix)
	ctx := context.Background()

	if err := repo.Load(ctx); err != nil {
		t.Fatalf("first Load() error: %v", err)
	}
	first := repo.Workspaces()
	firstActive := repo.Active()

	if err := repo.Load(ctx); err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	second := repo.Workspaces()
	secondActive := repo.Active()

	if len(first) != len(second) {
		t.Fatalf("collection size changed between loads: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("workspace %d changed between loads: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
	if firstActive == nil || secondActive == nil || firstActive.ID != secondActive.ID {
		t.Errorf("active workspace changed between loads: %v vs %v", firstActive, secondActive)
	}
	if firstActive.ID != "ws-2" {
		t.Errorf("active = %q, want persisted id ws-2", firstActive.ID)
	}
}

func TestWorkspaceLoadSelectionOrder(t *testing.T) {
	tests := []struct {
		name       string
		workspaces []models.Workspace
		activeID   string
		wantActive string
	}{
		{
			name: "persisted id wins over default",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", true),
				testWorkspace("ws-2", "Lake House", false),
			},
			activeID:   "ws-2",
			wantActive: "ws-2",
		},
		{
			name: "default wins without persisted id",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", false),
				testWorkspace("ws-2", "Lake House", true),
			},
			wantActive: "ws-2",
		},
		{
			name: "first workspace as last resort",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", false),
				testWorkspace("ws-2", "Lake House", false),
			},
			wantActive: "ws-1",
		},
		{
			name: "stale persisted id falls back to default",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", false),
				testWorkspace("ws-2", "Lake House", true),
			},
			activeID:   "ws-gone",
			wantActive: "ws-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			seedWorkspaces(t, s, tt.workspaces, tt.activeID)

			repo := NewWorkspaceRepository(s, testPrefix)
			if err := repo.Load(context.Background()); err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			active := repo.Active()
			if active == nil {
				t.Fatal("Active() = nil, want a workspace")
			}
			if active.ID != tt.wantActive {
				t.Errorf("Active().ID = %q, want %q", active.ID, tt.wantActive)
			}
		})
	}
}

func TestWorkspaceLoadSwitchPrompt(t *testing.T) {
	tests := []struct {
		name       string
		workspaces []models.Workspace
		activeID   string
		want       bool
	}{
		{
			name: "two workspaces without persisted id",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", false),
				testWorkspace("ws-2", "Lake House", false),
			},
			want: true,
		},
		{
			name: "single workspace",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", true),
			},
			want: false,
		},
		{
			name: "two workspaces with persisted id",
			workspaces: []models.Workspace{
				testWorkspace("ws-1", "Smiths", false),
				testWorkspace("ws-2", "Lake House", false),
			},
			activeID: "ws-1",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			seedWorkspaces(t, s, tt.workspaces, tt.activeID)

			repo := NewWorkspaceRepository(s, testPrefix)
			if err := repo.Load(context.Background()); err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			if got := repo.ShowSwitchPrompt(); got != tt.want {
				t.Errorf("ShowSwitchPrompt() = %v, want %v", got, tt.want)
			}

			if tt.want {
				repo.DismissSwitchPrompt()
				if repo.ShowSwitchPrompt() {
					t.Error("prompt should stay dismissed")
				}
			}
		})
	}
}

func TestWorkspaceLoadCorruptData(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	if err := s.Set(ctx, storeKey(testPrefix, keyWorkspaces), "{not json"); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	repo := NewWorkspaceRepository(s, testPrefix)
	err := repo.Load(ctx)
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("Load() error = %v, want ErrCorruptData", err)
	}

	if len(repo.Workspaces()) != 0 {
		t.Error("corrupt data should leave the collection empty")
	}
	if repo.Active() != nil {
		t.Error("corrupt data should leave no active workspace")
	}
}

func TestWorkspaceLoadStoreError(t *testing.T) {
	s := store.NewMemoryStore()
	s.FailReads = true
	s.Err = errors.New("disk unavailable")

	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(context.Background()); err == nil {
		t.Fatal("Load() should report the store error")
	}

	if len(repo.Workspaces()) != 0 {
		t.Error("store failure should leave the collection empty")
	}
	if !repo.Loaded() {
		t.Error("Loaded() should be true even after a failed Load")
	}
}

func TestSelectActivePersists(t *testing.T) {
	s := store.NewMemoryStore()
	workspaces := []models.Workspace{
		testWorkspace("ws-1", "Smiths", true),
		testWorkspace("ws-2", "Lake House", false),
	}
	seedWorkspaces(t, s, workspaces, "")

	ctx := context.Background()
	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := repo.SelectActive(ctx, workspaces[1]); err != nil {
		t.Fatalf("SelectActive() error: %v", err)
	}
	if active := repo.Active(); active == nil || active.ID != "ws-2" {
		t.Fatalf("Active() = %v, want ws-2", active)
	}

	// A fresh repository sees the persisted selection
	fresh := NewWorkspaceRepository(s, testPrefix)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("fresh Load() error: %v", err)
	}
	if active := fresh.Active(); active == nil || active.ID != "ws-2" {
		t.Errorf("persisted active = %v, want ws-2", active)
	}
}

func TestSelectActiveWriteFailureStillUpdatesMemory(t *testing.T) {
	s := store.NewMemoryStore()
	workspaces := []models.Workspace{testWorkspace("ws-1", "Smiths", true)}
	seedWorkspaces(t, s, workspaces, "")

	ctx := context.Background()
	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s.FailWrites = true
	s.Err = errors.New("disk full")

	if err := repo.SelectActive(ctx, workspaces[0]); err == nil {
		t.Fatal("SelectActive() should report the write failure")
	}
	if active := repo.Active(); active == nil || active.ID != "ws-1" {
		t.Errorf("in-memory active should be updated despite the write failure, got %v", active)
	}
}

func TestReplaceAllRefreshesActiveRecord(t *testing.T) {
	s := store.NewMemoryStore()
	workspaces := []models.Workspace{testWorkspace("ws-1", "Smiths", true)}
	seedWorkspaces(t, s, workspaces, "ws-1")

	ctx := context.Background()
	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	renamed := workspaces[0]
	renamed.Name = "The Smiths"
	if err := repo.ReplaceAll(ctx, []models.Workspace{renamed}); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	active := repo.Active()
	if active == nil || active.Name != "The Smiths" {
		t.Errorf("active should point at the mutated record, got %v", active)
	}
}

func TestReplaceAllReselectsWhenActiveRemoved(t *testing.T) {
	s := store.NewMemoryStore()
	w1 := testWorkspace("ws-1", "Smiths", false)
	w2 := testWorkspace("ws-2", "Lake House", false)
	seedWorkspaces(t, s, []models.Workspace{w1, w2}, "ws-1")

	ctx := context.Background()
	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if active := repo.Active(); active == nil || active.ID != "ws-1" {
		t.Fatalf("precondition failed: active = %v, want ws-1", active)
	}

	// Replace with a collection that no longer contains the active workspace
	if err := repo.ReplaceAll(ctx, []models.Workspace{w2}); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	active := repo.Active()
	if active == nil || active.ID != "ws-2" {
		t.Fatalf("active should be reselected via the load fallback order, got %v", active)
	}

	// The reselection is durable
	fresh := NewWorkspaceRepository(s, testPrefix)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("fresh Load() error: %v", err)
	}
	if freshActive := fresh.Active(); freshActive == nil || freshActive.ID != "ws-2" {
		t.Errorf("persisted reselection = %v, want ws-2", freshActive)
	}
}

func TestReplaceAllWithEmptyCollectionClearsActive(t *testing.T) {
	s := store.NewMemoryStore()
	seedWorkspaces(t, s, []models.Workspace{testWorkspace("ws-1", "Smiths", true)}, "ws-1")

	ctx := context.Background()
	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := repo.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	if repo.Active() != nil {
		t.Error("active should be cleared when the collection empties")
	}

	if _, ok, _ := s.Get(ctx, storeKey(testPrefix, keyActiveWorkspace)); ok {
		t.Error("persisted active id should be removed when the collection empties")
	}
}

func TestReplaceAllThenLoadScenario(t *testing.T) {
	// Starting from an empty store, persisting a single default workspace
	// and reloading selects it without prompting.
	s := store.NewMemoryStore()
	ctx := context.Background()

	repo := NewWorkspaceRepository(s, testPrefix)
	if err := repo.Load(ctx); err != nil {
		t.Fatalf("initial Load() error: %v", err)
	}

	ws := testWorkspace("ws-new", "Smiths", true)
	if err := repo.ReplaceAll(ctx, []models.Workspace{ws}); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	fresh := NewWorkspaceRepository(s, testPrefix)
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load() after persist error: %v", err)
	}

	got := fresh.Workspaces()
	if len(got) != 1 || got[0].ID != "ws-new" {
		t.Fatalf("Workspaces() = %v, want [ws-new]", got)
	}
	if active := fresh.Active(); active == nil || active.ID != "ws-new" {
		t.Errorf("Active() = %v, want ws-new (selected via IsDefault)", active)
	}
	if fresh.ShowSwitchPrompt() {
		t.Error("a single workspace should not raise the switch prompt")
	}
}
