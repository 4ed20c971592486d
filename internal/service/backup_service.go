package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"homevault/internal/models"
	"homevault/internal/repository"
	"homevault/internal/store"
)

// Snapshot represents a complete backup of the durable store
type Snapshot struct {
	Version           string                `json:"version"`
	ExportedAt        time.Time             `json:"exportedAt"`
	Workspaces        []models.Workspace    `json:"workspaces"`
	ActiveWorkspaceID string                `json:"activeWorkspaceId"`
	FamilyMembers     []models.FamilyMember `json:"familyMembers"`
}

// snapshotVersion is written on export and checked on import
const snapshotVersion = "1.0"

// BackupService exports and imports the persisted collections as a single
// JSON snapshot file. It reads and writes the store directly rather than
// going through the repositories, so it captures exactly what is durable.
type BackupService struct {
	store  store.Store
	prefix string
}

// NewBackupService creates a new backup service
func NewBackupService(s store.Store, prefix string) *BackupService {
	return &BackupService{store: s, prefix: prefix}
}

// Export writes a snapshot of the store to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting store export...")

	snapshot := &Snapshot{
		Version:    snapshotVersion,
		ExportedAt: time.Now(),
	}

	if err := s.readCollection(ctx, repository.WorkspacesKey(s.prefix), &snapshot.Workspaces); err != nil {
		return fmt.Errorf("failed to export workspaces: %w", err)
	}
	if err := s.readCollection(ctx, repository.FamilyMembersKey(s.prefix), &snapshot.FamilyMembers); err != nil {
		return fmt.Errorf("failed to export family members: %w", err)
	}

	activeID, ok, err := s.store.Get(ctx, repository.ActiveWorkspaceKey(s.prefix))
	if err != nil {
		return fmt.Errorf("failed to export active workspace id: %w", err)
	}
	if ok {
		snapshot.ActiveWorkspaceID = activeID
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	log.Printf("Store exported successfully to %s", outputPath)
	log.Printf("Exported: %d workspaces, %d family members",
		len(snapshot.Workspaces), len(snapshot.FamilyMembers))

	return nil
}

// Import restores the store from a snapshot file, overwriting the persisted
// collections it contains.
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting store import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", snapshot.Version)
	}

	log.Printf("Snapshot version: %s, exported at: %s", snapshot.Version, snapshot.ExportedAt)

	if err := s.writeCollection(ctx, repository.WorkspacesKey(s.prefix), snapshot.Workspaces); err != nil {
		return fmt.Errorf("failed to import workspaces: %w", err)
	}
	if err := s.writeCollection(ctx, repository.FamilyMembersKey(s.prefix), snapshot.FamilyMembers); err != nil {
		return fmt.Errorf("failed to import family members: %w", err)
	}

	activeKey := repository.ActiveWorkspaceKey(s.prefix)
	if snapshot.ActiveWorkspaceID != "" {
		if err := s.store.Set(ctx, activeKey, snapshot.ActiveWorkspaceID); err != nil {
			return fmt.Errorf("failed to import active workspace id: %w", err)
		}
	} else {
		if err := s.store.Delete(ctx, activeKey); err != nil {
			return fmt.Errorf("failed to clear active workspace id: %w", err)
		}
	}

	log.Printf("Imported: %d workspaces, %d family members",
		len(snapshot.Workspaces), len(snapshot.FamilyMembers))

	return nil
}

// readCollection decodes the JSON stored under key into out. A missing key
// leaves out untouched.
func (s *BackupService) readCollection(ctx context.Context, key string, out any) error {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *BackupService) writeCollection(ctx context.Context, key string, collection any) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, string(raw))
}
