package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"homevault/internal/credentials"
	"homevault/internal/models"
	"homevault/internal/seed"
	"homevault/internal/store"
)

// UnknownMemberName is returned by DisplayName for ids not in the roster
const UnknownMemberName = "Unknown"

// DisplayNameFormat selects what DisplayName returns for a roster member
type DisplayNameFormat string

const (
	FormatRelationship DisplayNameFormat = "relationship"
	FormatName         DisplayNameFormat = "name"
	FormatBoth         DisplayNameFormat = "both"
)

// AddFamilyMemberInput carries the caller-supplied fields for a new roster
// member. ID, CreatedAt, and the Color/DisplayRelationship defaults are
// assigned by the repository.
type AddFamilyMemberInput struct {
	Name                string
	Relationship        models.Relationship
	DisplayRelationship string
	Avatar              string
	Phone               string
	Email               string
	DateOfBirth         string
	IsMe                bool
	Color               string
}

// FamilyMemberPatch is a shallow-merge update; nil fields are left untouched
type FamilyMemberPatch struct {
	Name                *string
	Relationship        *models.Relationship
	DisplayRelationship *string
	Avatar              *string
	Phone               *string
	Email               *string
	DateOfBirth         *string
	IsMe                *bool
	Color               *string
}

// FamilyRosterRepository owns the household member roster. Every mutation
// persists the whole roster; in-memory state is updated even when the
// durable write fails, so memory can run ahead of the store until the next
// successful write. Operations are serialized by an internal mutex.
type FamilyRosterRepository struct {
	store  store.Store
	prefix string
	seed   seed.Provider

	mu      sync.Mutex
	members []models.FamilyMember
	loaded  bool
}

// NewFamilyRosterRepository creates a roster repository over the given store.
// The seed provider supplies the first-run roster; pass seed.Empty{} to start
// blank.
func NewFamilyRosterRepository(s store.Store, prefix string, seedProvider seed.Provider) *FamilyRosterRepository {
	return &FamilyRosterRepository{store: s, prefix: prefix, seed: seedProvider}
}

// Load reads the roster from the store. An empty store is seeded from the
// seed provider and the seed is persisted immediately. On store or decode
// failure the seed is used in memory only and the error is returned.
func (r *FamilyRosterRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaded = true

	raw, ok, err := r.store.Get(ctx, storeKey(r.prefix, keyFamilyMembers))
	if err != nil {
		r.members = r.seed.DefaultRoster(time.Now())
		return fmt.Errorf("failed to load family roster: %w", err)
	}

	if !ok {
		r.members = r.seed.DefaultRoster(time.Now())
		if err := r.persist(ctx); err != nil {
			return fmt.Errorf("failed to persist seeded roster: %w", err)
		}
		return nil
	}

	var members []models.FamilyMember
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		r.members = r.seed.DefaultRoster(time.Now())
		return fmt.Errorf("failed to load family roster: %w: %v", ErrCorruptData, err)
	}

	r.members = members
	return nil
}

// Add appends a new member with a generated id and creation timestamp.
// Color defaults to the palette entry for the current roster length and
// DisplayRelationship to the relationship's static label.
func (r *FamilyRosterRepository) Add(ctx context.Context, input AddFamilyMemberInput) (models.FamilyMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	member := models.FamilyMember{
		ID:                  credentials.GenerateID(),
		Name:                input.Name,
		Relationship:        input.Relationship,
		DisplayRelationship: input.DisplayRelationship,
		Avatar:              input.Avatar,
		Phone:               input.Phone,
		Email:               input.Email,
		DateOfBirth:         input.DateOfBirth,
		IsMe:                input.IsMe,
		Color:               input.Color,
		CreatedAt:           time.Now(),
	}

	if member.Color == "" {
		member.Color = models.ColorForIndex(len(r.members))
	}
	if member.DisplayRelationship == "" {
		member.DisplayRelationship = input.Relationship.Label()
	}

	r.members = append(r.members, member)

	if err := r.persist(ctx); err != nil {
		return member, fmt.Errorf("failed to persist roster after add: %w", err)
	}
	return member, nil
}

// Update shallow-merges the patch into the member with the given id and
// persists the roster. An unknown id is a no-op reported through the bool.
func (r *FamilyRosterRepository) Update(ctx context.Context, id string, patch FamilyMemberPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := -1
	for i := range r.members {
		if r.members[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return false, nil
	}

	member := &r.members[index]
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.Relationship != nil {
		member.Relationship = *patch.Relationship
	}
	if patch.DisplayRelationship != nil {
		member.DisplayRelationship = *patch.DisplayRelationship
	}
	if patch.Avatar != nil {
		member.Avatar = *patch.Avatar
	}
	if patch.Phone != nil {
		member.Phone = *patch.Phone
	}
	if patch.Email != nil {
		member.Email = *patch.Email
	}
	if patch.DateOfBirth != nil {
		member.DateOfBirth = *patch.DateOfBirth
	}
	if patch.IsMe != nil {
		member.IsMe = *patch.IsMe
	}
	if patch.Color != nil {
		member.Color = *patch.Color
	}

	if err := r.persist(ctx); err != nil {
		return true, fmt.Errorf("failed to persist roster after update: %w", err)
	}
	return true, nil
}

// Remove deletes exactly the member with the given id, preserving order of
// the rest. An unknown id is a no-op reported through the bool.
func (r *FamilyRosterRepository) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := r.members[:0:0]
	removed := false
	for _, member := range r.members {
		if member.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, member)
	}
	if !removed {
		return false, nil
	}

	r.members = filtered

	if err := r.persist(ctx); err != nil {
		return true, fmt.Errorf("failed to persist roster after remove: %w", err)
	}
	return true, nil
}

// GetByID returns a copy of the member with the given id, or nil
func (r *FamilyRosterRepository) GetByID(id string) *models.FamilyMember {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.members {
		if r.members[i].ID == id {
			member := r.members[i]
			return &member
		}
	}
	return nil
}

// DisplayName formats a member's name for display. Unknown ids yield the
// "Unknown" sentinel; an unrecognized format falls back to the relationship
// label, which is also the default.
func (r *FamilyRosterRepository) DisplayName(id string, format DisplayNameFormat) string {
	member := r.GetByID(id)
	if member == nil {
		return UnknownMemberName
	}

	switch format {
	case FormatName:
		return member.Name
	case FormatBoth:
		return member.Name + " (" + member.DisplayRelationship + ")"
	default:
		return member.DisplayRelationship
	}
}

// AllExceptSelf returns the roster without the member flagged as the
// signed-in identity
func (r *FamilyRosterRepository) AllExceptSelf() []models.FamilyMember {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.FamilyMember
	for _, member := range r.members {
		if member.IsMe {
			continue
		}
		out = append(out, member)
	}
	return out
}

// Members returns a copy of the full roster in insertion order
func (r *FamilyRosterRepository) Members() []models.FamilyMember {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.FamilyMember, len(r.members))
	copy(out, r.members)
	return out
}

// Loaded reports whether Load has completed at least once
func (r *FamilyRosterRepository) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// persist writes the whole roster to the store. Caller holds the lock.
func (r *FamilyRosterRepository) persist(ctx context.Context) error {
	encoded, err := json.Marshal(r.members)
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	return r.store.Set(ctx, storeKey(r.prefix, keyFamilyMembers), string(encoded))
}
