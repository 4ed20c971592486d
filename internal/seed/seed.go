// Package seed supplies demonstration fixtures for first-run state.
// Seeding is injected into the repositories and onboarding flow as a
// collaborator so production deployments can swap in an empty provider.
package seed

import (
	"time"

	"homevault/internal/models"
)

// Provider supplies the fixtures used when a collection is first created
type Provider interface {
	// DefaultRoster returns the roster used when no family members are stored yet
	DefaultRoster(now time.Time) []models.FamilyMember

	// DemoCollaborators returns sample workspace members seeded into
	// non-first workspaces during onboarding
	DemoCollaborators(now time.Time) []models.Member

	// DemoInvite returns the sample pending invite seeded alongside the demo
	// collaborators, or nil when none should be created. The onboarding flow
	// fills in the id, code, inviter, and timestamp.
	DemoInvite(now time.Time) *models.PendingInvite
}

// Demo seeds sample household data for the demo build
type Demo struct{}

func (Demo) DefaultRoster(now time.Time) []models.FamilyMember {
	roster := []models.FamilyMember{
		{
			ID:           "demo-member-1",
			Name:         "You",
			Relationship: models.RelationshipSelf,
			IsMe:         true,
		},
		{
			ID:           "demo-member-2",
			Name:         "Jordan",
			Relationship: models.RelationshipSpouse,
		},
		{
			ID:           "demo-member-3",
			Name:         "Riley",
			Relationship: models.RelationshipSon,
		},
		{
			ID:           "demo-member-4",
			Name:         "Maya",
			Relationship: models.RelationshipDaughter,
		},
	}

	for i := range roster {
		roster[i].DisplayRelationship = roster[i].Relationship.Label()
		roster[i].Color = models.ColorForIndex(i)
		roster[i].CreatedAt = now
	}

	return roster
}

func (Demo) DemoCollaborators(now time.Time) []models.Member {
	return []models.Member{
		{
			ID:       "demo-collab-editor",
			Name:     "Jordan Lee",
			Email:    "jordan@example.com",
			Role:     models.RoleEditor,
			JoinedAt: now,
		},
		{
			ID:       "demo-collab-viewer",
			Name:     "Casey Morgan",
			Email:    "casey@example.com",
			Role:     models.RoleViewer,
			JoinedAt: now,
		},
	}
}

func (Demo) DemoInvite(now time.Time) *models.PendingInvite {
	return &models.PendingInvite{
		Email:  "taylor@example.com",
		Role:   models.RoleViewer,
		Status: models.InviteStatusPending,
	}
}

// Empty provides no fixtures; collections start out blank
type Empty struct{}

func (Empty) DefaultRoster(time.Time) []models.FamilyMember { return nil }

func (Empty) DemoCollaborators(time.Time) []models.Member { return nil }

func (Empty) DemoInvite(time.Time) *models.PendingInvite { return nil }
