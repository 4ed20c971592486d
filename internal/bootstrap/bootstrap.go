// Package bootstrap constructs new workspace values for onboarding flows.
// Construction is side-effect free: nothing is persisted here, the result is
// handed to the workspace repository by the caller.
package bootstrap

import (
	"errors"
	"strings"
	"time"

	"homevault/internal/credentials"
	"homevault/internal/models"
	"homevault/internal/seed"
)

// ErrEmptyName is returned when a workspace name is missing
var ErrEmptyName = errors.New("workspace name is required")

// Creator identifies the signed-in user creating the workspace
type Creator struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	AvatarURL string
}

// NewWorkspace builds a workspace with the creator as its sole admin member.
//
// The first workspace a user creates (isFirst) becomes their default. For
// subsequent workspaces the seed provider's demo collaborators and sample
// invite are added; production deployments pass seed.Empty{} and get a
// single-member workspace either way.
func NewWorkspace(name string, creator Creator, isFirst bool, seedProvider seed.Provider) (models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Workspace{}, ErrEmptyName
	}

	inviteCode, err := credentials.GenerateInviteCode()
	if err != nil {
		return models.Workspace{}, err
	}

	now := time.Now()
	ws := models.Workspace{
		ID:         credentials.GenerateID(),
		Name:       name,
		CreatedBy:  creator.ID,
		CreatedAt:  now,
		InviteCode: inviteCode,
		IsDefault:  isFirst,
		Members: []models.Member{
			{
				ID:        creator.ID,
				Name:      creator.Name,
				Email:     creator.Email,
				Phone:     creator.Phone,
				Role:      models.RoleAdmin,
				JoinedAt:  now,
				AvatarURL: creator.AvatarURL,
			},
		},
	}

	if isFirst {
		return ws, nil
	}

	ws.Members = append(ws.Members, seedProvider.DemoCollaborators(now)...)

	if invite := seedProvider.DemoInvite(now); invite != nil {
		invite.ID = credentials.GenerateID()
		invite.Code = ws.InviteCode
		invite.InvitedBy = creator.ID
		invite.InvitedAt = now
		if invite.Status == "" {
			invite.Status = models.InviteStatusPending
		}
		ws.PendingInvites = append(ws.PendingInvites, *invite)
	}

	return ws, nil
}
