package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"homevault/internal/bootstrap"
	"homevault/internal/credentials"
	"homevault/internal/models"
	"homevault/internal/repository"
	"homevault/internal/seed"
	"homevault/internal/utils"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("already a member of this workspace")
	ErrInviteNotFound    = errors.New("no pending invite matches this code")
	ErrMissingContact    = errors.New("an email or phone number is required")
	ErrInvalidRole       = errors.New("invalid role")
)

// inviteCodeAttempts bounds the retry loop for generating a code not already
// used by another workspace
const inviteCodeAttempts = 10

// InviteMemberInput carries the fields needed to invite someone to a workspace
type InviteMemberInput struct {
	Email     string
	Phone     string
	Role      models.Role
	InvitedBy string
}

// WorkspaceService handles workspace business logic on top of the repository.
// It owns onboarding (workspace creation), joining by invite code, and the
// invite lifecycle.
type WorkspaceService struct {
	repo   *repository.WorkspaceRepository
	seed   seed.Provider
	mailer *EmailService
}

// NewWorkspaceService creates a new workspace service. The mailer may be nil
// when invite email delivery is not configured.
func NewWorkspaceService(repo *repository.WorkspaceRepository, seedProvider seed.Provider, mailer *EmailService) *WorkspaceService {
	return &WorkspaceService{
		repo:   repo,
		seed:   seedProvider,
		mailer: mailer,
	}
}

// Load hydrates the repository from the durable store
func (s *WorkspaceService) Load(ctx context.Context) error {
	return s.repo.Load(ctx)
}

// CreateWorkspace builds a new workspace for the creator and persists it.
// The first workspace becomes the default and is selected as active; later
// workspaces are selected only when nothing else is active. The generated
// invite code is checked for uniqueness against the existing collection.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name string, creator bootstrap.Creator) (models.Workspace, error) {
	existing := s.repo.Workspaces()
	isFirst := len(existing) == 0

	var ws models.Workspace
	for attempt := 0; ; attempt++ {
		candidate, err := bootstrap.NewWorkspace(name, creator, isFirst, s.seed)
		if err != nil {
			return models.Workspace{}, fmt.Errorf("failed to create workspace: %w", err)
		}
		if !inviteCodeTaken(existing, candidate.InviteCode) {
			ws = candidate
			break
		}
		if attempt+1 >= inviteCodeAttempts {
			return models.Workspace{}, fmt.Errorf("failed to create workspace: could not generate a unique invite code")
		}
	}

	if err := s.repo.ReplaceAll(ctx, append(existing, ws)); err != nil {
		return ws, fmt.Errorf("failed to persist workspace: %w", err)
	}

	if isFirst || s.repo.Active() == nil {
		if err := s.repo.SelectActive(ctx, ws); err != nil {
			return ws, err
		}
	}

	return ws, nil
}

// SelectWorkspace makes the workspace with the given id the active one
func (s *WorkspaceService) SelectWorkspace(ctx context.Context, id string) (models.Workspace, error) {
	for _, ws := range s.repo.Workspaces() {
		if ws.ID == id {
			if err := s.repo.SelectActive(ctx, ws); err != nil {
				return ws, err
			}
			return ws, nil
		}
	}
	return models.Workspace{}, ErrWorkspaceNotFound
}

// JoinByCode adds the joiner to the workspace matching the invite code.
// Joiners without a role are admitted as viewers.
func (s *WorkspaceService) JoinByCode(ctx context.Context, code string, joiner models.Member) (models.Workspace, error) {
	code = normalizeCode(code)
	if code == "" {
		return models.Workspace{}, ErrInvalidInviteCode
	}

	workspaces := s.repo.Workspaces()
	index := indexByInviteCode(workspaces, code)
	if index == -1 {
		return models.Workspace{}, ErrInvalidInviteCode
	}

	ws := workspaces[index]
	if ws.HasMember(joiner.ID) {
		return models.Workspace{}, ErrAlreadyMember
	}

	if joiner.Role == "" {
		joiner.Role = models.RoleViewer
	}
	if !joiner.Role.Valid() {
		return models.Workspace{}, ErrInvalidRole
	}
	joiner.JoinedAt = time.Now()

	ws.Members = appendMember(ws.Members, joiner)
	workspaces[index] = ws

	if err := s.repo.ReplaceAll(ctx, workspaces); err != nil {
		return ws, fmt.Errorf("failed to persist membership: %w", err)
	}
	return ws, nil
}

// InviteMember records a pending invite on the workspace and, when email
// delivery is configured, sends the invite code to the invitee.
func (s *WorkspaceService) InviteMember(ctx context.Context, workspaceID string, input InviteMemberInput) (models.PendingInvite, error) {
	if !input.Role.Valid() {
		return models.PendingInvite{}, ErrInvalidRole
	}
	if input.Email == "" && input.Phone == "" {
		return models.PendingInvite{}, ErrMissingContact
	}
	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email); err != nil {
			return models.PendingInvite{}, err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhone(input.Phone); err != nil {
			return models.PendingInvite{}, err
		}
	}

	workspaces := s.repo.Workspaces()
	index := indexByID(workspaces, workspaceID)
	if index == -1 {
		return models.PendingInvite{}, ErrWorkspaceNotFound
	}

	ws := workspaces[index]
	invite := models.PendingInvite{
		ID:        credentials.GenerateID(),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      input.Role,
		InvitedBy: input.InvitedBy,
		InvitedAt: time.Now(),
		Status:    models.InviteStatusPending,
		Code:      ws.InviteCode,
	}

	ws.PendingInvites = appendInvite(ws.PendingInvites, invite)
	workspaces[index] = ws

	if err := s.repo.ReplaceAll(ctx, workspaces); err != nil {
		return invite, fmt.Errorf("failed to persist invite: %w", err)
	}

	// Delivery is best effort; the invite is already durable
	if s.mailer != nil && invite.Email != "" {
		if err := s.mailer.SendWorkspaceInvite(ctx, invite.Email, ws.Name, invite.Code); err != nil {
			log.Printf("Failed to send invite email to %s: %v", invite.Email, err)
		}
	}

	return invite, nil
}

// AcceptInvite transitions the matching pending invite to accepted and adds
// the joiner as a member with the invited role.
func (s *WorkspaceService) AcceptInvite(ctx context.Context, code string, joiner models.Member) (models.Workspace, error) {
	code = normalizeCode(code)

	workspaces := s.repo.Workspaces()
	index := indexByInviteCode(workspaces, code)
	if index == -1 {
		return models.Workspace{}, ErrInvalidInviteCode
	}

	ws := workspaces[index]
	if ws.HasMember(joiner.ID) {
		return models.Workspace{}, ErrAlreadyMember
	}

	invites := make([]models.PendingInvite, len(ws.PendingInvites))
	copy(invites, ws.PendingInvites)

	inviteIndex := -1
	for i := range invites {
		if invites[i].Code == code && invites[i].IsPending() {
			inviteIndex = i
			break
		}
	}
	if inviteIndex == -1 {
		return models.Workspace{}, ErrInviteNotFound
	}

	invites[inviteIndex].Status = models.InviteStatusAccepted

	joiner.Role = invites[inviteIndex].Role
	joiner.JoinedAt = time.Now()

	ws.PendingInvites = invites
	ws.Members = appendMember(ws.Members, joiner)
	workspaces[index] = ws

	if err := s.repo.ReplaceAll(ctx, workspaces); err != nil {
		return ws, fmt.Errorf("failed to persist accepted invite: %w", err)
	}
	return ws, nil
}

// ExpirePendingInvites marks pending invites older than maxAge as expired
// across all workspaces. Returns the number of invites expired.
func (s *WorkspaceService) ExpirePendingInvites(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	workspaces := s.repo.Workspaces()

	expired := 0
	for wi := range workspaces {
		if len(workspaces[wi].PendingInvites) == 0 {
			continue
		}

		invites := make([]models.PendingInvite, len(workspaces[wi].PendingInvites))
		copy(invites, workspaces[wi].PendingInvites)

		for i := range invites {
			if invites[i].IsPending() && invites[i].InvitedAt.Before(cutoff) {
				invites[i].Status = models.InviteStatusExpired
				expired++
			}
		}
		workspaces[wi].PendingInvites = invites
	}

	if expired == 0 {
		return 0, nil
	}

	if err := s.repo.ReplaceAll(ctx, workspaces); err != nil {
		return expired, fmt.Errorf("failed to persist expired invites: %w", err)
	}
	return expired, nil
}

// Workspaces returns the current workspace collection
func (s *WorkspaceService) Workspaces() []models.Workspace {
	return s.repo.Workspaces()
}

// ActiveWorkspace returns the active workspace, or nil when none is selected
func (s *WorkspaceService) ActiveWorkspace() *models.Workspace {
	return s.repo.Active()
}

// ShowSwitchPrompt reports whether the user should be asked to pick a workspace
func (s *WorkspaceService) ShowSwitchPrompt() bool {
	return s.repo.ShowSwitchPrompt()
}

// DismissSwitchPrompt clears the switch prompt flag
func (s *WorkspaceService) DismissSwitchPrompt() {
	s.repo.DismissSwitchPrompt()
}

// normalizeCode uppercases and trims an invite code typed by a user
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func inviteCodeTaken(workspaces []models.Workspace, code string) bool {
	return indexByInviteCode(workspaces, code) != -1
}

func indexByInviteCode(workspaces []models.Workspace, code string) int {
	for i := range workspaces {
		if workspaces[i].InviteCode == code {
			return i
		}
	}
	return -1
}

func indexByID(workspaces []models.Workspace, id string) int {
	for i := range workspaces {
		if workspaces[i].ID == id {
			return i
		}
	}
	return -1
}

func appendMember(members []models.Member, member models.Member) []models.Member {
	out := make([]models.Member, len(members), len(members)+1)
	copy(out, members)
	return append(out, member)
}

func appendInvite(invites []models.PendingInvite, invite models.PendingInvite) []models.PendingInvite {
	out := make([]models.PendingInvite, len(invites), len(invites)+1)
	copy(out, invites)
	return append(out, invite)
}
