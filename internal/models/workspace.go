package models

import "time"

// Role is a member's permission level within a workspace
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known permission levels
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// InviteStatus tracks the lifecycle of a pending invite
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
)

// Member represents a participant in a workspace
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

// PendingInvite is an outstanding request for someone to join a workspace
type PendingInvite struct {
	ID        string       `json:"id"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Role      Role         `json:"role"`
	InvitedBy string       `json:"invitedBy"`
	InvitedAt time.Time    `json:"invitedAt"`
	Status    InviteStatus `json:"status"`
	Code      string       `json:"code"`
}

// HasContact reports whether the invite carries at least one way to reach the invitee
func (i *PendingInvite) HasContact() bool {
	return i.Email != "" || i.Phone != ""
}

// IsPending reports whether the invite can still be accepted
func (i *PendingInvite) IsPending() bool {
	return i.Status == InviteStatusPending
}

// Workspace is a shared household context containing members and invites.
// Members is ordered by join time; member IDs are unique within a workspace.
type Workspace struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CreatedBy      string          `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	InviteCode     string          `json:"inviteCode"`
	Members        []Member        `json:"members"`
	PendingInvites []PendingInvite `json:"pendingInvites"`
	IsDefault      bool            `json:"isDefault"`
}

// MemberByID returns the member with the given id, or nil if absent
func (w *Workspace) MemberByID(id string) *Member {
	for i := range w.Members {
		if w.Members[i].ID == id {
			return &w.Members[i]
		}
	}
	return nil
}

// HasMember reports whether a member with the given id belongs to the workspace
func (w *Workspace) HasMember(id string) bool {
	return w.MemberByID(id) != nil
}

// InviteByCode returns the first pending invite matching the code, or nil
func (w *Workspace) InviteByCode(code string) *PendingInvite {
	for i := range w.PendingInvites {
		if w.PendingInvites[i].Code == code && w.PendingInvites[i].IsPending() {
			return &w.PendingInvites[i]
		}
	}
	return nil
}
