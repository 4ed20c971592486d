package handlers

import (
	"errors"
	"net/http"

	"homevault/internal/bootstrap"
	"homevault/internal/models"
	"homevault/internal/service"
)

// WorkspaceHandler exposes workspace membership over the JSON API
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// workspaceListResponse is the payload for GET /api/workspaces
type workspaceListResponse struct {
	Workspaces        []models.Workspace `json:"workspaces"`
	ActiveWorkspaceID string             `json:"activeWorkspaceId,omitempty"`
	ShowSwitchPrompt  bool               `json:"showSwitchPrompt"`
}

type createWorkspaceRequest struct {
	Name    string `json:"name"`
	Creator struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"creator"`
}

type joinWorkspaceRequest struct {
	Code   string        `json:"code"`
	Member models.Member `json:"member"`
}

type inviteMemberRequest struct {
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role"`
	InvitedBy string      `json:"invitedBy"`
}

// List returns the workspace collection and selection state
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	resp := workspaceListResponse{
		Workspaces:       h.workspaceService.Workspaces(),
		ShowSwitchPrompt: h.workspaceService.ShowSwitchPrompt(),
	}
	if active := h.workspaceService.ActiveWorkspace(); active != nil {
		resp.ActiveWorkspaceID = active.ID
	}

	respondJSON(w, http.StatusOK, resp)
}

// Create builds a new workspace for the requesting user
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	creator := bootstrap.Creator{
		ID:        req.Creator.ID,
		Name:      req.Creator.Name,
		Email:     req.Creator.Email,
		Phone:     req.Creator.Phone,
		AvatarURL: req.Creator.AvatarURL,
	}

	ws, err := h.workspaceService.CreateWorkspace(r.Context(), req.Name, creator)
	if err != nil {
		if errors.Is(err, bootstrap.ErrEmptyName) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "workspace name is required")
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ws)
}

// Select makes the workspace in the path the active one
func (h *WorkspaceHandler) Select(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaceService.SelectWorkspace(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ws)
}

// DismissSwitchPrompt clears the workspace switch prompt
func (h *WorkspaceHandler) DismissSwitchPrompt(w http.ResponseWriter, r *http.Request) {
	h.workspaceService.DismissSwitchPrompt()
	respondJSON(w, http.StatusOK, map[string]bool{"showSwitchPrompt": false})
}

// Join adds the requesting user to the workspace matching the invite code
func (h *WorkspaceHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinWorkspaceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Member.ID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "member id is required")
		return
	}

	ws, err := h.workspaceService.JoinByCode(r.Context(), req.Code, req.Member)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ws)
}

// Invite records a pending invite on the workspace in the path
func (h *WorkspaceHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteMemberRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	invite, err := h.workspaceService.InviteMember(r.Context(), r.PathValue("id"), service.InviteMemberInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		InvitedBy: req.InvitedBy,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, invite)
}

// AcceptInvite consumes a pending invite and joins the workspace
func (h *WorkspaceHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req joinWorkspaceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Member.ID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "member id is required")
		return
	}

	ws, err := h.workspaceService.AcceptInvite(r.Context(), req.Code, req.Member)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ws)
}
