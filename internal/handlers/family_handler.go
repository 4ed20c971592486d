package handlers

import (
	"net/http"

	"homevault/internal/models"
	"homevault/internal/repository"
	"homevault/internal/service"
)

// FamilyHandler exposes the family roster over the JSON API
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

type addMemberRequest struct {
	Name                string              `json:"name"`
	Relationship        models.Relationship `json:"relationship"`
	DisplayRelationship string              `json:"displayRelationship"`
	Avatar              string              `json:"avatar"`
	Phone               string              `json:"phone"`
	Email               string              `json:"email"`
	DateOfBirth         string              `json:"dateOfBirth"`
	IsMe                bool                `json:"isMe"`
	Color               string              `json:"color"`
}

// updateMemberRequest mirrors the repository patch; absent fields stay nil
// and are left untouched by the shallow merge.
type updateMemberRequest struct {
	Name                *string              `json:"name"`
	Relationship        *models.Relationship `json:"relationship"`
	DisplayRelationship *string              `json:"displayRelationship"`
	Avatar              *string              `json:"avatar"`
	Phone               *string              `json:"phone"`
	Email               *string              `json:"email"`
	DateOfBirth         *string              `json:"dateOfBirth"`
	IsMe                *bool                `json:"isMe"`
	Color               *string              `json:"color"`
}

type memberResponse struct {
	models.FamilyMember
	DisplayName string `json:"displayName"`
}

// List returns the family roster. With ?excludeSelf=true the member marked
// as the user is left out.
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	var members []models.FamilyMember
	if r.URL.Query().Get("excludeSelf") == "true" {
		members = h.familyService.OtherMembers()
	} else {
		members = h.familyService.Members()
	}

	respondJSON(w, http.StatusOK, map[string]any{"members": members})
}

// Get returns a single member with a resolved display name. The format query
// parameter picks the display name style: relationship, name, or both.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	member, err := h.familyService.GetMember(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	format := repository.DisplayNameFormat(r.URL.Query().Get("format"))
	respondJSON(w, http.StatusOK, memberResponse{
		FamilyMember: member,
		DisplayName:  h.familyService.DisplayName(id, format),
	})
}

// Add creates a new roster member
func (h *FamilyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	member, err := h.familyService.AddMember(r.Context(), repository.AddFamilyMemberInput{
		Name:                req.Name,
		Relationship:        req.Relationship,
		DisplayRelationship: req.DisplayRelationship,
		Avatar:              req.Avatar,
		Phone:               req.Phone,
		Email:               req.Email,
		DateOfBirth:         req.DateOfBirth,
		IsMe:                req.IsMe,
		Color:               req.Color,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, member)
}

// Update applies a partial update to the member in the path
func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	id := r.PathValue("id")
	patch := repository.FamilyMemberPatch{
		Name:                req.Name,
		Relationship:        req.Relationship,
		DisplayRelationship: req.DisplayRelationship,
		Avatar:              req.Avatar,
		Phone:               req.Phone,
		Email:               req.Email,
		DateOfBirth:         req.DateOfBirth,
		IsMe:                req.IsMe,
		Color:               req.Color,
	}

	if err := h.familyService.UpdateMember(r.Context(), id, patch); err != nil {
		respondServiceError(w, err)
		return
	}

	member, err := h.familyService.GetMember(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

// Remove deletes the member in the path from the roster
func (h *FamilyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.familyService.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
