package service

import (
	"context"
	"errors"

	"homevault/internal/models"
	"homevault/internal/repository"
	"homevault/internal/utils"
)

var (
	ErrMemberNotFound      = errors.New("family member not found")
	ErrInvalidRelationship = errors.New("invalid relationship")
)

// FamilyService handles family roster business logic. It validates input
// before delegating to the repository and maps missing members to a typed
// error.
type FamilyService struct {
	repo *repository.FamilyRosterRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(repo *repository.FamilyRosterRepository) *FamilyService {
	return &FamilyService{repo: repo}
}

// Load hydrates the roster from the durable store
func (s *FamilyService) Load(ctx context.Context) error {
	return s.repo.Load(ctx)
}

// AddMember validates the input and adds a member to the roster
func (s *FamilyService) AddMember(ctx context.Context, input repository.AddFamilyMemberInput) (models.FamilyMember, error) {
	if err := utils.ValidateName(input.Name); err != nil {
		return models.FamilyMember{}, err
	}
	if input.Relationship != "" && !input.Relationship.Valid() {
		return models.FamilyMember{}, ErrInvalidRelationship
	}
	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email); err != nil {
			return models.FamilyMember{}, err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhone(input.Phone); err != nil {
			return models.FamilyMember{}, err
		}
	}

	return s.repo.Add(ctx, input)
}

// UpdateMember applies a shallow-merge patch to the member with the given id
func (s *FamilyService) UpdateMember(ctx context.Context, id string, patch repository.FamilyMemberPatch) error {
	if patch.Name != nil {
		if err := utils.ValidateName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Relationship != nil && !patch.Relationship.Valid() {
		return ErrInvalidRelationship
	}
	if patch.Email != nil && *patch.Email != "" {
		if err := utils.ValidateEmail(*patch.Email); err != nil {
			return err
		}
	}
	if patch.Phone != nil && *patch.Phone != "" {
		if err := utils.ValidatePhone(*patch.Phone); err != nil {
			return err
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !updated {
		return ErrMemberNotFound
	}
	return nil
}

// RemoveMember removes the member with the given id from the roster
func (s *FamilyService) RemoveMember(ctx context.Context, id string) error {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

// GetMember returns the member with the given id
func (s *FamilyService) GetMember(id string) (models.FamilyMember, error) {
	member := s.repo.GetByID(id)
	if member == nil {
		return models.FamilyMember{}, ErrMemberNotFound
	}
	return *member, nil
}

// DisplayName resolves a member id to a name in the requested format
func (s *FamilyService) DisplayName(id string, format repository.DisplayNameFormat) string {
	return s.repo.DisplayName(id, format)
}

// Members returns the full roster
func (s *FamilyService) Members() []models.FamilyMember {
	return s.repo.Members()
}

// OtherMembers returns every member except the one marked as the user
func (s *FamilyService) OtherMembers() []models.FamilyMember {
	return s.repo.AllExceptSelf()
}
