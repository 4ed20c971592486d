package service

import (
	"context"
	"errors"
	"testing"

	"homevault/internal/models"
	"homevault/internal/repository"
	"homevault/internal/seed"
	"homevault/internal/store"
)

func newTestFamilyService(t *testing.T, seedProvider seed.Provider) *FamilyService {
	t.Helper()
	s := store.NewMemoryStore()
	repo := repository.NewFamilyRosterRepository(s, testPrefix, seedProvider)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return NewFamilyService(repo)
}

func TestAddMemberValidation(t *testing.T) {
	svc := newTestFamilyService(t, seed.Empty{})

	tests := []struct {
		name  string
		input repository.AddFamilyMemberInput
	}{
		{
			name:  "empty name",
			input: repository.AddFamilyMemberInput{Name: "  "},
		},
		{
			name:  "single character name",
			input: repository.AddFamilyMemberInput{Name: "J"},
		},
		{
			name:  "malformed email",
			input: repository.AddFamilyMemberInput{Name: "Jordan", Email: "not-an-email"},
		},
		{
			name:  "malformed phone",
			input: repository.AddFamilyMemberInput{Name: "Jordan", Phone: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddMember(context.Background(), tt.input); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	t.Run("invalid relationship", func(t *testing.T) {
		_, err := svc.AddMember(context.Background(), repository.AddFamilyMemberInput{
			Name:         "Jordan",
			Relationship: "roommate",
		})
		if !errors.Is(err, ErrInvalidRelationship) {
			t.Errorf("AddMember() error = %v, want ErrInvalidRelationship", err)
		}
	})

	if got := len(svc.Members()); got != 0 {
		t.Errorf("roster length after rejected adds = %d, want 0", got)
	}
}

func TestAddMemberAppliesDefaults(t *testing.T) {
	svc := newTestFamilyService(t, seed.Empty{})

	member, err := svc.AddMember(context.Background(), repository.AddFamilyMemberInput{
		Name:         "Jordan Lee",
		Relationship: models.RelationshipSpouse,
		Email:        "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if member.ID == "" {
		t.Error("member id not assigned")
	}
	if member.Color != models.ColorForIndex(0) {
		t.Errorf("member color = %q, want palette color %q", member.Color, models.ColorForIndex(0))
	}
	if member.DisplayRelationship != models.RelationshipSpouse.Label() {
		t.Errorf("display relationship = %q, want %q",
			member.DisplayRelationship, models.RelationshipSpouse.Label())
	}
}

func TestUpdateMember(t *testing.T) {
	svc := newTestFamilyService(t, seed.Demo{})

	name := "Jordan Lee-Park"
	if err := svc.UpdateMember(context.Background(), "demo-member-2", repository.FamilyMemberPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateMember() error = %v", err)
	}

	member, err := svc.GetMember("demo-member-2")
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if member.Name != name {
		t.Errorf("name = %q, want %q", member.Name, name)
	}
	if member.Relationship != models.RelationshipSpouse {
		t.Errorf("relationship changed by a name-only patch: %q", member.Relationship)
	}
}

func TestUpdateMemberErrors(t *testing.T) {
	svc := newTestFamilyService(t, seed.Demo{})

	name := "Someone"
	if err := svc.UpdateMember(context.Background(), "nope", repository.FamilyMemberPatch{Name: &name}); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("UpdateMember(unknown) error = %v, want ErrMemberNotFound", err)
	}

	bad := "not-an-email"
	if err := svc.UpdateMember(context.Background(), "demo-member-2", repository.FamilyMemberPatch{Email: &bad}); err == nil {
		t.Error("expected a validation error for a malformed email patch")
	}

	rel := models.Relationship("roommate")
	if err := svc.UpdateMember(context.Background(), "demo-member-2", repository.FamilyMemberPatch{Relationship: &rel}); !errors.Is(err, ErrInvalidRelationship) {
		t.Errorf("UpdateMember(bad relationship) error = %v, want ErrInvalidRelationship", err)
	}
}

func TestRemoveMember(t *testing.T) {
	svc := newTestFamilyService(t, seed.Demo{})

	if err := svc.RemoveMember(context.Background(), "demo-member-3"); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}
	if _, err := svc.GetMember("demo-member-3"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("GetMember(removed) error = %v, want ErrMemberNotFound", err)
	}
	if got := len(svc.Members()); got != 3 {
		t.Errorf("roster length after remove = %d, want 3", got)
	}

	if err := svc.RemoveMember(context.Background(), "demo-member-3"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("removing twice error = %v, want ErrMemberNotFound", err)
	}
}

func TestOtherMembersExcludesSelf(t *testing.T) {
	svc := newTestFamilyService(t, seed.Demo{})

	others := svc.OtherMembers()
	if len(others) != 3 {
		t.Fatalf("OtherMembers() = %d members, want 3", len(others))
	}
	for _, member := range others {
		if member.IsMe {
			t.Errorf("OtherMembers() included the self member %q", member.ID)
		}
	}
}

func TestDisplayNamePassthrough(t *testing.T) {
	svc := newTestFamilyService(t, seed.Demo{})

	if got := svc.DisplayName("demo-member-2", repository.FormatName); got != "Jordan" {
		t.Errorf("DisplayName() = %q, want %q", got, "Jordan")
	}
	if got := svc.DisplayName("nope", repository.FormatName); got != repository.UnknownMemberName {
		t.Errorf("DisplayName(unknown) = %q, want %q", got, repository.UnknownMemberName)
	}
}
