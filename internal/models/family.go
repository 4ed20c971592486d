package models

import "time"

// Relationship classifies how a household member relates to the signed-in identity
type Relationship string

const (
	RelationshipSelf        Relationship = "self"
	RelationshipSpouse      Relationship = "spouse"
	RelationshipFather      Relationship = "father"
	RelationshipMother      Relationship = "mother"
	RelationshipSon         Relationship = "son"
	RelationshipDaughter    Relationship = "daughter"
	RelationshipBrother     Relationship = "brother"
	RelationshipSister      Relationship = "sister"
	RelationshipGrandfather Relationship = "grandfather"
	RelationshipGrandmother Relationship = "grandmother"
	RelationshipUncle       Relationship = "uncle"
	RelationshipAunt        Relationship = "aunt"
	RelationshipCousin      Relationship = "cousin"
	RelationshipInLaw       Relationship = "in-law"
	RelationshipOther       Relationship = "other"
)

// relationshipLabels maps each relationship to its default human-readable label
var relationshipLabels = map[Relationship]string{
	RelationshipSelf:        "Me",
	RelationshipSpouse:      "Spouse",
	RelationshipFather:      "Father",
	RelationshipMother:      "Mother",
	RelationshipSon:         "Son",
	RelationshipDaughter:    "Daughter",
	RelationshipBrother:     "Brother",
	RelationshipSister:      "Sister",
	RelationshipGrandfather: "Grandfather",
	RelationshipGrandmother: "Grandmother",
	RelationshipUncle:       "Uncle",
	RelationshipAunt:        "Aunt",
	RelationshipCousin:      "Cousin",
	RelationshipInLaw:       "In-law",
	RelationshipOther:       "Family Member",
}

// Valid reports whether the relationship is one of the known values
func (r Relationship) Valid() bool {
	_, ok := relationshipLabels[r]
	return ok
}

// Label returns the default display label for the relationship
func (r Relationship) Label() string {
	if label, ok := relationshipLabels[r]; ok {
		return label
	}
	return relationshipLabels[RelationshipOther]
}

// MemberColorPalette is the fixed set of colors assigned to roster members.
// Colors are cycled by insertion index, so reuse starts at the ninth member.
var MemberColorPalette = []string{
	"#4A90E2",
	"#E94B6B",
	"#50C878",
	"#F5A623",
	"#9B59B6",
	"#1ABC9C",
	"#E67E22",
	"#34495E",
}

// ColorForIndex returns the palette color for a member inserted at the given position
func ColorForIndex(i int) string {
	if i < 0 {
		i = -i
	}
	return MemberColorPalette[i%len(MemberColorPalette)]
}

// FamilyMember is a household member in the signed-in identity's roster.
// This is the simpler single-collection roster, distinct from workspace
// collaborators.
type FamilyMember struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Relationship        Relationship `json:"relationship"`
	DisplayRelationship string       `json:"displayRelationship"`
	Avatar              string       `json:"avatar,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	Email               string       `json:"email,omitempty"`
	DateOfBirth         string       `json:"dateOfBirth,omitempty"`
	IsMe                bool         `json:"isMe"`
	Color               string       `json:"color"`
	CreatedAt           time.Time    `json:"createdAt"`
}
