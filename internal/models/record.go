// Package models defines the Kanka export schema and the entity types
// understood by the converter.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for envelope decoding.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEnvelope indicates the outer layer of an export file is not a JSON string.
	ErrEnvelope = errors.New("invalid export envelope")

	// ErrPayload indicates the inner payload is not a record of the expected shape.
	ErrPayload = errors.New("invalid record payload")
)

// Record is one exported entity. The export carries a superset of fields for
// every type; each formatter reads only the fields its type defines.
// Optional scalars are pointers: nil means the field was absent or null.
type Record struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Entry *string `json:"entry"`

	// Entity holds the shared entity wrapper (type, entry, posts).
	Entity *EntityData `json:"entity"`

	// Character
	Title             *string           `json:"title"`
	Sex               *string           `json:"sex"`
	CharacterRaces    []CharacterRace   `json:"character_races"`
	CharacterFamilies []CharacterFamily `json:"character_families"`

	// Family
	PivotMembers []FamilyMember `json:"pivotMembers"`

	// Journal
	Date *string `json:"date"`

	// Location
	IsDestroyed *Bool `json:"is_destroyed"`

	// Organisation
	IsDefunct      *Bool                `json:"is_defunct"`
	PivotLocations []OrganisationPlace  `json:"pivotLocations"`
	Members        []OrganisationMember `json:"members"`

	// Race
	IsExtinct *Bool `json:"is_extinct"`
}

// EntityData is the nested "entity" object of an export record.
type EntityData struct {
	Type  *string `json:"type"`
	Entry *string `json:"entry"`
	Posts []Post  `json:"posts"`
}

// Post is a named sub-entry attached to an entity.
type Post struct {
	Name  *string `json:"name"`
	Entry *string `json:"entry"`
}

// CharacterRace links a character to a race.
type CharacterRace struct {
	RaceID *int64 `json:"race_id"`
}

// CharacterFamily links a character to a family.
type CharacterFamily struct {
	FamilyID *int64 `json:"family_id"`
}

// FamilyMember links a family to one of its characters.
type FamilyMember struct {
	CharacterID *int64 `json:"character_id"`
}

// OrganisationPlace links an organisation to a location.
type OrganisationPlace struct {
	LocationID *int64 `json:"location_id"`
}

// OrganisationMember links an organisation to a character with an optional role.
type OrganisationMember struct {
	CharacterID *int64  `json:"character_id"`
	Role        *string `json:"role"`
}

// Bool is an export flag. The export writes flags as JSON booleans or as
// 0/1 numbers depending on the column type; both decode.
type Bool bool

// UnmarshalJSON accepts true/false, 0/1 and their quoted forms.
func (b *Bool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// DecodeEnvelope decodes one export file.
//
// The Kanka export is double-encoded: the file holds a JSON string whose
// contents are the JSON record. Both layers are decoded in sequence.
func DecodeEnvelope(data []byte) (*Record, error) {
	var inner string
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelope, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(inner), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	return &rec, nil
}

// Identity returns the record's id and name when both are present and
// non-empty. Records without them are not indexed.
func (r *Record) Identity() (int64, string, bool) {
	if r.ID == nil || *r.ID == 0 || r.Name == nil || *r.Name == "" {
		return 0, "", false
	}
	return *r.ID, *r.Name, true
}

// EntityType returns the nested entity type, if set.
func (r *Record) EntityType() string {
	if r.Entity == nil {
		return ""
	}
	return Deref(r.Entity.Type)
}

// EntityEntry returns the nested entity markup body, if set.
func (r *Record) EntityEntry() string {
	if r.Entity == nil {
		return ""
	}
	return Deref(r.Entity.Entry)
}

// Posts returns the nested entity posts in source order.
func (r *Record) Posts() []Post {
	if r.Entity == nil {
		return nil
	}
	return r.Entity.Posts
}
