package models

import "strings"

// EntityType is one of the Kanka entity kinds the converter understands.
type EntityType string

// Recognized entity types. The value is the export folder name.
const (
	TypeCharacter    EntityType = "characters"
	TypeFamily       EntityType = "families"
	TypeLocation     EntityType = "locations"
	TypeJournal      EntityType = "journals"
	TypeNote         EntityType = "notes"
	TypeOrganisation EntityType = "organisations"
	TypeRace         EntityType = "races"
)

// allTypes is the canonical processing and output order.
var allTypes = []EntityType{
	TypeCharacter,
	TypeFamily,
	TypeLocation,
	TypeJournal,
	TypeNote,
	TypeOrganisation,
	TypeRace,
}

var typeLabels = map[EntityType]string{
	TypeCharacter:    "Character",
	TypeFamily:       "Family",
	TypeLocation:     "Location",
	TypeJournal:      "Journal",
	TypeNote:         "Note",
	TypeOrganisation: "Organisation",
	TypeRace:         "Race",
}

// AllTypes returns every recognized type in canonical order.
func AllTypes() []EntityType {
	out := make([]EntityType, len(allTypes))
	copy(out, allTypes)
	return out
}

// TypeFromFolder maps an export folder name to its entity type.
// Unrecognized folders report false.
func TypeFromFolder(folder string) (EntityType, bool) {
	t := EntityType(folder)
	_, ok := typeLabels[t]
	return t, ok
}

// Folder returns the export folder name, which is also the output file stem.
func (t EntityType) Folder() string {
	return string(t)
}

// Label returns the display label used in resolved references ("Character").
func (t EntityType) Label() string {
	return typeLabels[t]
}

// Banner returns the record banner label: the folder name uppercased with its
// trailing character dropped ("CHARACTER", "FAMILIE").
func (t EntityType) Banner() string {
	upper := strings.ToUpper(string(t))
	if upper == "" {
		return ""
	}
	return upper[:len(upper)-1]
}

// Identity is the index entry for one entity: its display name and type label.
type Identity struct {
	Name string
	Type string
}
