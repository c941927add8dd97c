package render

import "github.com/raphaelgruber/kankatext/internal/models"

type characterFormatter struct{ base }

func (characterFormatter) Type() models.EntityType { return models.TypeCharacter }

// Body renders a character. Race and family are first-wins: only the first
// linked id of each is shown.
func (f characterFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Name: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Title", models.Deref(rec.Title))
	b.optional("Type", models.Deref(rec.Type))
	b.optional("Sex", models.Deref(rec.Sex))

	if len(rec.CharacterRaces) > 0 {
		b.line("Race: %s", f.nameOr(rec.CharacterRaces[0].RaceID, "Unknown"))
	}
	if len(rec.CharacterFamilies) > 0 {
		b.line("Family: %s", f.nameOr(rec.CharacterFamilies[0].FamilyID, "Unknown"))
	}

	b.description(models.Deref(rec.Entry))
	b.posts("Notes", rec.Posts())
	return b.String()
}

type familyFormatter struct{ base }

func (familyFormatter) Type() models.EntityType { return models.TypeFamily }

func (f familyFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Name: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Type", rec.EntityType())

	if len(rec.PivotMembers) > 0 {
		b.line("\n[Members]")
		for _, m := range rec.PivotMembers {
			if ident, ok := f.lookup(m.CharacterID); ok {
				// Family rosters always label members as characters.
				b.line("- %s (%s)", ident.Name, models.TypeCharacter.Label())
			} else {
				b.line("- %s", f.characterRef(m.CharacterID))
			}
		}
	}

	b.description(rec.EntityEntry())
	b.posts("Notes", rec.Posts())
	return b.String()
}

type journalFormatter struct{ base }

func (journalFormatter) Type() models.EntityType { return models.TypeJournal }

func (journalFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Title: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Type", rec.EntityType())
	b.optional("Date", models.Deref(rec.Date))

	b.description(rec.EntityEntry())
	b.posts("Entry", rec.Posts())
	return b.String()
}

type locationFormatter struct{ base }

func (locationFormatter) Type() models.EntityType { return models.TypeLocation }

func (locationFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Name: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Type", rec.EntityType())
	b.line("Status: %s", status(rec.IsDestroyed, "Destroyed", "Intact"))

	b.description(rec.EntityEntry())
	b.posts("Notes", rec.Posts())
	return b.String()
}

type noteFormatter struct{ base }

func (noteFormatter) Type() models.EntityType { return models.TypeNote }

// Body renders only the note content; notes carry no header fields.
func (noteFormatter) Body(rec *models.Record) string {
	b := newBody("[Primary Content]\n")
	b.text(rec.EntityEntry())
	return b.String()
}

type organisationFormatter struct{ base }

func (organisationFormatter) Type() models.EntityType { return models.TypeOrganisation }

// Body renders an organisation. The seat is first-wins and omitted when it
// does not resolve; members without a role are listed as "Member".
func (f organisationFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Name: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Type", rec.EntityType())
	b.line("Status: %s", status(rec.IsDefunct, "Defunct", "Active"))

	if len(rec.PivotLocations) > 0 {
		if loc, ok := f.lookup(rec.PivotLocations[0].LocationID); ok {
			b.line("\n[Location]\nBased in: %s (%s)", loc.Name, loc.Type)
		}
	}

	b.description(rec.EntityEntry())

	if len(rec.Members) > 0 {
		b.line("\n---\n[Members Roster]")
		for _, m := range rec.Members {
			b.line("\n- Role: %s", models.DerefOr(m.Role, "Member"))
			b.line("  - Member: %s", f.characterRef(m.CharacterID))
		}
	}
	return b.String()
}

type raceFormatter struct{ base }

func (raceFormatter) Type() models.EntityType { return models.TypeRace }

func (raceFormatter) Body(rec *models.Record) string {
	b := newBody("[Basic Information]")
	b.line("Name: %s", models.DerefOr(rec.Name, "N/A"))
	b.optional("Type", rec.EntityType())
	b.line("Status: %s", status(rec.IsExtinct, "Extinct", "Extant"))

	b.description(rec.EntityEntry())
	return b.String()
}
