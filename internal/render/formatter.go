// Package render turns decoded export records into canonical text records,
// one formatter per entity type.
package render

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/kankatext/internal/models"
	"github.com/raphaelgruber/kankatext/internal/parser"
)

const bannerWidth = 40

var bannerRule = strings.Repeat("=", bannerWidth)

// Formatter renders the body of one entity type.
type Formatter interface {
	Type() models.EntityType
	Body(rec *models.Record) string
}

// Record is a rendered entity: banner plus body. Mentions are not yet resolved.
type Record struct {
	Type models.EntityType
	Name string
	Text string
}

// For returns the formatter for typ, or nil for unrecognized types.
// Relations are resolved through index.
func For(typ models.EntityType, index parser.Lookup) Formatter {
	b := base{index: index}
	switch typ {
	case models.TypeCharacter:
		return characterFormatter{b}
	case models.TypeFamily:
		return familyFormatter{b}
	case models.TypeLocation:
		return locationFormatter{b}
	case models.TypeJournal:
		return journalFormatter{b}
	case models.TypeNote:
		return noteFormatter{b}
	case models.TypeOrganisation:
		return organisationFormatter{b}
	case models.TypeRace:
		return raceFormatter{b}
	}
	return nil
}

// Render produces the full text record for rec.
func Render(f Formatter, rec *models.Record) Record {
	name := models.DerefOr(rec.Name, "Unnamed")
	return Record{
		Type: f.Type(),
		Name: name,
		Text: Banner(f.Type(), name) + f.Body(rec),
	}
}

// Banner renders the bordered title block that opens every record.
func Banner(typ models.EntityType, name string) string {
	return fmt.Sprintf("%s\n %s: %s\n%s\n\n", bannerRule, typ.Banner(), name, bannerRule)
}

// base carries what every formatter shares.
type base struct {
	index parser.Lookup
}

func (b base) lookup(id *int64) (models.Identity, bool) {
	if id == nil || b.index == nil {
		return models.Identity{}, false
	}
	return b.index.Lookup(*id)
}

// nameOr returns the indexed name for id, or fallback when unresolved.
func (b base) nameOr(id *int64, fallback string) string {
	if ident, ok := b.lookup(id); ok {
		return ident.Name
	}
	return fallback
}

// characterRef renders "<name> (<type>)" or the character placeholder.
func (b base) characterRef(id *int64) string {
	if ident, ok := b.lookup(id); ok {
		return fmt.Sprintf("%s (%s)", ident.Name, ident.Type)
	}
	return parser.NotFound(models.TypeCharacter.Label(), idString(id))
}

func idString(id *int64) string {
	if id == nil {
		return "unknown"
	}
	return fmt.Sprint(*id)
}

// body accumulates lines; sections are joined with newlines.
type body struct {
	lines []string
}

func newBody(heading string) *body {
	return &body{lines: []string{heading}}
}

func (b *body) line(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// optional adds "<label>: <value>" only when value is non-empty.
func (b *body) optional(label, value string) {
	if value != "" {
		b.line("%s: %s", label, value)
	}
}

// text appends the normalized markup as one section.
func (b *body) text(markup string) {
	b.lines = append(b.lines, parser.Normalize(markup))
}

func (b *body) description(markup string) {
	b.lines = append(b.lines, "\n---\n[Primary Description]\n")
	b.text(markup)
}

func (b *body) posts(label string, posts []models.Post) {
	for _, p := range posts {
		b.lines = append(b.lines,
			fmt.Sprintf("\n---\n[%s: %s]\n", label, models.Deref(p.Name)),
			parser.Normalize(models.Deref(p.Entry)),
		)
	}
}

func (b *body) String() string {
	return strings.Join(b.lines, "\n")
}

func status(flag *models.Bool, whenSet, whenUnset string) string {
	if models.Flag(flag) {
		return whenSet
	}
	return whenUnset
}
