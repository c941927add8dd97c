package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/raphaelgruber/kankatext/internal/models"
)

// mentionRegex matches [type:id] and [type:id|override].
var mentionRegex = regexp.MustCompile(`\[([a-zA-Z]+):(\d+)(?:\|([^\]]*))?\]`)

// Lookup resolves entity ids to identities.
type Lookup interface {
	Lookup(id int64) (models.Identity, bool)
}

// Token is one mention found in text.
type Token struct {
	Tag      string // type tag as written, e.g. "character"
	ID       int64
	RawID    string
	Override string // text after "|", empty when absent
	Start    int    // byte offset of "["
	End      int    // byte offset just past "]"
}

// ScanMentions returns every mention token in text, in order.
func ScanMentions(text string) []Token {
	matches := mentionRegex.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, tokenAt(text, m))
	}
	return tokens
}

func tokenAt(text string, m []int) Token {
	tok := Token{
		Tag:   text[m[2]:m[3]],
		RawID: text[m[4]:m[5]],
		Start: m[0],
		End:   m[1],
	}
	if m[6] >= 0 {
		tok.Override = text[m[6]:m[7]]
	}
	// Ids that overflow int64 are marked -1 and never resolve.
	if id, err := strconv.ParseInt(tok.RawID, 10, 64); err == nil {
		tok.ID = id
	} else {
		tok.ID = -1
	}
	return tok
}

// Resolver rewrites mention tokens into display strings.
type Resolver struct {
	index Lookup

	// UseOverride renders the "|override" label of a resolved mention in
	// place of the indexed name. Off by default: the label is parsed and
	// dropped.
	UseOverride bool
}

// NewResolver creates a resolver backed by index.
func NewResolver(index Lookup) *Resolver {
	return &Resolver{index: index}
}

// Resolve replaces every mention in text in a single forward pass.
// Replacement text is never rescanned.
func (r *Resolver) Resolve(text string) string {
	out, _ := r.ResolveCount(text)
	return out
}

// ResolveCount is Resolve that also reports how many mentions did not resolve.
func (r *Resolver) ResolveCount(text string) (string, int) {
	matches := mentionRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	unresolved := 0
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		tok := tokenAt(text, m)
		display, ok := r.display(tok)
		if !ok {
			unresolved++
		}
		b.WriteString(display)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), unresolved
}

func (r *Resolver) display(tok Token) (string, bool) {
	if tok.ID >= 0 && r.index != nil {
		if ident, ok := r.index.Lookup(tok.ID); ok {
			name := ident.Name
			if r.UseOverride && tok.Override != "" {
				name = tok.Override
			}
			return fmt.Sprintf("%s (%s)", name, ident.Type), true
		}
	}
	id := tok.RawID
	if tok.ID >= 0 {
		id = strconv.FormatInt(tok.ID, 10)
	}
	return NotFound(Capitalize(tok.Tag), id), false
}

// NotFound renders the placeholder for an unresolved reference.
func NotFound(label, id string) string {
	return fmt.Sprintf("[%s Not Found: %s]", label, id)
}

// Capitalize upper-cases the first letter of tag and lower-cases the rest.
func Capitalize(tag string) string {
	return cases.Title(language.Und).String(tag)
}
