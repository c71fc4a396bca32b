// Package slug builds URL slugs from titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, strips diacritics and joins alphanumeric runs with '-'.
// Make(Make(s)) == Make(s).
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	b.Grow(len(plain))
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Field mirrors a title/slug pair on an edit form. Once the slug has been
// edited by hand it no longer follows the title.
type Field struct {
	title  string
	slug   string
	manual bool
}

func NewField() *Field { return &Field{} }

func (f *Field) SetTitle(title string) {
	f.title = title
	if !f.manual {
		f.slug = Make(title)
	}
}

// SetSlug records a manual edit. The value is normalised with Make.
func (f *Field) SetSlug(s string) {
	f.manual = true
	f.slug = Make(s)
}

func (f *Field) Title() string { return f.title }

func (f *Field) Slug() string { return f.slug }

func (f *Field) Manual() bool { return f.manual }

// Resolve is the form submit path: a non-empty slug marked as edited wins,
// otherwise the slug is derived from the title.
func Resolve(title, slug string, edited bool) string {
	f := NewField()
	if edited && strings.TrimSpace(slug) != "" {
		f.SetSlug(slug)
	}
	f.SetTitle(title)
	return f.Slug()
}
