// Package textnorm holds the two text normalizations used across the pipeline:
// one feeding the embedding model, one feeding keyword rules.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ForEmbedding canonicalizes text before it is sent to the embedding model:
// lower-case, NFC, whitespace runs collapsed to one space, trimmed.
// Lower-casing comes first since it can produce composable sequences.
func ForEmbedding(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// ForMatching reduces text to its keyword-matching form: decomposed (NFD),
// combining marks stripped, lower-cased, Vietnamese stroke d folded to d.
// "Điện thoại" becomes "dien thoai".
func ForMatching(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Map(foldRune, strings.ToLower(out))
}

func foldRune(r rune) rune {
	if r == 'đ' {
		return 'd'
	}
	return r
}

// Words splits already-normalized text into word tokens: maximal runs of
// letters and digits.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Phrase is a keyword compiled for whole-word matching against normalized text.
type Phrase struct {
	raw    string
	padded string
}

// NewPhrase matching-normalizes a keyword. Empty keywords produce a phrase
// that never matches.
func NewPhrase(keyword string) Phrase {
	words := Words(ForMatching(keyword))
	if len(words) == 0 {
		return Phrase{raw: keyword}
	}
	return Phrase{raw: keyword, padded: " " + strings.Join(words, " ") + " "}
}

// String returns the keyword as configured.
func (p Phrase) String() string { return p.raw }

// Text is matching-normalized text prepared for phrase lookups.
type Text struct {
	padded string
}

// NewText normalizes s for matching. Build it once per query and probe it
// with many phrases.
func NewText(s string) Text {
	words := Words(ForMatching(s))
	return Text{padded: " " + strings.Join(words, " ") + " "}
}

// Contains reports whether the phrase occurs in t on word boundaries.
func (t Text) Contains(p Phrase) bool {
	if p.padded == "" {
		return false
	}
	return strings.Contains(t.padded, p.padded)
}

// ContainsAny reports whether any phrase occurs in t.
func (t Text) ContainsAny(ps []Phrase) bool {
	_, ok := t.FirstMatch(ps)
	return ok
}

// FirstMatch returns the first phrase, in slice order, that occurs in t.
func (t Text) FirstMatch(ps []Phrase) (Phrase, bool) {
	for _, p := range ps {
		if t.Contains(p) {
			return p, true
		}
	}
	return Phrase{}, false
}

// Phrases compiles a keyword list.
func Phrases(keywords []string) []Phrase {
	out := make([]Phrase, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, NewPhrase(k))
	}
	return out
}
