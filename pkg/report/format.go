package report

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxLength is the display limit of a post, in characters.
	MaxLength = 140
	Ellipsis  = "…"
	separator = "/"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Message is a rendered post ready for publishing.
type Message struct {
	Text        string
	Coordinates Coordinates
}

// OnlyAlphanumeric removes every character outside [A-Za-z0-9].
func OnlyAlphanumeric(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// InsertHashtag prefixes the first occurrence of tag in text with "#". The tag
// is looked up as given, then lowercased, then uppercased; the first variant
// found wins. Text without any variant is returned unchanged.
func InsertHashtag(text, tag string) string {
	for _, variant := range []string{tag, strings.ToLower(tag), strings.ToUpper(tag)} {
		if pos := strings.Index(text, variant); pos >= 0 {
			return text[:pos] + "#" + text[pos:]
		}
	}
	return text
}

// Hashtagify marks each animal tag in the complaint text. Tags are applied in
// order to the progressively modified text.
func Hashtagify(r Report) string {
	complaint := r.ComplaintDetails
	for _, word := range strings.Fields(r.Animal) {
		complaint = InsertHashtag(complaint, OnlyAlphanumeric(word))
	}
	return complaint
}

// Truncate shortens s to MaxLength characters, ending it with an ellipsis
// when anything was cut.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxLength {
		return s
	}
	runes := []rune(s)
	head := strings.TrimRightFunc(string(runes[:MaxLength-1]), unicode.IsSpace)
	return head + Ellipsis
}

// Compose renders r as a post.
func Compose(r Report) Message {
	text := strings.Join([]string{
		Hashtagify(r),
		r.AdditionalLocationDetails,
		r.ParkOrFacility,
		r.SiteCityZip,
	}, separator)

	return Message{
		Text:        Truncate(text),
		Coordinates: r.Coordinates(),
	}
}
