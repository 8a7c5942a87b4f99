package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder decomposes characters and drops the combining marks, so "é" becomes "e".
var accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// letterFolder spells out the letters accentFolder leaves alone. Input is lowercase.
var letterFolder = strings.NewReplacer(
	"ø", "o",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
)

// Slugify turns a display name into the lowercase, dash-separated key used in
// resource paths: "L'ambiance" -> "lambiance", "Party Time" -> "party-time".
//
// Letters and digits of any script are kept, with Latin accents folded away.
// Whitespace, dashes and underscores separate words and everything else is
// dropped. Slugify is idempotent.
func Slugify(name string) string {
	lowered := letterFolder.Replace(strings.ToLower(name))
	folded, _, err := transform.String(accentFolder, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}
