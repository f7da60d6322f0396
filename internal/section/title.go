package section

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// leadingNumbering matches "7.", "7)", "7 -", "VII.", "VII -", "7.2" at the start of a title
var leadingNumbering = regexp.MustCompile(`^(?:\d+(?:\.\d+)*|[IVXLC]+)\s*[.)\-–:]?\s+`)

// NormalizeDocument folds line endings to LF and composes the text to NFC so
// accented labels compare equal however the author's editor encoded them.
func NormalizeDocument(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	return norm.NFC.String(text)
}

// NormalizeTitle reduces a heading or label to its dispatch form: numbering
// removed, accents folded, lower case, single spaces.
func NormalizeTitle(title string) string {
	title = StripEmphasis(strings.TrimSpace(title))
	title = leadingNumbering.ReplaceAllString(title, "")
	title = foldAccents(title)
	title = strings.ToLower(title)
	return strings.Join(strings.Fields(title), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// StripEmphasis removes markdown emphasis wrapping a label or value
func StripEmphasis(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := strings.Trim(s, "*_`")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
