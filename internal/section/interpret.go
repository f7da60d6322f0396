package section

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/ethnia/internal/model"
)

// TextKey holds prose that precedes any label in a body, and the inline text
// following an entry opener ("[Royaume du Mutapa] 1430–1760").
const TextKey = "_text"

// maxLabelRunes bounds what may be read as a label; longer prefixes are prose
const maxLabelRunes = 80

var listMarker = regexp.MustCompile(`^(?:[-*+•–]|\d{1,3}[.)])[ \t]+(.*)$`)

// listItem strips a leading list marker
func listItem(line string) (string, bool) {
	m := listMarker.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// splitLabel cuts "label : value" at the first separator. A colon that opens
// a URL ("https://") is not a separator.
func splitLabel(s string) (key, value string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return "", "", false
	}
	if strings.HasPrefix(s[i:], "://") {
		return "", "", false
	}
	key = StripEmphasis(s[:i])
	if key == "" || utf8.RuneCountInString(key) > maxLabelRunes {
		return "", "", false
	}
	return key, StripEmphasis(s[i+1:]), true
}

// fieldBuilder accumulates label/value pairs
type fieldBuilder struct {
	fields  model.Fields
	current int
}

func newFieldBuilder() *fieldBuilder {
	return &fieldBuilder{current: -1}
}

// start makes key current. Repeating the current label continues its value;
// a label seen earlier keeps its position and takes the new value.
func (b *fieldBuilder) start(key, value string) {
	if b.current >= 0 && b.fields[b.current].Key == key {
		b.append(value)
		return
	}
	for i, f := range b.fields {
		if f.Key == key {
			b.current = i
			b.fields[i].Value = strings.TrimSpace(value)
			return
		}
	}
	b.fields = append(b.fields, model.Field{Key: key, Value: value})
	b.current = len(b.fields) - 1
}

// append continues the current value with a single space
func (b *fieldBuilder) append(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.current < 0 {
		b.start(TextKey, text)
		return
	}
	f := &b.fields[b.current]
	if f.Value == "" {
		f.Value = text
	} else {
		f.Value += " " + text
	}
}

func (b *fieldBuilder) result() model.Fields {
	if b.fields == nil {
		return model.Fields{}
	}
	return b.fields
}

// Fields interprets a body as flat label/value pairs. A list item holding a
// separator opens a new label; every other non-blank line continues the
// current value. A deeper heading opens a label named after its title.
func Fields(lines []string) model.Fields {
	b := newFieldBuilder()
	b.feed(lines)
	return b.result()
}

func (b *fieldBuilder) feed(lines []string) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, title, ok := HeadingOf(line); ok {
			b.start(StripEmphasis(title), "")
			continue
		}
		if item, ok := listItem(line); ok {
			if key, value, ok := splitLabel(item); ok {
				b.start(key, value)
				continue
			}
			b.append(item)
			continue
		}
		b.append(line)
	}
}

// Header interprets the header block. Unlike section bodies, a label line
// needs no list marker.
func Header(lines []string) model.Fields {
	b := newFieldBuilder()
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, title, ok := HeadingOf(line); ok {
			b.start(StripEmphasis(title), "")
			continue
		}
		if item, ok := listItem(line); ok {
			line = item
		}
		if key, value, ok := splitLabel(line); ok {
			b.start(key, value)
			continue
		}
		b.append(line)
	}
	return b.result()
}

// List interprets a body as scalar items. With list markers present each
// marker opens an item and unmarked lines continue it; without markers every
// line is an item.
func List(lines []string) []string {
	items := []string{}
	marked := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, title, ok := HeadingOf(line); ok {
			items = append(items, StripEmphasis(title))
			marked = false
			continue
		}
		if item, ok := listItem(line); ok {
			items = append(items, item)
			marked = true
			continue
		}
		if marked && len(items) > 0 {
			items[len(items)-1] += " " + line
			continue
		}
		items = append(items, line)
	}
	return items
}

// Opener recognises the first line of a repeated entry. It returns the entry
// label and any text written on the opener line after the label.
type Opener func(line string) (label, inline string, ok bool)

var bracketLine = regexp.MustCompile(`^(?:[-*+•–][ \t]*)?[*_]*\[([^\]]+)\][*_]*[ \t]*(.*)$`)

// BracketOpener opens an entry on "[Name]" lines
func BracketOpener(line string) (string, string, bool) {
	m := bracketLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	rest := strings.TrimSpace(m[2])
	if strings.HasPrefix(rest, "(") && strings.Contains(rest, "://") {
		return "", "", false
	}
	rest = strings.TrimSpace(strings.TrimLeft(rest, ":-–"))
	return strings.TrimSpace(m[1]), rest, true
}

// EnumeratedOpener opens an entry on "Peuple #1", "Peuple 2 :", "### Peuple n°3"
// style lines for the given words (matched without case).
func EnumeratedOpener(words ...string) Opener {
	alternatives := make([]string, len(words))
	for i, w := range words {
		alternatives[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`^(?:#{1,6}[ \t]*)?(?:[-*+•–][ \t]*)?[*_]*(?i:(` +
		strings.Join(alternatives, "|") +
		`)s?)[ \t]*(?:#|n°|nº|no\.?)?[ \t]*(\d+)[*_]*[ \t]*(?:[:\-–][ \t]*(.*))?$`)

	return func(line string) (string, string, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return "", "", false
		}
		return m[1] + " " + m[2], StripEmphasis(m[3]), true
	}
}

// SubheadingOpener opens an entry on any heading line inside the body
func SubheadingOpener(line string) (string, string, bool) {
	_, title, ok := HeadingOf(line)
	if !ok {
		return "", "", false
	}
	return StripEmphasis(title), "", true
}

// Entries interprets a body as repeated sub-records. Each opener line starts
// an entry whose fields run until the next opener or the end of the body.
// Lines before the first opener are left out; see Preface.
func Entries(lines []string, openers ...Opener) []model.Entry {
	_, entries := splitEntries(lines, openers)
	return entries
}

// Preface returns the lines written before the first entry opener
func Preface(lines []string, openers ...Opener) []string {
	preface, _ := splitEntries(lines, openers)
	return preface
}

func splitEntries(lines []string, openers []Opener) ([]string, []model.Entry) {
	type pending struct {
		label  string
		inline string
		body   []string
	}

	var (
		preface []string
		entries []pending
	)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		opened := false
		for _, open := range openers {
			if label, inline, ok := open(line); ok {
				entries = append(entries, pending{label: label, inline: inline})
				opened = true
				break
			}
		}
		if opened {
			continue
		}
		if len(entries) == 0 {
			preface = append(preface, raw)
			continue
		}
		last := &entries[len(entries)-1]
		last.body = append(last.body, raw)
	}

	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		b := newFieldBuilder()
		if e.inline != "" {
			b.start(TextKey, e.inline)
		}
		b.feed(e.body)
		out = append(out, model.Entry{Label: e.label, Fields: b.result()})
	}
	return preface, out
}
