package script

import (
	"regexp"
	"strings"
)

// Template is a static expression-script catalog entry. Templates are never
// modified at runtime; user edits live in Entry.Customized.
type Template struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Template string   `yaml:"template"`
	Tags     []string `yaml:"tags"`
}

// Entry pairs a template with one owner's override
type Entry struct {
	Template
	Customized string
}

// NewEntry creates an uncustomized entry
func NewEntry(t Template) Entry {
	return Entry{Template: t}
}

// Text returns the customized text when set, otherwise the template
func (e Entry) Text() string {
	if e.Customized != "" {
		return e.Customized
	}
	return e.Template.Template
}

// IsCustomized reports whether the owner has overridden the template
func (e Entry) IsCustomized() bool {
	return e.Customized != ""
}

var placeholderPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Placeholders returns the bracketed tokens of the template in order of appearance
func (t Template) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(t.Template, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
