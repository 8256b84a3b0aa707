package record

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Record is a single user-submitted, timestamped entry in a log-style list.
// Interactions and discoveries share this shape.
type Record struct {
	ID        ID
	Owner     string // Session or account the record belongs to
	Kind      Kind
	Category  string // Closed set per kind
	Subject   string // Person for interactions, answered prompt for discoveries
	Text      string
	Energy    Energy // Interactions only
	Tags      []string
	CreatedAt time.Time
}

// Kind identifies which log a record belongs to
type Kind string

const (
	KindInteraction Kind = "interaction"
	KindDiscovery   Kind = "discovery"
)

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// IsValid validates the kind
func (k Kind) IsValid() bool {
	switch k {
	case KindInteraction, KindDiscovery:
		return true
	default:
		return false
	}
}

// Energy is how an interaction felt
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Energies lists the energy levels in display order
var Energies = []Energy{EnergyLow, EnergyMedium, EnergyHigh}

// IsValid validates the energy level
func (e Energy) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// Draft is the user-entered part of a record, before an ID and timestamp are assigned
type Draft struct {
	Category string
	Subject  string
	Text     string
	Energy   Energy
	Tags     []string
}

// Normalize trims surrounding whitespace and applies NFC so that visually equal
// input compares equal.
func (d Draft) Normalize() Draft {
	out := Draft{
		Category: strings.TrimSpace(d.Category),
		Subject:  cleanText(d.Subject),
		Text:     cleanText(d.Text),
		Energy:   Energy(strings.ToLower(strings.TrimSpace(string(d.Energy)))),
	}
	for _, tag := range d.Tags {
		if tag = cleanText(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Clone returns a deep copy so callers cannot mutate stored records
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	return &c
}

// Date returns the calendar day the record was created on
func (r *Record) Date() string {
	return r.CreatedAt.Format("2006-01-02")
}
