package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/repository"
)

// Export formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportRecord is one record in an export document
type ExportRecord struct {
	ID        string    `yaml:"id" json:"id"`
	Category  string    `yaml:"category" json:"category"`
	Subject   string    `yaml:"subject,omitempty" json:"subject,omitempty"`
	Text      string    `yaml:"text" json:"text"`
	Energy    string    `yaml:"energy,omitempty" json:"energy,omitempty"`
	Tags      []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// ExportCustomization is one script override
type ExportCustomization struct {
	ScriptID string `yaml:"script_id" json:"script_id"`
	Text     string `yaml:"text" json:"text"`
}

// ExportProfile carries the session profile when one is known
type ExportProfile struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	Plan  string `yaml:"plan,omitempty" json:"plan,omitempty"`
}

// ExportDocument is everything stored for one owner
type ExportDocument struct {
	Owner          string                `yaml:"owner" json:"owner"`
	ExportedAt     time.Time             `yaml:"exported_at" json:"exported_at"`
	Profile        *ExportProfile        `yaml:"profile,omitempty" json:"profile,omitempty"`
	Interactions   []ExportRecord        `yaml:"interactions" json:"interactions"`
	Discoveries    []ExportRecord        `yaml:"discoveries" json:"discoveries"`
	Customizations []ExportCustomization `yaml:"customizations" json:"customizations"`
}

// Exporter builds export documents from the repositories
type Exporter struct {
	deps Deps
}

// NewExporter creates an exporter
func NewExporter(deps Deps) *Exporter {
	return &Exporter{deps: deps}
}

// Snapshot reads every record and customization of owner in one transaction
func (e *Exporter) Snapshot(ctx context.Context, owner string) (*ExportDocument, error) {
	doc := &ExportDocument{
		Owner:          owner,
		ExportedAt:     e.deps.now().UTC(),
		Interactions:   []ExportRecord{},
		Discoveries:    []ExportRecord{},
		Customizations: []ExportCustomization{},
	}

	err := e.deps.Tx.InTransaction(ctx, func(txCtx context.Context) error {
		records, err := e.deps.Records.List(txCtx, repository.RecordFilter{Owner: owner})
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		for _, r := range records {
			switch r.Kind {
			case record.KindInteraction:
				doc.Interactions = append(doc.Interactions, toExportRecord(r))
			case record.KindDiscovery:
				doc.Discoveries = append(doc.Discoveries, toExportRecord(r))
			}
		}

		overrides, err := e.deps.Customizations.List(txCtx, owner)
		if err != nil {
			return fmt.Errorf("failed to list customizations: %w", err)
		}
		for id, text := range overrides {
			doc.Customizations = append(doc.Customizations, ExportCustomization{ScriptID: id, Text: text})
		}
		sort.Slice(doc.Customizations, func(i, j int) bool {
			return doc.Customizations[i].ScriptID < doc.Customizations[j].ScriptID
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func toExportRecord(r *record.Record) ExportRecord {
	return ExportRecord{
		ID:        r.ID.String(),
		Category:  r.Category,
		Subject:   r.Subject,
		Text:      r.Text,
		Energy:    string(r.Energy),
		Tags:      r.Tags,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// Encode renders a document in the given format and returns the content type
func Encode(doc *ExportDocument, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, "", fmt.Errorf("failed to encode export as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to encode export as yaml: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode export as json: %w", err)
		}
		return append(data, '\n'), "application/json", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// FileName returns the download name of an export
func FileName(owner, format string, at time.Time) string {
	ext := FormatYAML
	if strings.ToLower(format) == FormatJSON {
		ext = FormatJSON
	}
	short := owner
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("kindred-%s-%s.%s", short, at.UTC().Format("20060102-150405"), ext)
}
