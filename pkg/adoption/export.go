package adoption

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/practice"
)

// DocumentVersion is the current export format version. Imports reject
// documents from a newer format rather than guessing at their layout.
const DocumentVersion = 1

// Document is the versioned JSON shape used to export adoption state and
// carry it across browsers or machines.
type Document struct {
	Version    int      `json:"version"`
	ExportedAt string   `json:"exportedAt"`
	Summary    Progress `json:"summary"`
	Practices  []string `json:"practices"`
}

// Export builds a document from the current adopted set and catalog.
// The timestamp is RFC 3339 in UTC.
func Export(idx practice.Index, adopted *Set, now time.Time) Document {
	return Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Summary:    ProgressOf(idx, adopted),
		Practices:  adopted.IDs(),
	}
}

// MarshalDocument serializes a document as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Import decodes an export document and returns the adopted set it carries.
// Version 0 is accepted as a legacy bare document; versions newer than
// [DocumentVersion] are rejected.
func Import(data []byte) (*Set, Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Document{}, fmt.Errorf("decode adoption document: %w", err)
	}
	if doc.Version > DocumentVersion {
		return nil, Document{}, fmt.Errorf("unsupported adoption document version %d", doc.Version)
	}
	return NewSetFrom(doc.Practices), doc, nil
}
