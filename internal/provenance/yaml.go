package provenance

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pipedev/pipedev/internal/ir"
)

// Document is the YAML record file layout.
type Document struct {
	Records []ir.FileRecord `yaml:"records"`
}

// ReadYAML decodes a record document. Unknown fields are rejected so a
// misspelled attribute fails loudly instead of reading as absent.
func ReadYAML(r io.Reader) ([]ir.FileRecord, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []ir.FileRecord{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, rec := range doc.Records {
		if rec.Path == "" {
			return nil, fmt.Errorf("records[%d]: path is required", i)
		}
	}
	if doc.Records == nil {
		doc.Records = []ir.FileRecord{}
	}
	return doc.Records, nil
}

// WriteYAML encodes records as a record document.
func WriteYAML(w io.Writer, records []ir.FileRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Records: records}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
