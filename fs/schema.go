package fs

import (
	"path/filepath"
	"strings"

	"github.com/fwojciec/aeo"
)

// SchemaWriter writes compiled documents as <id>.jsonld files into a directory.
type SchemaWriter struct {
	dir string
}

// NewSchemaWriter creates a SchemaWriter rooted at dir.
func NewSchemaWriter(dir string) *SchemaWriter {
	return &SchemaWriter{dir: dir}
}

// Path returns the file path used for id.
func (w *SchemaWriter) Path(id string) (string, error) {
	if id == "" {
		return "", aeo.Errorf(aeo.EINVALID, "content ID required")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", aeo.Errorf(aeo.EINVALID, "invalid content ID %q: path traversal", id)
	}
	return filepath.Join(w.dir, id+".jsonld"), nil
}

// WriteSchema writes doc for the record identified by id and returns the
// file path.
func (w *SchemaWriter) WriteSchema(id string, doc *aeo.Document) (string, error) {
	if doc == nil {
		return "", aeo.Errorf(aeo.EINVALID, "document required")
	}
	path, err := w.Path(id)
	if err != nil {
		return "", err
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return "", err
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}
