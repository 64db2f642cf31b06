// Package fs stores content records and compiled JSON-LD documents on the
// local filesystem.
package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/aeo"
	"gopkg.in/yaml.v3"
)

// Ensure ContentStore implements aeo.ContentStore at compile time.
var _ aeo.ContentStore = (*ContentStore)(nil)

// ContentStore reads and writes content records as YAML or JSON files.
// The format follows the file extension.
type ContentStore struct{}

// NewContentStore creates a new ContentStore.
func NewContentStore() *ContentStore {
	return &ContentStore{}
}

type format int

const (
	formatYAML format = iota + 1
	formatJSON
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	}
	return 0, aeo.Errorf(aeo.EINVALID, "unsupported content file %q: want .yaml, .yml or .json", path)
}

// LoadContent reads the record at path. Missing files return ENOTFOUND and
// undecodable files EINVALID.
func (s *ContentStore) LoadContent(path string) (*aeo.ContentRecord, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, aeo.Errorf(aeo.ENOTFOUND, "content file %q not found", path)
	} else if err != nil {
		return nil, err
	}

	var record aeo.ContentRecord
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &record)
	case formatJSON:
		err = json.Unmarshal(data, &record)
	}
	if err != nil {
		return nil, aeo.Errorf(aeo.EINVALID, "decode %s: %v", path, err)
	}
	if record.ID == "" {
		record.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &record, nil
}

// SaveContent writes record to path, replacing any existing file atomically.
func (s *ContentStore) SaveContent(path string, record *aeo.ContentRecord) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(record)
	case formatJSON:
		data, err = json.MarshalIndent(record, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// writeAtomic writes data to a temporary file beside path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
