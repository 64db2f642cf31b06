package mock

import "github.com/fwojciec/aeo"

var _ aeo.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of aeo.ContentStore.
type ContentStore struct {
	LoadContentFn func(path string) (*aeo.ContentRecord, error)
	SaveContentFn func(path string, record *aeo.ContentRecord) error
}

func (s *ContentStore) LoadContent(path string) (*aeo.ContentRecord, error) {
	return s.LoadContentFn(path)
}

func (s *ContentStore) SaveContent(path string, record *aeo.ContentRecord) error {
	return s.SaveContentFn(path, record)
}
