package mock

import "github.com/fwojciec/aeo"

var _ aeo.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of aeo.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*aeo.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*aeo.ExtractResult, error) {
	return e.ExtractFn(html)
}
