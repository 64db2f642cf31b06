package main

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/aeo"
)

// Run executes the import command: fetch the page, extract the article and
// write it as a content record skeleton.
func (c *ImportCmd) Run(deps *Dependencies) error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		err := aeo.Errorf(aeo.EINVALID, "invalid page URL %q", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	extracted, err := deps.Extractor.Extract(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}
	if strings.TrimSpace(extracted.ContentHTML) == "" {
		err := aeo.Errorf(aeo.EINSUFFICIENT, "no article content found at %s", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}

	now := deps.now()
	record := &aeo.ContentRecord{
		ID:           c.ID,
		Title:        extracted.Title,
		Body:         extracted.ContentHTML,
		SchemaType:   c.SchemaType,
		CanonicalURL: c.URL,
		Author:       extracted.Author,
		PublishedAt:  now,
		ModifiedAt:   now,
	}
	if record.ID == "" {
		record.ID = importID(extracted.Title, u)
	}

	if err := deps.Store.SaveContent(c.Out, record); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", aeo.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Imported %q (%d words) to %s\n", record.Title, aeo.CountWords(record.Body), c.Out)
	return nil
}

// importID derives a record ID from the title, falling back to the last
// URL path segment and then the host.
func importID(title string, u *url.URL) string {
	if id := aeo.Slugify(title); id != "" {
		return id
	}
	if id := aeo.Slugify(path.Base(strings.TrimSuffix(u.Path, "/"))); id != "" {
		return id
	}
	return aeo.Slugify(u.Hostname())
}
