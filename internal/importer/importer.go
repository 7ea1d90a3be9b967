package importer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"recipebook/internal/domain"
)

// Importer fetches a page and extracts a recipe draft from it.
type Importer struct {
	fetcher Fetcher
}

// New returns an importer using fetcher.
func New(fetcher Fetcher) *Importer {
	return &Importer{fetcher: fetcher}
}

// Import returns the draft found at rawURL. The draft is not validated.
func (i *Importer) Import(ctx context.Context, rawURL string) (domain.Draft, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Draft{}, fmt.Errorf("import %q: %w", rawURL, ErrBadURL)
	}
	html, err := i.fetcher.FetchHTML(ctx, u.String())
	if err != nil {
		return domain.Draft{}, fmt.Errorf("import %s: %w", u, err)
	}
	return ParseRecipePage(html)
}
