// Package importer turns recipe web pages into drafts for the catalog.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Fetcher returns the rendered HTML of a page.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// RodFetcher renders pages in a headless browser so that recipe markup
// injected by scripts is present.
type RodFetcher struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodFetcher creates a fetcher that gives each page at most timeout.
func NewRodFetcher(logger logrus.FieldLogger, timeout time.Duration) *RodFetcher {
	return &RodFetcher{
		log:     logger.WithField("component", "importer"),
		timeout: timeout,
	}
}

// FetchHTML launches a browser, loads url and returns the page HTML.
func (f *RodFetcher) FetchHTML(ctx context.Context, url string) (html string, err error) {
	log := f.log.WithField("url", url)
	log.Info("Fetching recipe page")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return "", errors.New("rod browser dependency not found")
	}
	controlURL, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			log.WithError(closeErr).Debug("Error closing rod page")
		}
	}()

	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Page load timed out")
			return "", fmt.Errorf("loading %s timed out: %w", url, pageCtx.Err())
		}
		return "", fmt.Errorf("failed waiting for page load: %w", err)
	}

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	log.WithField("bytes", len(html)).Debug("Recipe page fetched")
	return html, nil
}
