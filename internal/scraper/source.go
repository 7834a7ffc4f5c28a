package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Source supplies parsed document trees for listing and detail pages.
// Both calls block; failures eligible for retry are wrapped in TransientError.
type Source interface {
	// FetchListing fetches a sport's listing page, rendering dynamic content
	// when the implementation supports it.
	FetchListing(ctx context.Context, url string) (*goquery.Document, error)
	// FetchDetail fetches a fixture's detail page.
	FetchDetail(ctx context.Context, url string) (*goquery.Document, error)
}

// TransientError marks a fetch failure worth retrying: network errors,
// timeouts, rendering timeouts, and 5xx responses. Anything else is treated
// as permanent and aborts the retry loop immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as retry-eligible.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is retry-eligible.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
