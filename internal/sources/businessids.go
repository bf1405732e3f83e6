package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/refcanon/refcanon/internal/ledger"
	"github.com/refcanon/refcanon/internal/transport"
	"github.com/refcanon/refcanon/pkg/errors"
	"github.com/refcanon/refcanon/pkg/logging"
	"github.com/refcanon/refcanon/pkg/registry"
)

// Remote fetch defaults.
const (
	DefaultPageSize    = 1000
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 10 * time.Second

	// registrationEpoch is the historical start date used when the
	// ledger has never recorded a successful fetch.
	registrationEpoch = "1896-01-01"
)

// businessPage is one page of the remote company registry response.
type businessPage struct {
	Results        []businessResult `json:"results"`
	TotalResults   int              `json:"totalResults"`
	NextResultsURI string           `json:"nextResultsUri"`
}

type businessResult struct {
	BusinessID  string `json:"businessId"`
	Name        string `json:"name"`
	CompanyForm string `json:"companyForm"`
	DetailsURI  string `json:"detailsUri"`
}

// BusinessIDs drives the one network-sourced dataset: a paginated
// company registry API fetched incrementally from a registration-date
// watermark. Pages are strictly sequential; each page's continuation
// depends on the totals the previous page reported.
type BusinessIDs struct {
	url         string
	pageSize    int
	maxAttempts int
	delay       time.Duration
	client      *transport.Client
	ledger      ledger.Ledger

	watermark string // cached by Version
}

// BusinessIDOption configures the business id ingestor.
type BusinessIDOption func(*BusinessIDs)

// WithRetryDelay overrides the fixed delay between retry attempts,
// mainly for tests.
func WithRetryDelay(d time.Duration) BusinessIDOption {
	return func(b *BusinessIDs) {
		b.delay = d
	}
}

// NewBusinessIDs creates the business id ingestor from the manifest.
// The ledger supplies the resumption watermark.
func NewBusinessIDs(m *Manifest, l ledger.Ledger, opts ...BusinessIDOption) *BusinessIDs {
	src := m.BusinessIDs
	b := &BusinessIDs{
		url:         src.URL,
		pageSize:    src.PageSize,
		maxAttempts: src.MaxAttempts,
		delay:       src.RetryDelay(),
		client:      transport.New(),
		ledger:      l,
	}
	if b.pageSize <= 0 {
		b.pageSize = DefaultPageSize
	}
	if b.maxAttempts <= 0 {
		b.maxAttempts = DefaultMaxAttempts
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dataset returns the ledger gate name.
func (b *BusinessIDs) Dataset() string { return DatasetBusinessIDs }

// Source returns the remote API base URL.
func (b *BusinessIDs) Source() string { return b.url }

// Version returns the registration-date watermark this fetch starts
// from: yesterday relative to the last successful run, or the fixed
// historical epoch when no success is recorded. A new day means a new
// version, giving incremental daily catch-up.
func (b *BusinessIDs) Version() string {
	if b.watermark != "" {
		return b.watermark
	}
	last, err := b.ledger.LastSuccess(context.Background(), DatasetBusinessIDs)
	if err != nil {
		b.watermark = registrationEpoch
	} else {
		b.watermark = last.Started.AddDate(0, 0, -1).Format("2006-01-02")
	}
	return b.watermark
}

// Ingest pages through the API from the watermark, handing each page
// to the reconciler before deciding whether to continue.
func (b *BusinessIDs) Ingest(ctx context.Context, deps *Deps) (*Summary, error) {
	watermark := b.Version()
	summary := &Summary{}
	offset := 0

	for {
		page, err := b.fetchPage(ctx, offset, watermark, offset == 0)
		if err != nil {
			return nil, err
		}

		incoming, pageSkipped := b.convert(page.Results)
		pageSummary, err := sync(ctx, deps, DatasetBusinessIDs, deps.Stores.BusinessIDs, incoming, (*registry.BusinessID).Apply, 0)
		if err != nil {
			return nil, err
		}
		summary.Created += pageSummary.Created
		summary.Updated += pageSummary.Updated
		summary.Unchanged += pageSummary.Unchanged
		summary.Skipped += pageSkipped

		// Continue only while the page was full, the server reports
		// results beyond the current offset and a next page exists.
		got := len(page.Results)
		offset += got
		if got < b.pageSize || offset >= page.TotalResults || page.NextResultsURI == "" {
			return summary, nil
		}
	}
}

// fetchPage issues one bounded-timeout page request, retrying transient
// failures after a fixed delay up to the attempt bound. A "not found"
// on the very first page is an immediate, non-retryable failure.
func (b *BusinessIDs) fetchPage(ctx context.Context, offset int, watermark string, firstPage bool) (*businessPage, error) {
	pageURL := b.pageURL(offset, watermark)

	var lastErr error
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		if attempt > 1 {
			logging.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Int("offset", offset).
				Msg("Retrying page fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.delay):
			}
		}

		resp, err := b.client.Get(ctx, pageURL)
		if err != nil {
			// Connection-level failure, retryable.
			lastErr = err
			continue
		}

		page := &businessPage{}
		if err := transport.DecodeResponse(resp, DatasetBusinessIDs, page); err != nil {
			if firstPage && errors.IsNotFound(err) {
				// Nothing to page through.
				return nil, err
			}
			lastErr = err
			continue
		}
		return page, nil
	}
	return nil, fmt.Errorf("page fetch failed after %d attempts: %w", b.maxAttempts, lastErr)
}

// pageURL builds the page request URL for one offset.
func (b *BusinessIDs) pageURL(offset int, watermark string) string {
	query := url.Values{}
	query.Set("totalResults", "true")
	query.Set("maxResults", strconv.Itoa(b.pageSize))
	query.Set("resultsFrom", strconv.Itoa(offset))
	query.Set("companyRegistrationFrom", watermark)
	return b.url + "?" + query.Encode()
}

// convert normalizes one page of API results into entities, logging and
// dropping results without a usable business id.
func (b *BusinessIDs) convert(results []businessResult) (incoming []*registry.BusinessID, skipped int) {
	for _, result := range results {
		entity, err := registry.NewBusinessID(result.BusinessID)
		if err != nil {
			logging.Warn().Err(err).Str("businessId", result.BusinessID).Msg("Skipping invalid result")
			skipped++
			continue
		}
		entity.Source = b.url
		entity.Labels.Set(registry.LanguageFinnish, result.Name)
		entity.CompanyForm = result.CompanyForm
		entity.DetailsURI = result.DetailsURI
		incoming = append(incoming, entity)
	}
	return incoming, skipped
}
