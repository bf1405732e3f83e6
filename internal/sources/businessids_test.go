package sources_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/internal/ledger"
	"github.com/refcanon/refcanon/internal/sources"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/errors"
)

type apiResult struct {
	BusinessID  string `json:"businessId"`
	Name        string `json:"name"`
	CompanyForm string `json:"companyForm"`
	DetailsURI  string `json:"detailsUri"`
}

type apiPage struct {
	Results        []apiResult `json:"results"`
	TotalResults   int         `json:"totalResults"`
	NextResultsURI string      `json:"nextResultsUri"`
}

func makeResults(from, count int) []apiResult {
	out := make([]apiResult, 0, count)
	for i := from; i < from+count; i++ {
		out = append(out, apiResult{
			BusinessID:  fmt.Sprintf("%07d-%d", i, i%10),
			Name:        fmt.Sprintf("Company %d", i),
			CompanyForm: "OY",
		})
	}
	return out
}

func businessManifest(url string, maxAttempts int) *sources.Manifest {
	return &sources.Manifest{
		BusinessIDs: sources.APISource{
			URL:         url,
			PageSize:    1000,
			MaxAttempts: maxAttempts,
		},
	}
}

func TestBusinessIDsPaginationTermination(t *testing.T) {
	const total = 1500
	var pages []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("totalResults"))
		assert.Equal(t, "1000", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "1896-01-01", r.URL.Query().Get("companyRegistrationFrom"),
			"no prior success means the historical epoch watermark")

		from, err := strconv.Atoi(r.URL.Query().Get("resultsFrom"))
		require.NoError(t, err)
		pages = append(pages, from)

		count := 1000
		if from+count > total {
			count = total - from
		}
		_ = json.NewEncoder(w).Encode(apiPage{
			Results:        makeResults(from, count),
			TotalResults:   total,
			NextResultsURI: srvNextURI(from+count, total),
		})
	}))
	defer srv.Close()

	ingestor := sources.NewBusinessIDs(businessManifest(srv.URL, 5), ledger.NewMemory())
	deps := &sources.Deps{Stores: store.NewMemorySet()}

	summary, err := ingestor.Ingest(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1000}, pages, "terminates after the partial second page")
	assert.Equal(t, total, summary.Created)
	assert.Zero(t, summary.Skipped)

	persisted, err := deps.Stores.BusinessIDs.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, persisted, total)
}

func srvNextURI(nextFrom, total int) string {
	if nextFrom >= total {
		return ""
	}
	return fmt.Sprintf("/bis/v1?resultsFrom=%d", nextFrom)
}

func TestBusinessIDsRetryExhaustion(t *testing.T) {
	const maxAttempts = 3
	hits := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ingestor := sources.NewBusinessIDs(businessManifest(srv.URL, maxAttempts), ledger.NewMemory(),
		sources.WithRetryDelay(time.Millisecond))
	deps := &sources.Deps{Stores: store.NewMemorySet()}

	_, err := ingestor.Ingest(context.Background(), deps)
	require.Error(t, err)
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Equal(t, maxAttempts, hits, "retried exactly the configured bound of times")
}

func TestBusinessIDsFirstPageNotFound(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ingestor := sources.NewBusinessIDs(businessManifest(srv.URL, 5), ledger.NewMemory(),
		sources.WithRetryDelay(time.Millisecond))
	deps := &sources.Deps{Stores: store.NewMemorySet()}

	_, err := ingestor.Ingest(context.Background(), deps)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, hits, "a first-page not found is never retried")
}

func TestBusinessIDsWatermarkAfterSuccess(t *testing.T) {
	l := ledger.NewMemory()
	ctx := context.Background()

	run, err := l.Begin(ctx, sources.DatasetBusinessIDs, "api", "1896-01-01")
	require.NoError(t, err)
	require.NoError(t, l.MarkSuccess(ctx, run))

	ingestor := sources.NewBusinessIDs(businessManifest("http://unused", 1), l)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	assert.Equal(t, yesterday, ingestor.Version())
}
