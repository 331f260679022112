package extractor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/groundsignal/leadradar/internal/resilience"
)

const maxResponseBytes = 10 << 20

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// fetchBody GETs a URL with retries on transient failures and returns
// the response body, capped at maxResponseBytes.
func fetchBody(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	return resilience.Do(ctx, resilience.DefaultPolicy(), "extractor.fetch", func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "extractor: build request for %s", rawURL)
		}
		req.Header.Set("User-Agent", "leadradar/1.0")

		resp, err := client.Do(req)
		if err != nil {
			return nil, eris.Wrapf(err, "extractor: fetch %s", rawURL)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("extractor: %s returned %d", rawURL, resp.StatusCode)
			if resilience.RetryableStatus(resp.StatusCode) {
				return nil, resilience.Transient(err, resp.StatusCode)
			}
			return nil, err
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, eris.Wrapf(err, "extractor: read body from %s", rawURL)
		}
		return body, nil
	})
}

// parseDate tries the formats feeds actually emit.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
