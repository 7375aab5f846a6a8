// Package upstream implements the listing-fetch endpoint client and a
// Redis-backed page cache in front of it.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"jobmate/search-service/internal/model"
)

// DefaultURL is the public sample listing endpoint.
const DefaultURL = "https://api.weekday.technology/adhoc/getSampleJdJSON"

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

// HTTPFetcher posts {limit, offset} to the listing endpoint and decodes the
// jdList response. Transport errors, non-2xx statuses and malformed bodies
// are all returned as errors; the caller does not distinguish them.
type HTTPFetcher struct {
	URL    string
	client *http.Client
}

// NewHTTPFetcher constructs a fetcher with a dedicated HTTP client.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		URL: url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchPage issues one POST for the given page.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pr model.PageRequest) (model.PageResponse, error) {
	payload, err := json.Marshal(pr)
	if err != nil {
		return model.PageResponse{}, fmt.Errorf("json marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL, bytes.NewReader(payload))
	if err != nil {
		return model.PageResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.PageResponse{}, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PageResponse{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return model.PageResponse{}, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}

	var page model.PageResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return model.PageResponse{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return page, nil
}
