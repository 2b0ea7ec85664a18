package schedule

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Response is the body served by the weekly schedule endpoint.
type Response struct {
	From string `json:"from"`
	To   string `json:"to"`
	Week Week   `json:"week"`
}

// HTTPFetcher reads the week from a schedule endpoint.
type HTTPFetcher struct {
	client *http.Client
	url    string
}

func NewHTTPFetcher(client *http.Client, url string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, url: url}
}

func (f *HTTPFetcher) FetchWeek(ctx context.Context) (Week, error) {
	const op = "schedule.HTTPFetcher.FetchWeek"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var body Response
	if err := render.DecodeJSON(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return body.Week, nil
}
