package factnews

import (
	"context"
	"net/http"

	"fact-news/internal/domain/entity"
)

// ListSources returns every registered source.
func (c *Client) ListSources(ctx context.Context) ([]entity.Source, error) {
	var sources []entity.Source
	if err := c.do(ctx, "list_sources", http.MethodGet, "/sources", nil, nil, &sources); err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []entity.Source{}
	}
	return sources, nil
}

// AddSource registers the site at rawURL. The API discovers its feed.
func (c *Client) AddSource(ctx context.Context, rawURL string) error {
	payload := map[string]string{"url": rawURL}
	return c.do(ctx, "add_source", http.MethodPost, "/add_source/", nil, payload, nil)
}

// RemoveSource deletes the source with id.
func (c *Client) RemoveSource(ctx context.Context, id int64) error {
	payload := map[string]int64{"id": id}
	return c.do(ctx, "remove_source", http.MethodPost, "/remove_source", nil, payload, nil)
}

// RefreshSource asks the API to scrape new articles for the source at rawURL.
// It returns the API's status message, e.g. "Updated 3 articles".
func (c *Client) RefreshSource(ctx context.Context, rawURL string) (string, error) {
	payload := map[string]string{"url": rawURL}
	var resp detailResponse
	if err := c.do(ctx, "refresh_source", http.MethodPost, "/update_articles_from_source/", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.Detail, nil
}

type detailResponse struct {
	Detail string `json:"detail"`
}
