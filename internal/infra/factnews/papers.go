package factnews

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"fact-news/internal/domain/entity"
)

// GetPaper returns the paper published on date.
// A missing paper yields an error matching entity.ErrNotFound.
func (c *Client) GetPaper(ctx context.Context, date time.Time) (entity.Paper, error) {
	query := url.Values{"date": {entity.FormatPaperDate(date)}}
	var paper entity.Paper
	if err := c.do(ctx, "get_paper", http.MethodGet, "/papers", query, nil, &paper); err != nil {
		return entity.Paper{}, err
	}
	return paper, nil
}

// GeneratePaper asks the API to synthesise the paper for date.
func (c *Client) GeneratePaper(ctx context.Context, date time.Time) error {
	payload := map[string]string{"date": entity.FormatPaperDate(date)}
	return c.do(ctx, "generate_paper", http.MethodPost, "/generate_paper", nil, payload, nil)
}

// FactCheckPaper runs the fact checker on a paper.
func (c *Client) FactCheckPaper(ctx context.Context, id int64) (entity.FactCheckResult, error) {
	return c.factCheck(ctx, "fact_check_paper", "/fact_check_paper", id)
}
