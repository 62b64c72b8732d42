package factnews

import (
	"context"
	"net/http"
	"net/url"

	"fact-news/internal/domain/entity"
)

// ListArticles returns one page of articles matching query
// (time_period, selected_date, source_id, search, page, page_size).
func (c *Client) ListArticles(ctx context.Context, query url.Values) (entity.ArticleListing, error) {
	var listing entity.ArticleListing
	if err := c.do(ctx, "list_articles", http.MethodGet, "/articles", query, nil, &listing); err != nil {
		return entity.ArticleListing{}, err
	}
	if listing.Articles == nil {
		listing.Articles = []entity.Article{}
	}
	return listing, nil
}

// FactCheckArticle runs the fact checker on an article.
// The API may answer with only a status detail, in which case Summary is nil.
func (c *Client) FactCheckArticle(ctx context.Context, id int64) (entity.FactCheckResult, error) {
	return c.factCheck(ctx, "fact_check_article", "/fact_check_article", id)
}

func (c *Client) factCheck(ctx context.Context, op, path string, id int64) (entity.FactCheckResult, error) {
	var result entity.FactCheckResult
	payload := map[string]int64{"id": id}
	if err := c.do(ctx, op, http.MethodPost, path, nil, payload, &result); err != nil {
		return entity.FactCheckResult{}, err
	}
	result.Checked = true
	return result, nil
}
