package repository

import (
	"context"
	"net/url"
	"time"

	"fact-news/internal/domain/entity"
)

// ArticleRepository is the gateway to the remote article listing.
type ArticleRepository interface {
	// ListArticles returns one page of articles for the given listing query
	// (time_period, selected_date, source_id, search, page, page_size).
	ListArticles(ctx context.Context, query url.Values) (entity.ArticleListing, error)
	// FactCheckArticle runs the fact checker on one article.
	FactCheckArticle(ctx context.Context, id int64) (entity.FactCheckResult, error)
}

// PaperRepository is the gateway to the daily papers.
type PaperRepository interface {
	// GetPaper returns the paper for date. A missing paper matches entity.ErrNotFound.
	GetPaper(ctx context.Context, date time.Time) (entity.Paper, error)
	// GeneratePaper synthesises the paper for date.
	GeneratePaper(ctx context.Context, date time.Time) error
	// FactCheckPaper runs the fact checker on one paper.
	FactCheckPaper(ctx context.Context, id int64) (entity.FactCheckResult, error)
}
