package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"fact-news/internal/domain/entity"
	"fact-news/internal/observability/metrics"
	"fact-news/internal/repository"
	"fact-news/internal/usecase/notify"
)

// LoadRequest is one issued feed load.
type LoadRequest struct {
	Seq   uint64
	Query url.Values
}

// LoadResult carries the outcome of a LoadRequest.
type LoadResult struct {
	Seq     uint64
	Sources []entity.Source
	Listing entity.ArticleListing
	Err     error
}

// FactCheckRequest is one issued article fact-check.
type FactCheckRequest struct {
	ID int64
}

// FactCheckResult carries the outcome of a FactCheckRequest.
type FactCheckResult struct {
	ID     int64
	Result entity.FactCheckResult
	Err    error
}

// BeginLoad issues a new load for the current filter. Any result of an earlier load
// arriving afterwards is discarded by ApplyLoad.
func (s *State) BeginLoad() LoadRequest {
	s.Seq++
	s.Loading = true
	return LoadRequest{Seq: s.Seq, Query: s.Filter.Query()}
}

// ApplyLoad installs a load result. It reports false for a stale result.
// A failed load keeps the previously visible articles.
func (s *State) ApplyLoad(res LoadResult, sink notify.Sink) bool {
	if res.Seq != s.Seq {
		metrics.RecordFeedLoad(metrics.ResultStale)
		return false
	}
	s.Loading = false
	if res.Err != nil {
		metrics.RecordFeedLoad(metrics.ResultFailure)
		sink.Push(notify.Error(notify.MsgLoadArticles))
		return true
	}
	metrics.RecordFeedLoad(metrics.ResultSuccess)

	s.Sources = res.Sources
	s.Articles = res.Listing.Articles
	// total が無い (または 0) 場合は取得件数を使う
	if res.Listing.Total != nil && *res.Listing.Total > 0 {
		s.Total = *res.Listing.Total
	} else {
		s.Total = len(res.Listing.Articles)
	}
	s.Loaded = true
	return true
}

// BeginFactCheck marks an article as being fact-checked.
// Checked, pending and off-page articles are refused.
func (s *State) BeginFactCheck(id int64) (FactCheckRequest, error) {
	s.ensureMaps()
	a, ok := s.Article(id)
	if !ok {
		return FactCheckRequest{}, ErrArticleNotVisible
	}
	if a.FactChecked {
		return FactCheckRequest{}, ErrAlreadyFactChecked
	}
	if s.FactChecking[id] {
		return FactCheckRequest{}, ErrFactCheckPending
	}
	s.FactChecking[id] = true
	return FactCheckRequest{ID: id}, nil
}

// ApplyFactCheck updates only the targeted article in place.
func (s *State) ApplyFactCheck(res FactCheckResult, sink notify.Sink) {
	s.ensureMaps()
	delete(s.FactChecking, res.ID)
	if res.Err != nil {
		sink.Push(notify.Error(notify.MsgFactCheckArticle))
		return
	}
	for i := range s.Articles {
		if s.Articles[i].ID == res.ID {
			s.Articles[i].ApplyFactCheck(res.Result)
			break
		}
	}
	sink.Push(notify.Success(notify.MsgArticleChecked))
}

// Service performs the feed's API calls.
type Service struct {
	Sources  repository.SourceRepository
	Articles repository.ArticleRepository
	Logger   *slog.Logger
}

func (svc *Service) logger() *slog.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return slog.Default()
}

// Fetch loads the sources list, then the requested page of articles.
func (svc *Service) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	res := LoadResult{Seq: req.Seq}

	sources, err := svc.Sources.ListSources(ctx)
	if err != nil {
		res.Err = fmt.Errorf("list sources: %w", err)
		svc.logger().Error("feed load failed", slog.Any("error", res.Err))
		return res
	}
	listing, err := svc.Articles.ListArticles(ctx, req.Query)
	if err != nil {
		res.Err = fmt.Errorf("list articles: %w", err)
		svc.logger().Error("feed load failed",
			slog.String("query", req.Query.Encode()),
			slog.Any("error", res.Err))
		return res
	}

	res.Sources = sources
	res.Listing = listing
	return res
}

// FactCheck runs one article fact-check.
func (svc *Service) FactCheck(ctx context.Context, req FactCheckRequest) FactCheckResult {
	result, err := svc.Articles.FactCheckArticle(ctx, req.ID)
	metrics.RecordFactCheck("article", err == nil)
	if err != nil {
		err = fmt.Errorf("fact check article %d: %w", req.ID, err)
		svc.logger().Error("article fact-check failed", slog.Int64("article_id", req.ID), slog.Any("error", err))
	}
	return FactCheckResult{ID: req.ID, Result: result, Err: err}
}

// Load runs a whole load synchronously against st.
func (svc *Service) Load(ctx context.Context, st *State, sink notify.Sink) {
	st.ApplyLoad(svc.Fetch(ctx, st.BeginLoad()), sink)
}

// RunFactCheck runs a whole fact-check synchronously against st.
// A refused request (already checked, pending, off-page) returns the refusal and does nothing.
func (svc *Service) RunFactCheck(ctx context.Context, st *State, id int64, sink notify.Sink) error {
	req, err := st.BeginFactCheck(id)
	if err != nil {
		return err
	}
	st.ApplyFactCheck(svc.FactCheck(ctx, req), sink)
	return nil
}
