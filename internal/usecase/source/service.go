package source

import (
	"context"
	"fmt"
	"log/slog"

	"fact-news/internal/domain/entity"
	"fact-news/internal/observability/metrics"
	"fact-news/internal/repository"
	"fact-news/internal/usecase/notify"
)

// LoadRequest is one issued list load.
type LoadRequest struct {
	Seq uint64
}

// LoadResult carries the outcome of a LoadRequest.
type LoadResult struct {
	Seq     uint64
	Sources []entity.Source
	Err     error
}

// AddRequest is one issued add.
type AddRequest struct {
	URL string
}

// AddResult carries the outcome of an AddRequest.
type AddResult struct {
	Err error
	// Sources is the refetched list; nil when the refetch failed.
	Sources []entity.Source
}

// RemoveRequest is one issued remove.
type RemoveRequest struct {
	ID int64
}

// RemoveResult carries the outcome of a RemoveRequest.
type RemoveResult struct {
	ID  int64
	Err error
}

// RefreshRequest is one issued article refresh for a source.
type RefreshRequest struct {
	ID      int64
	RootURL string
}

// RefreshResult carries the outcome of a RefreshRequest.
type RefreshResult struct {
	Detail string
	Err    error
}

// PreviewRequest is one issued feed preview of the input field.
type PreviewRequest struct {
	Seq uint64
	URL string
}

// PreviewResult carries the outcome of a PreviewRequest.
type PreviewResult struct {
	Seq     uint64
	Preview entity.FeedPreview
	Err     error
}

// Prober discovers the feed behind a candidate source URL.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (entity.FeedPreview, error)
}

// BeginLoad issues a list load. Earlier loads become stale.
func (s *State) BeginLoad() LoadRequest {
	s.Seq++
	s.Loading = true
	return LoadRequest{Seq: s.Seq}
}

// ApplyLoad installs a list result. It reports false for a stale result.
// A failed load leaves an empty collection that is not marked loaded, so the
// next visit fetches again.
func (s *State) ApplyLoad(res LoadResult, sink notify.Sink) bool {
	if res.Seq != s.Seq {
		return false
	}
	s.Loading = false
	if res.Err != nil {
		s.Loaded = false
		s.setSources(nil)
		pushAPIError(sink, res.Err)
		return true
	}
	s.Loaded = true
	s.setSources(res.Sources)
	return true
}

// BeginAdd validates the input field and marks an add as running.
// Blank input returns ErrEmptyInput and raises nothing. A malformed URL raises a notice.
func (s *State) BeginAdd(sink notify.Sink) (AddRequest, error) {
	if s.Adding {
		return AddRequest{}, ErrAddPending
	}
	raw := s.trimmedInput()
	if raw == "" {
		return AddRequest{}, ErrEmptyInput
	}
	if err := entity.ValidateSourceURL(raw); err != nil {
		sink.Push(notify.Error(notify.MsgSourceURLRequired))
		return AddRequest{}, err
	}
	s.Adding = true
	return AddRequest{URL: raw}, nil
}

// ApplyAdd installs an add result. On success the input is cleared and, when
// the refetch succeeded, the grid moves to the last page of the new list.
func (s *State) ApplyAdd(res AddResult, sink notify.Sink) {
	s.Adding = false
	if res.Err != nil {
		pushAPIError(sink, res.Err)
		return
	}
	sink.Push(notify.Success(notify.MsgSourceAdded))
	s.Input = ""
	s.Preview = nil
	if res.Sources != nil {
		s.setSources(res.Sources)
		s.Page = s.TotalPages()
	}
}

// BeginRemove marks a remove of a loaded source as running.
func (s *State) BeginRemove(id int64) (RemoveRequest, error) {
	if s.RemovingID != 0 {
		return RemoveRequest{}, ErrRemovePending
	}
	if _, ok := s.Find(id); !ok {
		return RemoveRequest{}, ErrSourceNotFound
	}
	s.RemovingID = id
	return RemoveRequest{ID: id}, nil
}

// ApplyRemove installs a remove result. Success drops the source locally without refetching.
func (s *State) ApplyRemove(res RemoveResult, sink notify.Sink) {
	s.RemovingID = 0
	if res.Err != nil {
		pushAPIError(sink, res.Err)
		return
	}
	sink.Push(notify.Success(notify.MsgSourceRemoved))
	s.removeLocal(res.ID)
}

// BeginRefresh prepares an article refresh for a loaded source.
func (s *State) BeginRefresh(id int64) (RefreshRequest, error) {
	src, ok := s.Find(id)
	if !ok {
		return RefreshRequest{}, ErrSourceNotFound
	}
	return RefreshRequest{ID: id, RootURL: src.RootURL}, nil
}

// ApplyRefresh reports a refresh result. The list itself is unchanged.
func (s *State) ApplyRefresh(res RefreshResult, sink notify.Sink) {
	if res.Err != nil {
		pushAPIError(sink, res.Err)
		return
	}
	if res.Detail != "" {
		sink.Push(notify.Info(res.Detail))
	}
}

// BeginPreview issues a feed preview of the input field. Earlier previews become stale.
// Blank input returns ErrEmptyInput; a malformed URL raises a notice.
func (s *State) BeginPreview(sink notify.Sink) (PreviewRequest, error) {
	raw := s.trimmedInput()
	if raw == "" {
		return PreviewRequest{}, ErrEmptyInput
	}
	if err := entity.ValidateSourceURL(raw); err != nil {
		sink.Push(notify.Error(notify.MsgSourceURLRequired))
		return PreviewRequest{}, err
	}
	s.PreviewSeq++
	s.Previewing = true
	s.Preview = nil
	return PreviewRequest{Seq: s.PreviewSeq, URL: raw}, nil
}

// ApplyPreview installs a preview result. It reports false for a stale result.
func (s *State) ApplyPreview(res PreviewResult, sink notify.Sink) bool {
	if res.Seq != s.PreviewSeq {
		return false
	}
	s.Previewing = false
	if res.Err != nil {
		sink.Push(notify.Error(notify.MsgPreviewFailed))
		return true
	}
	p := res.Preview
	s.Preview = &p
	return true
}

func pushAPIError(sink notify.Sink, err error) {
	if n, ok := notify.FromAPIError(err); ok {
		sink.Push(n)
	}
}

// Service performs the sources view's API calls.
type Service struct {
	Repo repository.SourceRepository
	// Prober is optional; without it Preview returns ErrPreviewUnavailable.
	Prober Prober
	Logger *slog.Logger
}

func (svc *Service) logger() *slog.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return slog.Default()
}

// Fetch lists every registered source.
func (svc *Service) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	sources, err := svc.Repo.ListSources(ctx)
	if err != nil {
		err = fmt.Errorf("list sources: %w", err)
		svc.logger().Error("sources load failed", slog.Any("error", err))
	}
	return LoadResult{Seq: req.Seq, Sources: sources, Err: err}
}

// Add registers a source and refetches the list. A failed refetch is only logged.
func (svc *Service) Add(ctx context.Context, req AddRequest) AddResult {
	err := svc.Repo.AddSource(ctx, req.URL)
	metrics.RecordSourceChange("add", err == nil)
	if err != nil {
		err = fmt.Errorf("add source: %w", err)
		svc.logger().Error("add source failed", slog.String("url", req.URL), slog.Any("error", err))
		return AddResult{Err: err}
	}
	svc.logger().Info("source added", slog.String("url", req.URL))

	sources, err := svc.Repo.ListSources(ctx)
	if err != nil {
		svc.logger().Error("refetch sources after add failed", slog.Any("error", err))
		return AddResult{}
	}
	if sources == nil {
		sources = []entity.Source{}
	}
	return AddResult{Sources: sources}
}

// Remove deletes a source.
func (svc *Service) Remove(ctx context.Context, req RemoveRequest) RemoveResult {
	err := svc.Repo.RemoveSource(ctx, req.ID)
	metrics.RecordSourceChange("remove", err == nil)
	if err != nil {
		err = fmt.Errorf("remove source %d: %w", req.ID, err)
		svc.logger().Error("remove source failed", slog.Int64("source_id", req.ID), slog.Any("error", err))
	}
	return RemoveResult{ID: req.ID, Err: err}
}

// Refresh asks the API to scrape new articles for a source.
func (svc *Service) Refresh(ctx context.Context, req RefreshRequest) RefreshResult {
	detail, err := svc.Repo.RefreshSource(ctx, req.RootURL)
	metrics.RecordSourceChange("refresh", err == nil)
	if err != nil {
		err = fmt.Errorf("refresh source %d: %w", req.ID, err)
		svc.logger().Error("refresh source failed", slog.Int64("source_id", req.ID), slog.Any("error", err))
	}
	return RefreshResult{Detail: detail, Err: err}
}

// Preview discovers the feed behind rawURL without registering anything.
func (svc *Service) Preview(ctx context.Context, rawURL string) (entity.FeedPreview, error) {
	if svc.Prober == nil {
		return entity.FeedPreview{}, ErrPreviewUnavailable
	}
	if err := entity.ValidateSourceURL(rawURL); err != nil {
		return entity.FeedPreview{}, err
	}
	preview, err := svc.Prober.Probe(ctx, rawURL)
	if err != nil {
		return entity.FeedPreview{}, fmt.Errorf("preview source: %w", err)
	}
	return preview, nil
}

// FetchPreview runs a preview issued by BeginPreview.
func (svc *Service) FetchPreview(ctx context.Context, req PreviewRequest) PreviewResult {
	preview, err := svc.Preview(ctx, req.URL)
	if err != nil {
		svc.logger().Warn("source preview failed", slog.String("url", req.URL), slog.Any("error", err))
	}
	return PreviewResult{Seq: req.Seq, Preview: preview, Err: err}
}

// Load runs a whole list load synchronously against st.
func (svc *Service) Load(ctx context.Context, st *State, sink notify.Sink) {
	st.ApplyLoad(svc.Fetch(ctx, st.BeginLoad()), sink)
}

// RunAdd runs a whole add synchronously against st.
func (svc *Service) RunAdd(ctx context.Context, st *State, sink notify.Sink) error {
	req, err := st.BeginAdd(sink)
	if err != nil {
		return err
	}
	st.ApplyAdd(svc.Add(ctx, req), sink)
	return nil
}

// RunRemove runs a whole remove synchronously against st.
func (svc *Service) RunRemove(ctx context.Context, st *State, id int64, sink notify.Sink) error {
	req, err := st.BeginRemove(id)
	if err != nil {
		return err
	}
	st.ApplyRemove(svc.Remove(ctx, req), sink)
	return nil
}

// RunRefresh runs a whole refresh synchronously against st.
func (svc *Service) RunRefresh(ctx context.Context, st *State, id int64, sink notify.Sink) error {
	req, err := st.BeginRefresh(id)
	if err != nil {
		return err
	}
	st.ApplyRefresh(svc.Refresh(ctx, req), sink)
	return nil
}
