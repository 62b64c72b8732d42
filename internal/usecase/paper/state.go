package paper

import (
	"strings"
	"time"

	"fact-news/internal/domain/entity"
	"fact-news/internal/observability/metrics"
	"fact-news/internal/usecase/notify"
)

// State is the paper view state.
type State struct {
	// Date is the selected YYYY-MM-DD day; empty means today.
	Date  string        `json:"date,omitempty"`
	Paper *entity.Paper `json:"paper,omitempty"`

	// LoadedDate is the resolved YYYY-MM-DD day of the last successful load.
	LoadedDate string `json:"loaded_date,omitempty"`

	Seq          uint64 `json:"seq"`
	Loading      bool   `json:"loading"`
	Loaded       bool   `json:"loaded"`
	FactChecking bool   `json:"fact_checking"`
}

// NewState returns a paper view showing today. Nothing is loaded yet.
func NewState() *State { return &State{} }

// SelectDate picks the day to show; empty returns to today.
// It reports whether the paper must be reloaded.
func (s *State) SelectDate(date string) (bool, error) {
	date = strings.TrimSpace(date)
	if date != "" {
		t, err := entity.ParsePaperDate(date)
		if err != nil {
			return false, err
		}
		date = entity.FormatPaperDate(t)
	}
	if date == s.Date {
		return false, nil
	}
	s.Date = date
	return true, nil
}

// Day resolves the selected day; with no selection it is now's calendar day.
func (s *State) Day(now time.Time) time.Time {
	if s.Date != "" {
		if t, err := entity.ParsePaperDate(s.Date); err == nil {
			return t
		}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// DateValue returns the selected day as YYYY-MM-DD, resolving "today" against now.
func (s *State) DateValue(now time.Time) string {
	return entity.FormatPaperDate(s.Day(now))
}

// NeedsLoad reports whether the shown paper is missing or belongs to another
// day than the one selected at now. With no selection that day moves at midnight.
func (s *State) NeedsLoad(now time.Time) bool {
	return !s.Loaded || s.LoadedDate != s.DateValue(now)
}

// LoadRequest is one issued paper load.
type LoadRequest struct {
	Seq  uint64
	Date time.Time
}

// LoadResult carries the outcome of a LoadRequest.
type LoadResult struct {
	Seq   uint64
	Date  time.Time
	Paper entity.Paper
	// Generated is set when the paper had to be generated first.
	Generated bool
	Err       error
}

// BeginLoad issues a load for the selected day. Earlier loads become stale.
func (s *State) BeginLoad(now time.Time) LoadRequest {
	s.Seq++
	s.Loading = true
	return LoadRequest{Seq: s.Seq, Date: s.Day(now)}
}

// ApplyLoad installs a load result. It reports false for a stale result.
// A failed load leaves the view empty and unloaded, so the next visit retries.
func (s *State) ApplyLoad(res LoadResult, sink notify.Sink) bool {
	if res.Seq != s.Seq {
		metrics.RecordPaperLoad(metrics.ResultStale)
		return false
	}
	s.Loading = false
	s.FactChecking = false
	if res.Err != nil {
		metrics.RecordPaperLoad(metrics.ResultFailure)
		s.Loaded = false
		s.LoadedDate = ""
		s.Paper = nil
		sink.Push(notify.Error(notify.MsgLoadPaper))
		return true
	}
	s.Loaded = true
	s.LoadedDate = entity.FormatPaperDate(res.Date)
	if res.Generated {
		metrics.RecordPaperLoad(metrics.ResultGenerated)
	} else {
		metrics.RecordPaperLoad(metrics.ResultFound)
	}
	p := res.Paper
	s.Paper = &p
	return true
}

// FactCheckRequest is one issued paper fact-check.
type FactCheckRequest struct {
	ID int64
}

// FactCheckResult carries the outcome of a FactCheckRequest.
type FactCheckResult struct {
	ID     int64
	Result entity.FactCheckResult
	Err    error
}

// BeginFactCheck marks the shown paper as being fact-checked.
func (s *State) BeginFactCheck() (FactCheckRequest, error) {
	if s.Paper == nil {
		return FactCheckRequest{}, ErrNoPaper
	}
	if s.Paper.FactChecked {
		return FactCheckRequest{}, ErrAlreadyFactChecked
	}
	if s.FactChecking {
		return FactCheckRequest{}, ErrFactCheckPending
	}
	s.FactChecking = true
	return FactCheckRequest{ID: s.Paper.ID}, nil
}

// ApplyFactCheck updates the shown paper in place when it is still the checked one.
func (s *State) ApplyFactCheck(res FactCheckResult, sink notify.Sink) {
	if s.Paper == nil || s.Paper.ID != res.ID {
		// 別の日付に切り替え済み
		return
	}
	s.FactChecking = false
	if res.Err != nil {
		sink.Push(notify.Error(notify.MsgFactCheckPaper))
		return
	}
	s.Paper.ApplyFactCheck(res.Result)
	sink.Push(notify.Success(notify.MsgPaperChecked))
}
