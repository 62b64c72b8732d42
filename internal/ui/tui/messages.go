package tui

import (
	"time"

	feedUC "fact-news/internal/usecase/feed"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
)

// Messages carrying finished API calls back to the event loop.

type feedLoadedMsg struct{ res feedUC.LoadResult }

type articleCheckedMsg struct{ res feedUC.FactCheckResult }

type paperLoadedMsg struct{ res paperUC.LoadResult }

type paperCheckedMsg struct{ res paperUC.FactCheckResult }

type sourcesLoadedMsg struct{ res srcUC.LoadResult }

type sourceAddedMsg struct{ res srcUC.AddResult }

type sourceRemovedMsg struct{ res srcUC.RemoveResult }

type sourceRefreshedMsg struct{ res srcUC.RefreshResult }

type sourcePreviewedMsg struct{ res srcUC.PreviewResult }

// noticeExpiredMsg is sent when the oldest visible notice may have timed out.
type noticeExpiredMsg struct{ at time.Time }
