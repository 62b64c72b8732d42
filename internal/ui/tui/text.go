package tui

// UI text
const (
	TextFeedTitle    = "My News Feed"
	TextPapersTitle  = "Daily Paper"
	TextSourcesTitle = "My News Sources"

	TextNoArticles     = "No articles found"
	TextNoArticlesHint = "Try adjusting your filters or check back later."
	TextNoPaper        = "No paper found"
	TextNoSources      = "No sources found. Add your first source above."
	TextLoading        = "Loading..."
	TextRemoving       = "Removing..."
	TextAllSources     = "All Sources"
	TextPreviewing     = "Looking for a feed..."
	TextPreviewFeed    = "Feed"
)
