package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fact-news/internal/domain/entity"
	"fact-news/internal/ui/format"
	"fact-news/internal/usecase/notify"
)

// gridColumns is the width of the sources grid; a default page fills two rows.
const gridColumns = 3

const defaultWidth = 96

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.page {
	case PagePapers:
		b.WriteString(m.paperView())
	case PageSources:
		b.WriteString(m.sourcesView())
	default:
		b.WriteString(m.feedView())
	}
	b.WriteString("\n")

	// Toasts
	for _, n := range m.notices.Items {
		b.WriteString(toastStyle(n.Level).Render(toastIcon(n.Level) + " " + n.Text))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(pageKeys{km: m.keys, page: m.page}))
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) tabs() string {
	tabs := make([]string, len(pageNames))
	for i, name := range pageNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Page(i) == m.page {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

/*────────────────────  Feed  ────────────────────*/

func (m Model) feedView() string {
	st := m.feed
	var b strings.Builder

	b.WriteString(titleStyle.Render(TextFeedTitle))
	b.WriteString("\n")

	switch m.focus {
	case focusSearch:
		b.WriteString("Search: " + m.search.View() + "\n")
	case focusFeedDate:
		b.WriteString("Date: " + m.feedDate.View() + "\n")
	}
	b.WriteString(m.filterBadges())
	b.WriteString("\n\n")

	if st.Loading && !st.Loaded {
		b.WriteString(infoStyle.Render(TextLoading))
		return b.String()
	}
	if len(st.Articles) == 0 {
		b.WriteString(headlineStyle.Render(TextNoArticles))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(TextNoArticlesHint))
		b.WriteString("\n")
		return b.String()
	}

	width := m.contentWidth() - 4
	for i, a := range st.Articles {
		style := cardStyle
		if i == m.feedCursor {
			style = selectedCardStyle
		}
		b.WriteString(style.Width(width).Render(m.articleCard(a, width-2)))
		b.WriteString("\n")
	}
	b.WriteString(m.feedPager())
	return b.String()
}

func (m Model) filterBadges() string {
	f := m.feed.Filter
	source := TextAllSources
	if name := m.feed.SelectedSourceName(); name != "" {
		source = "Source: " + name
	}
	badges := []string{badgeStyle.Render(source)}
	if f.Date != "" {
		badges = append(badges, badgeStyle.Render("Date: "+format.DateBadge(f.Date)))
	} else {
		badges = append(badges, badgeStyle.Render(f.Period.Label()))
	}
	if f.Search != "" {
		badges = append(badges, badgeStyle.Render("Search: "+f.Search))
	}
	if m.feed.Loading {
		badges = append(badges, infoStyle.Render(TextLoading))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}

func (m Model) articleCard(a entity.Article, width int) string {
	var b strings.Builder
	b.WriteString(headlineStyle.Render(format.Truncate(a.Title, width)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.feed.SourceName(a) + " · " + format.Timestamp(a.PubDate)))
	b.WriteString("\n")

	if m.feed.IsExpanded(a.ID) {
		b.WriteString(format.Content(a.Content))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("[enter] Show Less"))
	} else {
		b.WriteString(format.Description(a.Description))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("[enter] View More"))
	}
	b.WriteString("\n")
	b.WriteString(factCheckBlock(a.FactChecked, a.FactSummary, m.feed.IsFactChecking(a.ID)))
	return b.String()
}

func factCheckBlock(checked bool, summary *string, pending bool) string {
	switch {
	case checked:
		text := format.Summary(summary)
		if text == "" {
			return summaryStyle.Render("Fact checked")
		}
		return summaryStyle.Render("Fact Check Summary\n" + text)
	case pending:
		return warnStyle.Render("Fact checking…")
	default:
		return infoStyle.Render("[f] Fact Check")
	}
}

func (m Model) feedPager() string {
	st := m.feed
	items := st.PageWindow()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			parts = append(parts, "…")
		case it.Current:
			parts = append(parts, currentPageStyle.Render(fmt.Sprintf(" %d ", it.Page)))
		default:
			parts = append(parts, fmt.Sprintf(" %d ", it.Page))
		}
	}
	return fmt.Sprintf("%s  %s",
		strings.Join(parts, " "),
		infoStyle.Render(fmt.Sprintf("Page %d of %d", st.Filter.Page, st.TotalPages())))
}

/*────────────────────  Papers  ────────────────────*/

func (m Model) paperView() string {
	st := m.paper
	var b strings.Builder

	b.WriteString(titleStyle.Render(TextPapersTitle))
	b.WriteString("\n")
	if m.focus == focusPaperDate {
		b.WriteString("Date: " + m.paperDate.View())
	} else {
		b.WriteString(badgeStyle.Render("Date: " + format.DateBadge(st.DateValue(m.opts.Now()))))
	}
	b.WriteString("\n\n")

	if st.Loading {
		b.WriteString(infoStyle.Render(TextLoading))
		return b.String()
	}
	if st.Paper == nil {
		b.WriteString(headlineStyle.Render(TextNoPaper))
		b.WriteString("\n")
		return b.String()
	}

	p := st.Paper
	width := m.contentWidth() - 4
	var card strings.Builder
	card.WriteString(headlineStyle.Render(fmt.Sprintf("Paper ID: %d", p.ID)))
	card.WriteString("\n")
	card.WriteString(infoStyle.Render(format.Timestamp(p.PubDate)))
	card.WriteString("\n\n")
	card.WriteString(format.Content(p.Content))
	card.WriteString("\n\n")
	card.WriteString(factCheckBlock(p.FactChecked, p.FactSummary, st.FactChecking))
	b.WriteString(cardStyle.Width(width).Render(card.String()))
	return b.String()
}

/*────────────────────  Sources  ────────────────────*/

func (m Model) sourcesView() string {
	st := m.sources
	var b strings.Builder

	b.WriteString(titleStyle.Render(TextSourcesTitle))
	b.WriteString("\n")
	b.WriteString("Add: " + m.url.View())
	if st.Adding {
		b.WriteString("  " + infoStyle.Render(TextLoading))
	}
	b.WriteString("\n")
	if p := m.sourcePreview(); p != "" {
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if st.Loading && !st.Loaded {
		b.WriteString(infoStyle.Render(TextLoading))
		return b.String()
	}
	if len(st.Sources) == 0 {
		b.WriteString(infoStyle.Render(TextNoSources))
		return b.String()
	}

	b.WriteString(m.sourceGrid())
	b.WriteString("\n")
	b.WriteString(m.sourceDots())
	return b.String()
}

// sourcePreview describes the feed found behind the URL field, if one was probed.
func (m Model) sourcePreview() string {
	st := m.sources
	if st.Previewing {
		return infoStyle.Render(TextPreviewing)
	}
	p := st.Preview
	if p == nil {
		return ""
	}
	title := p.Title
	if title == "" {
		title = p.FeedURL
	}
	lines := []string{fmt.Sprintf("%s: %s (%d items)", TextPreviewFeed, title, p.ItemCount)}
	for _, item := range p.LatestItems {
		lines = append(lines, "  • "+format.Truncate(item, m.contentWidth()-4))
	}
	return infoStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) sourceGrid() string {
	st := m.sources
	cellWidth := (m.contentWidth() - 2*gridColumns) / gridColumns

	cells := make([]string, 0, st.PageSize)
	for i, src := range st.Visible() {
		style := cardStyle
		if i == m.sourceCursor {
			style = selectedCardStyle
		}
		cells = append(cells, style.Width(cellWidth).Render(m.sourceCard(src, cellWidth-2)))
	}
	for i := 0; i < st.Placeholders(); i++ {
		cells = append(cells, placeholderStyle.Width(cellWidth).Render(strings.Repeat(" ", cellWidth-2)+"\n\n"))
	}

	rows := make([]string, 0, len(cells)/gridColumns+1)
	for start := 0; start < len(cells); start += gridColumns {
		end := min(start+gridColumns, len(cells))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) sourceCard(src entity.Source, width int) string {
	name := headlineStyle.Render(format.Truncate(src.Name, width))
	if m.sources.RemovingID == src.ID {
		return name + "\n" + warnStyle.Render(TextRemoving) + "\n"
	}
	return name + "\n" +
		infoStyle.Render(format.Truncate(src.RootURL, width)) + "\n" +
		infoStyle.Render(format.Truncate("Added "+format.Timestamp(src.CreatedAt), width))
}

// sourceDots renders one dot per grid page with arrows where paging is possible.
func (m Model) sourceDots() string {
	st := m.sources
	var b strings.Builder
	if st.HasPrev() {
		b.WriteString("‹ ")
	} else {
		b.WriteString("  ")
	}
	for p := 1; p <= st.TotalPages(); p++ {
		if p == st.Page {
			b.WriteString(currentPageStyle.Render("●"))
		} else {
			b.WriteString(infoStyle.Render("○"))
		}
		b.WriteString(" ")
	}
	if st.HasNext() {
		b.WriteString("›")
	}
	return b.String()
}

func toastStyle(level notify.Level) lipgloss.Style {
	if s, ok := toastStyles[string(level)]; ok {
		return s
	}
	return toastStyles["info"]
}

func toastIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return "✓"
	case notify.LevelError:
		return "✗"
	default:
		return "•"
	}
}
