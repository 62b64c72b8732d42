package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Feed      key.Binding
	Papers    key.Binding
	Sources   key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Toggle    key.Binding
	FactCheck key.Binding
	Search    key.Binding
	Date      key.Binding
	Source    key.Binding
	Period    key.Binding
	Reset     key.Binding
	Clear     key.Binding
	Add       key.Binding
	Remove    key.Binding
	Refresh   key.Binding
	Preview   key.Binding
	Reload    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous page")),
		Feed:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "feed")),
		Papers:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "papers")),
		Sources:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sources")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		NextPage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "view more")),
		FactCheck: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fact check")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Date:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date")),
		Source:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next source")),
		Period:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next period")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset filters")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear date")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add source")),
		Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Refresh:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "refresh articles")),
		Preview:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "preview feed")),
		Reload:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// pageKeys narrows the help footer to the bindings that apply on one page.
type pageKeys struct {
	km   keyMap
	page Page
}

func (p pageKeys) ShortHelp() []key.Binding {
	switch p.page {
	case PagePapers:
		return []key.Binding{p.km.Date, p.km.Clear, p.km.FactCheck, p.km.NextTab, p.km.Help, p.km.Quit}
	case PageSources:
		return []key.Binding{p.km.Add, p.km.Remove, p.km.PrevPage, p.km.NextPage, p.km.NextTab, p.km.Help, p.km.Quit}
	default:
		return []key.Binding{p.km.Down, p.km.Toggle, p.km.FactCheck, p.km.Search, p.km.NextTab, p.km.Help, p.km.Quit}
	}
}

func (p pageKeys) FullHelp() [][]key.Binding {
	nav := []key.Binding{p.km.NextTab, p.km.PrevTab, p.km.Feed, p.km.Papers, p.km.Sources, p.km.Reload, p.km.Quit}
	switch p.page {
	case PagePapers:
		return [][]key.Binding{{p.km.Date, p.km.Clear, p.km.FactCheck}, nav}
	case PageSources:
		return [][]key.Binding{{p.km.Add, p.km.Preview, p.km.Remove, p.km.Refresh}, {p.km.Up, p.km.Down, p.km.PrevPage, p.km.NextPage}, nav}
	default:
		return [][]key.Binding{
			{p.km.Up, p.km.Down, p.km.Toggle, p.km.FactCheck},
			{p.km.Search, p.km.Date, p.km.Source, p.km.Period, p.km.Reset},
			{p.km.PrevPage, p.km.NextPage},
			nav,
		}
	}
}
