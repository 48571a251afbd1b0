package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Back      key.Binding

	// Navigation
	Dashboard  key.Binding
	Invoices   key.Binding
	NewInvoice key.Binding
	Settings   key.Binding
	Chat       key.Binding

	// Actions
	Select      key.Binding
	Search      key.Binding
	Status      key.Binding
	PayLink     key.Binding
	Export      key.Binding
	Edit        key.Binding
	Insights    key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Save        key.Binding
	Send        key.Binding
	AddItem     key.Binding
	RemoveItem  key.Binding
	MagicFill   key.Binding
	Generate    key.Binding
	ResetDraft  key.Binding
	ExportDraft key.Binding
	ClearChat   key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Dashboard:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
	Invoices:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "invoices")),
	NewInvoice:  key.NewBinding(key.WithKeys("3", "n"), key.WithHelp("3/n", "new invoice")),
	Settings:    key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Chat:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "assistant")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Status:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
	PayLink:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "payment link")),
	Export:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export pdf")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit as draft")),
	Insights:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ai insights")),
	NextField:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save draft")),
	Send:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "send")),
	AddItem:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add item")),
	RemoveItem:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	MagicFill:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "magic fill")),
	Generate:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
	ResetDraft:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	ExportDraft: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "export preview")),
	ClearChat:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "new conversation")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
