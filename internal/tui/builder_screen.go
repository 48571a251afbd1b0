package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Header fields of the builder form, followed by three inputs per line item
const (
	fieldCustomerName = iota
	fieldCustomerEmail
	fieldCustomerAddress
	fieldDate
	fieldDueDate
	fieldNotes
	headerFieldCount
)

const itemFieldCount = 3

var headerLabels = [headerFieldCount]string{
	"Customer",
	"Email",
	"Address",
	"Date",
	"Due Date",
	"Notes",
}

type itemRow struct {
	description textinput.Model
	quantity    textinput.Model
	unitPrice   textinput.Model
}

func (r *itemRow) input(col int) *textinput.Model {
	switch col {
	case 0:
		return &r.description
	case 1:
		return &r.quantity
	default:
		return &r.unitPrice
	}
}

// BuilderModel is the invoice builder form bound to the stored draft
type BuilderModel struct {
	app *app.App
	ctx context.Context
	gen int

	draft  *domain.Draft
	header [headerFieldCount]textinput.Model
	items  []itemRow
	focus  int
	writer *draftWriter

	// Magic fill
	magic      textarea.Model
	magicOpen  bool
	extracting bool

	sending bool
	spinner spinner.Model

	statusMsg string
	warning   string
	inputErr  error
	err       error
	loading   bool
}

// IsCapturingInput is always true: every printable key belongs to the form
func (m *BuilderModel) IsCapturingInput() bool {
	return true
}

type draftLoadedMsg struct {
	mounted
	draft  *domain.Draft
	status string
	err    error
}

type autosavedMsg struct {
	mounted
	err error
}

type draftSavedMsg struct {
	mounted
	text string
	err  error
}

type extractedMsg struct {
	mounted
	draft *domain.Draft
	err   error
}

type sentMsg struct {
	mounted
	result service.SendResult
	err    error
}

// NewBuilderModel creates the invoice builder screen
func NewBuilderModel(a *app.App) tea.Model {
	ta := textarea.New()
	ta.Placeholder = "e.g. Bill Kampala Fresh Foods for 3 crates of matooke at 45,000 each and delivery 20,000"
	ta.SetWidth(70)
	ta.SetHeight(4)
	ta.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	return &BuilderModel{
		app:     a,
		ctx:     context.Background(),
		writer:  &draftWriter{},
		magic:   ta,
		spinner: s,
		loading: true,
	}
}

func (m *BuilderModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *BuilderModel) busy() bool {
	return m.sending || m.extracting
}

// setDraft rebuilds the form inputs from d
func (m *BuilderModel) setDraft(d *domain.Draft) {
	m.draft = d

	values := [headerFieldCount]string{
		d.CustomerName,
		d.CustomerEmail,
		d.CustomerAddress,
		d.Date,
		d.DueDate,
		d.Notes,
	}
	for i := range m.header {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 40
		ti.Prompt = ""
		ti.SetValue(values[i])
		m.header[i] = ti
	}
	m.header[fieldDate].Placeholder = domain.DateLayout
	m.header[fieldDueDate].Placeholder = m.suggestedDueDate()

	m.items = make([]itemRow, len(d.Items))
	for i, item := range d.Items {
		m.items[i] = newItemRow(item)
	}

	if m.focus >= m.fieldCount() {
		m.focus = m.fieldCount() - 1
	}
	m.applyFocus()
}

func newItemRow(item domain.DraftItem) itemRow {
	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 200
	desc.Width = 30
	desc.Prompt = ""
	desc.SetValue(item.Description)

	qty := textinput.New()
	qty.Placeholder = "Qty"
	qty.CharLimit = 12
	qty.Width = 6
	qty.Prompt = ""
	qty.SetValue(formatAmount(item.Quantity))

	price := textinput.New()
	price.Placeholder = "Unit price"
	price.CharLimit = 16
	price.Width = 12
	price.Prompt = ""
	price.SetValue(formatAmount(item.UnitPrice))

	return itemRow{description: desc, quantity: qty, unitPrice: price}
}

func (m *BuilderModel) suggestedDueDate() string {
	date, err := time.Parse(domain.DateLayout, m.header[fieldDate].Value())
	if err != nil {
		return domain.DateLayout
	}
	return date.AddDate(0, 0, m.app.Config.Invoice.DefaultDueDays).Format(domain.DateLayout)
}

func (m *BuilderModel) fieldCount() int {
	return headerFieldCount + itemFieldCount*len(m.items)
}

// input returns the text input at flat index i
func (m *BuilderModel) input(i int) *textinput.Model {
	if i < headerFieldCount {
		return &m.header[i]
	}
	i -= headerFieldCount
	return m.items[i/itemFieldCount].input(i % itemFieldCount)
}

// focusedItem returns the line index under focus, or -1 on a header field
func (m *BuilderModel) focusedItem() int {
	if m.focus < headerFieldCount {
		return -1
	}
	return (m.focus - headerFieldCount) / itemFieldCount
}

func (m *BuilderModel) applyFocus() {
	for i := 0; i < m.fieldCount(); i++ {
		if i == m.focus && !m.magicOpen {
			m.input(i).Focus()
		} else {
			m.input(i).Blur()
		}
	}
}

// syncDraft copies the form inputs into the draft.
// Unparseable numbers keep their previous value and set inputErr.
func (m *BuilderModel) syncDraft() {
	d := m.draft
	d.CustomerName = m.header[fieldCustomerName].Value()
	d.CustomerEmail = m.header[fieldCustomerEmail].Value()
	d.CustomerAddress = m.header[fieldCustomerAddress].Value()
	d.Date = m.header[fieldDate].Value()
	d.DueDate = m.header[fieldDueDate].Value()
	d.Notes = m.header[fieldNotes].Value()
	m.header[fieldDueDate].Placeholder = m.suggestedDueDate()

	m.inputErr = nil
	for i := range m.items {
		row := &m.items[i]
		d.Items[i].Description = row.description.Value()

		if q, err := parseAmount(row.quantity.Value()); err != nil {
			m.inputErr = fmt.Errorf("line %d: quantity %q is not a number", i+1, row.quantity.Value())
		} else {
			d.Items[i].Quantity = q
		}
		if p, err := parseAmount(row.unitPrice.Value()); err != nil {
			m.inputErr = fmt.Errorf("line %d: unit price %q is not a number", i+1, row.unitPrice.Value())
		} else {
			d.Items[i].UnitPrice = p
		}
	}
	if m.inputErr == nil {
		m.inputErr = d.Validate()
	}
}

func (m *BuilderModel) loadDraft() tea.Cmd {
	ctx, gen := m.ctx, m.gen
	return func() tea.Msg {
		d, ok := m.app.DraftService.Load(ctx)
		msg := draftLoadedMsg{mounted: mounted{gen}, draft: d}
		if ok && !d.IsBlank() {
			msg.status = "Restored your saved draft."
		}
		return msg
	}
}

// autosave writes the current draft through to storage.
// The write outlives the screen so the last keystroke is kept on exit.
func (m *BuilderModel) autosave() tea.Cmd {
	ctx, gen, d, seq, w := context.WithoutCancel(m.ctx), m.gen, m.draft.Clone(), m.writer.next(), m.writer
	return func() tea.Msg {
		err := w.autosave(seq, func() error { return m.app.DraftService.Save(ctx, d) })
		return autosavedMsg{mounted: mounted{gen}, err: err}
	}
}

func (m *BuilderModel) saveExplicit() tea.Cmd {
	ctx, gen, d, seq, w := context.WithoutCancel(m.ctx), m.gen, m.draft.Clone(), m.writer.next(), m.writer
	return func() tea.Msg {
		var text string
		err := w.run(seq, func() (err error) {
			text, err = m.app.DraftService.SaveExplicit(ctx, d)
			return err
		})
		return draftSavedMsg{mounted: mounted{gen}, text: text, err: err}
	}
}

func (m *BuilderModel) resetDraft() tea.Cmd {
	ctx, gen, seq, w := m.ctx, m.gen, m.writer.next(), m.writer
	return func() tea.Msg {
		var d *domain.Draft
		err := w.run(seq, func() (err error) {
			d, err = m.app.DraftService.Reset(ctx)
			return err
		})
		return draftLoadedMsg{mounted: mounted{gen}, draft: d, status: "Draft cleared.", err: err}
	}
}

func (m *BuilderModel) extract(text string) tea.Cmd {
	ctx, gen, d, seq, w := m.ctx, m.gen, m.draft.Clone(), m.writer.next(), m.writer
	return func() tea.Msg {
		var next *domain.Draft
		err := w.run(seq, func() (err error) {
			next, err = m.app.DraftService.ApplyExtraction(ctx, d, text)
			return err
		})
		return extractedMsg{mounted: mounted{gen}, draft: next, err: err}
	}
}

func (m *BuilderModel) send() tea.Cmd {
	ctx, gen, d, seq, w := m.ctx, m.gen, m.draft.Clone(), m.writer.next(), m.writer
	return func() tea.Msg {
		var res service.SendResult
		err := w.run(seq, func() (err error) {
			res, err = m.app.DraftService.Send(ctx, d)
			return err
		})
		return sentMsg{mounted: mounted{gen}, result: res, err: err}
	}
}

func (m *BuilderModel) exportPreview() tea.Cmd {
	ctx, gen, d := m.ctx, m.gen, m.draft.Clone()
	return func() tea.Msg {
		inv, err := m.app.DraftService.Preview(ctx, d)
		if err != nil {
			return exportDoneMsg{mounted: mounted{gen}, err: err}
		}
		path, err := m.app.Exporter.Export(inv)
		return exportDoneMsg{mounted: mounted{gen}, path: path, err: err}
	}
}

func (m *BuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.ctx, m.gen = msg.Ctx, msg.Gen
		m.loading = true
		m.magicOpen = false
		m.extracting = false
		m.sending = false
		m.statusMsg, m.warning, m.err = "", "", nil
		return m, m.loadDraft()

	case draftLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.focus = 0
		m.setDraft(msg.draft)
		m.statusMsg = msg.status
		m.warning = ""
		m.syncDraft()
		return m, nil

	case autosavedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("autosave failed: %w", msg.err)
		}
		return m, nil

	case draftSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = msg.text
		return m, nil

	case extractedMsg:
		m.extracting = false
		if msg.err != nil {
			m.err = extractionError(msg.err)
			return m, nil
		}
		m.magicOpen = false
		m.magic.Reset()
		m.setDraft(msg.draft)
		m.syncDraft()
		m.statusMsg = "Invoice details filled from your description."
		return m, m.autosave()

	case sentMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.result.Sent {
			m.focus = 0
			m.setDraft(msg.result.Draft)
			m.syncDraft()
			m.statusMsg = msg.result.Message
			m.warning = ""
			return m, nil
		}
		m.statusMsg = ""
		m.warning = msg.result.Warning
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("export failed: %w", msg.err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Preview saved to %s", msg.path)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.busy() {
			if key.Matches(msg, DefaultKeyMap.Back) {
				return m, func() tea.Msg { return BackMsg{} }
			}
			if !m.extracting {
				return m, nil
			}
		}
		if m.magicOpen {
			return m.updateMagic(msg)
		}
		return m.updateForm(msg)
	}

	// Cursor blink and other input messages
	var cmd tea.Cmd
	if m.magicOpen {
		m.magic, cmd = m.magic.Update(msg)
	} else if m.draft != nil && m.focus < m.fieldCount() {
		*m.input(m.focus), cmd = m.input(m.focus).Update(msg)
	}
	return m, cmd
}

func (m *BuilderModel) updateMagic(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.magicOpen = false
		m.magic.Blur()
		m.applyFocus()
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Generate):
		if m.extracting {
			return m, nil
		}
		text := m.magic.Value()
		if strings.TrimSpace(text) == "" {
			m.err = errors.New("describe the invoice first")
			return m, nil
		}
		m.err = nil
		m.statusMsg = ""
		m.extracting = true
		return m, tea.Batch(m.spinner.Tick, m.extract(text))
	}

	var cmd tea.Cmd
	m.magic, cmd = m.magic.Update(msg)
	return m, cmd
}

func (m *BuilderModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, DefaultKeyMap.NextField):
		m.focus = (m.focus + 1) % m.fieldCount()
		m.applyFocus()
		return m, nil

	case key.Matches(msg, DefaultKeyMap.PrevField):
		m.focus = (m.focus - 1 + m.fieldCount()) % m.fieldCount()
		m.applyFocus()
		return m, nil

	case key.Matches(msg, DefaultKeyMap.AddItem):
		m.draft.AddItem()
		m.items = append(m.items, newItemRow(m.draft.Items[len(m.draft.Items)-1]))
		m.focus = headerFieldCount + itemFieldCount*(len(m.items)-1)
		m.applyFocus()
		return m, m.autosave()

	case key.Matches(msg, DefaultKeyMap.RemoveItem):
		idx := m.focusedItem()
		if idx < 0 {
			return m, nil
		}
		m.draft.RemoveItem(idx)
		m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
		if m.focus >= m.fieldCount() {
			m.focus = m.fieldCount() - 1
		}
		m.applyFocus()
		m.syncDraft()
		return m, m.autosave()

	case key.Matches(msg, DefaultKeyMap.Save):
		if m.inputErr != nil {
			m.err = m.inputErr
			return m, nil
		}
		m.err = nil
		return m, m.saveExplicit()

	case key.Matches(msg, DefaultKeyMap.Send):
		if m.inputErr != nil {
			m.err = m.inputErr
			return m, nil
		}
		m.err = nil
		m.statusMsg = ""
		m.warning = ""
		m.sending = true
		return m, tea.Batch(m.spinner.Tick, m.send())

	case key.Matches(msg, DefaultKeyMap.ResetDraft):
		m.err = nil
		return m, m.resetDraft()

	case key.Matches(msg, DefaultKeyMap.ExportDraft):
		m.err = nil
		m.statusMsg = "Exporting preview..."
		return m, m.exportPreview()

	case key.Matches(msg, DefaultKeyMap.MagicFill):
		if !m.app.AIEnabled {
			m.err = service.ErrAIUnavailable
			return m, nil
		}
		m.magicOpen = true
		m.applyFocus()
		return m, m.magic.Focus()
	}

	in := m.input(m.focus)
	prev := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() == prev {
		return m, cmd
	}

	m.statusMsg = ""
	m.syncDraft()
	return m, tea.Batch(cmd, m.autosave())
}

// extractionError keeps the detail but leads with the user-facing message
func extractionError(err error) error {
	if errors.Is(err, service.ErrAIUnavailable) {
		return err
	}
	return fmt.Errorf("%s (%w)", service.MsgExtractFailed, err)
}

func (m *BuilderModel) View() string {
	if m.loading || m.draft == nil {
		return "Loading draft..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New Invoice") + "\n\n")

	for i, label := range headerLabels {
		marker := "  "
		if i == m.focus && !m.magicOpen {
			marker = helpStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, label+":", m.header[i].View()))
	}

	b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf(
		"    %-30s  %-6s  %-12s  %16s", "Description", "Qty", "Unit Price", "Amount",
	)) + "\n")
	currency := m.app.Config.Invoice.Currency
	for i := range m.items {
		row := &m.items[i]
		marker := "  "
		if m.focusedItem() == i && !m.magicOpen {
			marker = helpStyle.Render("> ")
		}
		item := m.draft.Items[i]
		lineTotal := domain.LineTotal(item.Quantity, decimal.NewFromFloat(item.UnitPrice))
		b.WriteString(fmt.Sprintf("%s%d. %s  %s  %s  %16s\n",
			marker, i+1,
			row.description.View(),
			row.quantity.View(),
			row.unitPrice.View(),
			formatMoney(lineTotal, currency),
		))
	}

	totals := m.draft.Totals()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-12s %16s\n", "Subtotal:", formatMoney(totals.Subtotal, currency)))
	b.WriteString(fmt.Sprintf("  %-12s %16s\n", "VAT (18%):", formatMoney(totals.Tax, currency)))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  %-12s %16s", "Total:", formatMoney(totals.Total, currency)),
	) + "\n")

	if m.magicOpen {
		b.WriteString("\n" + titleStyle.Render("  Magic Fill") + "\n")
		b.WriteString(boxStyle.Render(m.magic.View()) + "\n")
		if m.extracting {
			b.WriteString("  " + m.spinner.View() + " Reading your description...\n")
		} else {
			b.WriteString(helpStyle.Render("  ctrl+g: generate  esc: close") + "\n")
		}
	}

	if m.sending {
		b.WriteString("\n  " + m.spinner.View() + " Sending invoice...\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render("  "+m.statusMsg) + "\n")
	}
	if m.warning != "" {
		b.WriteString("\n" + warningStyle.Render("  "+m.warning) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	} else if m.inputErr != nil {
		b.WriteString("\n" + warningStyle.Render(fmt.Sprintf("  %v", m.inputErr)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(
		"  tab: next  ctrl+n/ctrl+d: add/remove line  ctrl+s: save  ctrl+e: send\n"+
			"  ctrl+f: magic fill  ctrl+p: export preview  ctrl+r: reset  esc: back"))
	return b.String()
}
