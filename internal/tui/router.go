package tui

import "github.com/andy/invoiceflow/internal/domain"

// View identifies the screen being shown
type View int

const (
	ViewDashboard View = iota
	ViewInvoices
	ViewCreate
	ViewDetails
	ViewSettings
	ViewChat
)

// String returns the view title
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewInvoices:
		return "Invoices"
	case ViewCreate:
		return "New Invoice"
	case ViewDetails:
		return "Invoice Details"
	case ViewSettings:
		return "Settings"
	case ViewChat:
		return "Assistant"
	default:
		return "Unknown"
	}
}

// Router holds the current view and the invoice opened in the details view.
// Every navigation starts a new generation; async results issued under an
// older generation belong to a screen that is no longer mounted.
type Router struct {
	view     View
	selected *domain.Invoice
	gen      int
}

// NewRouter starts on the dashboard
func NewRouter() *Router {
	return &Router{view: ViewDashboard}
}

// Navigate switches to view. Leaving details drops the selection.
func (r *Router) Navigate(view View) {
	if view != ViewDetails {
		r.selected = nil
	}
	r.view = view
	r.gen++
}

// Open selects inv and shows its details
func (r *Router) Open(inv *domain.Invoice) {
	r.selected = inv
	r.view = ViewDetails
	r.gen++
}

// Back returns from details to the invoice list, and from anything else to the dashboard
func (r *Router) Back() {
	switch r.Current() {
	case ViewDashboard:
		return
	case ViewDetails:
		r.Navigate(ViewInvoices)
	default:
		r.Navigate(ViewDashboard)
	}
}

// Current returns the view to render; details without a selection falls back to the list
func (r *Router) Current() View {
	if r.view == ViewDetails && r.selected == nil {
		return ViewInvoices
	}
	return r.view
}

// Selected returns the invoice shown in the details view, if any
func (r *Router) Selected() *domain.Invoice {
	return r.selected
}

// Generation identifies the current mount
func (r *Router) Generation() int {
	return r.gen
}
