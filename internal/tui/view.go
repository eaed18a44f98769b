package tui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/catalog/internal/catalog"
	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

const (
	cardWidth   = 26 // outer width, border included
	maxColumns  = 5
	detailWidth = 48
)

var filterLabels = []string{"starts with:", "ends with:", "contains:", "article:"}

func (m Model) gridWidth() int {
	w := m.width - 4
	if m.mode == modeDetail {
		w -= detailWidth + 1
	}
	return max(cardWidth, w)
}

// columns is the number of cards per row for the current width.
func (m Model) columns() int {
	return min(maxColumns, max(1, m.gridWidth()/(cardWidth+1)))
}

func (m Model) View() string {
	t := ui.Current()
	snap := m.browser.Snapshot()

	var sections []string
	sections = append(sections, m.headerView(snap))
	if m.mode == modeFilter {
		sections = append(sections, m.filterView())
	}

	fixed := lipgloss.Height(strings.Join(sections, "\n")) + 6
	grid := m.gridView(snap, m.height-fixed)
	if m.mode == modeDetail {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", m.detailView(snap))
	}
	sections = append(sections, grid)

	if snap.CatalogErr != nil {
		sections = append(sections, t.Error.Render(t.SymFail+" catalog: "+snap.CatalogErr.Error()))
	}
	sections = append(sections, m.footerView(snap))

	return ui.Box(strings.Join(sections, "\n"))
}

func (m Model) headerView(snap catalog.Snapshot) string {
	t := ui.Current()

	filter := t.Muted.Render(t.SymFilterOff + " no filters")
	if snap.FilterActive {
		filter = t.Accent.Render(t.SymFilterOn + " " + snap.Query.Summary())
	}

	status := ""
	switch {
	case snap.LoadingCatalog:
		status = m.spinner.View() + t.Muted.Render(" loading")
	case m.deb != nil && m.deb.Pending():
		status = t.Pending.Render("…")
	}

	return strings.Join([]string{t.Title.Render("Catalog"), filter, status}, "   ")
}

func (m Model) filterView() string {
	t := ui.Current()
	rows := make([]string, 0, len(m.inputs)+1)
	rows = append(rows, t.Title.Render("Search the catalog"))
	for i, in := range m.inputs {
		label := t.Muted.Render(fmt.Sprintf("%-13s", filterLabels[i]))
		if i == m.focus {
			label = t.Accent.Render(fmt.Sprintf("%-13s", filterLabels[i]))
		}
		rows = append(rows, label+" "+in.View())
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Frame).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// gridView lays cards out row by row, scrolled so the cursor row is visible.
// At least one row is drawn; beyond that the grid stays within height lines.
func (m Model) gridView(snap catalog.Snapshot, height int) string {
	t := ui.Current()
	cols := m.columns()

	var cards []string
	switch {
	case snap.LoadingCatalog:
		for range catalog.PageSize {
			cards = append(cards, skeletonCard())
		}
	case !snap.HasPage:
		return t.Muted.Render("nothing loaded yet")
	case len(snap.Page.Items) == 0:
		return t.Muted.Render("no items match")
	default:
		for i, it := range snap.Page.Items {
			cards = append(cards, itemCard(it, i == m.cursor && m.mode != modeFilter))
		}
	}

	visibleRows := max(1, height/lipgloss.Height(cards[0]))
	first := 0
	if !snap.LoadingCatalog {
		if cursorRow := m.cursor / cols; cursorRow >= visibleRows {
			first = cursorRow - visibleRows + 1
		}
	}

	var rows []string
	for r := first; r < first+visibleRows && r*cols < len(cards); r++ {
		end := min(len(cards), (r+1)*cols)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(cards[r*cols:end])...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func spaced(cards []string) []string {
	out := make([]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func cardStyle(selected bool) lipgloss.Style {
	t := ui.Current()
	border := t.Frame
	if selected {
		border = t.Accent.GetForeground()
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(border).
		Width(cardWidth-2).
		Padding(0, 1)
}

func itemCard(it model.Item, selected bool) string {
	t := ui.Current()
	inner := cardWidth - 4

	nameStyle := t.Title.Width(inner).MaxHeight(2)
	if selected {
		nameStyle = t.Selected.Width(inner).MaxHeight(2)
	}
	name := nameStyle.Render(it.Name)
	if lipgloss.Height(name) < 2 {
		name += "\n"
	}

	dates := []string{
		dateLine("created", it.CreatedAt.Date(), inner),
		dateLine("updated", it.UpdatedAt.Date(), inner),
	}
	return cardStyle(selected).Render(name + "\n" + strings.Join(dates, "\n"))
}

func dateLine(label, value string, width int) string {
	t := ui.Current()
	gap := max(1, width-len(label)-1-lipgloss.Width(value))
	return t.Muted.Render(label+":") + strings.Repeat(" ", gap) + value
}

// skeletonCard has the same shape as itemCard: 2 name lines, 2 date lines.
func skeletonCard() string {
	t := ui.Current()
	inner := cardWidth - 4
	bar := func(n int) string { return t.Skeleton.Render(strings.Repeat(t.SymBarEmpty, n)) }
	body := strings.Join([]string{
		bar(inner),
		bar(inner * 2 / 3),
		bar(inner/3) + strings.Repeat(" ", inner-inner/3-inner/4) + bar(inner/4),
		bar(inner/3) + strings.Repeat(" ", inner-inner/3-inner/4) + bar(inner/4),
	}, "\n")
	return cardStyle(false).Render(body)
}

func (m Model) detailView(snap catalog.Snapshot) string {
	t := ui.Current()
	title := t.Title.Render("Product card")
	if snap.LoadingDetail {
		title += "  " + m.spinner.View()
	}
	body := m.detail.View()
	if snap.DetailErr != nil {
		body = t.Error.Render(t.SymFail+" "+snap.DetailErr.Error()) + "\n" + body
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Frame).
		Width(detailWidth-2).
		Padding(0, 1).
		Render(title + "\n\n" + body)
}

// detailContent renders the current detail for the viewport.
func (m Model) detailContent() string {
	t := ui.Current()
	snap := m.browser.Snapshot()
	if !snap.HasDetail {
		if snap.LoadingDetail {
			return t.Muted.Render("loading…")
		}
		return ""
	}
	d := snap.Detail
	width := detailWidth - 4

	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(t.Accent.Render(label))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(value))
		b.WriteString("\n")
	}
	field("Brand", orDash(d.BrandName()))
	field("Name", orDash(d.Name))
	if d.FullName != d.Name {
		field("Full name", orDash(d.FullName))
	}
	field("Manufacturer", orDash(d.ManufactureName()))
	if desc := strings.TrimSpace(d.Description); desc != "" {
		field("Description", desc)
	}
	b.WriteString(t.Muted.Render(fmt.Sprintf("created %s · updated %s", d.CreatedAt.Date(), d.UpdatedAt.Date())))
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func (m Model) footerView(snap catalog.Snapshot) string {
	t := ui.Current()
	pager := m.pager.View()
	if !snap.PaginationEnabled() {
		pager = t.Muted.Render(pager + " (busy)")
	} else {
		pager = t.Accent.Render(pager)
	}
	return pager + "\n" + m.help.View(m.keys)
}
