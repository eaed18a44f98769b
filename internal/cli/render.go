package cli

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/catalog/internal/catalog"
	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/ui"
	"github.com/charmbracelet/lipgloss"
)

const nameWidth = 48

func pageLines(snap catalog.Snapshot) []string {
	t := ui.Current()

	filter := t.Muted.Render(t.SymFilterOff + " no filters")
	if snap.FilterActive {
		filter = t.Accent.Render(t.SymFilterOn + " " + snap.Query.Summary())
	}

	lines := []string{
		fmt.Sprintf("%s   %s", t.Title.Render("Catalog"), filter),
		"",
	}
	if len(snap.Page.Items) == 0 {
		lines = append(lines, t.Muted.Render("no items match"))
	}
	for _, it := range snap.Page.Items {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			t.Muted.Render(fmt.Sprintf("%6d", it.ID)),
			truncate(it.Name, nameWidth),
			t.Muted.Render(it.UpdatedAt.Date()),
		))
	}
	lines = append(lines, "", t.Accent.Render(ui.PageBar(snap.Page.Page, snap.Page.TotalPages, 24)))
	return lines
}

// truncate pads or cuts s to exactly w cells.
func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func detailLines(d model.ItemDetail) []string {
	t := ui.Current()
	row := func(label, value string) string {
		if strings.TrimSpace(value) == "" {
			value = "—"
		}
		return t.Muted.Render(fmt.Sprintf("%-13s", label)) + " " + value
	}

	lines := []string{
		fmt.Sprintf("%s  %s", t.Title.Render(d.Name), t.Muted.Render(fmt.Sprintf("#%d", d.ID))),
		"",
		row("Brand", d.BrandName()),
	}
	if d.FullName != d.Name {
		lines = append(lines, row("Full name", d.FullName))
	}
	lines = append(lines, row("Manufacturer", d.ManufactureName()))
	if desc := strings.TrimSpace(d.Description); desc != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(64).Render(desc))
	}
	lines = append(lines, "", t.Muted.Render(fmt.Sprintf("created %s · updated %s", d.CreatedAt.Date(), d.UpdatedAt.Date())))
	return lines
}
