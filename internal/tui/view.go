package tui

import (
	"fmt"
	"strings"

	"rental-listing-client/internal/core/domain"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	frameStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	titleCaser = cases.Title(language.English)
)

func (m Model) View() string {
	snapshot := m.controller.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	if stats := m.controller.Statistics(); stats != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Monthly income: %.2f", stats.MonthlyIncome)))
		b.WriteString("\n")
	}
	if m.searching {
		b.WriteString("Search: " + m.input + "█\n")
	} else if search := m.controller.Search(); search != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Search: %q", search.Keyword)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-6s %-28s %-14s %10s %5s  %s", "ID", "Name", "Type", "Price", "Beds", "Status")))
	b.WriteString("\n")
	if len(snapshot.Items) == 0 {
		b.WriteString(dimStyle.Render("  no properties"))
		b.WriteString("\n")
	}
	for i, item := range snapshot.Items {
		line := fmt.Sprintf("  %-6d %-28s %-14s %10.2f %5d  %s",
			item.ID, truncate(titleCaser.String(item.PropertyName), 28), truncate(titleCaser.String(item.PropertyType), 14),
			item.Price, item.BedCapacity, AvailabilityLabel(item.Availability))
		if i == m.cursor {
			line = selectedStyle.Render(">" + line[1:])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	c := snapshot.Cursor
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Page %d/%d · %d per page · %d total · %s",
		c.PageNumber, max(c.TotalPages, 1), c.PageSize, c.TotalElements, m.controller.State())))
	b.WriteString("\n")

	switch {
	case m.pendingDelete != 0:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete property %d? (y/n)", m.pendingDelete)) + "\n")
	case m.err != "":
		b.WriteString(errorStyle.Render("Error: "+m.err) + "\n")
	case m.status != "":
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}

	b.WriteString(dimStyle.Render("n/p page · +/- size · / search · r refresh · a availability · d delete · q quit"))

	return frameStyle.Render(b.String())
}

func (m Model) title() string {
	scope := m.controller.Scope()
	if scope.IsLandlord() {
		return fmt.Sprintf("Properties of landlord #%d", scope.LandlordID)
	}
	return "Available properties"
}

// AvailabilityLabel - подпись доступности для таблиц.
func AvailabilityLabel(a domain.Availability) string {
	if a.IsAvailable() {
		return "available"
	}
	return "unavailable"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
