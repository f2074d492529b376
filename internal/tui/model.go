package tui

import (
	"context"
	"strings"

	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port/usecases_port"

	tea "github.com/charmbracelet/bubbletea"
)

// doneMsg - результат операции контроллера, выполненной в tea.Cmd.
type doneMsg struct {
	op  string
	err error
}

// Model - терминальный браузер списка поверх одного контроллера.
// Все состояние списка живет в контроллере, модель хранит только состояние ввода.
type Model struct {
	ctx        context.Context
	controller usecases_port.ListingControllerPort
	scope      domain.ListingScope

	cursor        int
	searching     bool
	input         string
	pendingDelete int64
	busy          bool
	status        string
	err           string
}

func NewModel(ctx context.Context, controller usecases_port.ListingControllerPort, scope domain.ListingScope) Model {
	return Model{ctx: ctx, controller: controller, scope: scope}
}

func (m Model) Init() tea.Cmd {
	return m.run("activate", func(ctx context.Context) error {
		return m.controller.Activate(ctx, m.scope)
	})
}

// run выполняет вызов контроллера вне цикла обновления.
func (m Model) run(op string, call func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: op, err: call(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			m.status = ""
		} else {
			m.err = ""
			m.status = msg.op + " ok"
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.pendingDelete != 0 {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snapshot := m.controller.Snapshot()
	cursor := snapshot.Cursor

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.err = ""
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(snapshot.Items)-1 {
			m.cursor++
		}
		return m, nil

	case "/":
		m.searching = true
		m.input = ""
		if search := m.controller.Search(); search != nil {
			m.input = search.Keyword
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "n", "right":
		if cursor.PageNumber >= cursor.TotalPages {
			return m, nil
		}
		return m.start("next page", func(ctx context.Context) error {
			return m.controller.GoToPage(ctx, cursor.PageNumber+1)
		})

	case "p", "left":
		if cursor.PageNumber <= 1 {
			return m, nil
		}
		return m.start("previous page", func(ctx context.Context) error {
			return m.controller.GoToPage(ctx, cursor.PageNumber-1)
		})

	case "+":
		return m.start("page size", func(ctx context.Context) error {
			return m.controller.SetPageSize(ctx, cursor.PageSize+1)
		})

	case "-":
		if cursor.PageSize <= 1 {
			return m, nil
		}
		return m.start("page size", func(ctx context.Context) error {
			return m.controller.SetPageSize(ctx, cursor.PageSize-1)
		})

	case "r":
		return m.start("refresh", m.controller.Refresh)

	case "a":
		item, ok := m.selected(snapshot)
		if !ok {
			return m, nil
		}
		return m.start("availability", func(ctx context.Context) error {
			return m.controller.SetAvailability(ctx, item.ID, item.Availability)
		})

	case "d":
		if item, ok := m.selected(snapshot); ok {
			m.pendingDelete = item.ID
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		keyword := m.input
		return m.start("search", func(ctx context.Context) error {
			if strings.TrimSpace(keyword) == "" {
				return m.controller.ApplySearch(ctx, nil)
			}
			return m.controller.ApplySearch(ctx, &keyword)
		})
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = 0
	if msg.String() != "y" || m.busy {
		m.status = "delete cancelled"
		return m, nil
	}
	return m.start("delete", func(ctx context.Context) error {
		return m.controller.Mutate(ctx, domain.DeleteIntent(id))
	})
}

func (m Model) start(op string, call func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = op + "..."
	return m, m.run(op, call)
}

func (m Model) selected(snapshot domain.ListingSnapshot) (domain.PropertySummary, bool) {
	if m.cursor < 0 || m.cursor >= len(snapshot.Items) {
		return domain.PropertySummary{}, false
	}
	return snapshot.Items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.controller.Snapshot().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
