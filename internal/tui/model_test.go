package tui

import (
	"context"
	"errors"
	"testing"

	"rental-listing-client/internal/core/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	arg  interface{}
}

type fakeController struct {
	calls    []call
	snapshot domain.ListingSnapshot
	search   *domain.SearchState
	scope    domain.ListingScope
	err      error
}

func newFakeController() *fakeController {
	return &fakeController{snapshot: domain.ListingSnapshot{
		Items: []domain.PropertySummary{
			{ID: 1, PropertyName: "sea view flat", Availability: domain.Available},
			{ID: 2, PropertyName: "attic", Availability: domain.Unavailable},
		},
		Cursor: domain.PaginationCursor{PageNumber: 1, PageSize: 2, TotalElements: 5, TotalPages: 3},
	}}
}

func (f *fakeController) record(name string, arg interface{}) error {
	f.calls = append(f.calls, call{name, arg})
	return f.err
}

func (f *fakeController) Activate(_ context.Context, scope domain.ListingScope) error {
	return f.record("activate", scope)
}
func (f *fakeController) ApplySearch(_ context.Context, keyword *string) error {
	return f.record("search", keyword)
}
func (f *fakeController) SetPageSize(_ context.Context, size int) error {
	return f.record("page_size", size)
}
func (f *fakeController) GoToPage(_ context.Context, page int) error {
	return f.record("page", page)
}
func (f *fakeController) Refresh(_ context.Context) error { return f.record("refresh", nil) }
func (f *fakeController) Mutate(_ context.Context, intent domain.MutationIntent) error {
	return f.record("mutate", intent)
}
func (f *fakeController) SetAvailability(_ context.Context, id int64, current domain.Availability) error {
	return f.record("availability", [2]int64{id, int64(current)})
}
func (f *fakeController) PresentForm(_ context.Context, mode domain.FormMode, id int64) (*domain.FormState, error) {
	return &domain.FormState{Mode: mode, PropertyID: id}, nil
}
func (f *fakeController) Snapshot() domain.ListingSnapshot { return f.snapshot }
func (f *fakeController) Failure() *domain.ErrorDescriptor { return nil }
func (f *fakeController) State() domain.ControllerState { return domain.StateReady }
func (f *fakeController) Statistics() *domain.LandlordStatistics { return nil }
func (f *fakeController) Scope() domain.ListingScope { return f.scope }
func (f *fakeController) Search() *domain.SearchState { return f.search }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press отправляет клавишу и, если модель вернула команду, выполняет ее и отдает результат модели.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		done, ok := cmd().(doneMsg)
		require.True(t, ok)
		next, _ = m.Update(done)
		m = next.(Model)
	}
	return m
}

func TestInitActivatesScope(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(context.Background(), ctrl, domain.LandlordScope(4))

	msg := m.Init()()
	assert.Equal(t, doneMsg{op: "activate"}, msg)
	assert.Equal(t, []call{{"activate", domain.LandlordScope(4)}}, ctrl.calls)
}

func TestPagingKeys(t *testing.T) {
	tests := []struct {
		name string
		page int
		key  string
		want []call
	}{
		{"next", 1, "n", []call{{"page", 2}}},
		{"next on last page", 3, "n", nil},
		{"previous", 2, "p", []call{{"page", 1}}},
		{"previous on first page", 1, "p", nil},
		{"grow page size", 1, "+", []call{{"page_size", 3}}},
		{"shrink page size", 1, "-", []call{{"page_size", 1}}},
		{"refresh", 1, "r", []call{{"refresh", nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			ctrl.snapshot.Cursor.PageNumber = tt.page
			m := press(t, NewModel(context.Background(), ctrl, domain.GlobalScope()), key(tt.key))
			assert.Equal(t, tt.want, ctrl.calls)
			assert.False(t, m.busy)
		})
	}
}

func TestSearchInput(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(context.Background(), ctrl, domain.GlobalScope())

	m = press(t, m, key("/"))
	require.True(t, m.searching)
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(t, m, key("sea"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(t, m, key("viewx"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, " sea view", m.input)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	require.Len(t, ctrl.calls, 1)
	keyword := ctrl.calls[0].arg.(*string)
	require.NotNil(t, keyword)
	assert.Equal(t, " sea view", *keyword)
}

func TestSearchBlankClears(t *testing.T) {
	ctrl := newFakeController()
	ctrl.search = &domain.SearchState{Keyword: "x"}
	m := NewModel(context.Background(), ctrl, domain.GlobalScope())

	m = press(t, m, key("/"))
	assert.Equal(t, "x", m.input)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ctrl.calls, 1)
	assert.Nil(t, ctrl.calls[0].arg.(*string))
}

func TestAvailabilityUsesSelectedRow(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(context.Background(), ctrl, domain.GlobalScope())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	press(t, m, key("a"))

	assert.Equal(t, []call{{"availability", [2]int64{2, 0}}}, ctrl.calls)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(context.Background(), ctrl, domain.GlobalScope())

	m = press(t, m, key("d"))
	assert.Equal(t, int64(1), m.pendingDelete)
	m = press(t, m, key("n"))
	assert.Empty(t, ctrl.calls)
	assert.Equal(t, "delete cancelled", m.status)

	m = press(t, m, key("d"))
	press(t, m, key("y"))
	assert.Equal(t, []call{{"mutate", domain.DeleteIntent(1)}}, ctrl.calls)
}

func TestErrorShownAndCleared(t *testing.T) {
	ctrl := newFakeController()
	ctrl.err = errors.New("catalog unavailable")
	m := NewModel(context.Background(), ctrl, domain.GlobalScope())

	m = press(t, m, key("r"))
	assert.Equal(t, "catalog unavailable", m.err)
	assert.Contains(t, m.View(), "catalog unavailable")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.err)
}

func TestViewRendersRows(t *testing.T) {
	ctrl := newFakeController()
	view := NewModel(context.Background(), ctrl, domain.GlobalScope()).View()

	assert.Contains(t, view, "Available properties")
	assert.Contains(t, view, "Sea View Flat")
	assert.Contains(t, view, "unavailable")
	assert.Contains(t, view, "Page 1/3")
}
