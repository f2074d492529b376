package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationState_Observe(t *testing.T) {
	tests := []struct {
		name       string
		firstScope ListingScope
		firstKw    *SearchState
		nextScope  ListingScope
		nextKw     *SearchState
		wantKind   DirectiveKind
	}{
		{"same listing keeps page", GlobalScope(), nil, GlobalScope(), nil, KeepPage},
		{"same keyword keeps page", GlobalScope(), &SearchState{"loft"}, GlobalScope(), &SearchState{"loft"}, KeepPage},
		{"new keyword resets", GlobalScope(), &SearchState{"attic"}, GlobalScope(), &SearchState{"loft"}, ResetToFirstPage},
		{"search appears", GlobalScope(), nil, GlobalScope(), &SearchState{"loft"}, ResetToFirstPage},
		{"search cleared", GlobalScope(), &SearchState{"loft"}, GlobalScope(), nil, ResetToFirstPage},
		{"empty keyword differs from no search", GlobalScope(), nil, GlobalScope(), &SearchState{""}, ResetToFirstPage},
		{"scope change resets", GlobalScope(), nil, LandlordScope(3), nil, ResetToFirstPage},
		{"other landlord resets", LandlordScope(3), nil, LandlordScope(4), nil, ResetToFirstPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationState(DefaultPageSize)
			p.Observe(tt.firstScope, tt.firstKw)
			p.GoToPage(4)

			d := p.Observe(tt.nextScope, tt.nextKw)
			assert.Equal(t, tt.wantKind, d.Kind)
			if tt.wantKind == ResetToFirstPage {
				assert.Equal(t, 1, d.Cursor.PageNumber)
			} else {
				assert.Equal(t, 4, d.Cursor.PageNumber)
			}
			assert.Equal(t, DefaultPageSize, d.Cursor.PageSize)
		})
	}
}

func TestPaginationState_SetPageSize(t *testing.T) {
	p := NewPaginationState(6)
	p.GoToPage(3)

	d := p.SetPageSize(6)
	assert.Equal(t, ResetToFirstPage, d.Kind)
	assert.Equal(t, PaginationCursor{PageNumber: 1, PageSize: 6}, d.Cursor)

	d = p.SetPageSize(24)
	assert.Equal(t, 24, d.Cursor.PageSize)

	assert.Panics(t, func() { p.SetPageSize(0) })
	assert.Panics(t, func() { p.GoToPage(0) })
	assert.Panics(t, func() { NewPaginationState(-1) })
}

func TestPaginationState_Commit(t *testing.T) {
	p := NewPaginationState(6)

	p.Commit(PaginationCursor{PageNumber: 2, PageSize: 6, TotalElements: 20, TotalPages: 4})
	require.Equal(t, PaginationCursor{PageNumber: 2, PageSize: 6, TotalElements: 20, TotalPages: 4}, p.Cursor())

	p.Commit(PaginationCursor{PageNumber: 0, PageSize: 0})
	assert.Equal(t, 1, p.Cursor().PageNumber)
	assert.Equal(t, 6, p.Cursor().PageSize)
}

func TestLandlordStatisticsReport_Normalize(t *testing.T) {
	assert.Equal(t, LandlordStatistics{LandlordID: 1}, LandlordStatisticsReport{LandlordID: 1}.Normalize())

	income := 2400.5
	assert.Equal(t, 2400.5, LandlordStatisticsReport{LandlordID: 1, MonthlyIncome: &income}.Normalize().MonthlyIncome)
}
