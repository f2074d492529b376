package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCatalogRequest(t *testing.T) {
	cursor := PaginationCursor{PageNumber: 3, PageSize: 6}

	tests := []struct {
		name   string
		scope  ListingScope
		search *SearchState
		mode   QueryMode
		url    string
	}{
		{
			name:  "available listing",
			scope: GlobalScope(),
			mode:  ModeAvailableListing,
			url:   "/findByAvailabilityOrderByPropertyNameAsc/?availability=1&page=2&size=6",
		},
		{
			name:   "available search",
			scope:  GlobalScope(),
			search: &SearchState{Keyword: "sea view"},
			mode:   ModeAvailableSearch,
			url:    "/findByAvailabilityAndPropertyNameContainingIgnoreCaseOrderByPropertyNameAsc?availability=1&name=sea+view&page=2&size=6",
		},
		{
			name:  "landlord listing",
			scope: LandlordScope(42),
			mode:  ModeLandlordListing,
			url:   "/findByLandlordIdOrderByPropertyNameAsc?id=42&page=2&size=6",
		},
		{
			name:   "landlord search has no availability filter",
			scope:  LandlordScope(42),
			search: &SearchState{Keyword: "loft"},
			mode:   ModeLandlordSearch,
			url:    "/findByLandlordIdAndPropertyNameContainingIgnoreCaseOrderByPropertyNameAsc?id=42&name=loft&page=2&size=6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildCatalogRequest(tt.scope, tt.search, cursor)
			assert.Equal(t, tt.mode, req.Mode)
			assert.Equal(t, tt.url, req.RelativeURL())
		})
	}
}

func TestBuildCatalogRequest_InvalidCursorPanics(t *testing.T) {
	assert.Panics(t, func() {
		BuildCatalogRequest(GlobalScope(), nil, PaginationCursor{PageNumber: 0, PageSize: 6})
	})
	assert.Panics(t, func() {
		BuildCatalogRequest(GlobalScope(), nil, PaginationCursor{PageNumber: 1, PageSize: 0})
	})
}

func TestDescribeError(t *testing.T) {
	assert.Nil(t, DescribeError("refresh", nil))

	d := DescribeError("refresh", errors.New("boom"))
	assert.Equal(t, ErrorKindTransport, d.Kind)
	assert.Equal(t, "refresh", d.Operation)

	_, err := ParseFormMode("archive")
	assert.Equal(t, ErrorKindValidation, DescribeError("form", err).Kind)
}
