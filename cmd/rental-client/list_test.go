package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental-listing-client/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleListing() listing {
	income := 2400.0
	return listing{
		Scope:         "landlord:3",
		Keyword:       "loft",
		Page:          2,
		PageSize:      2,
		TotalElements: 3,
		TotalPages:    2,
		MonthlyIncome: &income,
		Items: []listedProperty{
			{ID: 3, Name: "sunny loft", Type: "apartment", Price: 1200, BedCapacity: 2, Availability: 0},
		},
	}
}

func TestRenderListing_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderListing(&out, sampleListing(), "table"))

	text := out.String()
	assert.Contains(t, text, "Sunny Loft")
	assert.Contains(t, text, "1200.00")
	assert.Contains(t, text, "unavailable")
	assert.Contains(t, text, "landlord:3 · page 2/2 · 3 total")
	assert.Contains(t, text, `search "loft"`)
	assert.Contains(t, text, "monthly income 2400.00")
}

func TestRenderListing_Structured(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderListing(&out, sampleListing(), "json"))

		var got listing
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, sampleListing(), got)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, renderListing(&out, sampleListing(), "yaml"))
		assert.Contains(t, out.String(), "page_size: 2\n")

		var got listing
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, sampleListing(), got)
	})
}

func TestToListing(t *testing.T) {
	snapshot := domain.ListingSnapshot{
		Items:  []domain.PropertySummary{{ID: 1, PropertyName: "Attic", Availability: domain.Available}},
		Cursor: domain.PaginationCursor{PageNumber: 1, PageSize: 6, TotalElements: 1, TotalPages: 1},
		Scope:  domain.GlobalScope(),
	}

	l := toListing(snapshot, nil)
	assert.Equal(t, "global", l.Scope)
	assert.Empty(t, l.Keyword)
	assert.Nil(t, l.MonthlyIncome)
	assert.Equal(t, []listedProperty{{ID: 1, Name: "Attic", Availability: 1}}, l.Items)
}

func TestListCommand(t *testing.T) {
	var requested string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"_embedded": {"properties": [{"id": 4, "propertyName": "Loft", "availability": 1, "price": 800, "bedCapacity": 1}]},
			"page": {"size": 6, "totalElements": 1, "totalPages": 1, "number": 0}
		}`))
	}))
	defer srv.Close()

	t.Setenv("CATALOG_API_URL", srv.URL)
	t.Setenv("STDOUT_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list", "-o", "json"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "/api/properties/search/findByAvailabilityOrderByPropertyNameAsc/?availability=1&page=0&size=6", requested)

	var got listing
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "global", got.Scope)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Loft", got.Items[0].Name)
}

func TestListCommand_UnknownFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "-o", "xml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "rental-client version dev\n"))
}
