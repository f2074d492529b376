package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutationEvent_Affects(t *testing.T) {
	tests := []struct {
		name  string
		event MutationEvent
		scope ListingScope
		want  bool
	}{
		{"global scope sees every write", MutationEvent{LandlordID: 3}, GlobalScope(), true},
		{"same landlord", MutationEvent{LandlordID: 3}, LandlordScope(3), true},
		{"other landlord", MutationEvent{LandlordID: 3}, LandlordScope(4), false},
		{"unknown landlord", MutationEvent{}, LandlordScope(4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Affects(tt.scope))
		})
	}
}

func TestMutationIntent_String(t *testing.T) {
	assert.Equal(t, "add", AddIntent(PropertyDraft{}).String())
	assert.Equal(t, "edit(4)", EditIntent(4, PropertyDraft{}).String())
	assert.Equal(t, "delete(7)", DeleteIntent(7).String())
	assert.Equal(t, "set_availability(2, 1)", SetAvailabilityIntent(2, Available).String())
}
