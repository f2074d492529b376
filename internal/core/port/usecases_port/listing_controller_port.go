package usecases_port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

// ListingControllerPort - то, что видит слой представления.
type ListingControllerPort interface {
	Activate(ctx context.Context, scope domain.ListingScope) error
	ApplySearch(ctx context.Context, keyword *string) error
	SetPageSize(ctx context.Context, size int) error
	GoToPage(ctx context.Context, page int) error
	Refresh(ctx context.Context) error
	Mutate(ctx context.Context, intent domain.MutationIntent) error
	SetAvailability(ctx context.Context, id int64, current domain.Availability) error
	PresentForm(ctx context.Context, mode domain.FormMode, propertyID int64) (*domain.FormState, error)

	Snapshot() domain.ListingSnapshot
	Failure() *domain.ErrorDescriptor
	State() domain.ControllerState
	Statistics() *domain.LandlordStatistics
	Scope() domain.ListingScope
	Search() *domain.SearchState
}
