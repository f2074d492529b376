package port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

// PropertyCatalogPort - контракт клиента REST API каталога объектов.
type PropertyCatalogPort interface {
	// FetchPage выполняет один из четырех запросов списка/поиска.
	FetchPage(ctx context.Context, req domain.CatalogRequest) (*domain.PropertyPage, error)

	AddProperty(ctx context.Context, draft domain.PropertyDraft) (*domain.PropertySummary, error)
	UpdateProperty(ctx context.Context, draft domain.PropertyDraft) (*domain.PropertySummary, error)
	DeleteProperty(ctx context.Context, id int64) error
	// ChangeAvailability передает текущее значение доступности, сервер его переключает.
	ChangeAvailability(ctx context.Context, id int64, current domain.Availability) (*domain.PropertySummary, error)

	GetProperty(ctx context.Context, id int64) (*domain.PropertyDraft, error)
	GetPropertyDetails(ctx context.Context, id int64) (*domain.PropertyDetails, error)
	GetPropertyLandlord(ctx context.Context, id int64) (*domain.Landlord, error)
}
