package port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

// LandlordDirectoryPort - контракт для чтения арендодателей и их статистики.
type LandlordDirectoryPort interface {
	ListLandlords(ctx context.Context) ([]domain.Landlord, error)
	GetLandlord(ctx context.Context, id int64) (*domain.Landlord, error)
	GetLandlordStatistics(ctx context.Context, id int64) (*domain.LandlordStatisticsReport, error)
}
