package usecases_port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

type ListLandlordsUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Landlord, error)
}

type GetLandlordUseCasePort interface {
	Execute(ctx context.Context, landlordID int64) (*domain.Landlord, error)
}
