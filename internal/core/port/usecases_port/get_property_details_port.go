package usecases_port

import (
	"context"
	"rental-listing-client/internal/core/domain"
)

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, propertyID int64) (*domain.PropertyDetailsView, error)
}
