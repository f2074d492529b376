package usecase

import (
	"context"
	"fmt"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
)

type GetPropertyDetailsUseCase struct {
	catalog port.PropertyCatalogPort
}

func NewGetPropertyDetailsUseCase(catalog port.PropertyCatalogPort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{catalog: catalog}
}

// Execute загружает карточку объекта и его арендодателя.
// Если арендодателя получить не удалось, страница отдается без него.
func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, propertyID int64) (*domain.PropertyDetailsView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": propertyID,
	})

	if propertyID <= 0 {
		return nil, fmt.Errorf("%w: property id must be positive", domain.ErrValidation)
	}

	details, err := uc.catalog.GetPropertyDetails(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to get property details", err, nil)
		return nil, fmt.Errorf("could not get property details: %w", err)
	}

	view := &domain.PropertyDetailsView{Details: *details}

	landlord, err := uc.catalog.GetPropertyLandlord(ctx, propertyID)
	if err != nil {
		ucLogger.Warn("Failed to get property landlord, returning details only", port.Fields{"error": err.Error()})
		return view, nil
	}
	view.Landlord = landlord

	return view, nil
}
