package usecase

import (
	"context"
	"fmt"
	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
)

type ListLandlordsUseCase struct {
	directory port.LandlordDirectoryPort
}

func NewListLandlordsUseCase(directory port.LandlordDirectoryPort) *ListLandlordsUseCase {
	return &ListLandlordsUseCase{directory: directory}
}

func (uc *ListLandlordsUseCase) Execute(ctx context.Context) ([]domain.Landlord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ListLandlords"})

	landlords, err := uc.directory.ListLandlords(ctx)
	if err != nil {
		logger.Error("Failed to list landlords", err, nil)
		return nil, fmt.Errorf("could not list landlords: %w", err)
	}
	if landlords == nil {
		landlords = []domain.Landlord{}
	}

	logger.Info("Landlords listed", port.Fields{"count": len(landlords)})
	return landlords, nil
}

type GetLandlordUseCase struct {
	directory port.LandlordDirectoryPort
}

func NewGetLandlordUseCase(directory port.LandlordDirectoryPort) *GetLandlordUseCase {
	return &GetLandlordUseCase{directory: directory}
}

func (uc *GetLandlordUseCase) Execute(ctx context.Context, landlordID int64) (*domain.Landlord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetLandlord",
		"landlord_id": landlordID,
	})

	if landlordID <= 0 {
		return nil, fmt.Errorf("%w: landlord id must be positive", domain.ErrValidation)
	}

	landlord, err := uc.directory.GetLandlord(ctx, landlordID)
	if err != nil {
		logger.Error("Failed to get landlord", err, nil)
		return nil, fmt.Errorf("could not get landlord: %w", err)
	}
	return landlord, nil
}
