package rest

import (
	"net/http"

	"rental-listing-client/internal/contextkeys"
	"rental-listing-client/internal/core/port"
	"rental-listing-client/internal/core/port/usecases_port"
)

// CatalogHandlers - чтения, которые не зависят от сессии.
type CatalogHandlers struct {
	getDetailsUC    usecases_port.GetPropertyDetailsUseCasePort
	listLandlordsUC usecases_port.ListLandlordsUseCasePort
	getLandlordUC   usecases_port.GetLandlordUseCasePort
}

func NewCatalogHandlers(getDetailsUC usecases_port.GetPropertyDetailsUseCasePort,
	listLandlordsUC usecases_port.ListLandlordsUseCasePort,
	getLandlordUC usecases_port.GetLandlordUseCasePort) *CatalogHandlers {
	return &CatalogHandlers{
		getDetailsUC:    getDetailsUC,
		listLandlordsUC: listLandlordsUC,
		getLandlordUC:   getLandlordUC,
	}
}

// GetPropertyDetails - GET /api/v1/properties/{propertyID}
func (h *CatalogHandlers) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetPropertyDetails"})

	propertyID, err := int64URLParam(r, "propertyID")
	if err != nil {
		logger.Warn("Invalid property id", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.getDetailsUC.Execute(r.Context(), propertyID)
	if err != nil {
		logger.Error("Use case failed", err, port.Fields{"property_id": propertyID})
		WriteJSONError(w, StatusForError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, toPropertyDetailsResponse(view))
}

// ListLandlords - GET /api/v1/landlords
func (h *CatalogHandlers) ListLandlords(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListLandlords"})

	landlords, err := h.listLandlordsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, StatusForError(err), err.Error())
		return
	}

	response := make([]LandlordResponse, len(landlords))
	for i, l := range landlords {
		response[i] = toLandlordResponse(l)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetLandlord - GET /api/v1/landlords/{landlordID}
func (h *CatalogHandlers) GetLandlord(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetLandlord"})

	landlordID, err := int64URLParam(r, "landlordID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	landlord, err := h.getLandlordUC.Execute(r.Context(), landlordID)
	if err != nil {
		logger.Error("Use case failed", err, port.Fields{"landlord_id": landlordID})
		WriteJSONError(w, StatusForError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, toLandlordResponse(*landlord))
}
