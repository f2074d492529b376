package rest

import (
	"encoding/json"

	"rental-listing-client/internal/core/domain"
	"rental-listing-client/internal/core/port"
)

// --- запросы ---

type CreateSessionRequest struct {
	LandlordID *int64 `json:"landlord_id"`
	PageSize   *int   `json:"page_size"`
}

type ScopeRequest struct {
	LandlordID *int64 `json:"landlord_id"`
}

type SearchRequest struct {
	Keyword *string `json:"keyword"`
}

type PageRequest struct {
	Page int `json:"page"`
}

type PageSizeRequest struct {
	Size int `json:"size"`
}

type AvailabilityRequest struct {
	Current *int `json:"current"`
}

type PropertyRequest struct {
	LandlordID      int64   `json:"landlord_id"`
	ImageURL        string  `json:"image_url"`
	PropertyName    string  `json:"property_name"`
	PropertyAddress string  `json:"property_address"`
	PropertyType    string  `json:"property_type"`
	AreaInFeet      float64 `json:"area_in_feet"`
	BedCapacity     int     `json:"bed_capacity"`
	Price           float64 `json:"price"`
	Availability    *int    `json:"availability"`
	Description     string  `json:"description"`
}

func (p PropertyRequest) toDraft() domain.PropertyDraft {
	availability := domain.Available
	if p.Availability != nil {
		availability = domain.Availability(*p.Availability)
	}
	return domain.PropertyDraft{
		LandlordID:      p.LandlordID,
		ImageURL:        p.ImageURL,
		PropertyName:    p.PropertyName,
		PropertyAddress: p.PropertyAddress,
		PropertyType:    p.PropertyType,
		AreaInFeet:      p.AreaInFeet,
		BedCapacity:     p.BedCapacity,
		Price:           p.Price,
		Availability:    availability,
		Description:     p.Description,
	}
}

// --- ответы ---

type PropertyResponse struct {
	ID              int64   `json:"id"`
	ImageURL        string  `json:"image_url"`
	PropertyName    string  `json:"property_name"`
	PropertyAddress string  `json:"property_address"`
	PropertyType    string  `json:"property_type"`
	AreaInFeet      float64 `json:"area_in_feet"`
	BedCapacity     int     `json:"bed_capacity"`
	Price           float64 `json:"price"`
	Availability    int     `json:"availability"`
	Description     string  `json:"description"`
}

type CursorResponse struct {
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

type ScopeResponse struct {
	Kind       string `json:"kind"`
	LandlordID int64  `json:"landlord_id,omitempty"`
}

type SnapshotResponse struct {
	Items   []PropertyResponse `json:"items"`
	Cursor  CursorResponse     `json:"cursor"`
	Scope   ScopeResponse      `json:"scope"`
	Keyword *string            `json:"keyword,omitempty"`
	Seq     uint64             `json:"seq"`
}

type FailureResponse struct {
	Kind      string `json:"kind"`
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

type StatisticsResponse struct {
	LandlordID    int64   `json:"landlord_id"`
	MonthlyIncome float64 `json:"monthly_income"`
}

type SessionResponse struct {
	ID         string              `json:"id"`
	State      string              `json:"state"`
	Scope      ScopeResponse       `json:"scope"`
	Keyword    *string             `json:"keyword,omitempty"`
	Snapshot   SnapshotResponse    `json:"snapshot"`
	Failure    *FailureResponse    `json:"failure,omitempty"`
	Statistics *StatisticsResponse `json:"statistics,omitempty"`
}

type DraftResponse struct {
	PropertyResponse
	LandlordID int64 `json:"landlord_id,omitempty"`
}

type FormResponse struct {
	Mode       string         `json:"mode"`
	PropertyID int64          `json:"property_id,omitempty"`
	Draft      *DraftResponse `json:"draft,omitempty"`
}

type LandlordResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MobileNumber int64  `json:"mobile_number"`
	Email        string `json:"email"`
}

type PropertyDetailsResponse struct {
	PropertyResponse
	LandlordName string            `json:"landlord_name"`
	MobileNumber int64             `json:"mobile_number"`
	Email        string            `json:"email"`
	Landlord     *LandlordResponse `json:"landlord,omitempty"`
}

type EventResponse struct {
	SessionID  string              `json:"session_id"`
	Type       string              `json:"type"`
	Snapshot   *SnapshotResponse   `json:"snapshot,omitempty"`
	Failure    *FailureResponse    `json:"failure,omitempty"`
	Statistics *StatisticsResponse `json:"statistics,omitempty"`
}

// --- маппинг ---

func toPropertyResponse(p domain.PropertySummary) PropertyResponse {
	return PropertyResponse{
		ID:              p.ID,
		ImageURL:        p.ImageURL,
		PropertyName:    p.PropertyName,
		PropertyAddress: p.PropertyAddress,
		PropertyType:    p.PropertyType,
		AreaInFeet:      p.AreaInFeet,
		BedCapacity:     p.BedCapacity,
		Price:           p.Price,
		Availability:    int(p.Availability),
		Description:     p.Description,
	}
}

func toScopeResponse(s domain.ListingScope) ScopeResponse {
	if s.IsLandlord() {
		return ScopeResponse{Kind: "landlord", LandlordID: s.LandlordID}
	}
	return ScopeResponse{Kind: "global"}
}

func keywordOf(s *domain.SearchState) *string {
	if s == nil {
		return nil
	}
	k := s.Keyword
	return &k
}

func toSnapshotResponse(s domain.ListingSnapshot) SnapshotResponse {
	items := make([]PropertyResponse, len(s.Items))
	for i, p := range s.Items {
		items[i] = toPropertyResponse(p)
	}
	return SnapshotResponse{
		Items: items,
		Cursor: CursorResponse{
			PageNumber:    s.Cursor.PageNumber,
			PageSize:      s.Cursor.PageSize,
			TotalElements: s.Cursor.TotalElements,
			TotalPages:    s.Cursor.TotalPages,
		},
		Scope:   toScopeResponse(s.Scope),
		Keyword: keywordOf(s.Search),
		Seq:     s.Seq,
	}
}

func toFailureResponse(f *domain.ErrorDescriptor) *FailureResponse {
	if f == nil {
		return nil
	}
	return &FailureResponse{Kind: string(f.Kind), Operation: f.Operation, Message: f.Message}
}

func toStatisticsResponse(s *domain.LandlordStatistics) *StatisticsResponse {
	if s == nil {
		return nil
	}
	return &StatisticsResponse{LandlordID: s.LandlordID, MonthlyIncome: s.MonthlyIncome}
}

func toSessionResponse(id string, c SessionController) SessionResponse {
	return SessionResponse{
		ID:         id,
		State:      c.State().String(),
		Scope:      toScopeResponse(c.Scope()),
		Keyword:    keywordOf(c.Search()),
		Snapshot:   toSnapshotResponse(c.Snapshot()),
		Failure:    toFailureResponse(c.Failure()),
		Statistics: toStatisticsResponse(c.Statistics()),
	}
}

func toFormResponse(f *domain.FormState) FormResponse {
	resp := FormResponse{Mode: string(f.Mode), PropertyID: f.PropertyID}
	if f.Draft != nil {
		d := f.Draft
		resp.Draft = &DraftResponse{
			LandlordID: d.LandlordID,
			PropertyResponse: PropertyResponse{
				ID:              d.ID,
				ImageURL:        d.ImageURL,
				PropertyName:    d.PropertyName,
				PropertyAddress: d.PropertyAddress,
				PropertyType:    d.PropertyType,
				AreaInFeet:      d.AreaInFeet,
				BedCapacity:     d.BedCapacity,
				Price:           d.Price,
				Availability:    int(d.Availability),
				Description:     d.Description,
			},
		}
	}
	return resp
}

func toLandlordResponse(l domain.Landlord) LandlordResponse {
	return LandlordResponse{ID: l.ID, Name: l.Name, MobileNumber: l.MobileNumber, Email: l.Email}
}

func toPropertyDetailsResponse(v *domain.PropertyDetailsView) PropertyDetailsResponse {
	d := v.Details
	resp := PropertyDetailsResponse{
		PropertyResponse: PropertyResponse{
			ID:              d.ID,
			ImageURL:        d.ImageURL,
			PropertyName:    d.PropertyName,
			PropertyAddress: d.PropertyAddress,
			PropertyType:    d.PropertyType,
			AreaInFeet:      d.AreaInFeet,
			BedCapacity:     d.BedCapacity,
			Price:           d.Price,
			Availability:    int(d.Availability),
			Description:     d.Description,
		},
		LandlordName: d.LandlordName,
		MobileNumber: d.MobileNumber,
		Email:        d.Email,
	}
	if v.Landlord != nil {
		l := toLandlordResponse(*v.Landlord)
		resp.Landlord = &l
	}
	return resp
}

// EncodeListingEvent сериализует событие контроллера для SSE-потока.
func EncodeListingEvent(event port.ListingEvent) ([]byte, error) {
	resp := EventResponse{
		SessionID:  event.SessionID,
		Type:       string(event.Type),
		Failure:    toFailureResponse(event.Failure),
		Statistics: toStatisticsResponse(event.Statistics),
	}
	if event.Snapshot != nil {
		s := toSnapshotResponse(*event.Snapshot)
		resp.Snapshot = &s
	}
	return json.Marshal(resp)
}
