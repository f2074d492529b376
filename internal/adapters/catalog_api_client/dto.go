package catalog_api_client

import "rental-listing-client/internal/core/domain"

type LandlordResponse struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	MobileNumber int64  `json:"mobileNumber,omitempty"`
	Email        string `json:"email,omitempty"`
}

type PropertyResponse struct {
	ID              int64             `json:"id"`
	Landlord        *LandlordResponse `json:"landlord,omitempty"`
	ImageURL        string            `json:"imageUrl"`
	PropertyName    string            `json:"propertyName"`
	PropertyAddress string            `json:"propertyAddress"`
	PropertyType    string            `json:"propertyType"`
	AreaInFeet      float64           `json:"areaInFeet"`
	BedCapacity     int               `json:"bedCapacity"`
	Price           float64           `json:"price"`
	Availability    int               `json:"availability"`
	Description     string            `json:"description"`
}

type PageResponse struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// PropertyPageResponse - HAL-конверт поисковых эндпоинтов. _embedded отсутствует у пустой страницы.
type PropertyPageResponse struct {
	Embedded *struct {
		Properties []PropertyResponse `json:"properties"`
	} `json:"_embedded,omitempty"`
	Page PageResponse `json:"page"`
}

type LandlordListResponse struct {
	Embedded *struct {
		Landlords []LandlordResponse `json:"landlords"`
	} `json:"_embedded,omitempty"`
}

// LandlordStatisticsResponse. Бэкенд пишет поле как montlyIncome, monthlyIncome принимаем тоже.
type LandlordStatisticsResponse struct {
	LandlordID    int64    `json:"landlordId"`
	MontlyIncome  *float64 `json:"montlyIncome"`
	MonthlyIncome *float64 `json:"monthlyIncome"`
}

type PropertyDetailsResponse struct {
	ID              int64   `json:"id"`
	ImageURL        string  `json:"imageUrl"`
	PropertyName    string  `json:"propertyName"`
	PropertyAddress string  `json:"propertyAddress"`
	PropertyType    string  `json:"propertyType"`
	AreaInFeet      float64 `json:"areaInFeet"`
	BedCapacity     int     `json:"bedCapacity"`
	Price           float64 `json:"price"`
	Availability    int     `json:"availability"`
	Description     string  `json:"description"`
	Name            string  `json:"name"`
	MobileNumber    int64   `json:"mobileNumber"`
	Email           string  `json:"email"`
}

type landlordRef struct {
	ID int64 `json:"id"`
}

// PropertyRequest - тело add/update.
type PropertyRequest struct {
	ID              int64        `json:"id,omitempty"`
	Landlord        *landlordRef `json:"landlord,omitempty"`
	ImageURL        string       `json:"imageUrl"`
	PropertyName    string       `json:"propertyName"`
	PropertyAddress string       `json:"propertyAddress"`
	PropertyType    string       `json:"propertyType"`
	AreaInFeet      float64      `json:"areaInFeet"`
	BedCapacity     int          `json:"bedCapacity"`
	Price           float64      `json:"price"`
	Availability    int          `json:"availability"`
	Description     string       `json:"description"`
}

type AvailabilityRequest struct {
	ID           int64 `json:"id"`
	Availability int   `json:"availability"`
}

func toPropertyRequest(d domain.PropertyDraft) PropertyRequest {
	req := PropertyRequest{
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
	}
	if d.LandlordID != 0 {
		req.Landlord = &landlordRef{ID: d.LandlordID}
	}
	return req
}

func (p PropertyResponse) toSummary() domain.PropertySummary {
	return domain.PropertySummary{
		ID:              p.ID,
		ImageURL:        p.ImageURL,
		PropertyName:    p.PropertyName,
		PropertyAddress: p.PropertyAddress,
		PropertyType:    p.PropertyType,
		AreaInFeet:      p.AreaInFeet,
		BedCapacity:     p.BedCapacity,
		Price:           p.Price,
		Availability:    domain.Availability(p.Availability),
		Description:     p.Description,
	}
}

func (p PropertyResponse) toDraft() domain.PropertyDraft {
	d := domain.PropertyDraft{
		ID:              p.ID,
		ImageURL:        p.ImageURL,
		PropertyName:    p.PropertyName,
		PropertyAddress: p.PropertyAddress,
		PropertyType:    p.PropertyType,
		AreaInFeet:      p.AreaInFeet,
		BedCapacity:     p.BedCapacity,
		Price:           p.Price,
		Availability:    domain.Availability(p.Availability),
		Description:     p.Description,
	}
	if p.Landlord != nil {
		d.LandlordID = p.Landlord.ID
	}
	return d
}

func (l LandlordResponse) toDomain() domain.Landlord {
	return domain.Landlord{ID: l.ID, Name: l.Name, MobileNumber: l.MobileNumber, Email: l.Email}
}

func (d PropertyDetailsResponse) toDomain() domain.PropertyDetails {
	return domain.PropertyDetails{
		ID:              d.ID,
		ImageURL:        d.ImageURL,
		PropertyName:    d.PropertyName,
		PropertyAddress: d.PropertyAddress,
		PropertyType:    d.PropertyType,
		AreaInFeet:      d.AreaInFeet,
		BedCapacity:     d.BedCapacity,
		Price:           d.Price,
		Availability:    domain.Availability(d.Availability),
		Description:     d.Description,
		LandlordName:    d.Name,
		MobileNumber:    d.MobileNumber,
		Email:           d.Email,
	}
}
