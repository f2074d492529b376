package domain

// Availability - флаг доступности объекта в формате бэкенда (1 - доступен, 0 - нет).
type Availability int

const (
	Unavailable Availability = 0
	Available   Availability = 1
)

func (a Availability) IsAvailable() bool {
	return a == Available
}

// Toggled возвращает противоположное значение.
func (a Availability) Toggled() Availability {
	if a == Available {
		return Unavailable
	}
	return Available
}

// PropertySummary - карточка объекта в списке.
type PropertySummary struct {
	ID              int64
	ImageURL        string
	PropertyName    string
	PropertyAddress string
	PropertyType    string
	AreaInFeet      float64
	BedCapacity     int
	Price           float64
	Availability    Availability
	Description     string
}

// PropertyDraft - данные формы добавления/редактирования объекта.
type PropertyDraft struct {
	ID              int64
	LandlordID      int64
	ImageURL        string
	PropertyName    string
	PropertyAddress string
	PropertyType    string
	AreaInFeet      float64
	BedCapacity     int
	Price           float64
	Availability    Availability
	Description     string
}

// PropertyDetails - детальная информация об объекте вместе с контактами арендодателя.
type PropertyDetails struct {
	ID              int64
	ImageURL        string
	PropertyName    string
	PropertyAddress string
	PropertyType    string
	AreaInFeet      float64
	BedCapacity     int
	Price           float64
	Availability    Availability
	Description     string

	LandlordName string
	MobileNumber int64
	Email        string
}

// PropertyDetailsView - данные страницы объекта.
type PropertyDetailsView struct {
	Details  PropertyDetails
	Landlord *Landlord
}
